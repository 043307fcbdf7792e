package storage

// Restaurant - a place serving menu items, unique by name
type Restaurant struct {
	ID      int
	Name    string
	Address string
	Phone   string
}
