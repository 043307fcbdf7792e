package storage

// MenuItem - a dish with nutrition facts and a price
type MenuItem struct {
	ID           int
	RestaurantID int
	Name         string
	Calories     int
	ProteinG     float64
	CarbsG       float64
	FatsG        float64
	Price        float64

	// RestaurantName is populated on reads that join the restaurant.
	RestaurantName string
}
