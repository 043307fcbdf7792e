package storage

// Config - ...
type Config struct {
	DSN string
}

// ItemFilter - selection window for recommendations
type ItemFilter struct {
	Budget       float64
	MinCalories  int
	MaxCalories  int
	RestaurantID int // 0 means any restaurant
	Limit        int
}

// MenuRepository - ...
type MenuRepository interface {
	ListRestaurants() ([]*Restaurant, error)
	SelectItems(filter ItemFilter) ([]*MenuItem, error)
	SampleAffordableItems(budget float64, limit int) ([]*MenuItem, error)
	UpsertRestaurant(*Restaurant) (int, error)
	UpsertMenuItem(*MenuItem) error
	SavePlan(*Plan) error
	CleanExpiredPlans() (int, error)
}
