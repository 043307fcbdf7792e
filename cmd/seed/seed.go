package main

import (
	log "github.com/mealwise/recommender/backend/chassis/logging"

	"github.com/mealwise/recommender/backend/chassis/config"
	"github.com/mealwise/recommender/backend/chassis/storage"
)

type seedMenu struct {
	restaurant storage.Restaurant
	items      []storage.MenuItem
}

var menus = []seedMenu{
	{
		restaurant: storage.Restaurant{Name: "Green Fork", Address: "12 Elm St", Phone: "555-0101"},
		items: []storage.MenuItem{
			{Name: "Grilled Chicken Bowl", Calories: 620, ProteinG: 48, CarbsG: 55, FatsG: 18, Price: 10.5},
			{Name: "Quinoa Salad", Calories: 430, ProteinG: 14, CarbsG: 52, FatsG: 17, Price: 8.0},
			{Name: "Salmon Plate", Calories: 710, ProteinG: 42, CarbsG: 38, FatsG: 36, Price: 14.0},
		},
	},
	{
		restaurant: storage.Restaurant{Name: "Pasta Corner", Address: "3 Main Sq", Phone: "555-0102"},
		items: []storage.MenuItem{
			{Name: "Penne Arrabbiata", Calories: 820, ProteinG: 22, CarbsG: 120, FatsG: 24, Price: 9.0},
			{Name: "Lasagna", Calories: 980, ProteinG: 44, CarbsG: 78, FatsG: 48, Price: 11.5},
			{Name: "Minestrone Soup", Calories: 280, ProteinG: 10, CarbsG: 40, FatsG: 8, Price: 6.0},
		},
	},
	{
		restaurant: storage.Restaurant{Name: "Burger Barn", Address: "77 Dock Rd", Phone: "555-0103"},
		items: []storage.MenuItem{
			{Name: "Classic Burger", Calories: 890, ProteinG: 38, CarbsG: 60, FatsG: 52, Price: 9.5},
			{Name: "Double Stack", Calories: 1350, ProteinG: 64, CarbsG: 72, FatsG: 84, Price: 13.0},
			{Name: "Grilled Veggie Wrap", Calories: 510, ProteinG: 16, CarbsG: 58, FatsG: 22, Price: 7.5},
		},
	},
}

func main() {
	appCfg, err := config.Read()
	if err != nil {
		log.WithFields(log.Fields{
			"event": "config_read_failed",
		}).Fatal(err)
	}
	log.Init("seed", "info")
	repo, err := storage.InitPGRepository(storage.Config{
		DSN: appCfg.Storage.DSN,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"event": "init_storage_failed",
		}).Fatal(err)
	}
	for _, menu := range menus {
		restaurantID, err := repo.UpsertRestaurant(&menu.restaurant)
		if err != nil {
			log.WithFields(log.Fields{
				"event":      "upsert_restaurant_failed",
				"restaurant": menu.restaurant.Name,
			}).Fatal(err)
		}
		for _, item := range menu.items {
			item.RestaurantID = restaurantID
			if err := repo.UpsertMenuItem(&item); err != nil {
				log.WithFields(log.Fields{
					"event":      "upsert_item_failed",
					"restaurant": menu.restaurant.Name,
					"item":       item.Name,
				}).Fatal(err)
			}
		}
		log.WithFields(log.Fields{
			"event":      "menu_seeded",
			"restaurant": menu.restaurant.Name,
			"items":      len(menu.items),
		}).Info("seeded menu")
	}
}
