package api

import (
	"fmt"
	"strings"

	"github.com/mealwise/recommender/backend/chassis/storage"
)

// buildPrompt renders the profile and a menu table into the
// instruction fed to the model.
func buildPrompt(profile Profile, goal string, items []*storage.MenuItem) string {
	goalText := "lose weight"
	if goal == GoalGain {
		goalText = "gain weight"
	}
	var b strings.Builder
	fmt.Fprintf(
		&b,
		"Height: %d cm, Weight: %g kg, Budget: %g per day, Goal: %s.\n\n",
		profile.HeightCm, profile.WeightKg, profile.DailyBudget, goalText,
	)
	b.WriteString("| Restaurant | Item | Calories | Protein (g) | Price |\n")
	b.WriteString("|------------|------|----------|-------------|-------|\n")
	for _, item := range items {
		fmt.Fprintf(
			&b,
			"| %s | %s | %d | %.1f | %.2f |\n",
			item.RestaurantName, item.Name, item.Calories, item.ProteinG, item.Price,
		)
	}
	b.WriteString(
		"\nUsing the table above, propose a full-day meal plan (breakfast, lunch, dinner, " +
			"up to two snacks) that fits the budget and the user's goal. For each dish list " +
			"restaurant, item name, price, and a short nutrition note. End with the total " +
			"daily cost and a friendly motivational closing.",
	)
	return b.String()
}
