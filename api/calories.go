package api

const (
	// calorieWindow bounds recommended dishes around the daily target.
	calorieWindow = 200
	// recommendLimit caps a single recommendation response.
	recommendLimit = 10
	// goalDelta shifts the target by the weight goal.
	goalDelta = 500
)

// targetCalories - crude daily estimate: Mifflin-St Jeor resting rate
// with a fixed 175 cm / age 30 / male reference, shifted by goalDelta.
func targetCalories(weightKg float64, goal string) int {
	rmr := 10*weightKg + 6.25*175 - 5*30 + 5
	if goal == GoalGain {
		return int(rmr + goalDelta)
	}
	return int(rmr - goalDelta)
}
