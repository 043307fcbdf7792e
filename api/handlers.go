package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	log "github.com/mealwise/recommender/backend/chassis/logging"

	"github.com/mealwise/recommender/backend/chassis/llm"
	"github.com/mealwise/recommender/backend/chassis/storage"
)

// Goal values accepted after normalization
const (
	GoalLose = "lose"
	GoalGain = "gain"
)

const planSampleSize = 30

// RecommendRequest - payload for POST /recommend
type RecommendRequest struct {
	TallCm       float64 `json:"tall_cm" validate:"required,gt=0"`
	WeightKg     float64 `json:"weight_kg" validate:"required,gt=0"`
	BudgetUsd    float64 `json:"budget_usd" validate:"required,gt=0"`
	Goal         string  `json:"goal" validate:"required"`
	RestaurantID int     `json:"restaurant_id"`
}

// RecommendedItem - one dish in a recommendation response
type RecommendedItem struct {
	Name           string  `json:"name"`
	Calories       int     `json:"calories"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatsG          float64 `json:"fats_g"`
	PriceUsd       float64 `json:"price_usd"`
	RestaurantID   int     `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant_name"`
}

// Profile - user profile for POST /plan
type Profile struct {
	HeightCm    int     `json:"height_cm" validate:"required,gt=0"`
	WeightKg    float64 `json:"weight_kg" validate:"required,gt=0"`
	DailyBudget float64 `json:"daily_budget" validate:"required,gt=0"`
	Goal        string  `json:"goal" validate:"required"`
}

// PlanRequest - payload for POST /plan
type PlanRequest struct {
	Profile Profile `json:"profile"`
}

// PlanResponse - generated meal plan
type PlanResponse struct {
	PlanID    string `json:"plan_id"`
	EmailBody string `json:"email_body"`
}

// RestaurantView - one entry in the restaurant listing
type RestaurantView struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func normalizeGoal(goal string) (string, error) {
	switch strings.ToLower(goal) {
	case GoalLose, "lose_weight":
		return GoalLose, nil
	case GoalGain, "gain_weight":
		return GoalGain, nil
	}
	return "", errors.New("goal must be 'gain' or 'lose'")
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithFields(log.Fields{
			"event": "response_encode_failed",
		}).Error(err)
	}
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := s.cfg.Repository.ListRestaurants()
	if err != nil {
		log.WithFields(log.Fields{
			"event": "list_restaurants_failed",
		}).Error(err)
		respondError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	out := make([]*RestaurantView, 0, len(restaurants))
	for _, restaurant := range restaurants {
		out = append(out, &RestaurantView{
			ID:      restaurant.ID,
			Name:    restaurant.Name,
			Address: restaurant.Address,
			Phone:   restaurant.Phone,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Service) handleRecommend(w http.ResponseWriter, r *http.Request) {
	request := &RecommendRequest{}
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		respondError(w, http.StatusBadRequest, "missing or malformed JSON payload")
		return
	}
	if err := s.validate.Struct(request); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %s", err))
		return
	}
	goal, err := normalizeGoal(request.Goal)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	target := targetCalories(request.WeightKg, goal)
	items, err := s.cfg.Repository.SelectItems(storage.ItemFilter{
		Budget:       request.BudgetUsd,
		MinCalories:  target - calorieWindow,
		MaxCalories:  target + calorieWindow,
		RestaurantID: request.RestaurantID,
		Limit:        recommendLimit,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"event": "select_items_failed",
			"goal":  goal,
		}).Error(err)
		respondError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	log.WithFields(log.Fields{
		"event":  "recommend",
		"goal":   goal,
		"target": target,
		"items":  len(items),
	}).Info("recommendation served")
	out := make([]*RecommendedItem, 0, len(items))
	for _, item := range items {
		out = append(out, &RecommendedItem{
			Name:           item.Name,
			Calories:       item.Calories,
			ProteinG:       item.ProteinG,
			CarbsG:         item.CarbsG,
			FatsG:          item.FatsG,
			PriceUsd:       item.Price,
			RestaurantID:   item.RestaurantID,
			RestaurantName: item.RestaurantName,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Service) handlePlan(w http.ResponseWriter, r *http.Request) {
	request := &PlanRequest{}
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		respondError(w, http.StatusBadRequest, "missing or malformed JSON payload")
		return
	}
	if err := s.validate.Struct(request); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %s", err))
		return
	}
	goal, err := normalizeGoal(request.Profile.Goal)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := s.cfg.Repository.SampleAffordableItems(request.Profile.DailyBudget, planSampleSize)
	if err != nil {
		log.WithFields(log.Fields{
			"event": "sample_items_failed",
		}).Error(err)
		respondError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	if len(items) == 0 {
		respondError(w, http.StatusNotFound, "no menu items within budget")
		return
	}
	prompt := buildPrompt(request.Profile, goal, items)
	body, err := s.cfg.Planner.Generate(prompt)
	if err != nil {
		if errors.Is(err, llm.ErrQuotaExceeded) {
			respondError(w, http.StatusTooManyRequests, "inference quota exceeded")
			return
		}
		log.WithFields(log.Fields{
			"event": "plan_generation_failed",
		}).Error(err)
		respondError(w, http.StatusBadGateway, "meal plan generation failed")
		return
	}
	plan := &storage.Plan{
		ID:        uuid.NewString(),
		HeightCm:  request.Profile.HeightCm,
		WeightKg:  request.Profile.WeightKg,
		Budget:    request.Profile.DailyBudget,
		Goal:      goal,
		Body:      body,
		CreatedDt: time.Now(),
		ExpiresDt: time.Now().Add(s.cfg.PlanTTL),
	}
	// The plan cache is best effort, a write failure must not cost the
	// user their answer.
	if err := s.cfg.Repository.SavePlan(plan); err != nil {
		log.WithFields(log.Fields{
			"event":  "save_plan_failed",
			"planID": plan.ID,
		}).Error(err)
	}
	log.WithFields(log.Fields{
		"event":  "plan_generated",
		"planID": plan.ID,
		"goal":   goal,
		"items":  len(items),
	}).Info("meal plan served")
	respondJSON(w, http.StatusOK, &PlanResponse{
		PlanID:    plan.ID,
		EmailBody: body,
	})
}
