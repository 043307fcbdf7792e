package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealwise/recommender/backend/chassis/llm"
	"github.com/mealwise/recommender/backend/chassis/storage"
)

type fakeRepo struct {
	restaurants []*storage.Restaurant
	items       []*storage.MenuItem
	sampled     []*storage.MenuItem
	lastFilter  storage.ItemFilter
	lastBudget  float64
	lastLimit   int
	savedPlans  []*storage.Plan
	err         error
	saveErr     error
}

func (r *fakeRepo) ListRestaurants() ([]*storage.Restaurant, error) {
	return r.restaurants, r.err
}

func (r *fakeRepo) SelectItems(filter storage.ItemFilter) ([]*storage.MenuItem, error) {
	r.lastFilter = filter
	return r.items, r.err
}

func (r *fakeRepo) SampleAffordableItems(budget float64, limit int) ([]*storage.MenuItem, error) {
	r.lastBudget = budget
	r.lastLimit = limit
	return r.sampled, r.err
}

func (r *fakeRepo) UpsertRestaurant(*storage.Restaurant) (int, error) { return 0, nil }
func (r *fakeRepo) UpsertMenuItem(*storage.MenuItem) error            { return nil }

func (r *fakeRepo) SavePlan(plan *storage.Plan) error {
	r.savedPlans = append(r.savedPlans, plan)
	return r.saveErr
}

func (r *fakeRepo) CleanExpiredPlans() (int, error) { return 0, nil }

type fakePlanner struct {
	reply  string
	err    error
	prompt string
}

func (p *fakePlanner) Generate(prompt string) (string, error) {
	p.prompt = prompt
	return p.reply, p.err
}

func newTestService(repo *fakeRepo, planner *fakePlanner) *Service {
	return New(&Config{
		Repository: repo,
		Planner:    planner,
		PlanTTL:    time.Hour,
	})
}

func doRequest(t *testing.T, svc *Service, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buff bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buff).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buff)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakePlanner{})
	rec := doRequest(t, svc, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRestaurants(t *testing.T) {
	repo := &fakeRepo{
		restaurants: []*storage.Restaurant{
			{ID: 1, Name: "Green Fork", Address: "12 Elm St", Phone: "555-0101"},
			{ID: 2, Name: "Pasta Corner", Address: "3 Main Sq", Phone: "555-0102"},
		},
	}
	svc := newTestService(repo, &fakePlanner{})
	rec := doRequest(t, svc, http.MethodGet, "/restaurants", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []*RestaurantView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, "Green Fork", out[0].Name)
	assert.Equal(t, 2, out[1].ID)
}

func TestRestaurantsStorageError(t *testing.T) {
	svc := newTestService(&fakeRepo{err: errors.New("down")}, &fakePlanner{})
	rec := doRequest(t, svc, http.MethodGet, "/restaurants", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecommendValidation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing payload", nil},
		{"missing weight", &RecommendRequest{TallCm: 175, BudgetUsd: 12, Goal: "lose"}},
		{"negative budget", map[string]interface{}{"tall_cm": 175, "weight_kg": 70, "budget_usd": -2, "goal": "lose"}},
		{"unknown goal", &RecommendRequest{TallCm: 175, WeightKg: 70, BudgetUsd: 12, Goal: "bulk"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(&fakeRepo{}, &fakePlanner{})
			rec := doRequest(t, svc, http.MethodPost, "/recommend", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRecommend(t *testing.T) {
	repo := &fakeRepo{
		items: []*storage.MenuItem{
			{ID: 5, RestaurantID: 1, Name: "Grilled Chicken Bowl", Calories: 1200,
				ProteinG: 48, CarbsG: 55, FatsG: 18, Price: 10.5, RestaurantName: "Green Fork"},
		},
	}
	svc := newTestService(repo, &fakePlanner{})
	rec := doRequest(t, svc, http.MethodPost, "/recommend", &RecommendRequest{
		TallCm:    175,
		WeightKg:  70,
		BudgetUsd: 12,
		Goal:      "lose",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// target for 70 kg lose is 1148
	assert.Equal(t, 948, repo.lastFilter.MinCalories)
	assert.Equal(t, 1348, repo.lastFilter.MaxCalories)
	assert.Equal(t, 12.0, repo.lastFilter.Budget)
	assert.Equal(t, 0, repo.lastFilter.RestaurantID)
	assert.Equal(t, recommendLimit, repo.lastFilter.Limit)

	var out []*RecommendedItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "Grilled Chicken Bowl", out[0].Name)
	assert.Equal(t, "Green Fork", out[0].RestaurantName)
	assert.Equal(t, 10.5, out[0].PriceUsd)
}

func TestRecommendRestaurantFilter(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakePlanner{})
	rec := doRequest(t, svc, http.MethodPost, "/recommend", &RecommendRequest{
		TallCm:       175,
		WeightKg:     70,
		BudgetUsd:    12,
		Goal:         "gain_weight",
		RestaurantID: 3,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, repo.lastFilter.RestaurantID)
	// gain target for 70 kg is 2148
	assert.Equal(t, 1948, repo.lastFilter.MinCalories)
	assert.Equal(t, 2348, repo.lastFilter.MaxCalories)
}

func TestRecommendStorageError(t *testing.T) {
	svc := newTestService(&fakeRepo{err: errors.New("down")}, &fakePlanner{})
	rec := doRequest(t, svc, http.MethodPost, "/recommend", &RecommendRequest{
		TallCm: 175, WeightKg: 70, BudgetUsd: 12, Goal: "lose",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func validPlanRequest() *PlanRequest {
	return &PlanRequest{
		Profile: Profile{
			HeightCm:    175,
			WeightKg:    70,
			DailyBudget: 20,
			Goal:        "lose_weight",
		},
	}
}

func TestPlan(t *testing.T) {
	repo := &fakeRepo{
		sampled: []*storage.MenuItem{
			{Name: "Quinoa Salad", Calories: 430, ProteinG: 14, Price: 8, RestaurantName: "Green Fork"},
		},
	}
	planner := &fakePlanner{reply: "Breakfast: Quinoa Salad."}
	svc := newTestService(repo, planner)
	rec := doRequest(t, svc, http.MethodPost, "/plan", validPlanRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 20.0, repo.lastBudget)
	assert.Equal(t, planSampleSize, repo.lastLimit)
	assert.Contains(t, planner.prompt, "Quinoa Salad")
	assert.Contains(t, planner.prompt, "Height: 175 cm")

	var out PlanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.NotEmpty(t, out.PlanID)
	assert.Equal(t, "Breakfast: Quinoa Salad.", out.EmailBody)

	require.Len(t, repo.savedPlans, 1)
	saved := repo.savedPlans[0]
	assert.Equal(t, out.PlanID, saved.ID)
	assert.Equal(t, GoalLose, saved.Goal)
	assert.WithinDuration(t, time.Now().Add(time.Hour), saved.ExpiresDt, time.Minute)
}

func TestPlanNoItemsWithinBudget(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakePlanner{})
	rec := doRequest(t, svc, http.MethodPost, "/plan", validPlanRequest())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlanQuotaExceeded(t *testing.T) {
	repo := &fakeRepo{sampled: []*storage.MenuItem{{Name: "Quinoa Salad"}}}
	svc := newTestService(repo, &fakePlanner{err: llm.ErrQuotaExceeded})
	rec := doRequest(t, svc, http.MethodPost, "/plan", validPlanRequest())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestPlanUpstreamError(t *testing.T) {
	repo := &fakeRepo{sampled: []*storage.MenuItem{{Name: "Quinoa Salad"}}}
	svc := newTestService(repo, &fakePlanner{err: errors.New("model loading")})
	rec := doRequest(t, svc, http.MethodPost, "/plan", validPlanRequest())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPlanSaveFailureStillServes(t *testing.T) {
	repo := &fakeRepo{
		sampled: []*storage.MenuItem{{Name: "Quinoa Salad"}},
		saveErr: errors.New("down"),
	}
	svc := newTestService(repo, &fakePlanner{reply: "plan"})
	rec := doRequest(t, svc, http.MethodPost, "/plan", validPlanRequest())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlanValidation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing payload", nil},
		{"zero height", &PlanRequest{Profile: Profile{WeightKg: 70, DailyBudget: 20, Goal: "lose"}}},
		{"unknown goal", &PlanRequest{Profile: Profile{HeightCm: 175, WeightKg: 70, DailyBudget: 20, Goal: "maintain"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(&fakeRepo{}, &fakePlanner{})
			rec := doRequest(t, svc, http.MethodPost, "/plan", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
