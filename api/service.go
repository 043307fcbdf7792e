package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/mealwise/recommender/backend/chassis/llm"
	"github.com/mealwise/recommender/backend/chassis/storage"
)

// Config ...
type Config struct {
	Repository storage.MenuRepository
	Planner    llm.Client
	PlanTTL    time.Duration
}

// Service - the public HTTP surface
type Service struct {
	cfg      *Config
	validate *validator.Validate
}

// New ...
func New(cfg *Config) *Service {
	return &Service{
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Router ...
func (s *Service) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(observe)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/restaurants", s.handleRestaurants).Methods(http.MethodGet)
	router.HandleFunc("/recommend", s.handleRecommend).Methods(http.MethodPost)
	router.HandleFunc("/plan", s.handlePlan).Methods(http.MethodPost)
	return router
}
