package janitor

import (
	"context"
	"sync"
	"time"

	log "github.com/mealwise/recommender/backend/chassis/logging"

	"github.com/mealwise/recommender/backend/chassis/storage"
)

// Config ...
type Config struct {
	Repository storage.MenuRepository
	Interval   int
}

func planCleaner(ctx context.Context, cfg *Config, group *sync.WaitGroup) {
	log.WithFields(log.Fields{
		"event": "start_plan_cleaner",
	}).Info("starting plan cleaner with ", cfg.Interval, "s interval")
	repo := cfg.Repository
	for {
		select {
		case <-ctx.Done():
			log.WithFields(log.Fields{
				"event":  "ctx_canceled",
				"worker": "plan_cleaner",
			}).Info("exit goroutine")
			group.Done()
			return
		case <-time.After(time.Second * time.Duration(cfg.Interval)):
			cleaned, err := repo.CleanExpiredPlans()
			if err != nil {
				log.WithFields(log.Fields{
					"event":  "clean_plans_failed",
					"worker": "plan_cleaner",
				}).Error(err)
				continue
			}
			log.WithFields(log.Fields{
				"event":  "clean_plans",
				"worker": "plan_cleaner",
			}).Info("cleaned rows:", cleaned)
		}
	}
}

// Run ...
func Run(ctx context.Context, cfg *Config, group *sync.WaitGroup) {
	group.Add(1)
	go planCleaner(ctx, cfg, group)
}
