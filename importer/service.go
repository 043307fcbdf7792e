package importer

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/mealwise/recommender/backend/chassis/logging"

	"github.com/mealwise/recommender/backend/chassis/protocol"
	"github.com/mealwise/recommender/backend/chassis/queue"
	"github.com/mealwise/recommender/backend/chassis/storage"
)

// Config ...
type Config struct {
	Queue      queue.Client
	Repository storage.MenuRepository
	Workers    int
}

func worker(ctx context.Context, cfg *Config, workerID int, group *sync.WaitGroup) {
	cli := cfg.Queue
	repo := cfg.Repository

	for {
		select {
		case <-ctx.Done():
			log.WithFields(log.Fields{
				"event":  "ctx_canceled",
				"worker": workerID,
			}).Info("exit goroutine")
			group.Done()
			return
		default:
			msg, err := cli.ReceiveMessage()
			if err != nil {
				if !errors.Is(err, queue.ErrNoMessage) {
					log.WithFields(log.Fields{
						"event":  "receive_failed",
						"worker": workerID,
					}).Error(err)
					time.Sleep(time.Second)
				}
				continue
			}
			request := &protocol.Request{}
			err = request.FromJSON(msg.Body)
			if err != nil {
				log.WithFields(log.Fields{
					"event":  "received_broken_message",
					"worker": workerID,
				}).Error(err)
				continue
			}
			payload, err := request.MenuUpsert()
			if err != nil {
				log.WithFields(log.Fields{
					"event":  "unsupported_message",
					"worker": workerID,
				}).Error(err)
				continue
			}
			restaurantID, err := repo.UpsertRestaurant(&storage.Restaurant{
				Name:    payload.Restaurant.Name,
				Address: payload.Restaurant.Address,
				Phone:   payload.Restaurant.Phone,
			})
			if err != nil {
				log.WithFields(log.Fields{
					"event":      "upsert_restaurant_failed",
					"worker":     workerID,
					"restaurant": payload.Restaurant.Name,
				}).Error(err)
				continue
			}
			stored := 0
			for _, item := range payload.Items {
				err = repo.UpsertMenuItem(&storage.MenuItem{
					RestaurantID: restaurantID,
					Name:         item.Name,
					Calories:     item.Calories,
					ProteinG:     item.ProteinG,
					CarbsG:       item.CarbsG,
					FatsG:        item.FatsG,
					Price:        item.Price,
				})
				if err != nil {
					log.WithFields(log.Fields{
						"event":      "upsert_item_failed",
						"worker":     workerID,
						"restaurant": payload.Restaurant.Name,
						"item":       item.Name,
					}).Error(err)
					break
				}
				stored++
			}
			// Acknowledge only a fully stored menu, a partial one is
			// retried via the queue's redelivery.
			if stored != len(payload.Items) {
				continue
			}
			log.WithFields(log.Fields{
				"event":      "menu_stored",
				"worker":     workerID,
				"restaurant": payload.Restaurant.Name,
				"items":      stored,
			}).Info("menu update stored")
			err = cli.Acknowledge(msg)
			if err != nil {
				log.WithFields(log.Fields{
					"event":      "ack_message_failed",
					"worker":     workerID,
					"restaurant": payload.Restaurant.Name,
				}).Error(err)
				continue
			}
		}
	}
}

// Run ...
func Run(ctx context.Context, cfg *Config, group *sync.WaitGroup) {
	log.WithFields(log.Fields{
		"event": "start_service",
	}).Info("starting ", cfg.Workers, " workers")
	for wrk := 1; wrk <= cfg.Workers; wrk++ {
		group.Add(1)
		go worker(ctx, cfg, wrk, group)
	}
}
