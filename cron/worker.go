// File: cron/worker.go
package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"playpark/config"
	"playpark/services/bookingsvc"
)

const TypeSeatReconcile = "seats:reconcile"

// InitReconcileWorker runs the async worker and its schedule in background.
// The periodic task is the safety net behind the seat-sum invariant: any
// release path that was missed shows up as drift and gets repaired.
func InitReconcileWorker(bookingSvc bookingsvc.BookingService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSeatReconcile, handleReconcileTask(bookingSvc))

	go func() {
		log.Println("[ReconcileWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReconcileWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReconcileWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runScheduler(redisOpts)
}

func runScheduler(redisOpts asynq.RedisClientOpt) {
	interval := config.AppConfig.ReconcileMinutes
	if interval <= 0 {
		interval = 30
	}

	scheduler := asynq.NewScheduler(redisOpts, nil)
	spec := fmt.Sprintf("@every %dm", interval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeSeatReconcile, nil)); err != nil {
		log.Printf("[ReconcileWorker] failed to register schedule: %v", err)
		return
	}
	if err := scheduler.Run(); err != nil {
		log.Printf("[ReconcileWorker] scheduler stopped: %v", err)
	}
}

func handleReconcileTask(bookingSvc bookingsvc.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		drifts, err := bookingSvc.Reconcile(ctx, true)
		if err != nil {
			log.Printf("[ReconcileWorker] reconciliation failed: %v", err)
			return err
		}
		if len(drifts) > 0 {
			log.Printf("[ReconcileWorker] repaired %d drifted session(s)", len(drifts))
		}
		return nil
	}
}
