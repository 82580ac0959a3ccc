package tasks

import (
	"errors"
	"time"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Retry configuration
const maxRetries = 3

var retryDelay = 2 * time.Minute

// MonthlyRentSpec fires at 00:05 on the first of every month.
const MonthlyRentSpec = "5 0 1 * *"

// StartScheduler registers the monthly rent job and starts cron. The caller
// stops it with Stop().
func StartScheduler(q Enqueuer) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(utils.DateLocation))

	if _, err := c.AddFunc(MonthlyRentSpec, func() {
		EnqueueMonthlyRent(q)
	}); err != nil {
		return nil, err
	}

	c.Start()
	config.Logger.Info("Monthly rent generation scheduled", zap.String("spec", MonthlyRentSpec))
	return c, nil
}

// EnqueueMonthlyRent queues generation for the current month, retrying when
// redis is unreachable.
func EnqueueMonthlyRent(q Enqueuer) bool {
	month := utils.CurrentBillingMonth()
	task, err := NewGenerateRentTask(month)
	if err != nil {
		config.Logger.Error("Failed to build rent task", zap.Error(err))
		return false
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		_, err = q.Enqueue(task, asynq.MaxRetry(3), asynq.TaskID("generate_rent:"+month))
		if err == nil || errors.Is(err, asynq.ErrTaskIDConflict) {
			config.Logger.Info("Rent generation enqueued", zap.String("billing_month", month), zap.Int("attempt", attempt))
			return true
		}
		config.Logger.Warn("Failed to enqueue rent generation",
			zap.String("billing_month", month),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < maxRetries {
			time.Sleep(retryDelay)
		}
	}

	config.Logger.Error("Rent generation could not be scheduled after retries", zap.String("billing_month", month))
	return false
}
