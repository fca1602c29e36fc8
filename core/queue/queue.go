package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinic-booking-api/core/config"
	"clinic-booking-api/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names handled by the sync module.
const (
	TaskSyncAll       = "sync:all"
	TaskSyncAccount   = "sync:account"
	TaskRenewChannels = "sync:renew_channels"
)

// SyncAccountPayload identifies the account a webhook-triggered import run
// targets.
type SyncAccountPayload struct {
	AccountID string `json:"account_id"`
}

// Queue enqueues background sync work.
type Queue interface {
	EnqueueSyncAccount(ctx context.Context, accountID uuid.UUID) error
}

type asynqQueue struct {
	client *asynq.Client
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewQueue(cfg config.RedisConfig) Queue {
	return &asynqQueue{client: asynq.NewClient(redisOpt(cfg))}
}

func (q *asynqQueue) EnqueueSyncAccount(ctx context.Context, accountID uuid.UUID) error {
	payload, err := json.Marshal(SyncAccountPayload{AccountID: accountID.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	task := asynq.NewTask(TaskSyncAccount, payload)
	// Collapse bursts of notifications for the same account into one run.
	_, err = q.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.TaskID("sync-account-"+accountID.String()),
		asynq.Retention(time.Minute),
	)
	if err != nil && err != asynq.ErrTaskIDConflict {
		return fmt.Errorf("failed to enqueue sync task: %w", err)
	}
	return nil
}

// NewServer builds the asynq worker server that processes sync tasks.
func NewServer(cfg config.RedisConfig) *asynq.Server {
	return asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 10,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:TaskFailed", "type", task.Type(), "error", err)
		}),
	})
}

// NewScheduler registers the periodic sync fan-out and the webhook channel
// renewal pass.
func NewScheduler(cfg config.RedisConfig, syncIntervalMinutes int) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt(cfg), nil)

	if _, err := scheduler.Register(
		fmt.Sprintf("@every %dm", syncIntervalMinutes),
		asynq.NewTask(TaskSyncAll, nil),
	); err != nil {
		return nil, fmt.Errorf("failed to register sync:all: %w", err)
	}

	if _, err := scheduler.Register("@every 6h", asynq.NewTask(TaskRenewChannels, nil)); err != nil {
		return nil, fmt.Errorf("failed to register sync:renew_channels: %w", err)
	}

	return scheduler, nil
}
