package service

import (
	"context"
	"encoding/json"
	"fmt"

	"clinic-booking-api/core/logger"
	"clinic-booking-api/core/queue"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskHandlers binds the sync services to the background queue.
type TaskHandlers struct {
	scheduler SchedulerService
	importer  ImportService
	webhooks  WebhookService
}

func NewTaskHandlers(scheduler SchedulerService, importer ImportService, webhooks WebhookService) *TaskHandlers {
	return &TaskHandlers{
		scheduler: scheduler,
		importer:  importer,
		webhooks:  webhooks,
	}
}

func (h *TaskHandlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskSyncAll, h.handleSyncAll)
	mux.HandleFunc(queue.TaskSyncAccount, h.handleSyncAccount)
	mux.HandleFunc(queue.TaskRenewChannels, h.handleRenewChannels)
}

func (h *TaskHandlers) handleSyncAll(ctx context.Context, _ *asynq.Task) error {
	summary, err := h.scheduler.RunAll(ctx)
	if err != nil {
		return err
	}
	logger.Info("TaskHandlers:SyncAll:Done", "synced", summary.Synced, "errors", summary.Errors)
	return nil
}

func (h *TaskHandlers) handleSyncAccount(ctx context.Context, task *asynq.Task) error {
	var payload queue.SyncAccountPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid sync:account payload: %w", err)
	}
	accountID, err := uuid.Parse(payload.AccountID)
	if err != nil {
		return fmt.Errorf("invalid account id in sync:account payload: %w", err)
	}

	result, err := h.importer.ImportForAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if result.Skipped {
		logger.Debug("TaskHandlers:SyncAccount:Skipped", "account_id", accountID, "reason", result.SkipReason)
	}
	return nil
}

func (h *TaskHandlers) handleRenewChannels(ctx context.Context, _ *asynq.Task) error {
	return h.webhooks.RenewExpiringChannels(ctx)
}
