package service

import (
	"context"
	"sync"

	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	calendarEntity "clinic-booking-api/modules/calendar/entity"
	calendarRepo "clinic-booking-api/modules/calendar/repository"
	"clinic-booking-api/modules/sync/dto"
)

// SchedulerService fans one import pass out over every account that is ready
// to sync. Accounts fail independently: one broken connection never blocks
// the rest of the pass.
type SchedulerService interface {
	RunAll(ctx context.Context) (*dto.SyncSummary, error)
}

type schedulerService struct {
	calendarRepo  calendarRepo.CalendarRepository
	importService ImportService
}

func NewSchedulerService(calRepo calendarRepo.CalendarRepository, importService ImportService) SchedulerService {
	return &schedulerService{
		calendarRepo:  calRepo,
		importService: importService,
	}
}

func (s *schedulerService) RunAll(ctx context.Context) (*dto.SyncSummary, error) {
	connections, err := s.calendarRepo.ListSyncEnabledConnections(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list sync-enabled connections", err)
	}

	summary := &dto.SyncSummary{}
	if len(connections) == 0 {
		return summary, nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan calendarEntity.CalendarConnection)

	for i := 0; i < constants.SyncWorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for conn := range jobs {
				result := s.runOne(ctx, conn)
				mu.Lock()
				if result.err != nil {
					summary.Errors++
				} else if result.synced {
					summary.Synced++
				}
				mu.Unlock()
			}
		}()
	}

	for _, conn := range connections {
		jobs <- conn
	}
	close(jobs)
	wg.Wait()

	logger.Info("SchedulerService:RunAll:Done",
		"accounts", len(connections),
		"synced", summary.Synced,
		"errors", summary.Errors,
	)
	return summary, nil
}

type runOutcome struct {
	synced bool
	err    error
}

func (s *schedulerService) runOne(ctx context.Context, conn calendarEntity.CalendarConnection) runOutcome {
	runCtx, cancel := context.WithTimeout(ctx, constants.AccountSyncTimeout)
	defer cancel()

	result, err := s.importService.ImportForAccount(runCtx, conn.AccountID)
	if err != nil {
		logger.Error("SchedulerService:AccountFailed", "account_id", conn.AccountID, "error", err)
		return runOutcome{err: err}
	}
	if result.Skipped {
		logger.Debug("SchedulerService:AccountSkipped", "account_id", conn.AccountID, "reason", result.SkipReason)
		return runOutcome{}
	}
	return runOutcome{synced: true}
}
