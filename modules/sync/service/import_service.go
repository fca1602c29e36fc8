package service

import (
	"context"
	"time"

	"clinic-booking-api/core/cache"
	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	availabilityEntity "clinic-booking-api/modules/availability/entity"
	availabilityRepo "clinic-booking-api/modules/availability/repository"
	calendarDto "clinic-booking-api/modules/calendar/dto"
	calendarRepo "clinic-booking-api/modules/calendar/repository"
	calendarSvc "clinic-booking-api/modules/calendar/service"
	"clinic-booking-api/modules/sync/dto"

	"github.com/google/uuid"
)

// ImportService pulls external busy time into local blocked-time records.
type ImportService interface {
	// ImportForAccount runs one import pass for one account. A run that
	// cannot proceed (no connection, sync off, no calendar chosen, pending
	// reauthorization, or another run in flight) reports itself skipped
	// rather than failed.
	ImportForAccount(ctx context.Context, accountID uuid.UUID) (*dto.ImportResult, error)
}

type importService struct {
	calendarRepo     calendarRepo.CalendarRepository
	availabilityRepo availabilityRepo.AvailabilityRepository
	tokenManager     calendarSvc.TokenManager
	client           calendarSvc.CalendarClient
	cache            cache.Cache
}

func NewImportService(
	calRepo calendarRepo.CalendarRepository,
	availRepo availabilityRepo.AvailabilityRepository,
	tokenManager calendarSvc.TokenManager,
	client calendarSvc.CalendarClient,
	c cache.Cache,
) ImportService {
	return &importService{
		calendarRepo:     calRepo,
		availabilityRepo: availRepo,
		tokenManager:     tokenManager,
		client:           client,
		cache:            c,
	}
}

func (s *importService) ImportForAccount(ctx context.Context, accountID uuid.UUID) (*dto.ImportResult, error) {
	lockKey := constants.RedisKeySyncLock + accountID.String()
	acquired, err := s.cache.AcquireLock(ctx, lockKey, constants.SyncLockTTL)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to acquire sync lock", err)
	}
	if !acquired {
		return &dto.ImportResult{Skipped: true, SkipReason: dto.SkipReasonAlreadyRunning}, nil
	}
	defer func() {
		if err := s.cache.ReleaseLock(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Warn("ImportService:ReleaseLock:Failed", "account_id", accountID, "error", err)
		}
	}()

	conn, err := s.calendarRepo.GetConnectionByAccountAndProvider(ctx, accountID, constants.ProviderGoogle)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar connection", err)
	}
	switch {
	case conn == nil:
		return &dto.ImportResult{Skipped: true, SkipReason: dto.SkipReasonNoConnection}, nil
	case !conn.SyncEnabled:
		return &dto.ImportResult{Skipped: true, SkipReason: dto.SkipReasonSyncDisabled}, nil
	case conn.CalendarID == nil:
		return &dto.ImportResult{Skipped: true, SkipReason: dto.SkipReasonNoCalendar}, nil
	case conn.NeedsReauth:
		return &dto.ImportResult{Skipped: true, SkipReason: dto.SkipReasonNeedsReauth}, nil
	}

	accessToken, err := s.tokenManager.EnsureValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	windowEnd := now.AddDate(0, 0, constants.SyncWindowDays)
	events, err := s.client.ListEvents(ctx, accessToken, *conn.CalendarID, now, windowEnd)
	if err != nil {
		return nil, err
	}

	today := startOfDay(now)
	var blocks []availabilityEntity.BlockedTime
	for _, event := range events {
		blocks = append(blocks, splitEventIntoDailyBlocks(event, today)...)
	}

	if err := s.availabilityRepo.ReplaceSyncBlocks(ctx, accountID, today, blocks); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to replace synced blocked times", err)
	}

	// Only a run that replaced records moves the sync cursor.
	if err := s.calendarRepo.UpdateLastSyncedAt(ctx, conn.ID, now); err != nil {
		logger.Warn("ImportService:UpdateLastSyncedAt:Failed", "account_id", accountID, "error", err)
	}

	logger.Info("ImportService:ImportForAccount:Done",
		"account_id", accountID,
		"events", len(events),
		"blocks", len(blocks),
	)
	return &dto.ImportResult{Success: true, EventsProcessed: len(events)}, nil
}

// splitEventIntoDailyBlocks converts one busy interval into per-day blocked
// times. An event spanning several days yields one record per covered day:
// nil start means blocked from the day's beginning, nil end means blocked to
// its close. Days before today are dropped.
func splitEventIntoDailyBlocks(event calendarDto.CalendarEvent, today time.Time) []availabilityEntity.BlockedTime {
	if !event.End.After(event.Start) {
		return nil
	}

	eventID := event.ID
	firstDay := startOfDay(event.Start)
	// An event ending exactly at midnight does not cover the next day.
	lastDay := startOfDay(event.End.Add(-time.Nanosecond))

	var blocks []availabilityEntity.BlockedTime
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if day.Before(today) {
			continue
		}

		var startTime, endTime *string
		if day.Equal(firstDay) {
			v := event.Start.Format("15:04")
			startTime = &v
		}
		if day.Equal(lastDay) {
			v := event.End.Format("15:04")
			if v != "00:00" {
				endTime = &v
			}
		}

		blocks = append(blocks, availabilityEntity.BlockedTime{
			Date:          day,
			StartTime:     startTime,
			EndTime:       endTime,
			Reason:        constants.BlockedTimeReasonSync,
			SourceEventID: &eventID,
		})
	}
	return blocks
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
