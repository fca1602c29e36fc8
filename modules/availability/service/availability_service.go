package service

import (
	"context"
	"time"

	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	"clinic-booking-api/modules/availability/dto"
	"clinic-booking-api/modules/availability/entity"
	"clinic-booking-api/modules/availability/repository"

	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type AvailabilityService interface {
	ListBlockedTimes(ctx context.Context, accountID uuid.UUID, from, to time.Time) (*dto.BlockedTimeListResponse, error)
	CreateOverride(ctx context.Context, accountID uuid.UUID, req *dto.CreateBlockedTimeRequest) (*dto.BlockedTimeResponse, error)
	DeleteOverride(ctx context.Context, accountID, blockID uuid.UUID) error
}

type availabilityService struct {
	repo repository.AvailabilityRepository
}

func NewAvailabilityService(repo repository.AvailabilityRepository) AvailabilityService {
	return &availabilityService{repo: repo}
}

func (s *availabilityService) ListBlockedTimes(ctx context.Context, accountID uuid.UUID, from, to time.Time) (*dto.BlockedTimeListResponse, error) {
	if to.Before(from) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "to must not be before from", nil)
	}

	blocks, err := s.repo.ListByAccountAndRange(ctx, accountID, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list blocked times", err)
	}

	items := make([]dto.BlockedTimeResponse, 0, len(blocks))
	for _, block := range blocks {
		items = append(items, toBlockedTimeResponse(&block))
	}
	return &dto.BlockedTimeListResponse{
		BlockedTimes: items,
		From:         from,
		To:           to,
	}, nil
}

func (s *availabilityService) CreateOverride(ctx context.Context, accountID uuid.UUID, req *dto.CreateBlockedTimeRequest) (*dto.BlockedTimeResponse, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "date must be YYYY-MM-DD", err)
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.Reason == constants.BlockedTimeReasonSync {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "reason is reserved for synced records", nil)
	}

	block := &entity.BlockedTime{
		AccountID: accountID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	created, err := s.repo.CreateOverride(ctx, block)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create blocked time", err)
	}

	logger.Info("AvailabilityService:CreateOverride", "account_id", accountID, "date", req.Date)
	resp := toBlockedTimeResponse(created)
	return &resp, nil
}

func (s *availabilityService) DeleteOverride(ctx context.Context, accountID, blockID uuid.UUID) error {
	block, err := s.repo.GetByID(ctx, blockID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to look up blocked time", err)
	}
	if block == nil || block.AccountID != accountID {
		return errors.NewAppError(errors.ErrNotFound, "blocked time not found", nil)
	}
	if block.Reason == constants.BlockedTimeReasonSync {
		return errors.NewAppError(errors.ErrForbidden, "synced blocked times are managed by calendar sync", nil)
	}

	if err := s.repo.DeleteOverride(ctx, accountID, blockID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete blocked time", err)
	}
	return nil
}

func validateTimeRange(start, end *string) error {
	var startVal, endVal time.Time
	if start != nil {
		parsed, err := time.Parse(timeLayout, *start)
		if err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "start_time must be HH:MM", err)
		}
		startVal = parsed
	}
	if end != nil {
		parsed, err := time.Parse(timeLayout, *end)
		if err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "end_time must be HH:MM", err)
		}
		endVal = parsed
	}
	if start != nil && end != nil && !endVal.After(startVal) {
		return errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}
	return nil
}

func toBlockedTimeResponse(block *entity.BlockedTime) dto.BlockedTimeResponse {
	return dto.BlockedTimeResponse{
		ID:        block.ID.String(),
		Date:      block.Date.Format(dateLayout),
		StartTime: block.StartTime,
		EndTime:   block.EndTime,
		Reason:    block.Reason,
		IsSynced:  block.Reason == constants.BlockedTimeReasonSync,
	}
}
