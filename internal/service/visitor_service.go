package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"unitdrive/internal/common"
	"unitdrive/internal/model"
	"unitdrive/internal/repository"
	ws "unitdrive/internal/websocket"
)

// DTOs
type RegisterVisitRequest struct {
	SoldierName  string `json:"soldierName" binding:"required"`
	SoldierUnit  string `json:"soldierUnit" binding:"required"`
	VisitorName  string `json:"visitorName" binding:"required"`
	Relationship string `json:"relationship" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	VisitDate    string `json:"visitDate" binding:"required"` // YYYY-MM-DD
}

// VisitorService defines the business logic for visitor registrations
type VisitorService interface {
	Register(ctx context.Context, req RegisterVisitRequest) (*model.VisitorRecord, error)
	List(ctx context.Context, unit string, month time.Time) ([]model.VisitorRecord, error)
	Approve(ctx context.Context, unit string, month time.Time, id string) (*model.VisitorRecord, error)
}

type visitorService struct {
	repo repository.VisitorRepository
	hub  *ws.Hub // optional; nil means no push notifications
}

// NewVisitorService returns a new instance of VisitorService
func NewVisitorService(repo repository.VisitorRepository, hub *ws.Hub) VisitorService {
	return &visitorService{repo: repo, hub: hub}
}

// mutate runs a read-modify-write cycle against one unit/month document with
// a single reload-retry on conflict, mirroring the users document flow.
func (s *visitorService) mutate(ctx context.Context, unit string, month time.Time, apply func(records []model.VisitorRecord) ([]model.VisitorRecord, error)) error {
	for attempt := 0; ; attempt++ {
		records, err := s.repo.ListByUnitMonth(ctx, unit, month)
		if err != nil {
			return err
		}
		updated, err := apply(records)
		if err != nil {
			return err
		}
		err = s.repo.SaveAll(ctx, unit, month, updated)
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrConflict) || attempt > 0 {
			return err
		}
		s.repo.Reset(unit, month)
	}
}

// checkUnit rejects unit values that cannot name a visitor document. The
// registration form is public, so the unit is attacker-controlled input.
func checkUnit(unit string) (string, error) {
	unit = strings.TrimSpace(unit)
	if !model.ValidUnit(unit) {
		return "", fmt.Errorf("invalid unit %q: only letters, digits, '_' and '-' are allowed", unit)
	}
	return unit, nil
}

// Register appends a pending record to the document of the unit and month the
// visit falls in. The public form hits this without authentication.
func (s *visitorService) Register(ctx context.Context, req RegisterVisitRequest) (*model.VisitorRecord, error) {
	visitDate, err := model.ParseVisitDate(req.VisitDate)
	if err != nil {
		return nil, fmt.Errorf("invalid visit date %q: expected YYYY-MM-DD", req.VisitDate)
	}

	unit, err := checkUnit(req.SoldierUnit)
	if err != nil {
		return nil, err
	}

	record := model.VisitorRecord{
		ID:           uuid.New().String(),
		SoldierName:  req.SoldierName,
		SoldierUnit:  unit,
		VisitorName:  req.VisitorName,
		Relationship: req.Relationship,
		Phone:        req.Phone,
		VisitDate:    req.VisitDate,
		Status:       model.VisitPending,
	}

	err = s.mutate(ctx, unit, visitDate, func(records []model.VisitorRecord) ([]model.VisitorRecord, error) {
		return append(records, record), nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Notify(ws.Event{Type: "visit_registered", Unit: record.SoldierUnit, Record: record})
	}
	return &record, nil
}

func (s *visitorService) List(ctx context.Context, unit string, month time.Time) ([]model.VisitorRecord, error) {
	unit, err := checkUnit(unit)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUnitMonth(ctx, unit, month)
}

// Approve flips a record from pending to approved in its persisted document.
func (s *visitorService) Approve(ctx context.Context, unit string, month time.Time, id string) (*model.VisitorRecord, error) {
	unit, err := checkUnit(unit)
	if err != nil {
		return nil, err
	}
	var approved model.VisitorRecord
	err = s.mutate(ctx, unit, month, func(records []model.VisitorRecord) ([]model.VisitorRecord, error) {
		for i := range records {
			if records[i].ID == id {
				records[i].Status = model.VisitApproved
				approved = records[i]
				return records, nil
			}
		}
		return nil, errors.New("visitor record not found")
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Notify(ws.Event{Type: "visit_approved", Unit: unit, Record: approved})
	}
	return &approved, nil
}
