package repository

import (
	"context"
	"time"

	"unitdrive/internal/docstore"
	"unitdrive/internal/model"
)

// VisitorRepository defines data access for the per-unit-per-month visitor
// documents.
type VisitorRepository interface {
	ListByUnitMonth(ctx context.Context, unit string, month time.Time) ([]model.VisitorRecord, error)
	SaveAll(ctx context.Context, unit string, month time.Time, records []model.VisitorRecord) error
	Reset(unit string, month time.Time)
}

type visitorRepository struct {
	store *docstore.Store
}

// NewVisitorRepository returns a new instance of VisitorRepository.
func NewVisitorRepository(store *docstore.Store) VisitorRepository {
	return &visitorRepository{store: store}
}

func (r *visitorRepository) ListByUnitMonth(ctx context.Context, unit string, month time.Time) ([]model.VisitorRecord, error) {
	return docstore.LoadCollection[model.VisitorRecord](ctx, r.store, model.VisitDocPath(unit, month))
}

func (r *visitorRepository) SaveAll(ctx context.Context, unit string, month time.Time, records []model.VisitorRecord) error {
	return docstore.SaveCollection(ctx, r.store, model.VisitDocPath(unit, month), records)
}

func (r *visitorRepository) Reset(unit string, month time.Time) {
	r.store.Forget(model.VisitDocPath(unit, month))
}
