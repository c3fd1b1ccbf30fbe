package repository

import (
	"context"

	"unitdrive/internal/docstore"
	"unitdrive/internal/model"
)

// QRCodesDocPath is the fixed location of the QR-code log document.
const QRCodesDocPath = "System/qrcodes.json"

// QRCodeRepository defines data access for the QR-code log.
type QRCodeRepository interface {
	List(ctx context.Context) ([]model.QRCodeEntry, error)
	SaveAll(ctx context.Context, entries []model.QRCodeEntry) error
	Reset()
}

type qrCodeRepository struct {
	store *docstore.Store
}

// NewQRCodeRepository returns a new instance of QRCodeRepository.
func NewQRCodeRepository(store *docstore.Store) QRCodeRepository {
	return &qrCodeRepository{store: store}
}

func (r *qrCodeRepository) List(ctx context.Context) ([]model.QRCodeEntry, error) {
	return docstore.LoadCollection[model.QRCodeEntry](ctx, r.store, QRCodesDocPath)
}

func (r *qrCodeRepository) SaveAll(ctx context.Context, entries []model.QRCodeEntry) error {
	return docstore.SaveCollection(ctx, r.store, QRCodesDocPath, entries)
}

func (r *qrCodeRepository) Reset() {
	r.store.Forget(QRCodesDocPath)
}
