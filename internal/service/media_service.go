package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"unitdrive/internal/common"
	"unitdrive/internal/model"
	"unitdrive/internal/repository"
)

// DriveClient is the slice of the authenticated resource client the media
// service consumes.
type DriveClient interface {
	ListFolder(ctx context.Context, path string) ([]model.CloudItem, error)
	UploadFile(ctx context.Context, path string, data []byte, contentType string) (model.CloudItem, error)
	CreateShareLink(ctx context.Context, itemID string) (string, error)
	DeleteItem(ctx context.Context, itemID string) error
	FetchRecentByUser(ctx context.Context, username string, month time.Time) ([]model.CloudItem, error)
}

// hiddenFolders are never shown to non-admin roles when browsing.
var hiddenFolders = map[string]bool{
	"System": true,
	"Visits": true,
}

// ShareLinkResponse carries the public URL plus a QR code for it.
type ShareLinkResponse struct {
	URL    string `json:"url"`
	QRCode string `json:"qrCode"` // base64-encoded PNG
}

// MediaService exposes gallery browsing, uploads and sharing
type MediaService interface {
	Browse(ctx context.Context, path string, role model.Role) ([]model.CloudItem, error)
	Upload(ctx context.Context, username, filename string, data []byte, contentType string) (model.CloudItem, error)
	Recent(ctx context.Context, username string) []model.CloudItem
	ShareLink(ctx context.Context, itemID, itemName, actor string) (*ShareLinkResponse, error)
	QRCodes(ctx context.Context) ([]model.QRCodeEntry, error)
	Delete(ctx context.Context, itemID string) error
}

type mediaService struct {
	drive  DriveClient
	qrRepo repository.QRCodeRepository
	now    func() time.Time
}

// NewMediaService returns a new instance of MediaService
func NewMediaService(drive DriveClient, qrRepo repository.QRCodeRepository) MediaService {
	return &mediaService{drive: drive, qrRepo: qrRepo, now: time.Now}
}

// Browse lists a folder; folders the role may not see are filtered out of the
// result, they are not protected beyond that (the drive itself enforces
// nothing).
func (s *mediaService) Browse(ctx context.Context, path string, role model.Role) ([]model.CloudItem, error) {
	items, err := s.drive.ListFolder(ctx, path)
	if err != nil {
		return nil, err
	}
	if role == model.RoleAdmin {
		return items, nil
	}
	visible := make([]model.CloudItem, 0, len(items))
	for _, item := range items {
		if item.IsFolder && hiddenFolders[item.Name] {
			continue
		}
		visible = append(visible, item)
	}
	return visible, nil
}

// Upload stores a file under the caller's per-month folder
// ({username}/T{MM}/{filename}).
func (s *mediaService) Upload(ctx context.Context, username, filename string, data []byte, contentType string) (model.CloudItem, error) {
	if filename == "" {
		return model.CloudItem{}, errors.New("filename is required")
	}
	path := fmt.Sprintf("%s/T%02d/%s", username, int(s.now().Month()), filename)
	return s.drive.UploadFile(ctx, path, data, contentType)
}

// Recent is a background refresh: failures are logged and degrade to an empty
// view instead of blocking the caller.
func (s *mediaService) Recent(ctx context.Context, username string) []model.CloudItem {
	items, err := s.drive.FetchRecentByUser(ctx, username, s.now())
	if err != nil {
		log.Printf("recent files fetch for %s failed: %v", username, err)
		return []model.CloudItem{}
	}
	return items
}

// ShareLink creates an anonymous link for the item, renders it as a QR code
// and appends an entry to the QR log document.
func (s *mediaService) ShareLink(ctx context.Context, itemID, itemName, actor string) (*ShareLinkResponse, error) {
	url, err := s.drive.CreateShareLink(ctx, itemID)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}

	entry := model.QRCodeEntry{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		ItemName:  itemName,
		URL:       url,
		CreatedBy: actor,
		CreatedAt: s.now().UTC(),
	}
	if err := s.appendQRCode(ctx, entry); err != nil {
		// the share link itself succeeded; a lost log entry is not worth failing the action
		log.Printf("appending qr log entry failed: %v", err)
	}

	return &ShareLinkResponse{
		URL:    url,
		QRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

func (s *mediaService) appendQRCode(ctx context.Context, entry model.QRCodeEntry) error {
	for attempt := 0; ; attempt++ {
		entries, err := s.qrRepo.List(ctx)
		if err != nil {
			return err
		}
		err = s.qrRepo.SaveAll(ctx, append(entries, entry))
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrConflict) || attempt > 0 {
			return err
		}
		s.qrRepo.Reset()
	}
}

// QRCodes returns the share-link log, newest entries last.
func (s *mediaService) QRCodes(ctx context.Context) ([]model.QRCodeEntry, error) {
	return s.qrRepo.List(ctx)
}

func (s *mediaService) Delete(ctx context.Context, itemID string) error {
	return s.drive.DeleteItem(ctx, itemID)
}
