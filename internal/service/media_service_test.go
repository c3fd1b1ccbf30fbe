package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitdrive/internal/docstore"
	"unitdrive/internal/model"
	"unitdrive/internal/repository"
)

// fakeDrive records calls and serves canned listings.
type fakeDrive struct {
	listings   map[string][]model.CloudItem
	listErr    error
	uploaded   []string
	shareURL   string
	shareErr   error
	deletedIDs []string
}

func (f *fakeDrive) ListFolder(_ context.Context, path string) ([]model.CloudItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listings[path], nil
}

func (f *fakeDrive) UploadFile(_ context.Context, path string, _ []byte, _ string) (model.CloudItem, error) {
	f.uploaded = append(f.uploaded, path)
	return model.CloudItem{ID: "up-1", Name: path}, nil
}

func (f *fakeDrive) CreateShareLink(_ context.Context, itemID string) (string, error) {
	if f.shareErr != nil {
		return "", f.shareErr
	}
	return f.shareURL + itemID, nil
}

func (f *fakeDrive) DeleteItem(_ context.Context, itemID string) error {
	f.deletedIDs = append(f.deletedIDs, itemID)
	return nil
}

func (f *fakeDrive) FetchRecentByUser(ctx context.Context, username string, month time.Time) ([]model.CloudItem, error) {
	return f.ListFolder(ctx, fmt.Sprintf("%s/T%02d", username, int(month.Month())))
}

func fixedNow() time.Time {
	return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
}

func newMediaFixture(drive *fakeDrive) (MediaService, repository.QRCodeRepository) {
	qrRepo := repository.NewQRCodeRepository(docstore.New(docstore.NewMemBackend()))
	svc := NewMediaService(drive, qrRepo).(*mediaService)
	svc.now = fixedNow
	return svc, qrRepo
}

func TestBrowseHidesSystemFoldersFromStaff(t *testing.T) {
	drive := &fakeDrive{listings: map[string][]model.CloudItem{
		"": {
			{ID: "1", Name: "System", IsFolder: true},
			{ID: "2", Name: "Visits", IsFolder: true},
			{ID: "3", Name: "Ảnh đơn vị", IsFolder: true},
			{ID: "4", Name: "System", IsFolder: false}, // a file may share the name
		},
	}}
	svc, _ := newMediaFixture(drive)

	staffView, err := svc.Browse(context.Background(), "", model.RoleStaff)
	require.NoError(t, err)
	var names []string
	for _, it := range staffView {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Ảnh đơn vị", "System"}, names)

	adminView, err := svc.Browse(context.Background(), "", model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, adminView, 4)
}

func TestUploadGoesToPerMonthFolder(t *testing.T) {
	drive := &fakeDrive{}
	svc, _ := newMediaFixture(drive)

	_, err := svc.Upload(context.Background(), "binhx", "hanhquan.jpg", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, drive.uploaded, 1)
	assert.Equal(t, "binhx/T06/hanhquan.jpg", drive.uploaded[0])

	_, err = svc.Upload(context.Background(), "binhx", "", nil, "image/jpeg")
	require.Error(t, err)
	assert.Len(t, drive.uploaded, 1)
}

func TestRecentDegradesToEmptyOnError(t *testing.T) {
	drive := &fakeDrive{listErr: errors.New("drive down")}
	svc, _ := newMediaFixture(drive)

	items := svc.Recent(context.Background(), "binhx")
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRecentListsCurrentMonthFolder(t *testing.T) {
	drive := &fakeDrive{listings: map[string][]model.CloudItem{
		"binhx/T06": {{ID: "1", Name: "a.jpg"}},
	}}
	svc, _ := newMediaFixture(drive)

	items := svc.Recent(context.Background(), "binhx")
	require.Len(t, items, 1)
	assert.Equal(t, "a.jpg", items[0].Name)
}

func TestShareLinkReturnsQRAndLogsEntry(t *testing.T) {
	drive := &fakeDrive{shareURL: "https://share.example/"}
	svc, qrRepo := newMediaFixture(drive)

	resp, err := svc.ShareLink(context.Background(), "item-7", "hanhquan.jpg", "binhx")
	require.NoError(t, err)
	assert.Equal(t, "https://share.example/item-7", resp.URL)

	png, err := base64.StdEncoding.DecodeString(resp.QRCode)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	entries, err := qrRepo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "item-7", entries[0].ItemID)
	assert.Equal(t, "hanhquan.jpg", entries[0].ItemName)
	assert.Equal(t, "binhx", entries[0].CreatedBy)
	assert.Equal(t, fixedNow().UTC(), entries[0].CreatedAt)
}

func TestShareLinkFailureDoesNotLog(t *testing.T) {
	drive := &fakeDrive{shareErr: errors.New("link refused")}
	svc, qrRepo := newMediaFixture(drive)

	_, err := svc.ShareLink(context.Background(), "item-7", "a.jpg", "binhx")
	require.Error(t, err)

	entries, err := qrRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteForwardsItemID(t *testing.T) {
	drive := &fakeDrive{}
	svc, _ := newMediaFixture(drive)

	require.NoError(t, svc.Delete(context.Background(), "item-9"))
	assert.Equal(t, []string{"item-9"}, drive.deletedIDs)
}
