package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitdrive/internal/model"
	"unitdrive/internal/service"
)

type fakeMediaService struct {
	sharedID   string
	sharedName string
	deletedID  string
}

func (f *fakeMediaService) Browse(_ context.Context, _ string, _ model.Role) ([]model.CloudItem, error) {
	return []model.CloudItem{}, nil
}

func (f *fakeMediaService) Upload(_ context.Context, _, _ string, _ []byte, _ string) (model.CloudItem, error) {
	return model.CloudItem{}, nil
}

func (f *fakeMediaService) Recent(_ context.Context, _ string) []model.CloudItem {
	return []model.CloudItem{}
}

func (f *fakeMediaService) ShareLink(_ context.Context, itemID, itemName, _ string) (*service.ShareLinkResponse, error) {
	f.sharedID = itemID
	f.sharedName = itemName
	return &service.ShareLinkResponse{URL: "https://share.example/" + itemID}, nil
}

func (f *fakeMediaService) QRCodes(_ context.Context) ([]model.QRCodeEntry, error) {
	return []model.QRCodeEntry{}, nil
}

func (f *fakeMediaService) Delete(_ context.Context, itemID string) error {
	f.deletedID = itemID
	return nil
}

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "u1",
		"username": "binhx",
		"role":     role,
		"unit":     "c18_e88",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test_secret"))
	require.NoError(t, err)
	return signed
}

func newMediaRouter(svc service.MediaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewMediaHandler(svc).RegisterRoutes(&router.RouterGroup)
	return router
}

func TestShareRouteAddressesItemByID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	fake := &fakeMediaService{}
	router := newMediaRouter(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/media/item-7/share", strings.NewReader(`{"itemName":"hanhquan.jpg"}`))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "staff"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "item-7", fake.sharedID)
	assert.Equal(t, "hanhquan.jpg", fake.sharedName)
}

func TestMediaRoutesCoexist(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	fake := &fakeMediaService{}
	router := newMediaRouter(fake)
	token := signTestToken(t, "admin")

	// static siblings of the :id parameter must still resolve
	for _, path := range []string{"/media", "/media/recent", "/media/qrcodes"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/media/item-9", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "item-9", fake.deletedID)
}

func TestShareRouteRequiresAuth(t *testing.T) {
	router := newMediaRouter(&fakeMediaService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/media/item-7/share", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
