package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitdrive/internal/docstore"
	"unitdrive/internal/model"
	"unitdrive/internal/repository"
)

func newUserFixture(t *testing.T) (UserService, *docstore.MemBackend) {
	t.Helper()
	backend := docstore.NewMemBackend()
	repo := repository.NewUserRepository(docstore.New(backend))
	return NewUserService(repo), backend
}

func TestRegisterCreatesPendingStaffAccount(t *testing.T) {
	ctx := context.Background()
	svc, backend := newUserFixture(t)

	resp, err := svc.Register(ctx, RegisterRequest{
		Username:    "binhx",
		Password:    "abc123",
		DisplayName: "Nguyễn Văn X",
		Unit:        "Trung đoàn 88",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, string(model.RoleStaff), resp.Role)
	assert.Equal(t, string(model.StatusPending), resp.Status)
	assert.Equal(t, "Trung đoàn 88", resp.Unit)

	// persisted in the shared users document
	users, err := repository.NewUserRepository(docstore.New(backend)).List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "binhx", users[0].Username)
	assert.Equal(t, model.StatusPending, users[0].Status)
}

func TestRegisterRejectsDuplicateUsernameIgnoringCase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	_, err := svc.Register(ctx, RegisterRequest{
		Username: "binhx", Password: "abc123", DisplayName: "X", Unit: "c18_e88",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{
		Username: "BinhX", Password: "other1", DisplayName: "Y", Unit: "c18_e88",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLoginRejectsPendingBeforePasswordCheck(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	_, err := svc.Register(ctx, RegisterRequest{
		Username: "binhx", Password: "abc123", DisplayName: "X", Unit: "c18_e88",
	})
	require.NoError(t, err)

	// pending wins even with the right password
	_, err = svc.Login(ctx, LoginRequest{Username: "binhx", Password: "abc123"})
	assert.ErrorIs(t, err, ErrPendingApproval)

	// and even with a wrong one, so the response leaks nothing about it
	_, err = svc.Login(ctx, LoginRequest{Username: "binhx", Password: "wrong"})
	assert.ErrorIs(t, err, ErrPendingApproval)
}

func TestApproveThenLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	created, err := svc.Register(ctx, RegisterRequest{
		Username: "binhx", Password: "abc123", DisplayName: "Nguyễn Văn X", Unit: "Trung đoàn 88",
	})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusActive), approved.Status)

	// approving twice is an error, not a silent no-op
	_, err = svc.Approve(ctx, created.ID)
	require.Error(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "binhx", Password: "abc123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "binhx", resp.User.Username)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test_secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "binhx", claims["username"])
	assert.Equal(t, "staff", claims["role"])
	assert.Equal(t, "Trung đoàn 88", claims["unit"])
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "admin", Password: "secret1", DisplayName: "Admin", Unit: "e88", Role: "admin",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "ghost", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserIsActiveImmediately(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	resp, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "canbo1", Password: "secret1", DisplayName: "Cán bộ 1", Unit: "c18_e88", Role: "staff",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusActive), resp.Status)

	_, err = svc.Login(ctx, LoginRequest{Username: "canbo1", Password: "secret1"})
	assert.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserRequest{
		Username: "canbo2", Password: "secret1", DisplayName: "Cán bộ 2", Unit: "c18_e88", Role: "owner",
	})
	require.Error(t, err, "unknown role must be rejected")
}

func TestUpdateAndDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "canbo1", Password: "secret1", DisplayName: "Cán bộ 1", Unit: "c18_e88", Role: "staff",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, created.ID, UpdateUserRequest{Unit: "c20_e88", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "c20_e88", updated.Unit)
	assert.Equal(t, "admin", updated.Role)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))

	_, err = svc.GetByUsername(ctx, "canbo1")
	require.Error(t, err)

	err = svc.DeleteUser(ctx, created.ID)
	require.Error(t, err)
}

func TestListUsersPaging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	for _, name := range []string{"a1", "a2", "a3", "a4", "a5"} {
		_, err := svc.CreateUser(ctx, CreateUserRequest{
			Username: name, Password: "secret1", DisplayName: name, Unit: "c18_e88", Role: "staff",
		})
		require.NoError(t, err)
	}

	page, total, err := svc.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "a3", page[0].Username)

	last, total, err := svc.ListUsers(ctx, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, last, 1)
}

func TestMissingStatusTreatedAsActive(t *testing.T) {
	ctx := context.Background()
	backend := docstore.NewMemBackend()
	store := docstore.New(backend)
	repo := repository.NewUserRepository(store)

	// documents written before the approval flow existed carry no status field
	require.NoError(t, repo.SaveAll(ctx, []model.User{{
		ID: "legacy-1", Username: "legacy", Password: "abc123",
		DisplayName: "Legacy", Unit: "e88", Role: model.RoleStaff,
	}}))

	svc := NewUserService(repo)
	resp, err := svc.Login(ctx, LoginRequest{Username: "legacy", Password: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusActive), resp.User.Status)
}
