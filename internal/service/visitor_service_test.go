package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitdrive/internal/docstore"
	"unitdrive/internal/model"
	"unitdrive/internal/repository"
)

func newVisitorFixture(t *testing.T) (VisitorService, *docstore.MemBackend) {
	t.Helper()
	backend := docstore.NewMemBackend()
	repo := repository.NewVisitorRepository(docstore.New(backend))
	return NewVisitorService(repo, nil), backend
}

func TestRegisterVisitLandsInUnitMonthDocument(t *testing.T) {
	ctx := context.Background()
	svc, backend := newVisitorFixture(t)

	record, err := svc.Register(ctx, RegisterVisitRequest{
		SoldierName:  "Nguyễn Văn X",
		SoldierUnit:  "c18_e88",
		VisitorName:  "Nguyễn Thị Y",
		Relationship: "Mẹ",
		Phone:        "0901234567",
		VisitDate:    "2024-06-15",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, model.VisitPending, record.Status)

	// the record is partitioned by soldier unit and visit month
	raw, _, err := backend.ReadDocument(ctx, "Visits/c18_e88_2024_06.json")
	require.NoError(t, err)
	require.NotNil(t, raw)

	var stored []model.VisitorRecord
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "Nguyễn Thị Y", stored[0].VisitorName)
	assert.Equal(t, model.VisitPending, stored[0].Status)
}

func TestRegisterVisitRejectsUnsafeUnit(t *testing.T) {
	ctx := context.Background()
	svc, backend := newVisitorFixture(t)

	for _, unit := range []string{
		"../System/users",
		"c18/e88",
		`c18\e88`,
		"..",
		".",
		"",
		"   ",
		"c18 e88",
	} {
		_, err := svc.Register(ctx, RegisterVisitRequest{
			SoldierName: "X", SoldierUnit: unit, VisitorName: "Y",
			Relationship: "Mẹ", Phone: "0900000000", VisitDate: "2024-06-15",
		})
		require.Error(t, err, "unit %q must be rejected", unit)
	}

	// nothing escaped the Visits partition
	raw, _, err := backend.ReadDocument(ctx, "Visits/../System/users_2024_06.json")
	require.NoError(t, err)
	assert.Nil(t, raw)
	raw, _, err = backend.ReadDocument(ctx, "System/users.json")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRegisterVisitTrimsUnit(t *testing.T) {
	ctx := context.Background()
	svc, backend := newVisitorFixture(t)

	record, err := svc.Register(ctx, RegisterVisitRequest{
		SoldierName: "X", SoldierUnit: "  c18_e88  ", VisitorName: "Y",
		Relationship: "Bố", Phone: "0900000000", VisitDate: "2024-06-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "c18_e88", record.SoldierUnit)

	raw, _, err := backend.ReadDocument(ctx, "Visits/c18_e88_2024_06.json")
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

func TestListVisitsRejectsUnsafeUnit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVisitorFixture(t)

	june := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.List(ctx, "../System/users", june)
	require.Error(t, err)
	_, err = svc.Approve(ctx, "../System/users", june, "some-id")
	require.Error(t, err)
}

func TestRegisterVisitRejectsBadDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVisitorFixture(t)

	_, err := svc.Register(ctx, RegisterVisitRequest{
		SoldierName: "X", SoldierUnit: "c18_e88", VisitorName: "Y",
		Relationship: "Bố", Phone: "0900000000", VisitDate: "15/06/2024",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestVisitsAreScopedByUnitAndMonth(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVisitorFixture(t)

	register := func(unit, date string) {
		t.Helper()
		_, err := svc.Register(ctx, RegisterVisitRequest{
			SoldierName: "X", SoldierUnit: unit, VisitorName: "Y",
			Relationship: "Anh", Phone: "0900000000", VisitDate: date,
		})
		require.NoError(t, err)
	}
	register("c18_e88", "2024-06-15")
	register("c18_e88", "2024-06-20")
	register("c18_e88", "2024-07-01")
	register("c20_e88", "2024-06-10")

	june := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	july := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.List(ctx, "c18_e88", june)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(ctx, "c18_e88", july)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.List(ctx, "c20_e88", june)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// a unit with no visits yet reads as empty, not as an error
	got, err = svc.List(ctx, "c4_e88", june)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApproveVisitPersists(t *testing.T) {
	ctx := context.Background()
	svc, _ := newVisitorFixture(t)

	record, err := svc.Register(ctx, RegisterVisitRequest{
		SoldierName: "X", SoldierUnit: "c18_e88", VisitorName: "Y",
		Relationship: "Chị", Phone: "0900000000", VisitDate: "2024-06-15",
	})
	require.NoError(t, err)

	june := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	approved, err := svc.Approve(ctx, "c18_e88", june, record.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VisitApproved, approved.Status)

	listed, err := svc.List(ctx, "c18_e88", june)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, model.VisitApproved, listed[0].Status)

	_, err = svc.Approve(ctx, "c18_e88", june, "no-such-id")
	require.Error(t, err)
}
