package gateway

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/serialpro/internal/codec"
	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/store"
)

type recordingPersister struct {
	saves   []store.Snapshot
	ctxErrs []error
}

func (p *recordingPersister) Save(ctx context.Context, snap store.Snapshot) {
	p.saves = append(p.saves, snap)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
}

func newTestService(t *testing.T) (*Service, *recordingPersister) {
	t.Helper()
	p := &recordingPersister{}
	svc := NewService(store.New(models.SeedProducts(), models.SeedRecords()), p, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, p
}

func TestCreateRecord(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()

	rec, err := svc.CreateRecord(ctx, models.RecordInput{Serial: "SN-NEW", ProductID: "p2", Customer: "Acme", Memo: "x"})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01", rec.ShipDate)
	assert.Equal(t, models.DefaultStatus, rec.Status)

	snap := svc.Snapshot()
	require.Len(t, snap.Records, 5)
	assert.Equal(t, rec, snap.Records[0])
	require.Len(t, p.saves, 1)
	assert.Equal(t, snap, p.saves[0])
}

func TestCreateRecordRejectsMissingFields(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()

	for _, in := range []models.RecordInput{
		{Serial: "", Customer: "Acme"},
		{Serial: "SN-1", Customer: ""},
	} {
		_, err := svc.CreateRecord(ctx, in)
		assert.ErrorIs(t, err, ErrValidation)
	}

	assert.Len(t, svc.Snapshot().Records, 4)
	assert.Empty(t, p.saves)
}

func TestRecordIDsAreUniqueAndIncreasing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for _, r := range svc.Snapshot().Records {
		seen[r.ID] = true
	}
	var last int64
	for i := 0; i < 20; i++ {
		rec, err := svc.CreateRecord(ctx, models.RecordInput{Serial: fmt.Sprintf("SN-%d", i), Customer: "c"})
		require.NoError(t, err)
		assert.False(t, seen[rec.ID], "duplicate id %d", rec.ID)
		assert.Greater(t, rec.ID, last)
		seen[rec.ID] = true
		last = rec.ID
	}
}

func TestRecordIDSkipsPastRestoredFutureIDs(t *testing.T) {
	svc, _ := newTestService(t)
	future := svc.now().UnixMilli() + 1000
	svc.store.ReplaceAll(nil, []models.ShipmentRecord{{ID: future}})

	rec, err := svc.CreateRecord(context.Background(), models.RecordInput{Serial: "SN", Customer: "c"})
	require.NoError(t, err)
	assert.Equal(t, future+1, rec.ID)
}

func TestCreateProduct(t *testing.T) {
	svc, p := newTestService(t)
	ids := []string{"p1", "p1", "fresh"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	prod, err := svc.CreateProduct(context.Background(), models.ProductInput{Name: "5G module", Code: "PM-05"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", prod.ID)

	snap := svc.Snapshot()
	assert.Equal(t, prod, snap.Products[len(snap.Products)-1])
	assert.Len(t, p.saves, 1)

	_, err = svc.CreateProduct(context.Background(), models.ProductInput{Code: "no-name"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, p.saves, 1)
}

func TestDeleteProductIsTwoPhase(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()
	before := svc.Snapshot()

	require.NoError(t, svc.RequestDeleteProduct("p1"))
	id, ok := svc.PendingDelete()
	assert.True(t, ok)
	assert.Equal(t, "p1", id)
	assert.Equal(t, before, svc.Snapshot())
	assert.Empty(t, p.saves)

	deleted, err := svc.ConfirmDeleteProduct(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p1", deleted)

	after := svc.Snapshot()
	assert.Len(t, after.Products, len(before.Products)-1)
	assert.Equal(t, before.Records, after.Records)
	for _, r := range after.Records {
		if r.ID == 1 || r.ID == 4 {
			assert.Equal(t, "p1", r.ProductID)
		}
	}
	assert.Len(t, p.saves, 1)

	_, ok = svc.PendingDelete()
	assert.False(t, ok)
	_, err = svc.ConfirmDeleteProduct(ctx)
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestCancelDeleteProduct(t *testing.T) {
	svc, p := newTestService(t)
	require.NoError(t, svc.RequestDeleteProduct("p2"))
	assert.True(t, svc.CancelDeleteProduct())
	assert.False(t, svc.CancelDeleteProduct())

	_, err := svc.ConfirmDeleteProduct(context.Background())
	assert.ErrorIs(t, err, ErrNothingPending)
	assert.Len(t, svc.Snapshot().Products, 5)
	assert.Empty(t, p.saves)

	assert.ErrorIs(t, svc.RequestDeleteProduct(""), ErrValidation)
}

func TestRestoreRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	original := svc.Snapshot()

	backup, err := codec.EncodeBackup(original, svc.now())
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, models.ProductInput{Name: "extra"})
	require.NoError(t, err)
	_, err = svc.CreateRecord(ctx, models.RecordInput{Serial: "SN-X", Customer: "c"})
	require.NoError(t, err)

	candidate, err := codec.DecodeBackup(backup)
	require.NoError(t, err)
	preview := svc.RequestRestore(candidate)
	assert.Equal(t, 5, preview.ProductCount)
	assert.Equal(t, 4, preview.RecordCount)
	assert.NotEqual(t, original, svc.Snapshot())

	_, err = svc.ConfirmRestore(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, svc.Snapshot())
}

func TestRestoreKeepsFieldsThatAreNotArrays(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()
	before := svc.Snapshot()

	candidate, err := codec.DecodeBackup([]byte(`{"products":"not-an-array","records":[{"id":9,"serial":"SN-9"}]}`))
	require.NoError(t, err)
	svc.RequestRestore(candidate)

	_, err = svc.ConfirmRestore(ctx)
	require.NoError(t, err)

	after := svc.Snapshot()
	assert.Equal(t, before.Products, after.Products)
	assert.Equal(t, []models.ShipmentRecord{{ID: 9, Serial: "SN-9"}}, after.Records)
	assert.Len(t, p.saves, 1)
}

func TestCancelRestore(t *testing.T) {
	svc, p := newTestService(t)
	svc.RequestRestore(models.RestoreCandidate{HasProducts: true})

	preview, ok := svc.PendingRestore()
	assert.True(t, ok)
	assert.True(t, preview.HasProducts)

	assert.True(t, svc.CancelRestore())
	_, ok = svc.PendingRestore()
	assert.False(t, ok)

	_, err := svc.ConfirmRestore(context.Background())
	assert.ErrorIs(t, err, ErrNothingPending)
	assert.Len(t, svc.Snapshot().Products, 5)
	assert.Empty(t, p.saves)
}

func TestCommitSurvivesCancelledCaller(t *testing.T) {
	svc, p := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CreateRecord(ctx, models.RecordInput{Serial: "SN-GONE", Customer: "c"})
	require.NoError(t, err)
	require.NoError(t, svc.RequestDeleteProduct("p5"))
	_, err = svc.ConfirmDeleteProduct(ctx)
	require.NoError(t, err)

	require.Len(t, p.ctxErrs, 2)
	for _, ctxErr := range p.ctxErrs {
		assert.NoError(t, ctxErr)
	}
}
