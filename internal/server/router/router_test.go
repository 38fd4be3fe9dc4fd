package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/metrics"
	"github.com/mamadbah2/serialpro/internal/notice"
	"github.com/mamadbah2/serialpro/internal/persistence"
	"github.com/mamadbah2/serialpro/internal/repository/kv"
	"github.com/mamadbah2/serialpro/internal/server/handlers"
	"github.com/mamadbah2/serialpro/internal/service/backup"
	"github.com/mamadbah2/serialpro/internal/service/gateway"
	"github.com/mamadbah2/serialpro/internal/service/reporting"
	"github.com/mamadbah2/serialpro/internal/store"
)

type testServer struct {
	engine *gin.Engine
	repo   *kv.MemoryRepository
	gw     *gateway.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := kv.NewMemoryRepository()
	m := metrics.New()
	adapter := persistence.NewAdapter(repo, m, nil)
	snap := adapter.Load(context.Background())

	gw := gateway.NewService(store.New(snap.Products, snap.Records), adapter, m, nil)
	board := notice.NewBoard()
	backups := backup.NewService(gw, gw, board, m, nil)
	reports := reporting.NewService(gw, nil, "", nil)
	h := handlers.NewAPIHandler(gw, backups, reports, board, nil)

	return &testServer{
		engine: New(h, []string{"http://localhost:5173"}, m.Handler(), nil),
		repo:   repo,
		gw:     gw,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/healthz", nil).Code)

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateAndSearchRecords(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/records", models.RecordInput{Serial: "SN-NEW-77", ProductID: "p2", Customer: "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.ShipmentRecord](t, rec)

	rec = s.do(t, http.MethodPost, "/api/records", models.RecordInput{Serial: "SN-NEW-78"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/records", nil)
	all := decode[map[string][]models.ShipmentRecord](t, rec)["records"]
	require.Len(t, all, 5)
	assert.Equal(t, created.ID, all[0].ID)

	rec = s.do(t, http.MethodGet, "/api/records?serial=sn-new", nil)
	found := decode[map[string][]models.ShipmentRecord](t, rec)["records"]
	require.Len(t, found, 1)
	assert.Equal(t, "SN-NEW-77", found[0].Serial)

	rec = s.do(t, http.MethodGet, "/api/records?serial=", nil)
	assert.Empty(t, decode[map[string][]models.ShipmentRecord](t, rec)["records"])

	stored, err := s.repo.Get(context.Background(), persistence.RecordsKey)
	require.NoError(t, err)
	assert.Contains(t, stored, "SN-NEW-77")
}

func TestRecentRecords(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/records/recent?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]models.Activity](t, rec)["records"], 2)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/records/recent?limit=x", nil).Code)
}

func TestProductLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/products", models.ProductInput{Name: "5G module", Code: "PM-05"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodPost, "/api/products", models.ProductInput{}).Code)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/products/delete/pending", nil).Code)
	assert.Equal(t, http.StatusAccepted, s.do(t, http.MethodDelete, "/api/products/p1", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/products/delete/pending", nil).Code)

	rec = s.do(t, http.MethodPost, "/api/products/delete/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", decode[map[string]string](t, rec)["deleted"])
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/products/delete/confirm", nil).Code)

	rec = s.do(t, http.MethodGet, "/api/products", nil)
	var listed struct {
		Products []struct {
			ID          string `json:"id"`
			RecordCount int    `json:"recordCount"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Products, 5)
	assert.Equal(t, "p2", listed.Products[0].ID)
	assert.Equal(t, 1, listed.Products[0].RecordCount)

	assert.Len(t, s.gw.Snapshot().Records, 4)

	rec = s.do(t, http.MethodGet, "/api/stats", nil)
	stats := decode[models.Dashboard](t, rec)
	assert.Equal(t, 4, stats.TotalRecords)
	assert.Equal(t, 5, stats.ProductCount)
	assert.Equal(t, models.UnknownProductName, stats.Recent[0].ProductName)
}

func TestExports(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/export/json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "serial_system_backup_")
	assert.Contains(t, rec.Body.String(), `"exportedAt"`)

	rec = s.do(t, http.MethodGet, "/api/export/csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "serial_list_")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\uFEFF"))
}

func TestImportAndRestore(t *testing.T) {
	s := newTestServer(t)

	backupDoc := s.do(t, http.MethodGet, "/api/export/json", nil).Body.String()
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", models.ProductInput{Name: "temp"}).Code)

	rec := s.upload(t, "backup.txt", backupDoc)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	current := decode[map[string]string](t, s.do(t, http.MethodGet, "/api/notice", nil))
	assert.NotEmpty(t, current["message"])

	rec = s.upload(t, "broken.json", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/restore/pending", nil).Code)

	rec = s.upload(t, "serial_system_backup.JSON", backupDoc)
	require.Equal(t, http.StatusAccepted, rec.Code)
	preview := decode[models.RestorePreview](t, rec)
	assert.Equal(t, 5, preview.ProductCount)
	assert.Equal(t, 6, len(s.gw.Snapshot().Products))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/restore/confirm", nil).Code)
	assert.Equal(t, models.SeedProducts(), s.gw.Snapshot().Products)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/restore/confirm", nil).Code)

	rec = s.upload(t, "again.json", backupDoc)
	require.Equal(t, http.StatusAccepted, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/restore/cancel", nil)
	assert.Equal(t, true, decode[map[string]bool](t, rec)["cancelled"])
}

func TestImportRequiresFile(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/import", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/records", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
