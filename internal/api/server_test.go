package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftbot/internal/models"
	"giftbot/internal/repository/memory"
	"giftbot/internal/service"
)

func newTestServer(t *testing.T) (*Server, *service.Service) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	svc := service.New(logger,
		store, store,
		store.Participants(), store.Bans(), store.Admins(), store.Facts(),
		store)
	return NewServer(svc, logger), svc
}

func doRequest(t *testing.T, srv *Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetGifts(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := context.Background()

	price := 9000
	gift, err := svc.CreateGift(ctx, 100, "Alice", "Drill", &price, models.CategoryHome)
	require.NoError(t, err)
	_, err = svc.Claim(ctx, 200, "Bob", gift.ID)
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodGet, "/api/gifts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var gifts []*models.Gift
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&gifts))
	require.Len(t, gifts, 1)
	assert.Equal(t, "Drill", gifts[0].Name)
	assert.Equal(t, models.GiftStatusClaimed, gifts[0].Status)
	require.Len(t, gifts[0].Contributions, 1)
	assert.Equal(t, int64(200), gifts[0].Contributions[0].UserID)
}

func TestGetGiftByID(t *testing.T) {
	srv, svc := newTestServer(t)

	gift, err := svc.CreateGift(context.Background(), 100, "Alice", "Mug", nil, "")
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodGet, "/api/gifts/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Gift
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, gift.ID, got.ID)
	assert.Equal(t, "Mug", got.Name)

	rec = doRequest(t, srv, http.MethodGet, "/api/gifts/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/gifts/notanumber", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStats(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, 100, "Alice", "Drill", nil, "")
	require.NoError(t, err)
	_, err = svc.Claim(ctx, 200, "Bob", gift.ID)
	require.NoError(t, err)
	require.NoError(t, svc.SetPledge(ctx, 200, gift.ID, 2500))

	rec := doRequest(t, srv, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.Stats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Claimed)
	assert.Equal(t, 2500, stats.TotalAmount)
}

func TestGetFacts(t *testing.T) {
	srv, svc := newTestServer(t)

	_, err := svc.AddFact(context.Background(), 100, "collects vinyl records")
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodGet, "/api/facts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var facts []*models.Fact
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&facts))
	require.Len(t, facts, 1)
	assert.Equal(t, "collects vinyl records", facts[0].Text)
}

func TestSnapshotRoundTripOverHTTP(t *testing.T) {
	src, svc := newTestServer(t)
	ctx := context.Background()

	gift, err := svc.CreateGift(ctx, 100, "Alice", "Drill", nil, models.CategoryHome)
	require.NoError(t, err)
	_, err = svc.Claim(ctx, 200, "Bob", gift.ID)
	require.NoError(t, err)

	rec := doRequest(t, src, http.MethodGet, "/api/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dst, dstSvc := newTestServer(t)
	rec = doRequest(t, dst, http.MethodPost, "/api/snapshot", bytes.NewReader(rec.Body.Bytes()))
	require.Equal(t, http.StatusOK, rec.Code)

	gifts, err := dstSvc.Gifts.List(ctx)
	require.NoError(t, err)
	require.Len(t, gifts, 1)
	assert.Equal(t, "Drill", gifts[0].Name)
	assert.Equal(t, models.GiftStatusClaimed, gifts[0].Status)
}

func TestImportSnapshotRejectsBadJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/snapshot", bytes.NewReader([]byte("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
