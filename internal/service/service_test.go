package service_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"giftbot/internal/repository/memory"
	"giftbot/internal/service"
)

// actors used across the tests
const (
	alice   int64 = 100
	bob     int64 = 200
	carol   int64 = 300
	honoree int64 = 900
)

func newTestService(t *testing.T) (*service.Service, *memory.Store) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	svc := service.New(logger,
		store, store,
		store.Participants(), store.Bans(), store.Admins(), store.Facts(),
		store)
	return svc, store
}

func intPtr(v int) *int { return &v }
