package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"giftbot/internal/service"
)

// Server provides the read-only HTTP API and the snapshot endpoints.
// Writes to the coordination state go through the bot; the API exists for
// dashboards and backups.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	mux    *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// API – Gifts
	s.mux.HandleFunc("GET /api/gifts", s.handleGetGifts)
	s.mux.HandleFunc("GET /api/gifts/{id}", s.handleGetGift)

	// API – Aggregates
	s.mux.HandleFunc("GET /api/stats", s.handleGetStats)
	s.mux.HandleFunc("GET /api/facts", s.handleGetFacts)

	// API – Snapshot backup / restore
	s.mux.HandleFunc("GET /api/snapshot", s.handleExportSnapshot)
	s.mux.HandleFunc("POST /api/snapshot", s.handleImportSnapshot)

	// Operational endpoints
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// ---------------------------------------------------------------------------
// Gifts
// ---------------------------------------------------------------------------

func (s *Server) handleGetGifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gifts, err := s.svc.Gifts.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to list gifts")
		s.respondError(w, http.StatusInternalServerError, "failed to list gifts")
		return
	}
	for _, g := range gifts {
		if g.Contributions, err = s.svc.Contributions.ListByGift(ctx, g.ID); err != nil {
			s.logger.WithError(err).Error("failed to list contributions")
			s.respondError(w, http.StatusInternalServerError, "failed to list gifts")
			return
		}
	}

	s.respondJSON(w, http.StatusOK, gifts)
}

func (s *Server) handleGetGift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid gift id")
		return
	}

	gift, err := s.svc.Gifts.GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).Error("failed to get gift")
		s.respondError(w, http.StatusInternalServerError, "failed to get gift")
		return
	}
	if gift == nil {
		s.respondError(w, http.StatusNotFound, "gift not found")
		return
	}
	if gift.Contributions, err = s.svc.Contributions.ListByGift(ctx, id); err != nil {
		s.logger.WithError(err).Error("failed to list contributions")
		s.respondError(w, http.StatusInternalServerError, "failed to get gift")
		return
	}

	s.respondJSON(w, http.StatusOK, gift)
}

// ---------------------------------------------------------------------------
// Aggregates
// ---------------------------------------------------------------------------

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Aggregates.Stats(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to compute stats")
		s.respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetFacts(w http.ResponseWriter, r *http.Request) {
	facts, err := s.svc.Facts.List(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to list facts")
		s.respondError(w, http.StatusInternalServerError, "failed to list facts")
		return
	}
	s.respondJSON(w, http.StatusOK, facts)
}

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

func (s *Server) handleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Export(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to export snapshot")
		s.respondError(w, http.StatusInternalServerError, "failed to export snapshot")
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap service.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if err := s.svc.Import(r.Context(), &snap); err != nil {
		s.logger.WithError(err).Error("snapshot import finished with errors")
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.WithFields(logrus.Fields{
		"gifts":        len(snap.Gifts),
		"participants": len(snap.Participants),
	}).Info("Snapshot imported")
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
