package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type eligibilityResponse struct {
	EligibleForPromotion bool `json:"eligibleForPromotion"`
}

// directory は社員 ID ごとの昇進可否を保持します。
type directory struct {
	mu       sync.RWMutex
	eligible map[uuid.UUID]bool
	fallback bool
}

func newDirectory(ids []string, fallback bool) *directory {
	d := &directory{eligible: make(map[uuid.UUID]bool, len(ids)), fallback: fallback}
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			d.eligible[id] = true
		}
	}
	return d
}

func (d *directory) lookup(id uuid.UUID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if v, ok := d.eligible[id]; ok {
		return v
	}
	return d.fallback
}

func (d *directory) set(id uuid.UUID, eligible bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.eligible[id] = eligible
}

func newRouter(l zerolog.Logger, d *directory) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(l))

	r.Route("/api/promotioneligibilities", func(r chi.Router) {
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id, err := uuid.Parse(chi.URLParam(req, "id"))
			if err != nil {
				http.Error(w, "invalid employee id", http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, eligibilityResponse{EligibleForPromotion: d.lookup(id)})
		})
		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id, err := uuid.Parse(chi.URLParam(req, "id"))
			if err != nil {
				http.Error(w, "invalid employee id", http.StatusBadRequest)
				return
			}
			var body eligibilityResponse
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				http.Error(w, "invalid body", http.StatusBadRequest)
				return
			}
			d.set(id, body.EligibleForPromotion)
			writeJSON(w, http.StatusOK, body)
		})
	})

	return r
}

func requestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", strings.TrimSpace(r.URL.Path)).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("http request")
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
