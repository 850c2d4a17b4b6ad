package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/go-chi/chi/v5"
)

// maxBody caps request bodies, collection text included.
const maxBody = 1 << 20

// ShipRequest is the body of POST /ports/{name}/ships.
type ShipRequest struct {
	Kind    string `json:"kind"`
	Payload string `json:"payload"`
}

// ShipResponse describes one parked ship.
type ShipResponse struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Payload string `json:"payload"`
}

// PortResponse describes one port and its ships.
type PortResponse struct {
	Name     string         `json:"name"`
	Capacity int            `json:"capacity"`
	Columns  int            `json:"columns"`
	Ships    []ShipResponse `json:"ships"`
}

// Server serves the harbor API.
type Server struct {
	Manager *harbor.Manager
	Logger  *slog.Logger
}

// NewHandler creates a new HTTP handler for the manager.
func NewHandler(m *harbor.Manager, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Manager: m, Logger: logger}

	r := chi.NewRouter()
	r.Get("/health", s.Health)

	r.Route("/ports", func(r chi.Router) {
		r.Get("/", s.ListPorts)
		r.Post("/", s.AddPort)
		r.Route("/{name}", func(r chi.Router) {
			r.Delete("/", s.DeletePort)
			r.Get("/ships", s.ListShips)
			r.Post("/ships", s.ParkShip)
			r.Delete("/ships/{index}", s.TakeShip)
		})
	})

	r.Get("/collection", s.GetCollection)
	r.Put("/collection", s.PutCollection)

	r.Post("/snapshots/{key}", s.SaveSnapshot)
	r.Post("/snapshots/{key}/restore", s.RestoreSnapshot)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPorts handles GET /ports.
func (s *Server) ListPorts(w http.ResponseWriter, r *http.Request) {
	names := s.Manager.Names()
	resp := make([]PortResponse, 0, len(names))
	for _, name := range names {
		view, err := s.Manager.Port(name)
		if err != nil {
			// Deleted between Names and Port.
			continue
		}
		resp = append(resp, portResponse(view))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// AddPort handles POST /ports with body {"name": "..."}.
func (s *Server) AddPort(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&body); err != nil {
		s.badRequest(w, "Invalid request body", err)
		return
	}
	name, err := domain.SanitizeName(body.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if s.Manager.AddPort(name) {
		status = http.StatusCreated
	}
	view, err := s.Manager.Port(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, status, portResponse(view))
}

// DeletePort handles DELETE /ports/{name}.
func (s *Server) DeletePort(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !s.Manager.DelPort(name) {
		s.writeError(w, fmt.Errorf("%w: %q", domain.ErrPortNotFound, name))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListShips handles GET /ports/{name}/ships.
func (s *Server) ListShips(w http.ResponseWriter, r *http.Request) {
	view, err := s.Manager.Port(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, portResponse(view).Ships)
}

// ParkShip handles POST /ports/{name}/ships.
func (s *Server) ParkShip(w http.ResponseWriter, r *http.Request) {
	var body ShipRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&body); err != nil {
		s.badRequest(w, "Invalid request body", err)
		return
	}
	ship, err := domain.Decode(body.Kind, body.Payload)
	if err != nil {
		s.writeError(w, err)
		return
	}

	idx, err := s.Manager.Park(chi.URLParam(r, "name"), ship)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, shipResponse(idx, ship))
}

// TakeShip handles DELETE /ports/{name}/ships/{index}.
func (s *Server) TakeShip(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.badRequest(w, "index must be an integer", err)
		return
	}
	ship, err := s.Manager.Take(chi.URLParam(r, "name"), idx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, shipResponse(idx, ship))
}

// GetCollection handles GET /collection and returns the text format.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.Manager.Dump(&buf); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

// PutCollection handles PUT /collection, replacing everything with the posted text.
func (s *Server) PutCollection(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.badRequest(w, "Invalid request body", err)
		return
	}
	if err := s.Manager.Restore(data); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveSnapshot handles POST /snapshots/{key}.
func (s *Server) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.Manager.Save(r.Context(), key); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"snapshot": key})
}

// RestoreSnapshot handles POST /snapshots/{key}/restore.
func (s *Server) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.Manager.Load(r.Context(), key); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"snapshot": key})
}

// -- Helpers --

func portResponse(v harbor.PortView) PortResponse {
	resp := PortResponse{
		Name:     v.Name,
		Capacity: v.Capacity,
		Columns:  v.Columns,
		Ships:    make([]ShipResponse, 0, len(v.Ships)),
	}
	for i, ship := range v.Ships {
		resp.Ships = append(resp.Ships, shipResponse(i, ship))
	}
	return resp
}

func shipResponse(idx int, ship domain.Ship) ShipResponse {
	return ShipResponse{Index: idx, Kind: string(ship.Kind()), Payload: ship.Describe()}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrPortOverflow):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPlaceNotFound),
		errors.Is(err, domain.ErrPortNotFound),
		errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrDecode),
		errors.Is(err, domain.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("Request failed", "err", err)
	} else {
		s.Logger.Warn("Request rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) badRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	s.Logger.Warn("Bad request", "err", msg)
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}
