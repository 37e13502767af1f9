// Package api serves the board over HTTP for a browser front end.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/baiirun/kanban/internal/board"
	"github.com/baiirun/kanban/internal/drag"
	"github.com/baiirun/kanban/internal/model"
	"github.com/baiirun/kanban/internal/view"
)

// Handler owns the store for the lifetime of the server. Every request runs
// under mu, so one request's mutation and save finish before the next
// begins.
type Handler struct {
	mu    sync.Mutex
	store *board.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewHandler(store *board.Store, log logrus.FieldLogger) *Handler {
	return &Handler{store: store, log: log, now: time.Now}
}

// Router wires every route.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/board", h.GetBoard).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", h.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}", h.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", h.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{id}/priority", h.CyclePriority).Methods(http.MethodPost)
	r.HandleFunc("/api/drop", h.Drop).Methods(http.MethodPost)
	r.Use(h.logRequests)
	return r
}

type taskResponse struct {
	model.Task
	Urgency  *view.Urgency `json:"urgency,omitempty"`
	DueLabel string        `json:"dueLabel,omitempty"`
}

type columnResponse struct {
	Status model.Status   `json:"status"`
	Title  string         `json:"title"`
	Color  string         `json:"color"`
	Count  int            `json:"count"`
	Tasks  []taskResponse `json:"tasks"`
}

type boardResponse struct {
	Columns []columnResponse `json:"columns"`
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

// dropRequest is a finished drag. TargetID names the card under the
// pointer, OffsetY and Height locate the pointer on it. Column is set for a
// drop on a column's background instead.
type dropRequest struct {
	DraggedID model.TaskID `json:"draggedId"`
	TargetID  model.TaskID `json:"targetId"`
	OffsetY   float64      `json:"offsetY"`
	Height    float64      `json:"height"`
	Column    string       `json:"column"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.board())
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := model.TaskID(mux.Vars(r)["id"])
	t, ok := h.store.Get(id)
	if !ok {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.task(t))
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var due *model.Date
	if s := strings.TrimSpace(req.DueDate); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		due = &d
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok, err := h.store.Add(r.Context(), req.Title, req.Description, due, model.Priority(req.Priority))
	if err != nil {
		h.fail(w, "create", err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, h.task(t))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := model.TaskID(mux.Vars(r)["id"])
	if _, err := h.store.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CyclePriority(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := model.TaskID(mux.Vars(r)["id"])
	changed, err := h.store.CyclePriority(r.Context(), id)
	if err != nil {
		h.fail(w, "priority", err)
		return
	}
	if !changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	t, _ := h.store.Get(id)
	writeJSON(w, http.StatusOK, h.task(t))
}

// Drop replays a finished drag through a drag controller and applies the
// resulting intent. A drop with no target is an abort and changes nothing.
func (h *Handler) Drop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var column model.Status
	if req.Column != "" {
		s, err := model.ParseStatus(req.Column)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		column = s
	}
	if req.TargetID != "" && req.Height <= 0 {
		http.Error(w, "height must be positive when targetId is set", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var c drag.Controller
	c.Start(req.DraggedID)
	switch {
	case req.TargetID != "":
		if target, ok := h.store.Get(req.TargetID); ok {
			c.OverTask(target.ID, target.Status, req.OffsetY, req.Height)
		}
	case column != "":
		c.OverColumn(column)
	}

	if in, ok := c.Drop(); ok {
		if _, err := h.store.Apply(r.Context(), in); err != nil {
			h.fail(w, "drop", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, h.board())
}

func (h *Handler) board() boardResponse {
	today := h.now()
	cols := view.Board(h.store.Tasks())
	resp := boardResponse{Columns: make([]columnResponse, 0, len(cols))}
	for _, c := range cols {
		cr := columnResponse{
			Status: c.Status,
			Title:  c.Title,
			Color:  c.Color,
			Count:  c.Count(),
			Tasks:  make([]taskResponse, 0, len(c.Tasks)),
		}
		for _, t := range c.Tasks {
			cr.Tasks = append(cr.Tasks, taskWithUrgency(t, today))
		}
		resp.Columns = append(resp.Columns, cr)
	}
	return resp
}

func (h *Handler) task(t model.Task) taskResponse {
	return taskWithUrgency(t, h.now())
}

func taskWithUrgency(t model.Task, today time.Time) taskResponse {
	resp := taskResponse{Task: t}
	if u, ok := view.DueUrgency(t.DueDate, today); ok {
		resp.Urgency = &u
		resp.DueLabel = u.Label()
	}
	return resp
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.log.WithError(err).WithField("op", op).Error("request failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
