// Package query 村民咨询 - HTTP 处理
package query

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"village-admin/internal/shared/model"
	"village-admin/internal/shared/storage"
)

// Handler 咨询 HTTP 处理器
type Handler struct {
	store storage.QueryStore
	seq   storage.SequenceStore
}

// NewHandler 创建咨询处理器
func NewHandler(store storage.QueryStore, seq storage.SequenceStore) *Handler {
	return &Handler{store: store, seq: seq}
}

// RegisterRoutes 注册咨询相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /createQuery", h.Create)
	mux.HandleFunc("GET /queries", h.ListByUsername)
	mux.HandleFunc("GET /admin/queries", h.ListAll)
	mux.HandleFunc("PUT /admin/respondQuery/{id}", h.Respond)
}

type createRequest struct {
	Username string     `json:"username"`
	Matter   string     `json:"matter"`
	Time     *time.Time `json:"time"`
}

type respondRequest struct {
	Response string `json:"response"`
}

// Create 提交咨询
// POST /createQuery
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.seq.NextSequence(r.Context(), storage.SeqQueries)
	if err != nil {
		log.Printf("[query.create] NextSequence error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create query")
		return
	}

	at := time.Now()
	if req.Time != nil {
		at = *req.Time
	}
	q := &model.Query{
		ID:       id,
		Username: req.Username,
		Matter:   req.Matter,
		Time:     at,
	}
	if err := h.store.CreateQuery(r.Context(), q); err != nil {
		log.Printf("[query.create] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create query")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Query created successfully"})
}

// ListByUsername 列出某村民的咨询，按时间倒序
// GET /queries?username=
func (h *Handler) ListByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username query parameter is required")
		return
	}

	queries, err := h.store.ListQueriesByUsername(r.Context(), username)
	if err != nil {
		log.Printf("[query.listByUsername] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch queries")
		return
	}
	writeJSON(w, http.StatusOK, queries)
}

// ListAll 管理端列出全部咨询
// GET /admin/queries
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	queries, err := h.store.ListQueries(r.Context())
	if err != nil {
		log.Printf("[query.listAll] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, queries)
}

// Respond 管理员答复咨询
// PUT /admin/respondQuery/{id}
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query id")
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.store.RespondQuery(r.Context(), id, req.Response)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Query not found")
		return
	}
	if err != nil {
		log.Printf("[query.respond] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Query responded successfully"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
