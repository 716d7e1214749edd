// Package suggestion 村民建议 - HTTP 处理
package suggestion

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"village-admin/internal/shared/model"
	"village-admin/internal/shared/storage"
)

// Handler 建议 HTTP 处理器
type Handler struct {
	store storage.SuggestionStore
	seq   storage.SequenceStore
}

// NewHandler 创建建议处理器
func NewHandler(store storage.SuggestionStore, seq storage.SequenceStore) *Handler {
	return &Handler{store: store, seq: seq}
}

// RegisterRoutes 注册建议相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /createSuggestion", h.Create)
	mux.HandleFunc("GET /suggestions", h.List)
	mux.HandleFunc("POST /respondSuggestion", h.Respond)
}

type createRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Username string `json:"username"`
}

type respondRequest struct {
	ID       int64  `json:"id"`
	Response string `json:"response"`
}

// Create 提交建议
// POST /createSuggestion
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.seq.NextSequence(r.Context(), storage.SeqSuggestions)
	if err != nil {
		log.Printf("[suggestion.create] NextSequence error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s := &model.Suggestion{
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		Username:  req.Username,
		CreatedAt: time.Now(),
	}
	if err := h.store.CreateSuggestion(r.Context(), s); err != nil {
		log.Printf("[suggestion.create] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Suggestion submitted successfully"})
}

// List 按提交时间倒序列出全部建议
// GET /suggestions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.store.ListSuggestions(r.Context())
	if err != nil {
		log.Printf("[suggestion.list] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// Respond 管理员答复建议
// POST /respondSuggestion
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.store.RespondSuggestion(r.Context(), req.ID, req.Response)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Suggestion not found")
		return
	}
	if err != nil {
		log.Printf("[suggestion.respond] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Suggestion responded successfully"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
