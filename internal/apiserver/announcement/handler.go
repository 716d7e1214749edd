// Package announcement 村务公告 - HTTP 处理
package announcement

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

// Handler 公告 HTTP 处理器
type Handler struct {
	store storage.AnnouncementStore
	seq   storage.SequenceStore
}

// NewHandler 创建公告处理器
func NewHandler(store storage.AnnouncementStore, seq storage.SequenceStore) *Handler {
	return &Handler{store: store, seq: seq}
}

// RegisterRoutes 注册公告相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /createAnnouncement", h.Create)
	mux.HandleFunc("GET /announcements", h.List)
	mux.HandleFunc("PUT /updateAnnouncement/{id}", h.Update)
	mux.HandleFunc("DELETE /deleteAnnouncement/{id}", h.Delete)
}

type announcementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create 发布公告
// POST /createAnnouncement
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.seq.NextSequence(r.Context(), storage.SeqAnnouncements)
	if err != nil {
		log.Printf("[announcement.create] NextSequence error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	a := &model.Announcement{
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := h.store.CreateAnnouncement(r.Context(), a); err != nil {
		log.Printf("[announcement.create] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Announcement created successfully"})
}

// List 按发布时间倒序列出公告
// GET /announcements
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.store.ListAnnouncements(r.Context())
	if err != nil {
		log.Printf("[announcement.list] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, announcements)
}

// Update 修改公告
// PUT /updateAnnouncement/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid announcement id")
		return
	}

	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.store.UpdateAnnouncement(r.Context(), id, req.Title, req.Content)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Announcement not found"})
		return
	}
	if err != nil {
		log.Printf("[announcement.update] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Announcement updated successfully"})
}

// Delete 删除公告
// DELETE /deleteAnnouncement/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid announcement id")
		return
	}

	err = h.store.DeleteAnnouncement(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Announcement not found"})
		return
	}
	if err != nil {
		log.Printf("[announcement.delete] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Announcement deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
