// Package useradmin 账号管理：激活审批、管理员增删、用户列表、个人资料
package useradmin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"village-admin/internal/apiserver/auth"
	"village-admin/internal/shared/model"
	"village-admin/internal/shared/storage"
)

// Handler 账号管理 HTTP 处理器
type Handler struct {
	users storage.UserStore
	seq   storage.SequenceStore

	// seedAdminID 在 /admin/users 中排除的种子管理员 id
	seedAdminID int64
}

// NewHandler 创建账号管理处理器
func NewHandler(users storage.UserStore, seq storage.SequenceStore, seedAdminID int64) *Handler {
	return &Handler{users: users, seq: seq, seedAdminID: seedAdminID}
}

// RegisterRoutes 注册账号管理相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /activate-user", h.Activate)
	mux.HandleFunc("POST /deactivate-user", h.Deactivate)
	mux.HandleFunc("GET /pending-users", h.PendingUsers)

	mux.HandleFunc("POST /add-admin", h.AddAdmin)
	mux.HandleFunc("POST /remove-admin", h.RemoveAdmin)
	mux.HandleFunc("GET /admin/users", h.AdminUsers)
	mux.HandleFunc("GET /admins", h.AdminContacts)

	mux.HandleFunc("GET /users", h.Users)
	mux.HandleFunc("POST /remove-user", h.RemoveUser)

	mux.HandleFunc("GET /user/profile", h.Profile)
	mux.HandleFunc("PUT /user/profile/update", h.UpdateProfile)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type userIDRequest struct {
	UserID int64 `json:"user_id"`
}

type addAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	JobTitle string `json:"job_title"`
	Email    string `json:"email"`
}

type profileUpdateRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	JobTitle string `json:"jobTitle"`
	Email    string `json:"email"`
}

// publicUser /users 列表的投影，不含激活状态与账号类型
type publicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	JobTitle string `json:"job_title"`
	Email    string `json:"email"`
}

// ============================================================================
// 激活审批
// ============================================================================

// Activate 激活账号：activation 0 → 1
// POST /activate-user
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.users.UpdateUserActivation(r.Context(), req.UserID, model.ActivationActive)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("[useradmin.activate] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User activated successfully"})
}

// Deactivate 注销账号
// POST /deactivate-user
//
// 与激活不对称：这里直接删除记录而不是翻回 activation 标志，
// 且无论是否删到都返回成功。历史行为，刻意保留。
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.users.DeleteUser(r.Context(), req.UserID, "")
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[useradmin.deactivate] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deactivated successfully"})
}

// PendingUsers 列出待激活账号
// GET /pending-users
func (h *Handler) PendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListPendingUsers(r.Context())
	if err != nil {
		log.Printf("[useradmin.pending] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(users) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No pending users found"})
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// ============================================================================
// 管理员
// ============================================================================

// AddAdmin 新增管理员账号，创建即激活
// POST /add-admin
func (h *Handler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req addAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("[useradmin.addAdmin] HashPassword error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	id, err := h.seq.NextSequence(r.Context(), storage.SeqUsers)
	if err != nil {
		log.Printf("[useradmin.addAdmin] NextSequence error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &model.User{
		ID:         id,
		Username:   req.Username,
		Name:       req.Name,
		Phone:      req.Phone,
		Address:    req.Address,
		JobTitle:   req.JobTitle,
		Email:      req.Email,
		Password:   hash,
		Activation: model.ActivationActive,
		UserType:   model.UserTypeAdmin,
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		log.Printf("[useradmin.addAdmin] CreateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Admin added successfully"})
}

// RemoveAdmin 删除管理员账号
// POST /remove-admin
func (h *Handler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.users.DeleteUser(r.Context(), req.UserID, model.UserTypeAdmin)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Admin not found or not an admin"})
		return
	}
	if err != nil {
		log.Printf("[useradmin.removeAdmin] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Admin removed successfully"})
}

// AdminUsers 列出管理员账号，排除种子管理员
// GET /admin/users
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	admins, err := h.users.ListAdmins(r.Context(), h.seedAdminID)
	if err != nil {
		log.Printf("[useradmin.adminUsers] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

// AdminContacts 管理员联系方式（name/phone/job_title 投影）
// GET /admins
func (h *Handler) AdminContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.users.ListAdminContacts(r.Context())
	if err != nil {
		log.Printf("[useradmin.adminContacts] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// ============================================================================
// 普通用户
// ============================================================================

// Users 列出已激活的普通用户
// GET /users
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListActiveUsers(r.Context())
	if err != nil {
		log.Printf("[useradmin.users] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	result := []publicUser{}
	for _, u := range users {
		result = append(result, publicUser{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.Name,
			Phone:    u.Phone,
			Address:  u.Address,
			JobTitle: u.JobTitle,
			Email:    u.Email,
		})
	}
	writeJSON(w, http.StatusOK, result)
}

// RemoveUser 删除普通用户
// POST /remove-user
func (h *Handler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.users.DeleteUser(r.Context(), req.UserID, model.UserTypeUser)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found or not a user"})
		return
	}
	if err != nil {
		log.Printf("[useradmin.removeUser] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User removed successfully"})
}

// Profile 查看个人资料
// GET /user/profile?username=
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username query parameter is required")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		log.Printf("[useradmin.profile] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile 更新个人资料
// PUT /user/profile/update
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	err := h.users.UpdateUserProfile(r.Context(), req.Username, model.ProfileUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		JobTitle: req.JobTitle,
		Email:    req.Email,
	})
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("[useradmin.updateProfile] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

// ============================================================================
// 工具函数
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
