package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"village-admin/internal/shared/model"
	"village-admin/internal/shared/storage"
)

// Handler 登录/注册 HTTP 处理器
type Handler struct {
	users storage.UserStore
	seq   storage.SequenceStore
}

// NewHandler 创建认证处理器
func NewHandler(users storage.UserStore, seq storage.SequenceStore) *Handler {
	return &Handler{users: users, seq: seq}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /signup", h.Signup)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool           `json:"success"`
	UserType model.UserType `json:"userType,omitempty"`
	Message  string         `json:"message,omitempty"`
}

type signupRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	JobTitle string `json:"jobTitle"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ============================================================================
// Handlers
// ============================================================================

// Login 用户登录
// POST /login
//
// 未知用户和密码错误返回同样的 401 响应，调用方无从区分两者。
// 凭据正确但未激活的账号返回 200 + success=false，不是 401。
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("[auth.login] GetUserByUsername error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || !CheckPassword(req.Password, user.Password) {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: "Invalid credentials"})
		return
	}
	if user.Activation == model.ActivationPending {
		writeJSON(w, http.StatusOK, loginResponse{Success: false, Message: "Account not activated"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, UserType: user.UserType})
}

// Signup 村民注册，创建待激活账号
// POST /signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("[auth.signup] HashPassword error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// 取号在插入之前；插入失败时序列值作废，id 空洞可接受
	id, err := h.seq.NextSequence(r.Context(), storage.SeqUsers)
	if err != nil {
		log.Printf("[auth.signup] NextSequence error: %v", err)
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
		Activation: model.ActivationPending,
		UserType:   model.UserTypeUser,
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Try using different username")
			return
		}
		log.Printf("[auth.signup] CreateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully. Awaiting activation."})
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
