// Package server 路由配置与核心基础设施
//
// 本文件定义 HTTP API 路由，将请求分发到各领域独立包：
//   - auth: 登录 / 注册
//   - useradmin: 激活审批、管理员增删、用户列表、个人资料
//   - announcement: 村务公告
//   - suggestion: 村民建议
//   - query: 村民咨询
//   - market: 地点、作物与价格
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"village-admin/internal/apiserver/announcement"
	"village-admin/internal/apiserver/auth"
	"village-admin/internal/apiserver/market"
	"village-admin/internal/apiserver/query"
	"village-admin/internal/apiserver/suggestion"
	"village-admin/internal/apiserver/useradmin"
	"village-admin/internal/shared/storage"
)

// Handler API Server 核心处理器
type Handler struct {
	store       storage.PersistentStore
	metrics     *Metrics
	seedAdminID int64
}

// NewHandler 创建核心处理器
func NewHandler(store storage.PersistentStore, seedAdminID int64) *Handler {
	return &Handler{
		store:       store,
		metrics:     NewMetrics("village_admin"),
		seedAdminID: seedAdminID,
	}
}

// meteredSequenceStore 在序号分配上叠加指标统计
type meteredSequenceStore struct {
	storage.SequenceStore
	metrics *Metrics
}

func (s *meteredSequenceStore) NextSequence(ctx context.Context, name string) (int64, error) {
	id, err := s.SequenceStore.NextSequence(ctx, name)
	if err == nil {
		s.metrics.RecordSequenceNext(name)
	}
	return id, err
}

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 健康检查:
//   - GET /health - 服务健康检查
//   - GET /metrics - Prometheus 指标
//
// 认证 (Auth):
//   - POST /login / POST /signup
//
// 账号管理 (UserAdmin):
//   - POST /activate-user / POST /deactivate-user / GET /pending-users
//   - POST /add-admin / POST /remove-admin / GET /admin/users / GET /admins
//   - GET /users / POST /remove-user
//   - GET /user/profile / PUT /user/profile/update
//
// 公告 (Announcement):
//   - POST /createAnnouncement / GET /announcements
//   - PUT /updateAnnouncement/{id} / DELETE /deleteAnnouncement/{id}
//
// 建议 (Suggestion):
//   - POST /createSuggestion / GET /suggestions / POST /respondSuggestion
//
// 咨询 (Query):
//   - POST /createQuery / GET /queries
//   - GET /admin/queries / PUT /admin/respondQuery/{id}
//
// 行情 (Market):
//   - GET /places / GET /locations
//   - POST /add-crop / GET /all-crops / PUT /updateCrop/{id} / PUT /updatePrice/{cropId}
//   - GET /crops/{placeId} / POST /add-price / POST /update-price / POST /update-average-price
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	seq := &meteredSequenceStore{SequenceStore: h.store, metrics: h.metrics}

	// Auth 接口
	authHandler := auth.NewHandler(h.store, seq)
	authHandler.RegisterRoutes(mux)

	// 账号管理接口
	userHandler := useradmin.NewHandler(h.store, seq, h.seedAdminID)
	userHandler.RegisterRoutes(mux)

	// 公告接口
	annHandler := announcement.NewHandler(h.store, seq)
	annHandler.RegisterRoutes(mux)

	// 建议接口
	sugHandler := suggestion.NewHandler(h.store, seq)
	sugHandler.RegisterRoutes(mux)

	// 咨询接口
	queryHandler := query.NewHandler(h.store, seq)
	queryHandler.RegisterRoutes(mux)

	// 行情接口
	marketHandler := market.NewHandler(h.store, seq)
	marketHandler.RegisterRoutes(mux)

	// 应用指标中间件
	apiHandler := h.metrics.MetricsMiddleware(mux)

	// 应用 CORS 中间件
	return corsMiddleware(apiHandler)
}

// Health 健康检查
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// corsMiddleware 添加 CORS 头支持跨域请求
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
