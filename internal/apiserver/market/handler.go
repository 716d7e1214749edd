// Package market 行情领域 - 地点、作物与价格的 HTTP 处理
package market

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"village-admin/internal/shared/model"
	"village-admin/internal/shared/storage"
)

// Handler 行情 HTTP 处理器
type Handler struct {
	store storage.MarketStore
	seq   storage.SequenceStore
}

// NewHandler 创建行情处理器
func NewHandler(store storage.MarketStore, seq storage.SequenceStore) *Handler {
	return &Handler{store: store, seq: seq}
}

// RegisterRoutes 注册行情相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /places", h.Places)
	mux.HandleFunc("GET /locations", h.Locations)

	mux.HandleFunc("POST /add-crop", h.AddCrop)
	mux.HandleFunc("GET /all-crops", h.AllCrops)
	mux.HandleFunc("PUT /updateCrop/{id}", h.UpdateCrop)
	mux.HandleFunc("PUT /updatePrice/{cropId}", h.UpdateCropPrice)
	mux.HandleFunc("POST /update-average-price", h.UpdateAveragePrice)

	mux.HandleFunc("GET /crops/{placeId}", h.CropsByPlace)
	mux.HandleFunc("POST /add-price", h.AddPrice)
	mux.HandleFunc("POST /update-price", h.UpdatePrice)
}

// ============================================================================
// 请求类型
// ============================================================================

type cropRequest struct {
	CropName string          `json:"crop_name"`
	AvgPrice model.FlexValue `json:"avg_price"`
}

type cropPriceRequest struct {
	Price model.FlexValue `json:"price"`
}

type avgPriceRequest struct {
	CropID       int64           `json:"crop_id"`
	AveragePrice model.FlexValue `json:"average_price"`
}

type addPriceRequest struct {
	PlaceID   int64           `json:"place_id"`
	CropID    int64           `json:"crop_id"`
	Price     model.FlexValue `json:"price"`
	MonthYear string          `json:"month_year"`
}

type updatePriceRequest struct {
	ID        int64           `json:"id"`
	Price     model.FlexValue `json:"price"`
	MonthYear string          `json:"month_year"`
}

// ============================================================================
// 地点
// ============================================================================

// Places 列出全部地点
// GET /places
func (h *Handler) Places(w http.ResponseWriter, r *http.Request) {
	places, err := h.store.ListPlaces(r.Context())
	if err != nil {
		log.Printf("[market.places] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// Locations 列出全部地点，空集返回 404（历史行为）
// GET /locations
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	places, err := h.store.ListPlaces(r.Context())
	if err != nil {
		log.Printf("[market.locations] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(places) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No locations found"})
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// ============================================================================
// 作物
// ============================================================================

// AddCrop 新增作物参考数据
// POST /add-crop
func (h *Handler) AddCrop(w http.ResponseWriter, r *http.Request) {
	var req cropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CropName == "" {
		writeError(w, http.StatusBadRequest, "crop_name is required")
		return
	}

	id, err := h.seq.NextSequence(r.Context(), storage.SeqCrop)
	if err != nil {
		log.Printf("[market.addCrop] NextSequence error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add new crop")
		return
	}

	crop := &model.Crop{ID: id, CropName: req.CropName, AvgPrice: req.AvgPrice}
	if err := h.store.CreateCrop(r.Context(), crop); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Crop already exists")
			return
		}
		log.Printf("[market.addCrop] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add new crop")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Crop added successfully",
		"crop":    crop,
	})
}

// AllCrops 列出全部作物及均价
// GET /all-crops
func (h *Handler) AllCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := h.store.ListCrops(r.Context())
	if err != nil {
		log.Printf("[market.allCrops] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, crops)
}

// UpdateCrop 修改作物名称与均价
// PUT /updateCrop/{id}
func (h *Handler) UpdateCrop(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid crop id")
		return
	}

	var req cropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.store.UpdateCrop(r.Context(), id, req.CropName, req.AvgPrice)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Crop not found")
		return
	}
	if err != nil {
		log.Printf("[market.updateCrop] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Crop updated successfully"})
}

// UpdateCropPrice 修改作物均价
// PUT /updatePrice/{cropId}
func (h *Handler) UpdateCropPrice(w http.ResponseWriter, r *http.Request) {
	cropID, err := strconv.ParseInt(r.PathValue("cropId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid crop id")
		return
	}

	var req cropPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.store.UpdateCropAvgPrice(r.Context(), cropID, req.Price)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Crop not found")
		return
	}
	if err != nil {
		log.Printf("[market.updateCropPrice] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Crop price updated successfully"})
}

// UpdateAveragePrice 修改作物均价（按请求体中的 crop_id）
// POST /update-average-price
func (h *Handler) UpdateAveragePrice(w http.ResponseWriter, r *http.Request) {
	var req avgPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.store.UpdateCropAvgPrice(r.Context(), req.CropID, req.AveragePrice)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Crop not found or no changes made")
		return
	}
	if err != nil {
		log.Printf("[market.updateAveragePrice] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update average price")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Average price updated successfully"})
}

// ============================================================================
// 价格
// ============================================================================

// CropsByPlace 按地点查询作物行情（价格左连接作物参考数据）
// GET /crops/{placeId}
func (h *Handler) CropsByPlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(r.PathValue("placeId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid placeId format. Ensure it is an integer.")
		return
	}

	rows, err := h.store.CropsForPlace(r.Context(), placeID)
	if err != nil {
		log.Printf("[market.cropsByPlace] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch crops")
		return
	}

	// 无记录时返回空数组而不是错误
	writeJSON(w, http.StatusOK, rows)
}

// AddPrice 新增某地某作物的现价记录
// POST /add-price
//
// (place_id, crop_id) 冲突由复合唯一索引挡下，不做 check-then-insert
func (h *Handler) AddPrice(w http.ResponseWriter, r *http.Request) {
	var req addPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.seq.NextSequence(r.Context(), storage.SeqPrice)
	if err != nil {
		log.Printf("[market.addPrice] NextSequence error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add new price")
		return
	}

	price := &model.Price{
		ID:        id,
		PlaceID:   req.PlaceID,
		CropID:    req.CropID,
		Price:     req.Price,
		MonthYear: req.MonthYear,
	}
	if err := h.store.CreatePrice(r.Context(), price); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Crop is already available in the location")
			return
		}
		log.Printf("[market.addPrice] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add new price")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Price added successfully"})
}

// UpdatePrice 修改现价记录
// POST /update-price
func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req updatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.store.UpdatePrice(r.Context(), req.ID, req.Price, req.MonthYear)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Price not found")
		return
	}
	if err != nil {
		log.Printf("[market.updatePrice] error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update crop price")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Price updated successfully"})
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
