package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/otoshimono/internal/item"
	"github.com/hitoshi/otoshimono/internal/model"
)

// ItemServiceInterface はアイテムハンドラーが必要とするサービスインターフェース。
type ItemServiceInterface interface {
	// ListItems はアイテム一覧をcreated_at降順で返す。itemTypeが空の場合は全件。
	ListItems(ctx context.Context, itemType string) ([]*model.Item, error)
	// GetItem は指定IDのアイテムを返す。
	GetItem(ctx context.Context, id string) (*model.Item, error)
	// CreateItem はアイテムを作成する。
	CreateItem(ctx context.Context, input item.CreateItemInput) (*model.Item, error)
	// UpdateStatus はアイテムのステータスを更新する。
	UpdateStatus(ctx context.Context, id, status string) (*model.Item, error)
	// DeleteItem は指定IDのアイテムを削除する。
	DeleteItem(ctx context.Context, id string) error
}

// ItemHandler はアイテム管理のHTTPハンドラー。
type ItemHandler struct {
	service ItemServiceInterface
}

// NewItemHandler はItemHandlerを生成する。
func NewItemHandler(service ItemServiceInterface) *ItemHandler {
	return &ItemHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// createItemRequest はアイテム作成リクエストのボディ。
type createItemRequest struct {
	Type                  string   `json:"type"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Location              string   `json:"location"`
	Date                  string   `json:"date"`
	ImageURL              string   `json:"imageUrl"`
	ImageURLs             []string `json:"imageUrls"`
	ContactEmail          string   `json:"contactEmail"`
	VerificationQuestions []string `json:"verificationQuestions"`
}

// updateItemStatusRequest はアイテムステータス更新リクエストのボディ。
type updateItemStatusRequest struct {
	Status string `json:"status"`
}

// itemResponse はアイテムのAPIレスポンス。
type itemResponse struct {
	ID                    string    `json:"id"`
	Type                  string    `json:"type"`
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	Location              string    `json:"location"`
	Date                  string    `json:"date"`
	ImageURL              string    `json:"imageUrl"`
	ImageURLs             []string  `json:"imageUrls,omitempty"`
	ContactEmail          string    `json:"contactEmail"`
	Status                string    `json:"status"`
	VerificationQuestions []string  `json:"verificationQuestions"`
	CreatedAt             time.Time `json:"createdAt"`
}

// itemsResponse はアイテム一覧のレスポンス。
type itemsResponse struct {
	Items []itemResponse `json:"items"`
}

// singleItemResponse は単一アイテムのレスポンス。
type singleItemResponse struct {
	Item itemResponse `json:"item"`
}

// messageResponse は削除成功などのメッセージレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// toItemResponse はmodel.ItemからAPIレスポンスに変換する。
func toItemResponse(i *model.Item) itemResponse {
	return itemResponse{
		ID:                    i.ID,
		Type:                  string(i.Type),
		Title:                 i.Title,
		Description:           i.Description,
		Location:              i.Location,
		Date:                  i.Date,
		ImageURL:              i.ImageURL,
		ImageURLs:             i.ImageURLs,
		ContactEmail:          i.ContactEmail,
		Status:                string(i.Status),
		VerificationQuestions: i.VerificationQuestions,
		CreatedAt:             i.CreatedAt,
	}
}

// --- ハンドラー ---

// ListItems はアイテム一覧を取得する。
// GET /api/items?type=lost|found
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	itemType := r.URL.Query().Get("type")

	items, err := h.service.ListItems(r.Context(), itemType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := itemsResponse{Items: make([]itemResponse, len(items))}
	for i, it := range items {
		resp.Items[i] = toItemResponse(it)
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetItem はアイテム詳細を取得する。
// GET /api/items/:id
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	it, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, singleItemResponse{Item: toItemResponse(it)})
}

// CreateItem はアイテムを作成する。
// POST /api/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	it, err := h.service.CreateItem(r.Context(), item.CreateItemInput{
		Type:                  req.Type,
		Title:                 req.Title,
		Description:           req.Description,
		Location:              req.Location,
		Date:                  req.Date,
		ImageURL:              req.ImageURL,
		ImageURLs:             req.ImageURLs,
		ContactEmail:          req.ContactEmail,
		VerificationQuestions: req.VerificationQuestions,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, singleItemResponse{Item: toItemResponse(it)})
}

// UpdateItemStatus はアイテムのステータスを更新する。
// PATCH /api/items/:id
func (h *ItemHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	it, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, singleItemResponse{Item: toItemResponse(it)})
}

// DeleteItem はアイテムを削除する。
// DELETE /api/items/:id
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "アイテムを削除しました。"})
}
