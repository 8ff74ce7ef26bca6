package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/otoshimono/internal/claim"
	"github.com/hitoshi/otoshimono/internal/model"
)

// ClaimServiceInterface は申請ハンドラーが必要とするサービスインターフェース。
type ClaimServiceInterface interface {
	// ListClaims は申請一覧をcreated_at降順で返す。itemIDが空の場合は全件。
	ListClaims(ctx context.Context, itemID string) ([]*model.Claim, error)
	// CreateClaim は申請を作成する。
	CreateClaim(ctx context.Context, input claim.CreateClaimInput) (*model.Claim, error)
	// UpdateStatus は申請のステータスを更新する。
	UpdateStatus(ctx context.Context, id, status string) (*model.Claim, error)
	// DeleteClaim は指定IDの申請を削除する。
	DeleteClaim(ctx context.Context, id string) error
}

// ClaimHandler は申請管理のHTTPハンドラー。
type ClaimHandler struct {
	service ClaimServiceInterface
}

// NewClaimHandler はClaimHandlerを生成する。
func NewClaimHandler(service ClaimServiceInterface) *ClaimHandler {
	return &ClaimHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// createClaimRequest は申請作成リクエストのボディ。
type createClaimRequest struct {
	ItemID        string   `json:"itemId"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Message       string   `json:"message"`
	Answers       []string `json:"answers"`
	ProofImageURL string   `json:"proofImageUrl"`
}

// updateClaimStatusRequest は申請ステータス更新リクエストのボディ。
type updateClaimStatusRequest struct {
	Status string `json:"status"`
}

// claimResponse は申請のAPIレスポンス。
type claimResponse struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"itemId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Message       string    `json:"message"`
	Answers       []string  `json:"answers"`
	ProofImageURL string    `json:"proofImageUrl,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// claimsResponse は申請一覧のレスポンス。
type claimsResponse struct {
	Claims []claimResponse `json:"claims"`
}

// singleClaimResponse は単一申請のレスポンス。
type singleClaimResponse struct {
	Claim claimResponse `json:"claim"`
}

// toClaimResponse はmodel.ClaimからAPIレスポンスに変換する。
func toClaimResponse(c *model.Claim) claimResponse {
	return claimResponse{
		ID:            c.ID,
		ItemID:        c.ItemID,
		Name:          c.Name,
		Email:         c.Email,
		Message:       c.Message,
		Answers:       c.Answers,
		ProofImageURL: c.ProofImageURL,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
	}
}

// --- ハンドラー ---

// ListClaims は申請一覧を取得する。
// GET /api/claims?itemId=xxx
func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("itemId")

	claims, err := h.service.ListClaims(r.Context(), itemID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := claimsResponse{Claims: make([]claimResponse, len(claims))}
	for i, c := range claims {
		resp.Claims[i] = toClaimResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateClaim は申請を作成する。
// POST /api/claims
func (h *ClaimHandler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	var req createClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	c, err := h.service.CreateClaim(r.Context(), claim.CreateClaimInput{
		ItemID:        req.ItemID,
		Name:          req.Name,
		Email:         req.Email,
		Message:       req.Message,
		Answers:       req.Answers,
		ProofImageURL: req.ProofImageURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, singleClaimResponse{Claim: toClaimResponse(c)})
}

// UpdateClaimStatus は申請のステータスを更新する。
// PATCH /api/claims/:id
func (h *ClaimHandler) UpdateClaimStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateClaimStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	c, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, singleClaimResponse{Claim: toClaimResponse(c)})
}

// DeleteClaim は申請を削除する。
// DELETE /api/claims/:id
func (h *ClaimHandler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteClaim(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "申請を削除しました。"})
}
