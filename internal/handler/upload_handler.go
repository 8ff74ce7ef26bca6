package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/otoshimono/internal/media"
	"github.com/hitoshi/otoshimono/internal/model"
)

// MediaClientInterface はアップロードハンドラーが必要とするメディアクライアントインターフェース。
type MediaClientInterface interface {
	// Upload はbase64エンコード画像をプロバイダーへ転送する。
	Upload(ctx context.Context, file string) (*media.UploadResult, error)
	// Destroy は公開IDでプロバイダー上の画像を削除する。
	// 画像が存在しない場合は(false, nil)を返す。
	Destroy(ctx context.Context, publicID string) (bool, error)
}

// UploadHandler は画像リレーのHTTPハンドラー。
type UploadHandler struct {
	client MediaClientInterface
}

// NewUploadHandler はUploadHandlerを生成する。
func NewUploadHandler(client MediaClientInterface) *UploadHandler {
	return &UploadHandler{client: client}
}

// uploadRequest は画像アップロードリクエストのボディ。
// fileはdata URI形式のbase64エンコード画像。
type uploadRequest struct {
	File string `json:"file"`
}

// uploadSuccessResponse は画像アップロード成功時のレスポンス。
type uploadSuccessResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// destroySuccessResponse は画像削除成功時のレスポンス。
type destroySuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Upload は画像をメディアプロバイダーへリレーする。
// POST /api/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if req.File == "" {
		writeErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("file"))
		return
	}

	result, err := h.client.Upload(r.Context(), req.File)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, model.NewUploadFailedError())
		return
	}

	writeJSON(w, http.StatusOK, uploadSuccessResponse{
		URL:      result.URL,
		PublicID: result.PublicID,
	})
}

// Destroy はメディアプロバイダー上の画像を削除する。
// 公開IDはフォルダ区切りのスラッシュを含むため、ワイルドカードパラメータで受け取る。
// DELETE /api/upload/*
func (h *UploadHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "*")
	if publicID == "" {
		writeErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("publicId"))
		return
	}

	deleted, err := h.client.Destroy(r.Context(), publicID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !deleted {
		writeErrorResponse(w, http.StatusNotFound, model.NewImageNotFoundError(publicID))
		return
	}

	writeJSON(w, http.StatusOK, destroySuccessResponse{
		Success: true,
		Message: "画像を削除しました。",
	})
}
