package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/otoshimono/internal/model"
)

// errorResponse はAPIエラーレスポンスの統一フォーマット。
// クライアントはこの文字列をそのままバナー表示する。
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func writeErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, errorResponse{Error: apiErr.Message})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う。
	// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "内部エラーが発生しました。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidRequest,
		model.ErrCodeMissingFields,
		model.ErrCodeInvalidType,
		model.ErrCodeInvalidStatus,
		model.ErrCodeInvalidAnswers,
		model.ErrCodeInvalidQuestions,
		model.ErrCodeInvalidURL:
		return http.StatusBadRequest
	case model.ErrCodeItemNotFound,
		model.ErrCodeClaimNotFound,
		model.ErrCodeImageNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
