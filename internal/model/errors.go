// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// クライアントには {"error": message} として返却される。
type APIError struct {
	Code    string // エラーコード（HTTPステータスへのマッピングに使用）
	Message string // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeMissingFields    = "MISSING_FIELDS"
	ErrCodeInvalidType      = "INVALID_TYPE"
	ErrCodeInvalidStatus    = "INVALID_STATUS"
	ErrCodeInvalidAnswers   = "INVALID_ANSWERS"
	ErrCodeInvalidQuestions = "INVALID_QUESTIONS"
	ErrCodeInvalidURL       = "INVALID_URL"
	ErrCodeItemNotFound     = "ITEM_NOT_FOUND"
	ErrCodeClaimNotFound    = "CLAIM_NOT_FOUND"
	ErrCodeImageNotFound    = "IMAGE_NOT_FOUND"
	ErrCodeUploadFailed     = "UPLOAD_FAILED"
)

// NewInvalidRequestError はリクエストボディが解析できない場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRequest,
		Message: "リクエストボディの解析に失敗しました。",
	}
}

// NewMissingFieldsError は必須フィールドが欠けている場合のエラーを生成する。
func NewMissingFieldsError(fields ...string) *APIError {
	return &APIError{
		Code:    ErrCodeMissingFields,
		Message: fmt.Sprintf("必須フィールドが指定されていません: %v", fields),
	}
}

// NewInvalidTypeError は投稿種別が不正な場合のエラーを生成する。
func NewInvalidTypeError(t string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidType,
		Message: fmt.Sprintf("無効な種別です: %s（lost または found を指定してください）", t),
	}
}

// NewInvalidItemStatusError はアイテムのステータス値が不正な場合のエラーを生成する。
func NewInvalidItemStatusError(s string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidStatus,
		Message: fmt.Sprintf("無効なステータスです: %s（active、claimed、returned のいずれかを指定してください）", s),
	}
}

// NewInvalidClaimStatusError は申請のステータス値が不正な場合のエラーを生成する。
func NewInvalidClaimStatusError(s string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidStatus,
		Message: fmt.Sprintf("無効なステータスです: %s（pending、approved、rejected のいずれかを指定してください）", s),
	}
}

// NewInvalidAnswersError はanswersが3件でない場合のエラーを生成する。
func NewInvalidAnswersError(got int) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidAnswers,
		Message: fmt.Sprintf("回答は3件指定してください（指定された件数: %d）", got),
	}
}

// NewInvalidQuestionsError は確認質問が3問でない場合のエラーを生成する。
func NewInvalidQuestionsError(got int) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidQuestions,
		Message: fmt.Sprintf("確認質問は3問指定してください（指定された件数: %d）", got),
	}
}

// NewInvalidImageURLError は画像URLが不正な場合のエラーを生成する。
func NewInvalidImageURLError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidURL,
		Message: fmt.Sprintf("無効な画像URLです: %s", reason),
	}
}

// NewItemNotFoundError はアイテム未検出エラーを生成する。
func NewItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:    ErrCodeItemNotFound,
		Message: fmt.Sprintf("指定されたアイテムが見つかりません: %s", itemID),
	}
}

// NewClaimNotFoundError は申請未検出エラーを生成する。
func NewClaimNotFoundError(claimID string) *APIError {
	return &APIError{
		Code:    ErrCodeClaimNotFound,
		Message: fmt.Sprintf("指定された申請が見つかりません: %s", claimID),
	}
}

// NewImageNotFoundError はメディアプロバイダーが画像を認識しない場合のエラーを生成する。
func NewImageNotFoundError(publicID string) *APIError {
	return &APIError{
		Code:    ErrCodeImageNotFound,
		Message: fmt.Sprintf("指定された画像が見つかりません: %s", publicID),
	}
}

// NewUploadFailedError は画像アップロードに失敗した場合のエラーを生成する。
func NewUploadFailedError() *APIError {
	return &APIError{
		Code:    ErrCodeUploadFailed,
		Message: "画像のアップロードに失敗しました。",
	}
}
