// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はユーザー入力のフリーテキストをサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
// 投稿のタイトル・説明・確認質問、申請の名前・メッセージ・回答など、
// プレーンテキストとして扱うフィールドの保存前に使用される。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はフリーテキストのサニタイズ機能のインターフェースを定義する。
type TextSanitizerService interface {
	// Sanitize はテキストからすべてのHTMLタグを除去したプレーンテキストを返す。
	// 前後の空白も除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string

	// SanitizeAll は各要素をSanitizeした新しいスライスを返す。
	SanitizeAll(raws []string) []string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはすべてのタグと属性を除去する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストからすべてのHTMLタグを除去したプレーンテキストを返す。
// bluemondayはエンティティをエスケープして返すため、
// プレーンテキストとして保存できるようアンエスケープする。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// SanitizeAll は各要素をSanitizeした新しいスライスを返す。
func (s *textSanitizer) SanitizeAll(raws []string) []string {
	if raws == nil {
		return nil
	}
	cleaned := make([]string, len(raws))
	for i, raw := range raws {
		cleaned[i] = s.Sanitize(raw)
	}
	return cleaned
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
