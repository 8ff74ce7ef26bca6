// Package model はドメインモデルを定義する。
package model

import "time"

// Item は落とし物・拾得物の投稿を表す。
type Item struct {
	ID                    string
	Type                  ItemType
	Title                 string
	Description           string
	Location              string
	Date                  string // YYYY-MM-DD形式
	ImageURL              string // プライマリ画像
	ImageURLs             []string
	ContactEmail          string
	Status                ItemStatus
	VerificationQuestions []string // 常に3問
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ItemType は投稿の種別（紛失・拾得）を表す。
type ItemType string

const (
	// ItemTypeLost は紛失物の投稿。
	ItemTypeLost ItemType = "lost"
	// ItemTypeFound は拾得物の投稿。
	ItemTypeFound ItemType = "found"
)

// ValidItemType はtypeが定義済みの値かを検証する。
func ValidItemType(t ItemType) bool {
	return t == ItemTypeLost || t == ItemTypeFound
}

// ItemStatus はアイテムのステータスを表す。
type ItemStatus string

const (
	// ItemStatusActive は掲載中のステータス。
	ItemStatusActive ItemStatus = "active"
	// ItemStatusClaimed は申請受理済みのステータス。
	ItemStatusClaimed ItemStatus = "claimed"
	// ItemStatusReturned は返却済みのステータス。
	ItemStatusReturned ItemStatus = "returned"
)

// ValidItemStatus はstatusが定義済みの値かを検証する。
func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemStatusActive, ItemStatusClaimed, ItemStatusReturned:
		return true
	}
	return false
}

// VerificationQuestionCount はアイテムに紐づく確認質問の数。
// 申請のanswersと位置で対応するため固定とする。
const VerificationQuestionCount = 3
