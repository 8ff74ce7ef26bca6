// Package model はドメインモデルを定義する。
package model

import "time"

// Claim はアイテムに対する所有権の申請を表す。
// answersはアイテムの確認質問と位置（インデックス）で対応する。
type Claim struct {
	ID            string
	ItemID        string
	Name          string
	Email         string
	Message       string
	Answers       []string // 常に3件
	ProofImageURL string   // 任意
	Status        ClaimStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClaimStatus は申請のステータスを表す。
type ClaimStatus string

const (
	// ClaimStatusPending は審査待ちのステータス。
	ClaimStatusPending ClaimStatus = "pending"
	// ClaimStatusApproved は承認済みのステータス。
	ClaimStatusApproved ClaimStatus = "approved"
	// ClaimStatusRejected は却下済みのステータス。
	ClaimStatusRejected ClaimStatus = "rejected"
)

// ValidClaimStatus はstatusが定義済みの値かを検証する。
func ValidClaimStatus(s ClaimStatus) bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}
