// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/otoshimono/internal/model"
)

// ItemRepository はアイテムデータの永続化インターフェース。
type ItemRepository interface {
	// List はアイテム一覧をcreated_at降順で返す。
	// itemTypeが空でない場合はtypeで絞り込む。
	List(ctx context.Context, itemType model.ItemType) ([]*model.Item, error)

	// FindByID は指定IDのアイテムを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Item, error)

	// Create はアイテムを作成する。
	Create(ctx context.Context, item *model.Item) error

	// UpdateStatus はアイテムのステータスを更新し、更新後の行を返す。
	// 対象が存在しない場合はnilを返す。
	UpdateStatus(ctx context.Context, id string, status model.ItemStatus) (*model.Item, error)

	// Delete は指定IDのアイテムを削除する。
	// 行が削除された場合はtrueを返す。関連する申請はCASCADE削除される。
	Delete(ctx context.Context, id string) (bool, error)
}

// ClaimRepository は申請データの永続化インターフェース。
type ClaimRepository interface {
	// List は申請一覧をcreated_at降順で返す。
	// itemIDが空でない場合はitem_idで絞り込む。
	List(ctx context.Context, itemID string) ([]*model.Claim, error)

	// FindByID は指定IDの申請を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Claim, error)

	// Create は申請を作成する。
	Create(ctx context.Context, claim *model.Claim) error

	// UpdateStatus は申請のステータスを更新し、更新後の行を返す。
	// 対象が存在しない場合はnilを返す。
	UpdateStatus(ctx context.Context, id string, status model.ClaimStatus) (*model.Claim, error)

	// Delete は指定IDの申請を削除する。行が削除された場合はtrueを返す。
	Delete(ctx context.Context, id string) (bool, error)
}
