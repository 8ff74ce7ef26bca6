package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/otoshimono/internal/model"
)

// PostgresItemRepo はPostgreSQLを使用したアイテムリポジトリ。
type PostgresItemRepo struct {
	db *sql.DB
}

// NewPostgresItemRepo はPostgresItemRepoを生成する。
func NewPostgresItemRepo(db *sql.DB) *PostgresItemRepo {
	return &PostgresItemRepo{db: db}
}

// itemColumns はitemsテーブルのSELECT対象カラム。
const itemColumns = `id, type, title, description, location, date, image_url, image_urls,
	        contact_email, status, verification_questions, created_at, updated_at`

// scanItem は1行分のアイテムをスキャンする。
func scanItem(row *sql.Row) (*model.Item, error) {
	item := &model.Item{}
	var imageURLs pq.StringArray
	var questions pq.StringArray

	err := row.Scan(
		&item.ID, &item.Type, &item.Title, &item.Description, &item.Location,
		&item.Date, &item.ImageURL, &imageURLs, &item.ContactEmail, &item.Status,
		&questions, &item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item.ImageURLs = imageURLs
	item.VerificationQuestions = questions
	return item, nil
}

// List はアイテム一覧をcreated_at降順で返す。
// itemTypeが空でない場合はtypeで絞り込む。
func (r *PostgresItemRepo) List(ctx context.Context, itemType model.ItemType) ([]*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC`
	args := []interface{}{}

	if itemType != "" {
		query = `SELECT ` + itemColumns + ` FROM items WHERE type = $1 ORDER BY created_at DESC`
		args = append(args, itemType)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var items []*model.Item
	for rows.Next() {
		item := &model.Item{}
		var imageURLs pq.StringArray
		var questions pq.StringArray

		if err := rows.Scan(
			&item.ID, &item.Type, &item.Title, &item.Description, &item.Location,
			&item.Date, &item.ImageURL, &imageURLs, &item.ContactEmail, &item.Status,
			&questions, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("アイテム行の読み取りに失敗しました: %w", err)
		}

		item.ImageURLs = imageURLs
		item.VerificationQuestions = questions
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("アイテム一覧の走査に失敗しました: %w", err)
	}

	return items, nil
}

// FindByID は指定IDのアイテムを取得する。見つからない場合はnilを返す。
func (r *PostgresItemRepo) FindByID(ctx context.Context, id string) (*model.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`,
		id,
	)

	item, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("アイテムの取得に失敗しました: %w", err)
	}
	return item, nil
}

// Create はアイテムを作成する。
func (r *PostgresItemRepo) Create(ctx context.Context, item *model.Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (id, type, title, description, location, date,
		                    image_url, image_urls, contact_email, status,
		                    verification_questions, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		item.ID, item.Type, item.Title, item.Description, item.Location, item.Date,
		item.ImageURL, pq.Array(item.ImageURLs), item.ContactEmail, item.Status,
		pq.Array(item.VerificationQuestions), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("アイテムの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateStatus はアイテムのステータスを更新し、更新後の行を返す。
// 対象が存在しない場合はnilを返す。
func (r *PostgresItemRepo) UpdateStatus(ctx context.Context, id string, status model.ItemStatus) (*model.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE items SET status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+itemColumns,
		id, status,
	)

	item, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("アイテムのステータス更新に失敗しました: %w", err)
	}
	return item, nil
}

// Delete は指定IDのアイテムを削除する。行が削除された場合はtrueを返す。
func (r *PostgresItemRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("アイテムの削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ ItemRepository = (*PostgresItemRepo)(nil)
