package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/otoshimono/internal/model"
)

// PostgresClaimRepo はPostgreSQLを使用した申請リポジトリ。
type PostgresClaimRepo struct {
	db *sql.DB
}

// NewPostgresClaimRepo はPostgresClaimRepoを生成する。
func NewPostgresClaimRepo(db *sql.DB) *PostgresClaimRepo {
	return &PostgresClaimRepo{db: db}
}

// claimColumns はclaimsテーブルのSELECT対象カラム。
const claimColumns = `id, item_id, name, email, message, answers, proof_image_url,
	        status, created_at, updated_at`

// scanClaim は1行分の申請をスキャンする。
func scanClaim(row *sql.Row) (*model.Claim, error) {
	claim := &model.Claim{}
	var answers pq.StringArray
	var proofImageURL sql.NullString

	err := row.Scan(
		&claim.ID, &claim.ItemID, &claim.Name, &claim.Email, &claim.Message,
		&answers, &proofImageURL, &claim.Status, &claim.CreatedAt, &claim.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	claim.Answers = answers
	claim.ProofImageURL = nullStringValue(proofImageURL)
	return claim, nil
}

// List は申請一覧をcreated_at降順で返す。
// itemIDが空でない場合はitem_idで絞り込む。
func (r *PostgresClaimRepo) List(ctx context.Context, itemID string) ([]*model.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims ORDER BY created_at DESC`
	args := []interface{}{}

	if itemID != "" {
		query = `SELECT ` + claimColumns + ` FROM claims WHERE item_id = $1 ORDER BY created_at DESC`
		args = append(args, itemID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("申請一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var claims []*model.Claim
	for rows.Next() {
		claim := &model.Claim{}
		var answers pq.StringArray
		var proofImageURL sql.NullString

		if err := rows.Scan(
			&claim.ID, &claim.ItemID, &claim.Name, &claim.Email, &claim.Message,
			&answers, &proofImageURL, &claim.Status, &claim.CreatedAt, &claim.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("申請行の読み取りに失敗しました: %w", err)
		}

		claim.Answers = answers
		claim.ProofImageURL = nullStringValue(proofImageURL)
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("申請一覧の走査に失敗しました: %w", err)
	}

	return claims, nil
}

// FindByID は指定IDの申請を取得する。見つからない場合はnilを返す。
func (r *PostgresClaimRepo) FindByID(ctx context.Context, id string) (*model.Claim, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = $1`,
		id,
	)

	claim, err := scanClaim(row)
	if err != nil {
		return nil, fmt.Errorf("申請の取得に失敗しました: %w", err)
	}
	return claim, nil
}

// Create は申請を作成する。
func (r *PostgresClaimRepo) Create(ctx context.Context, claim *model.Claim) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO claims (id, item_id, name, email, message, answers,
		                     proof_image_url, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		claim.ID, claim.ItemID, claim.Name, claim.Email, claim.Message,
		pq.Array(claim.Answers), nullString(claim.ProofImageURL), claim.Status,
		claim.CreatedAt, claim.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("申請の作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateStatus は申請のステータスを更新し、更新後の行を返す。
// 対象が存在しない場合はnilを返す。
func (r *PostgresClaimRepo) UpdateStatus(ctx context.Context, id string, status model.ClaimStatus) (*model.Claim, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE claims SET status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+claimColumns,
		id, status,
	)

	claim, err := scanClaim(row)
	if err != nil {
		return nil, fmt.Errorf("申請のステータス更新に失敗しました: %w", err)
	}
	return claim, nil
}

// Delete は指定IDの申請を削除する。行が削除された場合はtrueを返す。
func (r *PostgresClaimRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM claims WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("申請の削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ ClaimRepository = (*PostgresClaimRepo)(nil)
