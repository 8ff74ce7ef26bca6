// Package claim はアイテムに対する所有権申請の管理機能を提供する。
package claim

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/otoshimono/internal/metrics"
	"github.com/hitoshi/otoshimono/internal/model"
	"github.com/hitoshi/otoshimono/internal/repository"
	"github.com/hitoshi/otoshimono/internal/security"
)

// ClaimService は申請のCRUDとバリデーションのサービス。
type ClaimService struct {
	repo      repository.ClaimRepository
	itemRepo  repository.ItemRepository
	sanitizer security.TextSanitizerService
	urlGuard  security.URLGuardService
	collector metrics.MetricsCollector
}

// NewClaimService はClaimServiceの新しいインスタンスを生成する。
func NewClaimService(
	repo repository.ClaimRepository,
	itemRepo repository.ItemRepository,
	sanitizer security.TextSanitizerService,
	urlGuard security.URLGuardService,
	collector metrics.MetricsCollector,
) *ClaimService {
	return &ClaimService{
		repo:      repo,
		itemRepo:  itemRepo,
		sanitizer: sanitizer,
		urlGuard:  urlGuard,
		collector: collector,
	}
}

// CreateClaimInput は申請作成の入力。
type CreateClaimInput struct {
	ItemID        string
	Name          string
	Email         string
	Message       string
	Answers       []string // 3件必須。アイテムの確認質問と位置で対応する
	ProofImageURL string   // 任意
}

// ListClaims は申請一覧をcreated_at降順で返す。
// itemIDが空でない場合はitem_idで絞り込む。
func (s *ClaimService) ListClaims(ctx context.Context, itemID string) ([]*model.Claim, error) {
	return s.repo.List(ctx, itemID)
}

// CreateClaim は申請を作成する。
// 必須フィールドと回答件数（3件）を検証し、参照先アイテムの存在を確認する。
// 回答は申請時点のアイテムの確認質問と位置で対応する。
// アイテムがその後編集されても再検証は行わない。
func (s *ClaimService) CreateClaim(ctx context.Context, input CreateClaimInput) (*model.Claim, error) {
	var missing []string
	if input.ItemID == "" {
		missing = append(missing, "itemId")
	}
	if input.Name == "" {
		missing = append(missing, "name")
	}
	if input.Email == "" {
		missing = append(missing, "email")
	}
	if input.Message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(missing...)
	}

	if len(input.Answers) != model.VerificationQuestionCount {
		return nil, model.NewInvalidAnswersError(len(input.Answers))
	}

	if input.ProofImageURL != "" {
		if err := s.urlGuard.ValidateURL(input.ProofImageURL); err != nil {
			return nil, model.NewInvalidImageURLError(err.Error())
		}
	}

	// 参照先アイテムの存在確認。
	// FK違反を500で返すのではなく、404として返す。
	item, err := s.itemRepo.FindByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.NewItemNotFoundError(input.ItemID)
	}

	now := time.Now().UTC()
	claim := &model.Claim{
		ID:            uuid.NewString(),
		ItemID:        input.ItemID,
		Name:          s.sanitizer.Sanitize(input.Name),
		Email:         input.Email,
		Message:       s.sanitizer.Sanitize(input.Message),
		Answers:       s.sanitizer.SanitizeAll(input.Answers),
		ProofImageURL: input.ProofImageURL,
		Status:        model.ClaimStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, claim); err != nil {
		return nil, err
	}

	s.collector.RecordClaimCreated()
	return claim, nil
}

// UpdateStatus は申請のステータスを更新する。
// 不正なステータス値はエラーを返す。対象が存在しない場合はCLAIM_NOT_FOUNDエラーを返す。
// 承認しても参照先アイテムのステータスは変更しない（管理者が別途更新する運用）。
// 承認・却下後の再遷移は許可する（管理者による判定の訂正を想定）。
func (s *ClaimService) UpdateStatus(ctx context.Context, id, status string) (*model.Claim, error) {
	if !model.ValidClaimStatus(model.ClaimStatus(status)) {
		return nil, model.NewInvalidClaimStatusError(status)
	}

	claim, err := s.repo.UpdateStatus(ctx, id, model.ClaimStatus(status))
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, model.NewClaimNotFoundError(id)
	}
	return claim, nil
}

// DeleteClaim は指定IDの申請を削除する。
// 対象が存在しない場合はCLAIM_NOT_FOUNDエラーを返す。
func (s *ClaimService) DeleteClaim(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.NewClaimNotFoundError(id)
	}
	return nil
}
