// Package item は落とし物・拾得物投稿の管理機能を提供する。
package item

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/otoshimono/internal/metrics"
	"github.com/hitoshi/otoshimono/internal/model"
	"github.com/hitoshi/otoshimono/internal/repository"
	"github.com/hitoshi/otoshimono/internal/security"
)

const (
	// defaultImageURL は画像未指定時のプレースホルダー画像URL。
	defaultImageURL = "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400&h=300&fit=crop"
)

// defaultQuestions は確認質問未指定時のプレースホルダー質問。
var defaultQuestions = []string{"Question 1?", "Question 2?", "Question 3?"}

// ItemService はアイテムのCRUDとバリデーションのサービス。
type ItemService struct {
	repo      repository.ItemRepository
	sanitizer security.TextSanitizerService
	urlGuard  security.URLGuardService
	collector metrics.MetricsCollector
}

// NewItemService はItemServiceの新しいインスタンスを生成する。
func NewItemService(
	repo repository.ItemRepository,
	sanitizer security.TextSanitizerService,
	urlGuard security.URLGuardService,
	collector metrics.MetricsCollector,
) *ItemService {
	return &ItemService{
		repo:      repo,
		sanitizer: sanitizer,
		urlGuard:  urlGuard,
		collector: collector,
	}
}

// CreateItemInput はアイテム作成の入力。
type CreateItemInput struct {
	Type                  string
	Title                 string
	Description           string
	Location              string
	Date                  string
	ImageURL              string   // 任意。未指定時はプレースホルダー
	ImageURLs             []string // 任意
	ContactEmail          string
	VerificationQuestions []string // 任意。未指定時はプレースホルダー3問
}

// ListItems はアイテム一覧をcreated_at降順で返す。
// itemTypeが空でない場合はtypeで絞り込む。不正なtype値はエラーを返す。
func (s *ItemService) ListItems(ctx context.Context, itemType string) ([]*model.Item, error) {
	if itemType != "" && !model.ValidItemType(model.ItemType(itemType)) {
		return nil, model.NewInvalidTypeError(itemType)
	}
	return s.repo.List(ctx, model.ItemType(itemType))
}

// GetItem は指定IDのアイテムを返す。見つからない場合はITEM_NOT_FOUNDエラーを返す。
func (s *ItemService) GetItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.NewItemNotFoundError(id)
	}
	return item, nil
}

// CreateItem はアイテムを作成する。
// 必須フィールドの検証、種別の検証、フリーテキストのサニタイズ、
// 画像URLの検証を行い、画像・確認質問が未指定の場合はプレースホルダーを補完する。
func (s *ItemService) CreateItem(ctx context.Context, input CreateItemInput) (*model.Item, error) {
	var missing []string
	if input.Type == "" {
		missing = append(missing, "type")
	}
	if input.Title == "" {
		missing = append(missing, "title")
	}
	if input.Description == "" {
		missing = append(missing, "description")
	}
	if input.Location == "" {
		missing = append(missing, "location")
	}
	if input.Date == "" {
		missing = append(missing, "date")
	}
	if input.ContactEmail == "" {
		missing = append(missing, "contactEmail")
	}
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(missing...)
	}

	if !model.ValidItemType(model.ItemType(input.Type)) {
		return nil, model.NewInvalidTypeError(input.Type)
	}

	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = defaultImageURL
	} else if err := s.urlGuard.ValidateURL(imageURL); err != nil {
		return nil, model.NewInvalidImageURLError(err.Error())
	}
	for _, u := range input.ImageURLs {
		if err := s.urlGuard.ValidateURL(u); err != nil {
			return nil, model.NewInvalidImageURLError(err.Error())
		}
	}

	questions := input.VerificationQuestions
	if len(questions) == 0 {
		questions = defaultQuestions
	}
	if len(questions) != model.VerificationQuestionCount {
		return nil, model.NewInvalidQuestionsError(len(questions))
	}

	now := time.Now().UTC()
	item := &model.Item{
		ID:                    uuid.NewString(),
		Type:                  model.ItemType(input.Type),
		Title:                 s.sanitizer.Sanitize(input.Title),
		Description:           s.sanitizer.Sanitize(input.Description),
		Location:              s.sanitizer.Sanitize(input.Location),
		Date:                  input.Date,
		ImageURL:              imageURL,
		ImageURLs:             input.ImageURLs,
		ContactEmail:          input.ContactEmail,
		Status:                model.ItemStatusActive,
		VerificationQuestions: s.sanitizer.SanitizeAll(questions),
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.collector.RecordItemCreated()
	return item, nil
}

// UpdateStatus はアイテムのステータスを更新する。
// 不正なステータス値はエラーを返す。対象が存在しない場合はITEM_NOT_FOUNDエラーを返す。
func (s *ItemService) UpdateStatus(ctx context.Context, id, status string) (*model.Item, error) {
	if !model.ValidItemStatus(model.ItemStatus(status)) {
		return nil, model.NewInvalidItemStatusError(status)
	}

	item, err := s.repo.UpdateStatus(ctx, id, model.ItemStatus(status))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.NewItemNotFoundError(id)
	}
	return item, nil
}

// DeleteItem は指定IDのアイテムを削除する。
// 対象が存在しない場合はITEM_NOT_FOUNDエラーを返す。
// 関連する申請はデータベースのCASCADE制約で削除される。
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.NewItemNotFoundError(id)
	}
	return nil
}
