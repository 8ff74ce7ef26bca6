package item

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/otoshimono/internal/model"
)

// --- モック定義 ---

// mockItemRepo はrepository.ItemRepositoryのモック実装。
type mockItemRepo struct {
	listFn         func(ctx context.Context, itemType model.ItemType) ([]*model.Item, error)
	findByIDFn     func(ctx context.Context, id string) (*model.Item, error)
	createFn       func(ctx context.Context, item *model.Item) error
	updateStatusFn func(ctx context.Context, id string, status model.ItemStatus) (*model.Item, error)
	deleteFn       func(ctx context.Context, id string) (bool, error)
}

func (m *mockItemRepo) List(ctx context.Context, itemType model.ItemType) ([]*model.Item, error) {
	if m.listFn != nil {
		return m.listFn(ctx, itemType)
	}
	return nil, nil
}

func (m *mockItemRepo) FindByID(ctx context.Context, id string) (*model.Item, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockItemRepo) Create(ctx context.Context, item *model.Item) error {
	if m.createFn != nil {
		return m.createFn(ctx, item)
	}
	return nil
}

func (m *mockItemRepo) UpdateStatus(ctx context.Context, id string, status model.ItemStatus) (*model.Item, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil, nil
}

func (m *mockItemRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}

// mockSanitizer はそのまま返すサニタイザーのモック実装。
type mockSanitizer struct {
	sanitizeFn func(raw string) string
}

func (m *mockSanitizer) Sanitize(raw string) string {
	if m.sanitizeFn != nil {
		return m.sanitizeFn(raw)
	}
	return raw
}

func (m *mockSanitizer) SanitizeAll(raws []string) []string {
	if raws == nil {
		return nil
	}
	cleaned := make([]string, len(raws))
	for i, raw := range raws {
		cleaned[i] = m.Sanitize(raw)
	}
	return cleaned
}

// mockURLGuard はURLGuardServiceのモック実装。
type mockURLGuard struct {
	validateURLFn func(rawURL string) error
}

func (m *mockURLGuard) NewSafeClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (m *mockURLGuard) ValidateURL(rawURL string) error {
	if m.validateURLFn != nil {
		return m.validateURLFn(rawURL)
	}
	return nil
}

// mockCollector は呼び出し回数を数えるメトリクスコレクターのモック実装。
type mockCollector struct {
	itemsCreated int
}

func (m *mockCollector) RecordHTTPStatus(statusCode int) {}

func (m *mockCollector) RecordItemCreated() { m.itemsCreated++ }

func (m *mockCollector) RecordClaimCreated() {}

func (m *mockCollector) RecordUploadSuccess() {}

func (m *mockCollector) RecordUploadFailure() {}

func (m *mockCollector) RecordUploadLatency(duration time.Duration) {}

func newTestService(repo *mockItemRepo) (*ItemService, *mockCollector) {
	collector := &mockCollector{}
	svc := NewItemService(repo, &mockSanitizer{}, &mockURLGuard{}, collector)
	return svc, collector
}

func validInput() CreateItemInput {
	return CreateItemInput{
		Type:         "lost",
		Title:        "黒い財布",
		Description:  "図書館で失くしました",
		Location:     "中央図書館 2階",
		Date:         "2026-08-20",
		ContactEmail: "student@example.ac.jp",
	}
}

// --- CreateItem テスト ---

func TestCreateItem_AllRequiredFields_CreatesWithDefaults(t *testing.T) {
	var created *model.Item
	repo := &mockItemRepo{
		createFn: func(ctx context.Context, item *model.Item) error {
			created = item
			return nil
		},
	}
	svc, collector := newTestService(repo)

	item, err := svc.CreateItem(context.Background(), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if created == nil {
		t.Fatal("expected repo.Create to be called")
	}
	if item.ID == "" {
		t.Error("expected generated ID")
	}
	if item.Status != model.ItemStatusActive {
		t.Errorf("Status = %q, want %q", item.Status, model.ItemStatusActive)
	}
	if item.ImageURL != defaultImageURL {
		t.Errorf("ImageURL = %q, want placeholder %q", item.ImageURL, defaultImageURL)
	}
	if len(item.VerificationQuestions) != model.VerificationQuestionCount {
		t.Errorf("VerificationQuestions length = %d, want %d",
			len(item.VerificationQuestions), model.VerificationQuestionCount)
	}
	if item.VerificationQuestions[0] != defaultQuestions[0] {
		t.Errorf("VerificationQuestions[0] = %q, want placeholder %q",
			item.VerificationQuestions[0], defaultQuestions[0])
	}
	if collector.itemsCreated != 1 {
		t.Errorf("itemsCreated = %d, want 1", collector.itemsCreated)
	}
}

func TestCreateItem_MissingRequiredFields_ReturnsError(t *testing.T) {
	repo := &mockItemRepo{
		createFn: func(ctx context.Context, item *model.Item) error {
			t.Error("repo.Create should not be called")
			return nil
		},
	}
	svc, collector := newTestService(repo)

	input := validInput()
	input.Title = ""
	input.ContactEmail = ""

	_, err := svc.CreateItem(context.Background(), input)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeMissingFields {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMissingFields)
	}
	if !strings.Contains(apiErr.Message, "title") || !strings.Contains(apiErr.Message, "contactEmail") {
		t.Errorf("message should name the missing fields, got %q", apiErr.Message)
	}
	if collector.itemsCreated != 0 {
		t.Errorf("itemsCreated = %d, want 0", collector.itemsCreated)
	}
}

func TestCreateItem_InvalidType_ReturnsError(t *testing.T) {
	svc, _ := newTestService(&mockItemRepo{})

	input := validInput()
	input.Type = "stolen"

	_, err := svc.CreateItem(context.Background(), input)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidType {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidType)
	}
}

func TestCreateItem_ExplicitImageURL_Preserved(t *testing.T) {
	svc, _ := newTestService(&mockItemRepo{})

	input := validInput()
	input.ImageURL = "https://example.com/photo.jpg"

	item, err := svc.CreateItem(context.Background(), input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.ImageURL != "https://example.com/photo.jpg" {
		t.Errorf("ImageURL = %q, want submitted URL", item.ImageURL)
	}
}

func TestCreateItem_BlockedImageURL_ReturnsError(t *testing.T) {
	collector := &mockCollector{}
	guard := &mockURLGuard{
		validateURLFn: func(rawURL string) error {
			return errors.New("blocked IP address: 169.254.169.254")
		},
	}
	svc := NewItemService(&mockItemRepo{}, &mockSanitizer{}, guard, collector)

	input := validInput()
	input.ImageURL = "http://169.254.169.254/latest/meta-data"

	_, err := svc.CreateItem(context.Background(), input)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidURL {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidURL)
	}
}

func TestCreateItem_WrongQuestionCount_ReturnsError(t *testing.T) {
	svc, _ := newTestService(&mockItemRepo{})

	input := validInput()
	input.VerificationQuestions = []string{"色は？", "ブランドは？"}

	_, err := svc.CreateItem(context.Background(), input)
	if err == nil {
		t.Fatal("expected error for 2 questions, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidQuestions {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidQuestions)
	}
}

func TestCreateItem_SanitizesFreeText(t *testing.T) {
	collector := &mockCollector{}
	sanitizer := &mockSanitizer{
		sanitizeFn: func(raw string) string {
			return strings.ReplaceAll(raw, "<script>", "")
		},
	}
	svc := NewItemService(&mockItemRepo{}, sanitizer, &mockURLGuard{}, collector)

	input := validInput()
	input.Title = "<script>財布"

	item, err := svc.CreateItem(context.Background(), input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Title != "財布" {
		t.Errorf("Title = %q, want sanitized %q", item.Title, "財布")
	}
}

// --- ListItems テスト ---

func TestListItems_TypeFilter_PassedToRepo(t *testing.T) {
	var gotType model.ItemType
	repo := &mockItemRepo{
		listFn: func(ctx context.Context, itemType model.ItemType) ([]*model.Item, error) {
			gotType = itemType
			return []*model.Item{}, nil
		},
	}
	svc, _ := newTestService(repo)

	if _, err := svc.ListItems(context.Background(), "lost"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotType != model.ItemTypeLost {
		t.Errorf("repo received type %q, want %q", gotType, model.ItemTypeLost)
	}
}

func TestListItems_InvalidTypeFilter_ReturnsError(t *testing.T) {
	svc, _ := newTestService(&mockItemRepo{})

	_, err := svc.ListItems(context.Background(), "misplaced")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidType {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidType)
	}
}

func TestListItems_NoFilter_PassesEmptyType(t *testing.T) {
	var gotType model.ItemType
	repo := &mockItemRepo{
		listFn: func(ctx context.Context, itemType model.ItemType) ([]*model.Item, error) {
			gotType = itemType
			return nil, nil
		},
	}
	svc, _ := newTestService(repo)

	if _, err := svc.ListItems(context.Background(), ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotType != "" {
		t.Errorf("repo received type %q, want empty", gotType)
	}
}

// --- GetItem テスト ---

func TestGetItem_NotFound_ReturnsError(t *testing.T) {
	repo := &mockItemRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Item, error) {
			return nil, nil
		},
	}
	svc, _ := newTestService(repo)

	_, err := svc.GetItem(context.Background(), "missing-id")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeItemNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeItemNotFound)
	}
}

// --- UpdateStatus テスト ---

func TestUpdateStatus_InvalidStatus_ReturnsError(t *testing.T) {
	svc, _ := newTestService(&mockItemRepo{})

	_, err := svc.UpdateStatus(context.Background(), "item-1", "lost")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidStatus {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidStatus)
	}
}

func TestUpdateStatus_NotFound_ReturnsError(t *testing.T) {
	repo := &mockItemRepo{
		updateStatusFn: func(ctx context.Context, id string, status model.ItemStatus) (*model.Item, error) {
			return nil, nil
		},
	}
	svc, _ := newTestService(repo)

	_, err := svc.UpdateStatus(context.Background(), "missing-id", "claimed")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeItemNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeItemNotFound)
	}
}

func TestUpdateStatus_Success_ReturnsUpdatedItem(t *testing.T) {
	repo := &mockItemRepo{
		updateStatusFn: func(ctx context.Context, id string, status model.ItemStatus) (*model.Item, error) {
			return &model.Item{ID: id, Status: status}, nil
		},
	}
	svc, _ := newTestService(repo)

	item, err := svc.UpdateStatus(context.Background(), "item-1", "returned")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Status != model.ItemStatusReturned {
		t.Errorf("Status = %q, want %q", item.Status, model.ItemStatusReturned)
	}
}

// --- DeleteItem テスト ---

func TestDeleteItem_NotFound_ReturnsError(t *testing.T) {
	repo := &mockItemRepo{
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc, _ := newTestService(repo)

	err := svc.DeleteItem(context.Background(), "missing-id")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeItemNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeItemNotFound)
	}
}

func TestDeleteItem_Success(t *testing.T) {
	repo := &mockItemRepo{
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return true, nil
		},
	}
	svc, _ := newTestService(repo)

	if err := svc.DeleteItem(context.Background(), "item-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
