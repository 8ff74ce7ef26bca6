// Package media はメディアプロバイダー（Cloudinary）への画像リレー機能を提供する。
// base64エンコード画像のアップロードと、公開IDによる削除を含む。
// リトライ・バックオフ・冪等キーは持たず、失敗は呼び出し元へそのまま伝播する。
package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/otoshimono/internal/metrics"
)

const (
	// defaultBaseURL はCloudinary APIのベースURL。
	defaultBaseURL = "https://api.cloudinary.com/v1_1"
	// uploadFolder はアップロード先のフォルダ。
	uploadFolder = "lost-and-found"
	// uploadTransformation はアップロード時に適用する固定変換。
	// 1200x1200に収まるよう縮小し、品質・フォーマットは自動選択する。
	uploadTransformation = "c_limit,h_1200,w_1200,q_auto:good,f_auto"
)

// Config はClientの認証情報を保持する。
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// UploadResult は画像アップロードの結果。
type UploadResult struct {
	URL      string // ホスティング済み画像のURL
	PublicID string // プロバイダーが割り当てたアセットID
}

// Client はCloudinary REST APIのクライアント。
// 署名付きリクエストでアップロード・削除を行う。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	collector  metrics.MetricsCollector
	config     Config
	baseURL    string           // テスト用にエンドポイントを差し替え可能
	now        func() time.Time // テスト用に時刻を差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, collector metrics.MetricsCollector, config Config) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		collector:  collector,
		config:     config,
		baseURL:    defaultBaseURL,
		now:        time.Now,
	}
}

// uploadResponse はアップロードAPIのレスポンスボディ。
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// destroyResponse は削除APIのレスポンスボディ。
type destroyResponse struct {
	Result string `json:"result"`
}

// Upload はbase64エンコード画像をプロバイダーへ転送し、ホスティング済みURLを返す。
// 固定の変換（1200x1200制限、自動品質・自動フォーマット）を適用する。
// サーバー側でのコンテンツタイプ・サイズの検証は行わない。
func (c *Client) Upload(ctx context.Context, file string) (*UploadResult, error) {
	start := c.now()
	timestamp := strconv.FormatInt(start.Unix(), 10)

	// 署名対象パラメータ（api_key、file、signatureは署名に含めない）
	params := map[string]string{
		"folder":         uploadFolder,
		"timestamp":      timestamp,
		"transformation": uploadTransformation,
	}

	form := url.Values{}
	form.Set("file", file)
	form.Set("api_key", c.config.APIKey)
	form.Set("signature", c.sign(params))
	for k, v := range params {
		form.Set(k, v)
	}

	endpoint := fmt.Sprintf("%s/%s/auto/upload", c.baseURL, c.config.CloudName)
	var result uploadResponse
	if err := c.postForm(ctx, endpoint, form, &result); err != nil {
		c.collector.RecordUploadFailure()
		c.logger.Error("画像のアップロードに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.collector.RecordUploadSuccess()
	c.collector.RecordUploadLatency(c.now().Sub(start))

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
	}, nil
}

// Destroy は公開IDでプロバイダー上の画像を削除する。
// 削除された場合はtrueを、プロバイダーが画像を認識しない場合はfalseを返す。
func (c *Client) Destroy(ctx context.Context, publicID string) (bool, error) {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)

	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	form := url.Values{}
	form.Set("api_key", c.config.APIKey)
	form.Set("signature", c.sign(params))
	for k, v := range params {
		form.Set(k, v)
	}

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.config.CloudName)
	var result destroyResponse
	if err := c.postForm(ctx, endpoint, form, &result); err != nil {
		c.logger.Error("画像の削除に失敗しました",
			slog.String("error", err.Error()),
			slog.String("public_id", publicID),
		)
		return false, err
	}

	switch result.Result {
	case "ok":
		return true, nil
	case "not found":
		return false, nil
	default:
		return false, fmt.Errorf("メディアプロバイダーが想定外の結果を返しました: %s", result.Result)
	}
}

// postForm はフォームエンコードされたPOSTリクエストを送信し、JSONレスポンスをデコードする。
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("メディアプロバイダーへのリクエストに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("メディアプロバイダーがステータス %d を返しました: %s",
			resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	return nil
}

// sign はCloudinaryの署名を生成する。
// パラメータをキーの昇順で"key=value"形式に並べ、"&"で連結した文字列に
// APIシークレットを付加し、SHA-1ハッシュの16進表現を返す。
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	payload := strings.Join(pairs, "&") + c.config.APISecret
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// truncate は文字列を最大n文字に切り詰める。
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
