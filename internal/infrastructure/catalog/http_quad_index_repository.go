package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fstopo-fetcher/internal/domain/model"
	"fstopo-fetcher/internal/domain/repository"
)

// HTTPQuadIndexRepository はUSFSラスターゲートウェイのインデックスページを
// 取得・解析するQuadIndexRepositoryの実装
type HTTPQuadIndexRepository struct {
	baseURL string
	client  *http.Client
}

// NewHTTPQuadIndexRepository は新しいHTTPQuadIndexRepositoryを作成する
//
// baseURLが空の場合はデフォルトのカタログURLを使用する。
func NewHTTPQuadIndexRepository(baseURL string) repository.QuadIndexRepository {
	if baseURL == "" {
		baseURL = model.DefaultCatalogBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &HTTPQuadIndexRepository{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BlockIndexURL は指定ブロックのインデックスページURLを取得する
func (r *HTTPQuadIndexRepository) BlockIndexURL(block model.BlockID) string {
	return fmt.Sprintf("%s%s?blockID=%s", r.baseURL, model.QuadIndexPage, block)
}

// ListBlock はインデックスページの #skipheader li a エントリを抽出する
//
// HTTPエラーステータス（存在しないブロックIDはゲートウェイが
// エラーページを返す）はエントリなしとして扱い、空スライスを返す。
// エラーを返すのは通信自体に失敗した場合のみ。
func (r *HTTPQuadIndexRepository) ListBlock(ctx context.Context, block model.BlockID) ([]model.QuadIndexEntry, error) {
	indexURL := r.BlockIndexURL(block)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, fmt.Errorf("インデックスリクエストの作成失敗: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("インデックスページの取得失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("インデックスページの解析失敗: %w", err)
	}

	var entries []model.QuadIndexEntry
	doc.Find("#skipheader li a").Each(func(_ int, sel *goquery.Selection) {
		entries = append(entries, model.QuadIndexEntry{
			Text: strings.TrimSpace(sel.Text()),
			Href: sel.AttrOr("href", ""),
		})
	})

	return entries, nil
}
