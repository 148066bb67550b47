package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"fstopo-fetcher/internal/domain/model"
	"fstopo-fetcher/internal/domain/repository"
)

// quadCodePattern はインデックスエントリのテキストから9桁のクアッドコードを
// 取り出すパターン（例: "Mount_Adams_East_460312124_FSTopo.tif"）
var quadCodePattern = regexp.MustCompile(`_([0-9]{9})_FSTopo\.tif`)

// IndexResolver は要求クアッドをカタログの実URLに解決する
type IndexResolver struct {
	indexRepo repository.QuadIndexRepository
	strict    bool
}

// NewIndexResolver は新しいIndexResolverインスタンスを作成する
//
// strictがtrueの場合、1ブロックのインデックス取得失敗で解決全体を中断する。
// falseの場合は該当ブロックをログに残してスキップし、残りを継続する。
func NewIndexResolver(indexRepo repository.QuadIndexRepository, strict bool) *IndexResolver {
	return &IndexResolver{
		indexRepo: indexRepo,
		strict:    strict,
	}
}

// Resolve はBlockMapの各ブロックをインデックスと突き合わせてURL一覧を解決する
//
// ブロックは挿入順、各ブロック内はインデックスページの掲載順を保持する。
// カタログに掲載のないブロック（空のエントリ一覧）は想定内として黙って
// スキップする。
func (r *IndexResolver) Resolve(ctx context.Context, blockMap *model.BlockMap) ([]model.ResourceLocator, error) {
	var locators []model.ResourceLocator

	for _, block := range blockMap.Blocks() {
		entries, err := r.indexRepo.ListBlock(ctx, block)
		if err != nil {
			if r.strict {
				return nil, fmt.Errorf("ブロック %s のインデックス取得失敗: %w", block, err)
			}
			log.Printf("⚠️ ブロック %s のインデックス取得に失敗したためスキップ: %v", block, err)
			continue
		}
		if len(entries) == 0 {
			// カタログ未掲載ブロック（National Forest外など）
			continue
		}

		requested := make(map[string]bool, len(blockMap.Quads(block)))
		for _, quad := range blockMap.Quads(block) {
			requested[quad.String()] = true
		}

		indexURL := r.indexRepo.BlockIndexURL(block)
		for _, entry := range entries {
			matches := quadCodePattern.FindStringSubmatch(entry.Text)
			if matches == nil {
				continue
			}
			if !requested[matches[1]] {
				continue
			}

			absolute, err := resolveReference(indexURL, entry.Href)
			if err != nil {
				log.Printf("⚠️ リンク %q の解決に失敗したためスキップ: %v", entry.Href, err)
				continue
			}
			if !strings.HasSuffix(absolute, model.QuadFileExtension) {
				continue
			}

			locators = append(locators, model.ResourceLocator(absolute))
		}
	}

	return locators, nil
}

// resolveReference は相対hrefをインデックスページURL基準の絶対URLに解決する
func resolveReference(baseURL, href string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
