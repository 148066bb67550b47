package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"fstopo-fetcher/internal/domain/model"
	"fstopo-fetcher/internal/domain/service"
)

// QuadResolveUseCase はserveモード向けにクアッド解決だけを実行する
// （ダウンロードは行わない読み取り専用パイプライン）
type QuadResolveUseCase interface {
	// ResolveQuads は領域からブロックごとのクアッドとURL一覧を解決する
	ResolveQuads(ctx context.Context, region orb.Geometry) (*model.QuadListResponse, error)
}

// quadResolveUseCaseImpl はQuadResolveUseCaseの実装
type quadResolveUseCaseImpl struct {
	enumerator *service.GridEnumerator
	grouper    *service.BlockGrouper
	resolver   *service.IndexResolver
}

// NewQuadResolveUseCase は新しいQuadResolveUseCaseインスタンスを作成する
func NewQuadResolveUseCase(
	enumerator *service.GridEnumerator,
	grouper *service.BlockGrouper,
	resolver *service.IndexResolver,
) QuadResolveUseCase {
	return &quadResolveUseCaseImpl{
		enumerator: enumerator,
		grouper:    grouper,
		resolver:   resolver,
	}
}

// ResolveQuads は領域からブロックごとのクアッドとURL一覧を解決する
func (u *quadResolveUseCaseImpl) ResolveQuads(ctx context.Context, region orb.Geometry) (*model.QuadListResponse, error) {
	cells := u.enumerator.EnumerateCells(region, model.QuadCellSizeDegrees, 0)
	blockMap := u.grouper.Group(cells)

	blocks := make([]model.BlockQuads, 0, blockMap.Len())
	for _, block := range blockMap.Blocks() {
		// ブロック単位でBlockMapを切り出して解決し、URLをブロックに帰属させる
		single := model.NewBlockMap()
		for _, quad := range blockMap.Quads(block) {
			single.Append(block, quad)
		}
		locators, err := u.resolver.Resolve(ctx, single)
		if err != nil {
			return nil, fmt.Errorf("ブロック %s の解決失敗: %w", block, err)
		}

		quadIDs := make([]string, 0, len(blockMap.Quads(block)))
		for _, quad := range blockMap.Quads(block) {
			quadIDs = append(quadIDs, quad.String())
		}
		urls := make([]string, 0, len(locators))
		for _, locator := range locators {
			urls = append(urls, string(locator))
		}

		blocks = append(blocks, model.BlockQuads{
			BlockID: block.String(),
			QuadIDs: quadIDs,
			URLs:    urls,
		})
	}

	return &model.QuadListResponse{
		RequestID: uuid.New().String(),
		Blocks:    blocks,
	}, nil
}
