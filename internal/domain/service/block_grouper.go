package service

import (
	"fstopo-fetcher/internal/domain/model"
)

// BlockGrouper はセル列をブロック識別子ごとのクアッド一覧に集約する
type BlockGrouper struct {
	encoder *BlockIdentifierEncoder
}

// NewBlockGrouper は新しいBlockGrouperインスタンスを作成する
func NewBlockGrouper(encoder *BlockIdentifierEncoder) *BlockGrouper {
	return &BlockGrouper{
		encoder: encoder,
	}
}

// Group はセル列を入力順に走査してBlockMapを構築する
//
// 隣接セルが同じクアッドを導出することがあるが、重複は除去しない。
// 下流のIndexResolverが集合メンバーシップでフィルタするため実害はない。
func (g *BlockGrouper) Group(cells []model.Cell) *model.BlockMap {
	blockMap := model.NewBlockMap()
	for _, cell := range cells {
		block, quad := g.encoder.Encode(cell)
		blockMap.Append(block, quad)
	}
	return blockMap
}
