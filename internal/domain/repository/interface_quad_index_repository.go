package repository

import (
	"context"

	"fstopo-fetcher/internal/domain/model"
)

// QuadIndexRepository はブロック別インデックスページの取得を抽象化する
type QuadIndexRepository interface {
	// ListBlock は指定ブロックのインデックスページからエントリ一覧を取得する。
	// ページにエントリが存在しない場合（カタログ未掲載ブロック）は
	// エラーではなく空スライスを返す。
	ListBlock(ctx context.Context, block model.BlockID) ([]model.QuadIndexEntry, error)

	// BlockIndexURL は指定ブロックのインデックスページURLを取得する。
	// エントリの相対hrefはこのURLを基準に解決する。
	BlockIndexURL(block model.BlockID) string
}
