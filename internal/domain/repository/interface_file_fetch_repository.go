package repository

import (
	"context"
	"errors"

	"fstopo-fetcher/internal/domain/model"
)

// ErrResourceNotFound はリモートリソースが存在しない（404/410）ことを示す
var ErrResourceNotFound = errors.New("リモートリソースが見つかりません")

// FileFetchRepository は1リソースのダウンロードを抽象化する
type FileFetchRepository interface {
	// Fetch はURLのリソースをdestPathに取得する。
	// リソースが存在しない場合はErrResourceNotFoundをラップしたエラーを返す。
	// 失敗時に中途半端なファイルを残してはならない。
	Fetch(ctx context.Context, locator model.ResourceLocator, destPath string) error
}
