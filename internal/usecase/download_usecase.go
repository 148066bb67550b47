package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"fstopo-fetcher/internal/domain/model"
	"fstopo-fetcher/internal/domain/repository"
	"fstopo-fetcher/internal/domain/service"
)

// DownloadUseCase はFSTopoクアッドのダウンロードパイプライン全体を実行する
type DownloadUseCase interface {
	// Download は領域からセル列挙・識別子導出・URL解決・取得までを実行する
	Download(ctx context.Context, req *model.DownloadRequest) (*model.DownloadResult, error)
}

// downloadUseCaseImpl はDownloadUseCaseの実装
type downloadUseCaseImpl struct {
	enumerator *service.GridEnumerator
	grouper    *service.BlockGrouper
	resolver   *service.IndexResolver
	fetchRepo  repository.FileFetchRepository
}

// NewDownloadUseCase は新しいDownloadUseCaseインスタンスを作成する
func NewDownloadUseCase(
	enumerator *service.GridEnumerator,
	grouper *service.BlockGrouper,
	resolver *service.IndexResolver,
	fetchRepo repository.FileFetchRepository,
) DownloadUseCase {
	return &downloadUseCaseImpl{
		enumerator: enumerator,
		grouper:    grouper,
		resolver:   resolver,
		fetchRepo:  fetchRepo,
	}
}

// Download は領域からセル列挙・識別子導出・URL解決・取得までを実行する
func (u *downloadUseCaseImpl) Download(ctx context.Context, req *model.DownloadRequest) (*model.DownloadResult, error) {
	runID := uuid.New().String()
	log.Printf("🚀 ダウンロード開始 (run: %s)", runID)

	cells := u.enumerator.EnumerateCells(req.Region, req.CellSize, 0)
	log.Printf("✅ %d件のセルが領域と交差", len(cells))

	blockMap := u.grouper.Group(cells)
	log.Printf("✅ %d件のブロックに集約", blockMap.Len())

	locators, err := u.resolver.Resolve(ctx, blockMap)
	if err != nil {
		return nil, fmt.Errorf("URL解決失敗: %w", err)
	}
	log.Printf("✅ %d件のダウンロードURLを解決", len(locators))

	if err := os.MkdirAll(req.Directory, 0755); err != nil {
		return nil, fmt.Errorf("ダウンロードディレクトリの作成失敗: %w", err)
	}

	var artifacts []model.LocalArtifact
	if req.Concurrency > 1 {
		artifacts = u.fetchAllParallel(ctx, locators, req)
	} else {
		artifacts = u.fetchAllSequential(ctx, locators, req)
	}

	log.Printf("🎉 ダウンロード完了: %d / %d 件 (run: %s)", len(artifacts), len(locators), runID)

	return &model.DownloadResult{
		RunID:        runID,
		CellCount:    len(cells),
		BlockCount:   blockMap.Len(),
		LocatorCount: len(locators),
		Artifacts:    artifacts,
	}, nil
}

// fetchAllSequential はURL一覧を解決順に1件ずつ取得する
func (u *downloadUseCaseImpl) fetchAllSequential(ctx context.Context, locators []model.ResourceLocator, req *model.DownloadRequest) []model.LocalArtifact {
	var artifacts []model.LocalArtifact
	for i, locator := range locators {
		log.Printf("📥 ファイル %d / %d をダウンロード中", i+1, len(locators))
		log.Printf("   %s", locator)
		if artifact, ok := u.fetchOne(ctx, locator, req.Directory, req.Overwrite); ok {
			artifacts = append(artifacts, artifact)
		}
	}
	return artifacts
}

// fetchAllParallel は同時実行数を制限した並行取得を行う
//
// 失敗の隔離は逐次実行と同じ（1件の失敗が他に波及しない）。
// 成果物は完了順で返す。
func (u *downloadUseCaseImpl) fetchAllParallel(ctx context.Context, locators []model.ResourceLocator, req *model.DownloadRequest) []model.LocalArtifact {
	log.Printf("🚀 並行ダウンロード開始: %d件を最大%d並行で取得", len(locators), req.Concurrency)

	// セマフォを使用して同時実行数を制限
	semaphore := make(chan struct{}, req.Concurrency)
	results := make(chan model.LocalArtifact, len(locators))
	var wg sync.WaitGroup

	for i, locator := range locators {
		wg.Add(1)
		go func(index int, loc model.ResourceLocator) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			log.Printf("📥 ファイル %d / %d をダウンロード中: %s", index+1, len(locators), loc)
			if artifact, ok := u.fetchOne(ctx, loc, req.Directory, req.Overwrite); ok {
				results <- artifact
			}
		}(i, locator)
	}

	wg.Wait()
	close(results)

	var artifacts []model.LocalArtifact
	for artifact := range results {
		artifacts = append(artifacts, artifact)
	}
	return artifacts
}

// fetchOne は1件のURLをディレクトリに取得し、成果物パスを返す
//
// overwriteがfalseで既存ファイルがある場合はネットワークアクセスせず
// 既存パスをそのまま成果物として返す。取得失敗（404やネットワーク
// エラー）は記録だけしてfalseを返し、バッチ全体は継続させる。
func (u *downloadUseCaseImpl) fetchOne(ctx context.Context, locator model.ResourceLocator, directory string, overwrite bool) (model.LocalArtifact, bool) {
	parsed, err := url.Parse(string(locator))
	if err != nil {
		log.Printf("⚠️ URLの解析に失敗したためスキップ: %s", locator)
		return "", false
	}

	filename := path.Base(parsed.Path)
	localPath := filepath.Join(directory, filename)

	if !overwrite {
		if _, err := os.Stat(localPath); err == nil {
			absPath, err := filepath.Abs(localPath)
			if err != nil {
				log.Printf("⚠️ 既存パスの解決に失敗したためスキップ: %s", localPath)
				return "", false
			}
			return model.LocalArtifact(absPath), true
		}
	}

	if err := u.fetchRepo.Fetch(ctx, locator, localPath); err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			log.Printf("⚠️ ファイルが存在しないためスキップ:\n   %s", locator)
		} else {
			log.Printf("⚠️ ダウンロードに失敗したためスキップ: %v", err)
		}
		return "", false
	}

	absPath, err := filepath.Abs(localPath)
	if err != nil {
		log.Printf("⚠️ 取得済みパスの解決に失敗: %s", localPath)
		return "", false
	}
	return model.LocalArtifact(absPath), true
}
