package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"fstopo-fetcher/internal/domain/model"
	"fstopo-fetcher/internal/domain/repository"
)

// HTTPFileFetchRepository はHTTP経由で1ファイルを取得する
// FileFetchRepositoryの実装
type HTTPFileFetchRepository struct {
	client       *http.Client
	showProgress bool
}

// NewHTTPFileFetchRepository は新しいHTTPFileFetchRepositoryを作成する
func NewHTTPFileFetchRepository(showProgress bool) repository.FileFetchRepository {
	return &HTTPFileFetchRepository{
		client: &http.Client{
			Timeout: 10 * time.Minute,
		},
		showProgress: showProgress,
	}
}

// Fetch はリソースをdestPathに取得する
//
// 一時ファイルに書き込んでからリネームするため、途中失敗で
// 中途半端なファイルが残ることはない。
func (r *HTTPFileFetchRepository) Fetch(ctx context.Context, locator model.ResourceLocator, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(locator), nil)
	if err != nil {
		return fmt.Errorf("ダウンロードリクエストの作成失敗: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("ダウンロード失敗: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// 続行
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: %s", repository.ErrResourceNotFound, locator)
	default:
		return fmt.Errorf("ダウンロード失敗（ステータス %d）: %s", resp.StatusCode, locator)
	}

	tmpPath := destPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("一時ファイルの作成失敗: %w", err)
	}

	var writer io.Writer = out
	if r.showProgress {
		bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(destPath))
		writer = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("レスポンスボディの書き込み失敗: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("一時ファイルのクローズ失敗: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ダウンロードファイルの配置失敗: %w", err)
	}

	return nil
}
