package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fstopo-fetcher/internal/domain/model"
	"fstopo-fetcher/internal/domain/repository"
	"fstopo-fetcher/internal/domain/service"
)

// fakeQuadIndexRepository は固定エントリを返すテスト用インデックス
type fakeQuadIndexRepository struct {
	entries map[string][]model.QuadIndexEntry
}

func (f *fakeQuadIndexRepository) ListBlock(_ context.Context, block model.BlockID) ([]model.QuadIndexEntry, error) {
	return f.entries[block.String()], nil
}

func (f *fakeQuadIndexRepository) BlockIndexURL(block model.BlockID) string {
	return "https://example.com/geodata/quad-index.php?blockID=" + block.String()
}

// fakeFileFetchRepository は取得呼び出しを記録するテスト用フェッチャー
type fakeFileFetchRepository struct {
	mu       sync.Mutex
	calls    []string
	notFound map[string]bool
}

func (f *fakeFileFetchRepository) Fetch(_ context.Context, locator model.ResourceLocator, destPath string) error {
	f.mu.Lock()
	f.calls = append(f.calls, string(locator))
	f.mu.Unlock()

	if f.notFound[string(locator)] {
		return fmt.Errorf("%w: %s", repository.ErrResourceNotFound, locator)
	}
	return os.WriteFile(destPath, []byte("payload"), 0644)
}

func (f *fakeFileFetchRepository) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testRegion() orb.Geometry {
	return orb.Bound{
		Min: orb.Point{-121.6, 46.05},
		Max: orb.Point{-121.4, 46.2},
	}.ToPolygon()
}

// testIndexEntries は46121ブロックの4クアッド中2件を掲載済みとして返す
func testIndexEntries() map[string][]model.QuadIndexEntry {
	return map[string][]model.QuadIndexEntry{
		"46121": {
			{Text: "Glenwood_460012130_FSTopo.tif", Href: "fstopo/460012130_FSTopo.tiff"},
			{Text: "Trout_Lake_460712122_FSTopo.tif", Href: "fstopo/460712122_FSTopo.tiff"},
			{Text: "Elsewhere_469912199_FSTopo.tif", Href: "fstopo/469912199_FSTopo.tiff"},
		},
	}
}

func newTestUseCase(indexRepo repository.QuadIndexRepository, fetchRepo repository.FileFetchRepository) DownloadUseCase {
	return NewDownloadUseCase(
		service.NewGridEnumerator(),
		service.NewBlockGrouper(service.NewBlockIdentifierEncoder()),
		service.NewIndexResolver(indexRepo, false),
		fetchRepo,
	)
}

func TestDownloadUseCase_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("領域からダウンロードまでの一連のパイプラインを実行する", func(t *testing.T) {
		fetchRepo := &fakeFileFetchRepository{}
		uc := newTestUseCase(&fakeQuadIndexRepository{entries: testIndexEntries()}, fetchRepo)
		dir := t.TempDir()

		result, err := uc.Download(ctx, &model.DownloadRequest{
			Region:      testRegion(),
			CellSize:    model.QuadCellSizeDegrees,
			Directory:   dir,
			Concurrency: 1,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, 4, result.CellCount)
		assert.Equal(t, 1, result.BlockCount)
		// 掲載3件のうち要求クアッドに一致するのは2件
		assert.Equal(t, 2, result.LocatorCount)
		require.Len(t, result.Artifacts, 2)

		for _, artifact := range result.Artifacts {
			assert.True(t, filepath.IsAbs(string(artifact)), "成果物は絶対パスで返すべき")
			_, err := os.Stat(string(artifact))
			assert.NoError(t, err, "成果物のファイルが存在しない")
		}
	})

	t.Run("overwrite=falseの再実行はネットワークアクセスしない", func(t *testing.T) {
		fetchRepo := &fakeFileFetchRepository{}
		uc := newTestUseCase(&fakeQuadIndexRepository{entries: testIndexEntries()}, fetchRepo)
		dir := t.TempDir()
		req := &model.DownloadRequest{
			Region:      testRegion(),
			CellSize:    model.QuadCellSizeDegrees,
			Directory:   dir,
			Overwrite:   false,
			Concurrency: 1,
		}

		first, err := uc.Download(ctx, req)
		require.NoError(t, err)
		callsAfterFirst := fetchRepo.callCount()

		second, err := uc.Download(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, callsAfterFirst, fetchRepo.callCount(), "2回目の実行でフェッチが呼ばれている")
		assert.Equal(t, first.Artifacts, second.Artifacts, "再実行で成果物一覧が変わっている")
	})

	t.Run("overwrite=trueは既存ファイルでも再取得する", func(t *testing.T) {
		fetchRepo := &fakeFileFetchRepository{}
		uc := newTestUseCase(&fakeQuadIndexRepository{entries: testIndexEntries()}, fetchRepo)
		dir := t.TempDir()
		req := &model.DownloadRequest{
			Region:      testRegion(),
			CellSize:    model.QuadCellSizeDegrees,
			Directory:   dir,
			Overwrite:   true,
			Concurrency: 1,
		}

		_, err := uc.Download(ctx, req)
		require.NoError(t, err)
		callsAfterFirst := fetchRepo.callCount()

		_, err = uc.Download(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, callsAfterFirst*2, fetchRepo.callCount(), "overwrite指定なのに再取得されていない")
	})

	t.Run("存在しないリソースはスキップしてバッチを継続する", func(t *testing.T) {
		fetchRepo := &fakeFileFetchRepository{
			notFound: map[string]bool{
				"https://example.com/geodata/fstopo/460012130_FSTopo.tiff": true,
			},
		}
		uc := newTestUseCase(&fakeQuadIndexRepository{entries: testIndexEntries()}, fetchRepo)

		result, err := uc.Download(ctx, &model.DownloadRequest{
			Region:      testRegion(),
			CellSize:    model.QuadCellSizeDegrees,
			Directory:   t.TempDir(),
			Concurrency: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.LocatorCount)
		require.Len(t, result.Artifacts, 1, "失敗リソースの後続が処理されていない")
		assert.Contains(t, string(result.Artifacts[0]), "460712122")
	})

	t.Run("並行ダウンロードでも失敗は1件に隔離される", func(t *testing.T) {
		fetchRepo := &fakeFileFetchRepository{
			notFound: map[string]bool{
				"https://example.com/geodata/fstopo/460012130_FSTopo.tiff": true,
			},
		}
		uc := newTestUseCase(&fakeQuadIndexRepository{entries: testIndexEntries()}, fetchRepo)

		result, err := uc.Download(ctx, &model.DownloadRequest{
			Region:      testRegion(),
			CellSize:    model.QuadCellSizeDegrees,
			Directory:   t.TempDir(),
			Concurrency: 4,
		})

		require.NoError(t, err)
		require.Len(t, result.Artifacts, 1)

		// 完了順は不定のためソートして比較
		names := make([]string, 0, len(result.Artifacts))
		for _, artifact := range result.Artifacts {
			names = append(names, filepath.Base(string(artifact)))
		}
		sort.Strings(names)
		assert.Equal(t, []string{"460712122_FSTopo.tiff"}, names)
	})
}
