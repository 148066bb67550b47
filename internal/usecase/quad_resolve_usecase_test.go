package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fstopo-fetcher/internal/domain/service"
)

func TestQuadResolveUseCase_ResolveQuads(t *testing.T) {
	ctx := context.Background()

	t.Run("ブロックごとのクアッドとURLを返す", func(t *testing.T) {
		uc := NewQuadResolveUseCase(
			service.NewGridEnumerator(),
			service.NewBlockGrouper(service.NewBlockIdentifierEncoder()),
			service.NewIndexResolver(&fakeQuadIndexRepository{entries: testIndexEntries()}, false),
		)

		response, err := uc.ResolveQuads(ctx, testRegion())

		require.NoError(t, err)
		assert.NotEmpty(t, response.RequestID)
		require.Len(t, response.Blocks, 1)

		block := response.Blocks[0]
		assert.Equal(t, "46121", block.BlockID)
		assert.Len(t, block.QuadIDs, 4)
		assert.Contains(t, block.QuadIDs, "460012130")
		require.Len(t, block.URLs, 2)
		assert.Contains(t, block.URLs, "https://example.com/geodata/fstopo/460712122_FSTopo.tiff")
	})

	t.Run("カタログ未掲載の領域はURLなしのブロックになる", func(t *testing.T) {
		uc := NewQuadResolveUseCase(
			service.NewGridEnumerator(),
			service.NewBlockGrouper(service.NewBlockIdentifierEncoder()),
			service.NewIndexResolver(&fakeQuadIndexRepository{entries: nil}, false),
		)

		response, err := uc.ResolveQuads(ctx, testRegion())

		require.NoError(t, err)
		require.Len(t, response.Blocks, 1)
		assert.Empty(t, response.Blocks[0].URLs)
		assert.NotEmpty(t, response.Blocks[0].QuadIDs)
	})
}
