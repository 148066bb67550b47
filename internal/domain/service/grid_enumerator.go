package service

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"

	"fstopo-fetcher/internal/domain/model"
)

// GridEnumerator は指定領域と交差する固定サイズのグリッドセルを列挙する
//
// 複数のグリッドサイズを扱える汎用実装:
//   - 1度: USGS標高ファイル
//   - 0.125度: USGS / USFSのトポマップ
//   - 0.1度: 落雷カウントデータ（0.05度オフセット付き）
type GridEnumerator struct{}

// NewGridEnumerator は新しいGridEnumeratorインスタンスを作成する
func NewGridEnumerator() *GridEnumerator {
	return &GridEnumerator{}
}

// EnumerateCells は領域と交差するセルを格子走査順（外側x・内側y）で列挙する
//
// 領域の1度単位の外接矩形（最小はfloor、最大はceil）を起点に、
// cellSize間隔の格子上の左下点からセルを生成し、領域と幾何学的に
// 交差するものだけを返す。offsetは格子原点をずらすためのもので、
// セル境界ではなく中心点がラベルになっているデータに使用する。
func (e *GridEnumerator) EnumerateCells(region orb.Geometry, cellSize, offset float64) []model.Cell {
	bound := region.Bound()
	minX := math.Floor(bound.Min.Lon())
	minY := math.Floor(bound.Min.Lat())
	maxX := math.Ceil(bound.Max.Lon())
	maxY := math.Ceil(bound.Max.Lat())

	var cells []model.Cell
	for i := 0; ; i++ {
		x := minX - offset + float64(i)*cellSize
		if x >= maxX+offset {
			break
		}
		for j := 0; ; j++ {
			y := minY - offset + float64(j)*cellSize
			if y >= maxY+offset {
				break
			}
			cell := model.NewCell(x, y, cellSize)
			if e.intersects(region, cell) {
				cells = append(cells, cell)
			}
		}
	}

	return cells
}

// intersects はセルが領域と幾何学的に交差するかを判定する
//
// 外接矩形の重なりは前段の足切りにのみ使い、実際の判定はセル矩形への
// クリッピング結果が空でないことで行う（外接矩形だけ重なる凹多角形を
// 誤って採用しないため）。
func (e *GridEnumerator) intersects(region orb.Geometry, cell model.Cell) bool {
	if !cell.Bound.Intersects(region.Bound()) {
		return false
	}
	clipped := clip.Geometry(cell.Bound, orb.Clone(region))
	return clipped != nil
}
