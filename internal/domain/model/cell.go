package model

import "github.com/paulmach/orb"

// Cell はグリッド列挙で得られる固定サイズの軸平行セル
type Cell struct {
	Bound orb.Bound
}

// NewCell は左下コーナーとセルサイズからセルを作成する
func NewCell(minLon, minLat, cellSize float64) Cell {
	return Cell{
		Bound: orb.Bound{
			Min: orb.Point{minLon, minLat},
			Max: orb.Point{minLon + cellSize, minLat + cellSize},
		},
	}
}

// South はセル南端の緯度を取得する
func (c Cell) South() float64 {
	return c.Bound.Min.Lat()
}

// East はセル東端の経度を取得する
func (c Cell) East() float64 {
	return c.Bound.Max.Lon()
}

// West はセル西端の経度を取得する
func (c Cell) West() float64 {
	return c.Bound.Min.Lon()
}

// North はセル北端の緯度を取得する
func (c Cell) North() float64 {
	return c.Bound.Max.Lat()
}

// Polygon はセルをorb.Polygonに変換する
func (c Cell) Polygon() orb.Polygon {
	return c.Bound.ToPolygon()
}
