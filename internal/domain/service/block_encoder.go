package service

import (
	"math"

	"fstopo-fetcher/internal/domain/model"
)

// BlockIdentifierEncoder はセル座標をFSTopoのブロック/クアッド識別子に変換する
//
// FSのインデックスは緯度は南端のfloor、経度は東端のceilを使う非対称な
// スキーム（例: ブロック46121は lat >= 46 かつ lon <= -121 のクアッドを持つ）。
// 経度は西経（負値）前提であり、本エンコーダは半球汎用ではない。
type BlockIdentifierEncoder struct{}

// NewBlockIdentifierEncoder は新しいBlockIdentifierEncoderインスタンスを作成する
func NewBlockIdentifierEncoder() *BlockIdentifierEncoder {
	return &BlockIdentifierEncoder{}
}

// Encode はセルからブロック識別子とクアッド識別子を導出する
func (e *BlockIdentifierEncoder) Encode(cell model.Cell) (model.BlockID, model.QuadID) {
	minY := cell.South()
	maxX := cell.East()

	degreeLat := int(math.Floor(minY))
	degreeLon := int(math.Abs(math.Ceil(maxX)))

	quad := model.QuadID{
		DegreeLat: degreeLat,
		MinuteLat: degreesFractionToArcminutes(minY),
		DegreeLon: degreeLon,
		MinuteLon: degreesFractionToArcminutes(maxX),
	}

	return quad.Block(), quad
}

// degreesFractionToArcminutes は度の小数部を分（floor）に変換する
//
// 負数のmodは小数部が反転してしまうため、絶対値を取ってからmod 1を適用する。
func degreesFractionToArcminutes(degrees float64) int {
	fraction := math.Mod(math.Abs(degrees), 1)
	return int(math.Floor(fraction * model.ArcminutesPerDegree))
}
