package model

import "fmt"

// BlockID は1度格子のブロック識別子
//
// FSTopoカタログは緯度経度の1度格子ごとにインデックスページを持つ。
// 例: ブロック46121は緯度46°〜47°、経度-121°〜-122°のクアッドを含む。
// 経度は西経前提で絶対値を保持する（本スキームは西半球専用）。
type BlockID struct {
	DegreeLat int // 緯度の度成分（セル南端のfloor、符号付き）
	DegreeLon int // 経度の度成分（セル東端のceilの絶対値）
}

// String はカタログが要求するレガシー文字列形式に変換する（例: "46121"）
func (b BlockID) String() string {
	return fmt.Sprintf("%d%d", b.DegreeLat, b.DegreeLon)
}

// QuadID は1度ブロック内の7.5分クアッド識別子
type QuadID struct {
	DegreeLat int // 緯度の度成分
	MinuteLat int // 緯度の分成分（0〜59）
	DegreeLon int // 経度の度成分（絶対値）
	MinuteLon int // 経度の分成分（0〜59）
}

// String はカタログが要求するレガシー文字列形式に変換する（例: "460312124"）
//
// 分成分は2桁ゼロ埋め。度成分2桁＋経度3桁の標準的なブロックでは9桁になる。
func (q QuadID) String() string {
	return fmt.Sprintf("%d%02d%d%02d", q.DegreeLat, q.MinuteLat, q.DegreeLon, q.MinuteLon)
}

// Block はクアッドが属するブロック識別子を取得する
func (q QuadID) Block() BlockID {
	return BlockID{
		DegreeLat: q.DegreeLat,
		DegreeLon: q.DegreeLon,
	}
}

// BlockMap はブロック識別子ごとにクアッド識別子を集約したマップ
//
// Goのmapは挿入順を保持しないため、ブロックの走査順はorderスライスで
// 明示的に保持する。重複するクアッドは除去しない（下流のフィルタが
// 集合メンバーシップ判定のため重複を許容する）。
type BlockMap struct {
	order []BlockID
	quads map[BlockID][]QuadID
}

// NewBlockMap は空のBlockMapを作成する
func NewBlockMap() *BlockMap {
	return &BlockMap{
		quads: make(map[BlockID][]QuadID),
	}
}

// Append はブロックにクアッドを追加する（初出のブロックは末尾に登録）
func (m *BlockMap) Append(block BlockID, quad QuadID) {
	if _, ok := m.quads[block]; !ok {
		m.order = append(m.order, block)
	}
	m.quads[block] = append(m.quads[block], quad)
}

// Blocks は挿入順のブロック識別子一覧を取得する
func (m *BlockMap) Blocks() []BlockID {
	return m.order
}

// Quads は指定ブロックのクアッド識別子一覧を取得する
func (m *BlockMap) Quads(block BlockID) []QuadID {
	return m.quads[block]
}

// Len はブロック数を取得する
func (m *BlockMap) Len() int {
	return len(m.order)
}
