package model

import "github.com/paulmach/orb"

// ResourceLocator はダウンロード対象リソースの完全修飾URL
type ResourceLocator string

// LocalArtifact はダウンロードに成功したローカルファイルの絶対パス
type LocalArtifact string

// QuadIndexEntry はブロック別インデックスページの1エントリ
type QuadIndexEntry struct {
	Text string // アンカーテキスト（クアッドコードを含むファイル名）
	Href string // 相対または絶対のリンク先
}

// DownloadRequest はダウンロードパイプラインへの入力
type DownloadRequest struct {
	Region      orb.Geometry // 取得対象の領域（EPSG:4326）
	CellSize    float64      // グリッドのセルサイズ（度）
	Directory   string       // ダウンロード先ディレクトリ
	Overwrite   bool         // 既存ファイルを再取得するかどうか
	Concurrency int          // 同時ダウンロード数（1で逐次実行）
}

// DownloadResult はダウンロードパイプラインの実行結果
type DownloadResult struct {
	RunID        string          // 実行ID
	CellCount    int             // 領域と交差したセル数
	BlockCount   int             // 対象ブロック数
	LocatorCount int             // 解決されたURL数
	Artifacts    []LocalArtifact // 取得済みファイルの絶対パス（完了順）
}

// QuadListRequest はserveモードのクアッド解決リクエスト
type QuadListRequest struct {
	BBox    string      `json:"bbox,omitempty"`    // "west,south,east,north"
	GeoJSON interface{} `json:"geojson,omitempty"` // GeoJSONジオメトリまたはFeature(Collection)
}

// BlockQuads はブロック1件分の解決結果
type BlockQuads struct {
	BlockID string   `json:"block_id"`
	QuadIDs []string `json:"quad_ids"`
	URLs    []string `json:"urls"`
}

// QuadListResponse はserveモードのクアッド解決レスポンス
type QuadListResponse struct {
	RequestID string       `json:"request_id"`
	Blocks    []BlockQuads `json:"blocks"`
}
