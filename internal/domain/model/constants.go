package model

// GridConstants はFSTopoグリッドに関する定数
const (
	// QuadCellSizeDegrees FSTopoクアッドのセルサイズ（7.5分 = 0.125度）
	QuadCellSizeDegrees = 0.125

	// ArcminutesPerDegree 1度あたりの分数
	ArcminutesPerDegree = 60
)

// CatalogConstants はUSFSラスターゲートウェイに関する定数
const (
	// DefaultCatalogBaseURL ブロック別インデックスページのベースURL
	DefaultCatalogBaseURL = "https://data.fs.usda.gov/geodata/rastergateway/states-regions/"

	// QuadIndexPage ブロック別インデックスページのファイル名
	QuadIndexPage = "quad-index.php"

	// QuadFileExtension カタログが配布するクアッドファイルの拡張子（大文字小文字を区別）
	QuadFileExtension = ".tiff"
)

// DownloadConstants はダウンロード処理に関する定数
const (
	// DefaultDownloadDir ダウンロード先のデフォルトディレクトリ
	DefaultDownloadDir = "data/raw"

	// DefaultManifestPath 取得済みファイル一覧の出力先
	DefaultManifestPath = "paths.txt"
)

// BufferUnit はバッファ距離の単位
const (
	BufferUnitMile      = "mile"
	BufferUnitMeter     = "meter"
	BufferUnitKilometer = "kilometer"
)

// GetAllBufferUnits は対応するバッファ単位の一覧を取得する
func GetAllBufferUnits() []string {
	return []string{
		BufferUnitMile,
		BufferUnitMeter,
		BufferUnitKilometer,
	}
}
