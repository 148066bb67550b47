package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"fstopo-fetcher/internal/domain/model"
	"fstopo-fetcher/internal/domain/service"
	"fstopo-fetcher/internal/handler"
	"fstopo-fetcher/internal/infrastructure/catalog"
	"fstopo-fetcher/internal/usecase"
)

var (
	flagBBox             string
	flagFile             string
	flagBufferDist       float64
	flagBufferUnit       string
	flagBufferProjection int
	flagOverwrite        bool
	flagDirectory        string
	flagOutput           string
	flagStrict           bool
	flagConcurrency      int
	flagAddr             string
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	rootCmd := newRootCmd()
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("❌ 実行失敗: %v", err)
	}
}

// newRootCmd はダウンロードコマンド（ルートコマンド）を作成する
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fstopo-fetcher",
		Short:         "指定領域と交差するFSTopoクアッドをダウンロードする",
		Long:          "bboxまたはGeoJSONファイルで指定した領域と交差するFSTopoの7.5分クアッドを列挙し、USFSラスターゲートウェイから取得する。",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDownload,
	}

	cmd.Flags().StringVar(&flagBBox, "bbox", "", "取得対象のbbox（west,south,east,north）")
	cmd.Flags().StringVar(&flagFile, "file", "", "取得対象のジオメトリを含むGeoJSONファイル")
	cmd.Flags().Float64VarP(&flagBufferDist, "buffer-dist", "b", 0, "ジオメトリ周囲のバッファ距離（--file指定時のみ有効）")
	cmd.Flags().StringVar(&flagBufferUnit, "buffer-unit", model.BufferUnitMile, fmt.Sprintf("バッファ距離の単位（%s）", strings.Join(model.GetAllBufferUnits(), "|")))
	cmd.Flags().IntVar(&flagBufferProjection, "buffer-projection", 3488, "バッファ計算用投影のEPSGコード（予約済み・近似バッファでは未使用）")
	cmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "既存ファイルを再ダウンロードして上書きする")
	cmd.Flags().StringVar(&flagDirectory, "dir", model.DefaultDownloadDir, "ダウンロード先ディレクトリ")
	cmd.Flags().StringVar(&flagOutput, "output", model.DefaultManifestPath, "取得済みパス一覧の出力先ファイル")
	cmd.Flags().BoolVar(&flagStrict, "strict", false, "ブロックのインデックス取得失敗で即時中断する")
	cmd.Flags().IntVar(&flagConcurrency, "concurrency", 1, "同時ダウンロード数（1で逐次実行）")

	return cmd
}

// runDownload はダウンロードコマンドの本体
func runDownload(cmd *cobra.Command, args []string) error {
	// 入力検証はネットワーク・ファイルシステムアクセスの前に行う
	region, err := buildRegion()
	if err != nil {
		return err
	}
	if err := service.ValidateHemisphere(region); err != nil {
		return err
	}
	if flagConcurrency < 1 {
		return fmt.Errorf("concurrencyは1以上を指定してください: %d", flagConcurrency)
	}

	indexRepo := catalog.NewHTTPQuadIndexRepository(os.Getenv("FSTOPO_BASE_URL"))
	fetchRepo := catalog.NewHTTPFileFetchRepository(true)

	downloadUseCase := usecase.NewDownloadUseCase(
		service.NewGridEnumerator(),
		service.NewBlockGrouper(service.NewBlockIdentifierEncoder()),
		service.NewIndexResolver(indexRepo, flagStrict),
		fetchRepo,
	)

	result, err := downloadUseCase.Download(cmd.Context(), &model.DownloadRequest{
		Region:      region,
		CellSize:    model.QuadCellSizeDegrees,
		Directory:   flagDirectory,
		Overwrite:   flagOverwrite,
		Concurrency: flagConcurrency,
	})
	if err != nil {
		return err
	}

	if err := writeManifest(flagOutput, result.Artifacts); err != nil {
		return err
	}

	log.Printf("✅ %d件のパスを %s に書き出しました", len(result.Artifacts), flagOutput)
	return nil
}

// buildRegion はCLIフラグから取得対象領域を構築する
func buildRegion() (orb.Geometry, error) {
	hasBBox := flagBBox != ""
	hasFile := flagFile != ""

	if hasBBox == hasFile {
		return nil, fmt.Errorf("--bbox と --file はどちらか一方を指定してください")
	}

	if hasBBox {
		return service.ParseBBox(flagBBox)
	}

	region, err := service.LoadGeoJSONRegion(flagFile)
	if err != nil {
		return nil, err
	}

	if flagBufferDist > 0 {
		region, err = service.BufferRegion(region, flagBufferDist, strings.ToLower(flagBufferUnit))
		if err != nil {
			return nil, err
		}
	}

	return region, nil
}

// writeManifest は取得済みパスを1行1パスで書き出す
func writeManifest(path string, artifacts []model.LocalArtifact) error {
	lines := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		lines = append(lines, string(artifact))
	}

	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("パス一覧の書き出し失敗: %w", err)
	}
	return nil
}

// newServeCmd はクアッド解決APIを公開するserveコマンドを作成する
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "クアッド解決APIをHTTPで公開する（ダウンロードは行わない）",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "待ち受けアドレス（デフォルト :8080、PORT環境変数でも指定可）")
	cmd.Flags().BoolVar(&flagStrict, "strict", false, "ブロックのインデックス取得失敗で解決を中断する")

	return cmd
}

// runServe はserveコマンドの本体
func runServe(cmd *cobra.Command, args []string) error {
	indexRepo := catalog.NewHTTPQuadIndexRepository(os.Getenv("FSTOPO_BASE_URL"))

	quadResolveUseCase := usecase.NewQuadResolveUseCase(
		service.NewGridEnumerator(),
		service.NewBlockGrouper(service.NewBlockIdentifierEncoder()),
		service.NewIndexResolver(indexRepo, flagStrict),
	)
	quadsHandler := handler.NewQuadsHandler(quadResolveUseCase)

	router := gin.Default()
	router.GET("/api/health", quadsHandler.HealthCheck)
	router.POST("/api/quads", quadsHandler.ResolveQuads)

	addr := flagAddr
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	log.Printf("🚀 fstopo-fetcher serve starting on %s...", addr)
	return router.Run(addr)
}
