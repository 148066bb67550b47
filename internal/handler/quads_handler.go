package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"fstopo-fetcher/internal/domain/model"
	"fstopo-fetcher/internal/domain/service"
	"fstopo-fetcher/internal/usecase"
)

// errBBoxOrGeoJSON はbbox/geojsonの排他指定違反
var errBBoxOrGeoJSON = errors.New("bbox または geojson のどちらか一方を指定してください")

// QuadsHandler はクアッド解決に関するHTTPハンドラー
type QuadsHandler struct {
	quadResolveUseCase usecase.QuadResolveUseCase
}

// NewQuadsHandler はQuadsHandlerの新しいインスタンスを作成
func NewQuadsHandler(quadResolveUseCase usecase.QuadResolveUseCase) *QuadsHandler {
	return &QuadsHandler{
		quadResolveUseCase: quadResolveUseCase,
	}
}

// HealthCheck GET /api/health - ヘルスチェック
func (h *QuadsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fstopo-fetcher",
	})
}

// ResolveQuads POST /api/quads - 領域と交差するクアッドとURLの解決
func (h *QuadsHandler) ResolveQuads(c *gin.Context) {
	var req model.QuadListRequest

	// リクエストボディの解析（Ginが自動でContent-Type確認）
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	region, err := h.buildRegion(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": err.Error(),
		})
		return
	}

	if err := service.ValidateHemisphere(region); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": err.Error(),
		})
		return
	}

	// ユースケース層で処理
	response, err := h.quadResolveUseCase.ResolveQuads(c.Request.Context(), region)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "resolution_failed",
			"message": "Failed to resolve quads: " + err.Error(),
		})
		return
	}

	// 成功レスポンス
	c.JSON(http.StatusOK, response)
}

// buildRegion はリクエストからbboxまたはGeoJSONの領域を構築する
func (h *QuadsHandler) buildRegion(req *model.QuadListRequest) (orb.Geometry, error) {
	hasBBox := req.BBox != ""
	hasGeoJSON := req.GeoJSON != nil

	if hasBBox == hasGeoJSON {
		return nil, errBBoxOrGeoJSON
	}

	if hasBBox {
		return service.ParseBBox(req.BBox)
	}

	raw, err := json.Marshal(req.GeoJSON)
	if err != nil {
		return nil, err
	}
	geometry, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, err
	}
	return geometry.Geometry(), nil
}
