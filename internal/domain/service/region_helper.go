package service

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"fstopo-fetcher/internal/domain/model"
)

// bboxSeparator はbbox文字列の区切り（カンマまたは空白の並び）
var bboxSeparator = regexp.MustCompile(`[,\s]+`)

// ParseBBox は "west,south,east,north" 形式の文字列を矩形領域に変換する
func ParseBBox(s string) (orb.Geometry, error) {
	parts := bboxSeparator.Split(s, -1)
	if len(parts) != 4 {
		return nil, fmt.Errorf("bboxは west,south,east,north の4要素が必要です: %q", s)
	}

	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bboxの要素 %q を数値に変換できません: %w", part, err)
		}
		values[i] = v
	}

	west, south, east, north := values[0], values[1], values[2], values[3]
	if west >= east || south >= north {
		return nil, fmt.Errorf("bboxの範囲が不正です（west < east かつ south < north が必要）: %q", s)
	}

	bound := orb.Bound{
		Min: orb.Point{west, south},
		Max: orb.Point{east, north},
	}
	return bound.ToPolygon(), nil
}

// LoadGeoJSONRegion はGeoJSONファイルから領域ジオメトリを読み込む
//
// FeatureCollection、Feature、生のGeometryのいずれの形式も受け付ける。
// 座標はEPSG:4326（経度・緯度）であることを前提とし、再投影は行わない。
func LoadGeoJSONRegion(path string) (orb.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ジオメトリファイルの読み込み失敗: %w", err)
	}

	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		if len(fc.Features) == 0 {
			return nil, fmt.Errorf("FeatureCollectionにフィーチャが含まれていません: %s", path)
		}
		collection := make(orb.Collection, 0, len(fc.Features))
		for _, feature := range fc.Features {
			collection = append(collection, feature.Geometry)
		}
		if len(collection) == 1 {
			return collection[0], nil
		}
		return collection, nil
	}

	if feature, err := geojson.UnmarshalFeature(data); err == nil {
		return feature.Geometry, nil
	}

	geometry, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("GeoJSONの解析失敗: %w", err)
	}
	return geometry.Geometry(), nil
}

// ValidateHemisphere は領域が識別子スキームの適用範囲内かを検証する
//
// FSTopoの識別子エンコードは西経・北緯（アメリカ本土）専用のため、
// 本初子午線または赤道に触れる・跨ぐ領域は入力段階で拒否する。
func ValidateHemisphere(region orb.Geometry) error {
	bound := region.Bound()
	if bound.Max.Lon() >= 0 {
		return fmt.Errorf("経度は西経（負値）のみ対応しています（東端: %.4f）", bound.Max.Lon())
	}
	if bound.Min.Lat() <= 0 {
		return fmt.Errorf("緯度は北緯（正値）のみ対応しています（南端: %.4f）", bound.Min.Lat())
	}
	return nil
}

// BufferDistanceToMeters はバッファ距離を単位付きでメートルに変換する
func BufferDistanceToMeters(distance float64, unit string) (float64, error) {
	switch unit {
	case model.BufferUnitMile:
		return distance * 1609.344, nil
	case model.BufferUnitMeter:
		return distance, nil
	case model.BufferUnitKilometer:
		return distance * 1000, nil
	default:
		return 0, fmt.Errorf("未対応のバッファ単位です: %q（対応: %v）", unit, model.GetAllBufferUnits())
	}
}

// BufferRegion は領域の外接矩形を指定距離だけ広げた矩形領域を返す
//
// 正確なバッファポリゴンではなく外接矩形のパディングによる近似。
// メートルから度への換算は領域の中央緯度で行い、経度方向の換算値
// （高緯度ほど大きい）でパディングするため、取りこぼしは起きない。
func BufferRegion(region orb.Geometry, distance float64, unit string) (orb.Geometry, error) {
	meters, err := BufferDistanceToMeters(distance, unit)
	if err != nil {
		return nil, err
	}

	bound := region.Bound()
	midLat := (bound.Min.Lat() + bound.Max.Lat()) / 2

	// 1度あたり約111,320m（緯度方向）。経度方向はcos(緯度)で縮む。
	latDegrees := meters / 111320.0
	lonDegrees := latDegrees / math.Cos(midLat*math.Pi/180)

	padding := math.Max(latDegrees, lonDegrees)
	return bound.Pad(padding).ToPolygon(), nil
}
