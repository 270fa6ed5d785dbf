package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/avalia/backend/internal/domain/review"
	"github.com/avalia/backend/internal/infrastructure/log"
)

// 原始 CSV 列名
const (
	colPlaceID      = "Place ID"
	colName         = "Name"
	colStreet       = "Street"
	colNeighborhood = "Neighborhood"
	colCity         = "City"
	colRating       = "Rating"
	colType         = "Type"
	colReviewID     = "Review ID"
	colAuthor       = "Author"
	colText         = "Text"
	colDate         = "Date"
	colResponse     = "Response"
)

// Loader 原始数据装载器
// 将分号分隔的地点/评论 CSV 合并为嵌套的地点结构
type Loader struct {
	logger *slog.Logger
}

// NewLoader 创建数据装载器
func NewLoader() *Loader {
	return &Loader{logger: log.NewModuleLogger("ingest", "loader")}
}

// LoadPlaces 读取两个 CSV 并按 Place ID 合并
// 评论按出现顺序内嵌到对应地点；没有评论的地点保留为空列表
func (l *Loader) LoadPlaces(placesPath, reviewsPath string) ([]review.Place, error) {
	placeRows, err := readCSV(placesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load places: %w", err)
	}
	l.logger.Info("Loaded places", "path", placesPath, "count", len(placeRows))

	reviewRows, err := readCSV(reviewsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	l.logger.Info("Loaded reviews", "path", reviewsPath, "count", len(reviewRows))

	// 先按 Place ID 分组评论
	grouped := make(map[string][]review.Review)
	for _, row := range reviewRows {
		placeID := row[colPlaceID]
		grouped[placeID] = append(grouped[placeID], review.Review{
			ReviewID: row[colReviewID],
			Author:   row[colAuthor],
			Rating:   row[colRating],
			Text:     row[colText],
			Date:     row[colDate],
			Response: row[colResponse],
		})
	}

	places := make([]review.Place, 0, len(placeRows))
	for _, row := range placeRows {
		placeID := row[colPlaceID]
		reviews := grouped[placeID]
		if len(reviews) == 0 {
			l.logger.Warn("No reviews found for place", "place_id", placeID, "name", row[colName])
			reviews = []review.Review{}
		}

		places = append(places, review.Place{
			PlaceID:      placeID,
			Name:         row[colName],
			Street:       row[colStreet],
			Neighborhood: row[colNeighborhood],
			City:         row[colCity],
			Type:         row[colType],
			Rating:       row[colRating],
			Reviews:      reviews,
		})
	}

	return places, nil
}

// WritePlacesJSON 将合并结果写入 JSON 文件
func (l *Loader) WritePlacesJSON(places []review.Place, outputPath string) error {
	data, err := json.MarshalIndent(places, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal places: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	l.logger.Info("Saved merged JSON", "path", outputPath, "places", len(places))
	return nil
}

// LoadPlacesJSON 读取已合并的地点 JSON 文件
func (l *Loader) LoadPlacesJSON(path string) ([]review.Place, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var places []review.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return places, nil
}

// readCSV 读取分号分隔的 CSV，返回按表头索引的行映射
func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file %s is empty", path)
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[strings.TrimSpace(key)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
