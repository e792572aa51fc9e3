package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ptrainer/backend/internal/aggregation"
	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/nutrition"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrInvalidTableData = errors.New("invalid table data")

// FoodAmount is one food line of a nutrition table.
type FoodAmount struct {
	Food   string  `json:"food"`
	Amount float64 `json:"amount"`
}

// TableData maps a table id (typically a plan day) to its food lines.
type TableData map[string][]FoodAmount

// MacroTotals is the summed nutrition of one table, in kcal and grams.
type MacroTotals struct {
	Energy  float64 `json:"energy"`
	Carbs   float64 `json:"carbs"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
}

// ParseTableData accepts either a JSON object or a JSON string holding that object.
func ParseTableData(raw []byte) (TableData, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTableData, err)
		}
		raw = []byte(inner)
	}
	var data TableData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTableData, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidTableData)
	}
	return data, nil
}

type NutritionService interface {
	// CalculateAllNutritionalTotals sums the macros of every table. Lines with
	// no food, a non-positive amount or an unknown food contribute nothing.
	CalculateAllNutritionalTotals(ctx context.Context, data TableData) (map[string]MacroTotals, error)
}

type nutritionService struct {
	pipeline *aggregation.Pipeline
	logger   *zap.Logger
}

func NewNutritionService(pipeline *aggregation.Pipeline, logger *zap.Logger) NutritionService {
	return &nutritionService{pipeline: pipeline, logger: logger}
}

func (s *nutritionService) CalculateAllNutritionalTotals(ctx context.Context, data TableData) (map[string]MacroTotals, error) {
	var ids []primitive.ObjectID
	for table, lines := range data {
		for _, line := range lines {
			if line.Food == "" {
				continue
			}
			id, err := primitive.ObjectIDFromHex(line.Food)
			if err != nil {
				return nil, fmt.Errorf("%w: table %s: food %q", ErrInvalidTableData, table, line.Food)
			}
			ids = append(ids, id)
		}
	}
	refs := s.pipeline.FoodReferences(ctx, ids)

	result := make(map[string]MacroTotals, len(data))
	for table, lines := range data {
		amounts := make([]domain.Nutrition, 0, len(lines))
		for _, line := range lines {
			if line.Food == "" || line.Amount <= 0 {
				continue
			}
			id, _ := primitive.ObjectIDFromHex(line.Food)
			ref, ok := refs[id.Hex()]
			if !ok {
				s.logger.Debug("unknown food in nutrition table", zap.String("table", table), zap.String("food", line.Food))
				continue
			}
			amounts = append(amounts, nutrition.Scale(ref.NutritionPer100g, line.Amount))
		}
		totals := nutrition.Totals(amounts)
		result[table] = MacroTotals{
			Energy:  totals[domain.MacroEnergy].Value,
			Carbs:   totals[domain.MacroCarbs].Value,
			Protein: totals[domain.MacroProtein].Value,
			Fat:     totals[domain.MacroFat].Value,
		}
	}
	return result, nil
}
