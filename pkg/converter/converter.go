// Package converter turns detection backend responses into the display
// shape consumed by the result view.
package converter

import (
	"NutriVision/internal/api/detection"
	"NutriVision/internal/entity"
	"fmt"
	"math"
	"strconv"
)

// ToAnalysisResult builds one immutable snapshot from a backend response.
// It never fails: a nil response or missing fields normalize to zero values.
func ToAnalysisResult(resp *detection.DetectionResponse) entity.AnalysisResult {
	if resp == nil {
		return entity.AnalysisResult{
			Ingredients: []entity.Ingredient{},
			Resolution:  "0×0",
		}
	}

	ingredients := make([]entity.Ingredient, 0, len(resp.Detections))
	for _, d := range resp.Detections {
		ingredients = append(ingredients, ToIngredient(d))
	}

	return entity.AnalysisResult{
		ImageURL:        resp.ProcessedImage,
		Ingredients:     ingredients,
		TotalNutrition:  SumNutrition(ingredients),
		Confidence:      MeanConfidence(ingredients),
		Resolution:      fmt.Sprintf("%d×%d", resp.OriginalSize.Width, resp.OriginalSize.Height),
		ObjectsDetected: resp.TotalObjects,
	}
}

func ToIngredient(d detection.RawDetection) entity.Ingredient {
	return entity.Ingredient{
		ID:         idString(d.ID),
		Name:       d.Label,
		Confidence: int(math.Round(d.Confidence * 100)),
		Position:   ToPosition(d.NormalizedBBox),
		Nutrition:  ToNutrition(d.Nutrition),
		Benefits:   d.Nutrition.Benefits,
	}
}

// ToNutrition coerces the backend nutrition facts. Sugar and sodium are
// always 0, whatever the backend sends.
// TODO: map sugar and sodium once the detection backend reports them.
func ToNutrition(n detection.RawNutrition) entity.Nutrition {
	return entity.Nutrition{
		Calories: ToNumber(n.Calories),
		Protein:  ToNumber(n.Protein),
		Carbs:    ToNumber(n.Carbs),
		Fat:      ToNumber(n.Fat),
		Fiber:    ToNumber(n.Fiber),
		Sugar:    0,
		Sodium:   0,
	}
}

// SumNutrition adds the already rounded per-ingredient values, rounding the
// running totals after every step.
func SumNutrition(ingredients []entity.Ingredient) entity.Nutrition {
	var total entity.Nutrition
	for _, ing := range ingredients {
		n := ing.Nutrition
		total = entity.Nutrition{
			Calories: Round2(total.Calories + n.Calories),
			Protein:  Round2(total.Protein + n.Protein),
			Carbs:    Round2(total.Carbs + n.Carbs),
			Fat:      Round2(total.Fat + n.Fat),
			Fiber:    Round2(total.Fiber + n.Fiber),
			Sugar:    Round2(total.Sugar + n.Sugar),
			Sodium:   Round2(total.Sodium + n.Sodium),
		}
	}
	return total
}

func MeanConfidence(ingredients []entity.Ingredient) int {
	if len(ingredients) == 0 {
		return 0
	}
	sum := 0
	for _, ing := range ingredients {
		sum += ing.Confidence
	}
	return int(math.Round(float64(sum) / float64(len(ingredients))))
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
