package detection

import "NutriVision/internal/entity"

// RawNutrition values arrive either as JSON numbers or as text ("N/A" when
// the backend has no data for the ingredient).
type RawNutrition struct {
	Calories interface{} `json:"calories"`
	Protein  interface{} `json:"protein"`
	Carbs    interface{} `json:"carbs"`
	Fat      interface{} `json:"fat"`
	Fiber    interface{} `json:"fiber"`
	VitaminC interface{} `json:"vitamin_c"`
	Sugar    interface{} `json:"sugar,omitempty"`
	Sodium   interface{} `json:"sodium,omitempty"`
	Benefits string      `json:"benefits"`
}

type RawDetection struct {
	ID             interface{}  `json:"id"`
	Label          string       `json:"label"`
	Confidence     float64      `json:"confidence"`
	BBox           []float64    `json:"bbox"`
	NormalizedBBox []float64    `json:"normalized_bbox"`
	Area           float64      `json:"area"`
	Nutrition      RawNutrition `json:"nutrition"`
}

type OriginalSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type NutritionalSummary struct {
	TotalCalories    float64 `json:"total_calories"`
	TotalProtein     float64 `json:"total_protein"`
	TotalCarbs       float64 `json:"total_carbs"`
	TotalFat         float64 `json:"total_fat"`
	IngredientsCount int     `json:"ingredients_count"`
}

type DetectionResponse struct {
	Success            bool               `json:"success"`
	Detections         []RawDetection     `json:"detections"`
	ProcessedImage     string             `json:"processed_image"`
	OriginalSize       OriginalSize       `json:"original_size"`
	TotalObjects       int                `json:"total_objects"`
	NutritionalSummary NutritionalSummary `json:"nutritional_summary"`
	Message            string             `json:"message"`
}

type HealthResponse struct {
	Status             string `json:"status"`
	Service            string `json:"service"`
	AIServiceAvailable bool   `json:"ai_service_available"`
}

// BackendErrorBody is the error envelope returned by the detection backend.
type BackendErrorBody struct {
	Detail interface{} `json:"detail"`
}

type ImageUpload struct {
	ClientKey   string
	FileName    string
	ContentType string
	Data        []byte
}

type Base64DetectionRequest struct {
	Image string `json:"image" validate:"required"`
}

type AnalysisResponse struct {
	ID     string                `json:"id"`
	Result entity.AnalysisResult `json:"result"`
}

type ConnectionResponse struct {
	Data entity.ConnectionStatus `json:"data"`
}

type AnalysisDataResponse struct {
	Data AnalysisResponse `json:"data,omitempty"`
}
