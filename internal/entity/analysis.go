package entity

type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

type Ingredient struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Confidence int       `json:"confidence"`
	Position   Position  `json:"position"`
	Nutrition  Nutrition `json:"nutrition"`
	Benefits   string    `json:"benefits,omitempty"`
}

// AnalysisResult is the display-ready snapshot of one analyzed image.
type AnalysisResult struct {
	ImageURL        string       `json:"imageUrl"`
	Ingredients     []Ingredient `json:"ingredients"`
	TotalNutrition  Nutrition    `json:"totalNutrition"`
	Confidence      int          `json:"confidence"`
	Resolution      string       `json:"resolution"`
	ObjectsDetected int          `json:"objectsDetected"`
}
