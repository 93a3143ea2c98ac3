package converter

import "NutriVision/internal/entity"

// ToPosition maps a normalized [x1, y1, x2, y2] box to percentages of the
// image size. Boxes with fewer than four coordinates map to the zero
// rectangle; inverted boxes are clamped to zero width or height.
func ToPosition(box []float64) entity.Position {
	if len(box) < 4 {
		return entity.Position{}
	}
	x1, y1, x2, y2 := box[0], box[1], box[2], box[3]

	return entity.Position{
		X:      Round2(x1 * 100),
		Y:      Round2(y1 * 100),
		Width:  clampZero(Round2((x2 - x1) * 100)),
		Height: clampZero(Round2((y2 - y1) * 100)),
	}
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
