package models

import "time"

// Class labels for the binary worm classifier.
const (
	ClassEarthworm = "earthworm"
	ClassFlatworm  = "flatworm"
)

// Prediction is one stored classification result.
// Username is empty when the upload was anonymous.
type Prediction struct {
	ID             string
	PredictedClass string
	Confidence     float64
	CreatedAt      time.Time
	Username       string
}
