package mood

import "time"

// Log is a single mood submission. Logs are append-only; a user may
// submit more than once per day.
type Log struct {
	ID          string    `bson:"_id" json:"_id"`
	Stress      int       `bson:"stress" json:"stress"`
	Happiness   int       `bson:"happiness" json:"happiness"`
	Energy      int       `bson:"energy" json:"energy"`
	Focus       int       `bson:"focus" json:"focus"`
	Calmness    int       `bson:"calmness" json:"calmness"`
	Description string    `bson:"description" json:"description"`
	Date        string    `bson:"date" json:"date"` // YYYY-MM-DD
	Prediction  string    `bson:"prediction" json:"prediction"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// Point is one aggregated output bucket (a day or a week). Derived,
// never persisted.
type Point struct {
	Label     string  `json:"date"`
	Stress    float64 `json:"Stress"`
	Happiness float64 `json:"Happiness"`
	Energy    float64 `json:"Energy"`
	Focus     float64 `json:"Focus"`
	Calmness  float64 `json:"Calmness"`
}
