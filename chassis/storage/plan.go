package storage

import (
	"time"
)

// Plan - a generated day meal plan cached until ExpiresDt
type Plan struct {
	ID        string
	HeightCm  int
	WeightKg  float64
	Budget    float64
	Goal      string
	Body      string
	CreatedDt time.Time
	ExpiresDt time.Time
}
