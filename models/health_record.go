package models

import (
	"encoding/json"
	"time"
)

// HealthTestRecord stores one computed health test. TestData holds the
// input echo for TestType.
type HealthTestRecord struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	TestType       string          `gorm:"size:32;index;not null" json:"test_type"`
	TestData       json.RawMessage `gorm:"type:jsonb;serializer:json" json:"test_data"`
	ResultValue    float64         `json:"result_value"`
	ResultCategory string          `gorm:"size:64" json:"result_category"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
}

func (HealthTestRecord) TableName() string { return "health_tests" }
