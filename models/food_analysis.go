package models

import "time"

// FoodAnalysis is a saved analysis shown on the user's dashboard.
type FoodAnalysis struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	ImageURL     string         `json:"image_url"`
	AnalysisData AnalysisResult `gorm:"type:jsonb;serializer:json" json:"analysis_data"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (FoodAnalysis) TableName() string { return "food_analyses" }
