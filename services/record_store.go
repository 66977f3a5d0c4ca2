package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foodlens/health"
	"foodlens/metrics"
	"foodlens/models"

	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

// RecordStore persists analyses and health-test history per user.
type RecordStore interface {
	SaveFoodAnalysis(ctx context.Context, userID uint, imageURL string, result models.AnalysisResult) (*models.FoodAnalysis, error)
	ListFoodAnalyses(ctx context.Context, userID uint) ([]models.FoodAnalysis, error)
	DeleteFoodAnalysis(ctx context.Context, userID, id uint) error

	SaveHealthTest(ctx context.Context, userID uint, result health.Result) (*models.HealthTestRecord, error)
	ListHealthTests(ctx context.Context, userID uint, testType health.TestType) ([]models.HealthTestRecord, error)
	DeleteHealthTest(ctx context.Context, userID, id uint) error
}

var _ RecordStore = (*GormRecordStore)(nil)

type GormRecordStore struct{ db *gorm.DB }

func NewGormRecordStore(db *gorm.DB) *GormRecordStore { return &GormRecordStore{db: db} }

func (s *GormRecordStore) SaveFoodAnalysis(
	ctx context.Context, userID uint, imageURL string, result models.AnalysisResult,
) (*models.FoodAnalysis, error) {
	rec := &models.FoodAnalysis{
		UserID:       userID,
		ImageURL:     imageURL,
		AnalysisData: result,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("insert food analysis: %w", err)
	}
	metrics.IncRecord("food_analyses", "insert")
	return rec, nil
}

func (s *GormRecordStore) ListFoodAnalyses(ctx context.Context, userID uint) ([]models.FoodAnalysis, error) {
	var rows []models.FoodAnalysis
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list food analyses: %w", err)
	}
	return rows, nil
}

func (s *GormRecordStore) DeleteFoodAnalysis(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.FoodAnalysis{})
	if res.Error != nil {
		return fmt.Errorf("delete food analysis: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	metrics.IncRecord("food_analyses", "delete")
	return nil
}

func (s *GormRecordStore) SaveHealthTest(ctx context.Context, userID uint, result health.Result) (*models.HealthTestRecord, error) {
	data, err := json.Marshal(result.TestData)
	if err != nil {
		return nil, fmt.Errorf("encode test data: %w", err)
	}
	rec := &models.HealthTestRecord{
		UserID:         userID,
		TestType:       string(result.TestType),
		TestData:       data,
		ResultValue:    result.ResultValue,
		ResultCategory: result.ResultCategory,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("insert health test: %w", err)
	}
	metrics.IncRecord("health_tests", "insert")
	return rec, nil
}

// ListHealthTests returns the newest records first. An empty testType lists all.
func (s *GormRecordStore) ListHealthTests(ctx context.Context, userID uint, testType health.TestType) ([]models.HealthTestRecord, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if testType != "" {
		q = q.Where("test_type = ?", string(testType))
	}

	var rows []models.HealthTestRecord
	if err := q.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list health tests: %w", err)
	}
	return rows, nil
}

func (s *GormRecordStore) DeleteHealthTest(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.HealthTestRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete health test: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	metrics.IncRecord("health_tests", "delete")
	return nil
}

// RecordResult rebuilds the typed result from a stored record.
func RecordResult(rec models.HealthTestRecord) (health.Result, error) {
	t, err := health.ParseTestType(rec.TestType)
	if err != nil {
		return health.Result{}, err
	}
	in, err := health.DecodeInput(t, rec.TestData)
	if err != nil {
		return health.Result{}, err
	}
	return health.Result{
		TestType:       t,
		TestData:       in,
		ResultValue:    rec.ResultValue,
		ResultCategory: rec.ResultCategory,
	}, nil
}
