package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"foodlens/health"
	"foodlens/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGormRecordStoreSaveFoodAnalysis(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormRecordStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "food_analyses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	rec, err := store.SaveFoodAnalysis(context.Background(), 3, "https://cdn/x.jpg", models.AnalysisResult{
		IsFood:   true,
		DishName: strPtr("Lohikeitto"),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), rec.ID)
	assert.Equal(t, uint(3), rec.UserID)
	assert.Equal(t, "https://cdn/x.jpg", rec.ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRecordStoreListFoodAnalyses(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormRecordStore(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "image_url", "analysis_data", "created_at"}).
		AddRow(2, 3, "b.jpg", `{"isFood":true,"dishName":"Pizza"}`, now).
		AddRow(1, 3, "a.jpg", `{"isFood":false,"reason":"cat"}`, now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT \* FROM "food_analyses" WHERE user_id = \$1 ORDER BY created_at desc`).
		WithArgs(3).
		WillReturnRows(rows)

	got, err := store.ListFoodAnalyses(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].AnalysisData.IsFood)
	require.NotNil(t, got[0].AnalysisData.DishName)
	assert.Equal(t, "Pizza", *got[0].AnalysisData.DishName)
	assert.False(t, got[1].AnalysisData.IsFood)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRecordStoreDeleteScopedToUser(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormRecordStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "food_analyses" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(9, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, store.DeleteFoodAnalysis(context.Background(), 3, 9))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "health_tests" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(9, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	err := store.DeleteHealthTest(context.Background(), 4, 9)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRecordStoreSaveHealthTest(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormRecordStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "health_tests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	rec, err := store.SaveHealthTest(context.Background(), 5, health.ComputeBMI(170, 65))
	require.NoError(t, err)
	assert.Equal(t, uint(11), rec.ID)
	assert.Equal(t, "bmi", rec.TestType)
	assert.Equal(t, 22.49, rec.ResultValue)
	assert.Equal(t, "Normal", rec.ResultCategory)
	assert.JSONEq(t, `{"height":170,"weight":65}`, string(rec.TestData))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRecordStoreListHealthTestsByType(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormRecordStore(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "test_type", "test_data", "result_value", "result_category", "created_at"}).
		AddRow(4, 5, "bmr", `{"height":170,"weight":70,"age":30,"gender":"male"}`, 1618.0, "Calculated", time.Now())
	mock.ExpectQuery(`SELECT \* FROM "health_tests" WHERE user_id = \$1 AND test_type = \$2 ORDER BY created_at desc`).
		WithArgs(5, "bmr").
		WillReturnRows(rows)

	got, err := store.ListHealthTests(context.Background(), 5, health.TestBMR)
	require.NoError(t, err)
	require.Len(t, got, 1)

	r, err := RecordResult(got[0])
	require.NoError(t, err)
	assert.Equal(t, health.ComputeBMR(170, 70, 30, health.Male), r)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordResultRejectsUnknownType(t *testing.T) {
	_, err := RecordResult(models.HealthTestRecord{TestType: "body_fat", TestData: json.RawMessage(`{}`)})
	assert.Error(t, err)
}
