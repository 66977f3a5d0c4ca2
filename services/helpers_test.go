package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"foodlens/health"
	"foodlens/models"
	"foodlens/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

type fakeVision struct {
	result *models.AnalysisResult
	err    error
	calls  int
	lang   Language
}

func (f *fakeVision) Analyze(_ context.Context, _ utils.Image, lang Language) (*models.AnalysisResult, error) {
	f.calls++
	f.lang = lang
	return f.result, f.err
}

type fakeImageStore struct {
	url string
	err error
}

func (f *fakeImageStore) Upload(_ context.Context, _ uint, _ utils.Image) (string, error) {
	return f.url, f.err
}

// memoryRecords is an in-memory RecordStore.
type memoryRecords struct {
	mu        sync.Mutex
	analyses  []models.FoodAnalysis
	tests     []models.HealthTestRecord
	nextID    uint
	saveErr   error
	listError error
}

var _ RecordStore = (*memoryRecords)(nil)

func (m *memoryRecords) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memoryRecords) SaveFoodAnalysis(_ context.Context, userID uint, url string, r models.AnalysisResult) (*models.FoodAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	rec := models.FoodAnalysis{ID: m.id(), UserID: userID, ImageURL: url, AnalysisData: r}
	m.analyses = append(m.analyses, rec)
	return &rec, nil
}

func (m *memoryRecords) ListFoodAnalyses(_ context.Context, userID uint) ([]models.FoodAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FoodAnalysis
	for i := len(m.analyses) - 1; i >= 0; i-- {
		if m.analyses[i].UserID == userID {
			out = append(out, m.analyses[i])
		}
	}
	return out, m.listError
}

func (m *memoryRecords) DeleteFoodAnalysis(_ context.Context, userID, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.analyses {
		if a.ID == id && a.UserID == userID {
			m.analyses = append(m.analyses[:i], m.analyses[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

func (m *memoryRecords) SaveHealthTest(ctx context.Context, userID uint, r health.Result) (*models.HealthTestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	data, err := json.Marshal(r.TestData)
	if err != nil {
		return nil, err
	}
	rec := models.HealthTestRecord{
		ID: m.id(), UserID: userID, TestType: string(r.TestType), TestData: data,
		ResultValue: r.ResultValue, ResultCategory: r.ResultCategory,
	}
	m.tests = append(m.tests, rec)
	return &rec, nil
}

func (m *memoryRecords) ListHealthTests(_ context.Context, userID uint, t health.TestType) ([]models.HealthTestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HealthTestRecord
	for i := len(m.tests) - 1; i >= 0; i-- {
		rec := m.tests[i]
		if rec.UserID == userID && (t == "" || rec.TestType == string(t)) {
			out = append(out, rec)
		}
	}
	return out, m.listError
}

func (m *memoryRecords) DeleteHealthTest(_ context.Context, userID, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.tests {
		if r.ID == id && r.UserID == userID {
			m.tests = append(m.tests[:i], m.tests[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

var errBoom = errors.New("boom")

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}
