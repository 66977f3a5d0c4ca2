package services

import (
	"context"
	"testing"

	"foodlens/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalysis(vision VisionAnalyzer, images ImageStore, records RecordStore) (*AnalysisService, *recorder) {
	bus := NewEventBus()
	rec := &recorder{}
	bus.Subscribe(rec.add)
	return NewAnalysisService(vision, images, records, bus, testLogger()), rec
}

func TestAnalyzeAnonymousIsNotSaved(t *testing.T) {
	vision := &fakeVision{result: &models.AnalysisResult{IsFood: true, DishName: strPtr("Soup")}}
	records := &memoryRecords{}
	svc, rec := newTestAnalysis(vision, &fakeImageStore{url: "https://cdn/a.jpg"}, records)

	out, err := svc.Analyze(context.Background(), 0, testImage, LangFinnish)
	require.NoError(t, err)
	assert.True(t, out.Analysis.IsFood)
	assert.False(t, out.Saved)
	assert.Nil(t, out.Record)
	assert.Empty(t, records.analyses)
	assert.Empty(t, rec.kinds())
}

func TestAnalyzeSignedInIsSaved(t *testing.T) {
	vision := &fakeVision{result: &models.AnalysisResult{IsFood: true, DishName: strPtr("Soup")}}
	records := &memoryRecords{}
	svc, rec := newTestAnalysis(vision, &fakeImageStore{url: "https://cdn/a.jpg"}, records)

	out, err := svc.Analyze(context.Background(), 5, testImage, LangEnglish)
	require.NoError(t, err)
	assert.True(t, out.Saved)
	require.NotNil(t, out.Record)
	assert.Equal(t, "https://cdn/a.jpg", out.Record.ImageURL)
	assert.Equal(t, uint(5), out.Record.UserID)
	assert.Equal(t, LangEnglish, vision.lang)
	assert.Equal(t, []string{EventAnalysisCreated}, rec.kinds())

	list, err := svc.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAnalyzeStorageFailuresAreSwallowed(t *testing.T) {
	result := &models.AnalysisResult{IsFood: true}

	t.Run("upload", func(t *testing.T) {
		svc, rec := newTestAnalysis(&fakeVision{result: result}, &fakeImageStore{err: errBoom}, &memoryRecords{})
		out, err := svc.Analyze(context.Background(), 5, testImage, LangFinnish)
		require.NoError(t, err)
		assert.Same(t, result, out.Analysis)
		assert.False(t, out.Saved)
		assert.Empty(t, rec.kinds())
	})

	t.Run("insert", func(t *testing.T) {
		svc, _ := newTestAnalysis(&fakeVision{result: result}, &fakeImageStore{url: "u"}, &memoryRecords{saveErr: errBoom})
		out, err := svc.Analyze(context.Background(), 5, testImage, LangFinnish)
		require.NoError(t, err)
		assert.False(t, out.Saved)
	})

	t.Run("no image store", func(t *testing.T) {
		svc, _ := newTestAnalysis(&fakeVision{result: result}, nil, &memoryRecords{})
		out, err := svc.Analyze(context.Background(), 5, testImage, LangFinnish)
		require.NoError(t, err)
		assert.False(t, out.Saved)
	})
}

func TestAnalyzeVisionError(t *testing.T) {
	svc, _ := newTestAnalysis(&fakeVision{err: errBoom}, &fakeImageStore{url: "u"}, &memoryRecords{})
	_, err := svc.Analyze(context.Background(), 5, testImage, LangFinnish)
	assert.ErrorIs(t, err, errBoom)
}

func TestAnalysisDelete(t *testing.T) {
	records := &memoryRecords{}
	svc, rec := newTestAnalysis(&fakeVision{result: &models.AnalysisResult{IsFood: true}}, &fakeImageStore{url: "u"}, records)

	out, err := svc.Analyze(context.Background(), 5, testImage, LangFinnish)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), 6, out.Record.ID), ErrRecordNotFound)
	require.NoError(t, svc.Delete(context.Background(), 5, out.Record.ID))
	assert.Equal(t, []string{EventAnalysisCreated, EventAnalysisDeleted}, rec.kinds())
}
