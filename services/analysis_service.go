package services

import (
	"context"
	"fmt"

	"foodlens/metrics"
	"foodlens/models"
	"foodlens/utils"

	"github.com/sirupsen/logrus"
)

type ImageStore interface {
	Upload(ctx context.Context, userID uint, img utils.Image) (string, error)
}

// AnalysisOutcome is returned for every analysis. Saved is true only when a
// signed-in user's image and result were stored.
type AnalysisOutcome struct {
	Analysis *models.AnalysisResult `json:"analysis"`
	Saved    bool                   `json:"saved"`
	Record   *models.FoodAnalysis   `json:"record,omitempty"`
}

type AnalysisService struct {
	vision  VisionAnalyzer
	images  ImageStore
	records RecordStore
	bus     *EventBus
	log     *logrus.Entry
}

func NewAnalysisService(vision VisionAnalyzer, images ImageStore, records RecordStore, bus *EventBus, log *logrus.Entry) *AnalysisService {
	return &AnalysisService{
		vision:  vision,
		images:  images,
		records: records,
		bus:     bus,
		log:     log.WithField("component", "analysis"),
	}
}

// Analyze runs the vision model. For a signed-in user (userID != 0) the image
// and result are stored afterwards; storage failures are logged only.
func (s *AnalysisService) Analyze(ctx context.Context, userID uint, img utils.Image, lang Language) (*AnalysisOutcome, error) {
	result, err := s.vision.Analyze(ctx, img, lang)
	if err != nil {
		metrics.IncAnalysis("error")
		return nil, fmt.Errorf("analyze image: %w", err)
	}
	if result.IsFood {
		metrics.IncAnalysis("food")
	} else {
		metrics.IncAnalysis("not_food")
	}

	out := &AnalysisOutcome{Analysis: result}
	if userID == 0 {
		return out, nil
	}

	log := s.log.WithField("user_id", userID)
	if s.images == nil {
		log.Warn("image storage not configured, analysis not saved")
		return out, nil
	}

	url, err := s.images.Upload(ctx, userID, img)
	if err != nil {
		log.WithError(err).Error("failed to upload food image")
		return out, nil
	}
	rec, err := s.records.SaveFoodAnalysis(ctx, userID, url, *result)
	if err != nil {
		log.WithError(err).Error("failed to save analysis")
		return out, nil
	}

	out.Saved = true
	out.Record = rec
	s.bus.Publish(Event{Kind: EventAnalysisCreated, UserID: userID, Payload: rec})
	return out, nil
}

func (s *AnalysisService) List(ctx context.Context, userID uint) ([]models.FoodAnalysis, error) {
	return s.records.ListFoodAnalyses(ctx, userID)
}

func (s *AnalysisService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.records.DeleteFoodAnalysis(ctx, userID, id); err != nil {
		return err
	}
	s.bus.Publish(Event{Kind: EventAnalysisDeleted, UserID: userID, Payload: map[string]uint{"id": id}})
	return nil
}
