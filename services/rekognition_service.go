package services

import (
	"context"
	"fmt"
	"time"

	"foodlens/metrics"
	"foodlens/models"
	"foodlens/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/sirupsen/logrus"
)

type rekognitionAPI interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Labels (or label parents) that count as food.
var foodLabels = map[string]struct{}{
	"Food": {}, "Meal": {}, "Dish": {}, "Drink": {}, "Beverage": {}, "Dessert": {},
	"Fruit": {}, "Vegetable": {}, "Produce": {}, "Bread": {}, "Breakfast": {},
	"Lunch": {}, "Dinner": {}, "Snack": {}, "Seafood": {}, "Meat": {}, "Pizza": {},
	"Burger": {}, "Salad": {}, "Soup": {}, "Coffee": {},
}

// RekognitionService screens images with AWS Rekognition labels.
type RekognitionService struct {
	client        rekognitionAPI
	minConfidence float32
}

func NewRekognitionService(ctx context.Context, region string, minConfidence float64) (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for Rekognition: %w", err)
	}
	return &RekognitionService{
		client:        rekognition.NewFromConfig(cfg),
		minConfidence: float32(minConfidence),
	}, nil
}

// RecognizeLabels returns the top labels for an image.
func (r *RekognitionService) RecognizeLabels(ctx context.Context, img utils.Image) ([]types.Label, error) {
	start := time.Now()
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: img.Data},
		MaxLabels:     aws.Int32(15),
		MinConfidence: aws.Float32(r.minConfidence),
	})
	metrics.ObserveVision("rekognition", time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return out.Labels, nil
}

// LooksLikeFood reports whether any label, or a parent of one, is food.
func (r *RekognitionService) LooksLikeFood(ctx context.Context, img utils.Image) (bool, []string, error) {
	labels, err := r.RecognizeLabels(ctx, img)
	if err != nil {
		return false, nil, err
	}

	names := make([]string, 0, len(labels))
	found := false
	for _, l := range labels {
		name := aws.ToString(l.Name)
		names = append(names, name)
		if _, ok := foodLabels[name]; ok {
			found = true
		}
		for _, p := range l.Parents {
			if _, ok := foodLabels[aws.ToString(p.Name)]; ok {
				found = true
			}
		}
	}
	return found, names, nil
}

type FoodScreener interface {
	LooksLikeFood(ctx context.Context, img utils.Image) (bool, []string, error)
}

// ScreenedVision skips the vision model for images the screener rejects.
// Screener failures fall through to the model.
type ScreenedVision struct {
	screener FoodScreener
	next     VisionAnalyzer
	log      *logrus.Entry
}

func NewScreenedVision(screener FoodScreener, next VisionAnalyzer, log *logrus.Entry) *ScreenedVision {
	return &ScreenedVision{screener: screener, next: next, log: log.WithField("component", "prescreen")}
}

func (v *ScreenedVision) Analyze(ctx context.Context, img utils.Image, lang Language) (*models.AnalysisResult, error) {
	ok, labels, err := v.screener.LooksLikeFood(ctx, img)
	if err != nil {
		v.log.WithError(err).Warn("prescreen failed, calling vision model")
		return v.next.Analyze(ctx, img, lang)
	}
	if !ok {
		v.log.WithField("labels", labels).Debug("image rejected by prescreen")
		reason := notFoodReason(lang)
		return &models.AnalysisResult{IsFood: false, Reason: &reason}, nil
	}
	return v.next.Analyze(ctx, img, lang)
}
