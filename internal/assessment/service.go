// Package assessment runs one form submission end to end: recompute BMI,
// ask the classifier, and describe the outcome.
package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Skufu/vitalrisk/internal/alert"
	"github.com/Skufu/vitalrisk/internal/metrics"
	"github.com/Skufu/vitalrisk/internal/prediction"
	"github.com/Skufu/vitalrisk/internal/risk"
)

// Predictor is satisfied by *prediction.Client.
type Predictor interface {
	Predict(ctx context.Context, glucose, systolicBP, bmi float64) (prediction.Result, error)
}

type Assessment struct {
	ID          string            `json:"id"`
	Metrics     metrics.Metrics   `json:"metrics"`
	BMICategory metrics.Category  `json:"bmiCategory"`
	Prediction  prediction.Result `json:"prediction"`
	Error       prediction.Kind   `json:"error,omitempty"`
	Risk        risk.Category     `json:"risk"`
	Label       string            `json:"label"`
	Confidence  string            `json:"confidence"`
	Message     string            `json:"message"`
	AssessedAt  time.Time         `json:"assessedAt"`
}

func (a Assessment) Failed() bool {
	return a.Error != ""
}

type Service struct {
	predictor Predictor
	notifier  alert.Notifier
}

func NewService(predictor Predictor, notifier alert.Notifier) *Service {
	if notifier == nil {
		notifier = alert.LogNotifier{}
	}
	return &Service{predictor: predictor, notifier: notifier}
}

// Assess validates m, recomputes its BMI and requests a prediction.
// Validation failures are returned; prediction failures are recorded on the
// assessment with the sentinel result.
func (s *Service) Assess(ctx context.Context, m metrics.Metrics) (Assessment, error) {
	if err := m.Validate(); err != nil {
		return Assessment{}, err
	}

	m = m.WithBMI()
	a := Assessment{
		ID:          uuid.NewString(),
		Metrics:     m,
		BMICategory: metrics.BMICategory(m.BMI),
		AssessedAt:  time.Now().UTC(),
	}

	result, err := s.predictor.Predict(ctx, m.Glucose, m.Systolic, m.BMI)
	if err != nil {
		log.Warn().Err(err).Str("assessment_id", a.ID).Msg("prediction request failed")
		result = prediction.Failed
		a.Error = prediction.KindOf(err)
		if a.Error == "" {
			a.Error = prediction.KindNetwork
		}
	}

	a.Prediction = result
	a.Risk = risk.Classify(result)
	a.Label = risk.Label(result)
	a.Confidence = risk.Confidence(result)
	a.Message = risk.Message(result)

	if a.Risk == risk.High {
		s.raise(ctx, a)
	}

	return a, nil
}

func (s *Service) raise(ctx context.Context, a Assessment) {
	event := alert.New(a.ID, a.Metrics.Glucose, a.Metrics.Systolic, a.Metrics.BMI, a.Prediction.Probability, a.Risk.Level)
	if err := s.notifier.Notify(ctx, event); err != nil {
		log.Error().Err(err).Str("assessment_id", a.ID).Msg("failed to publish high risk alert")
	}
}
