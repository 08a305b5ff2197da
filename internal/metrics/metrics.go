// Package metrics holds the health metrics collected by the form and the
// body-mass index derived from them.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingField  = errors.New("field is required")
	ErrNegativeValue = errors.New("field must not be negative")
	ErrNotFinite     = errors.New("field must be a finite number")
	ErrInvalidHeight = errors.New("height and weight do not give a finite BMI")
)

// Metrics is the single form record. BMI is derived and never user-entered.
type Metrics struct {
	Glucose   float64 `json:"glucose" form:"glucose" validate:"required,gte=0"`
	Systolic  float64 `json:"systolic" form:"systolic" validate:"required,gte=0"`
	Diastolic float64 `json:"diastolic" form:"diastolic" validate:"required,gte=0"`
	Weight    float64 `json:"weight" form:"weight" validate:"required,gte=0"`
	Height    float64 `json:"height" form:"height" validate:"required,gte=0"`
	BMI       float64 `json:"bmi" form:"-"`
}

// FieldError reports the first field that failed validation.
type FieldError struct {
	Field string
	err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.err)
}

func (e *FieldError) Unwrap() error {
	return e.err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate enforces that every user-entered field is present and finite,
// and that weight and height give a finite BMI. A zero value counts as
// missing, matching a blank form input.
func (m Metrics) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"glucose", m.Glucose},
		{"systolic", m.Systolic},
		{"diastolic", m.Diastolic},
		{"weight", m.Weight},
		{"height", m.Height},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &FieldError{Field: f.name, err: ErrNotFinite}
		}
	}

	if err := validate.Struct(m); err != nil {
		return fieldError(err)
	}

	if math.IsNaN(ComputeBMI(m.Weight, m.Height)) {
		return &FieldError{Field: "height", err: ErrInvalidHeight}
	}
	return nil
}

func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate metrics: %w", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &FieldError{Field: fe.Field(), err: ErrMissingField}
	case "gte":
		return &FieldError{Field: fe.Field(), err: ErrNegativeValue}
	default:
		return &FieldError{Field: fe.Field(), err: fmt.Errorf("failed %q check", fe.Tag())}
	}
}

// WithBMI returns a copy of m with BMI recomputed from the current weight
// and height.
func (m Metrics) WithBMI() Metrics {
	m.BMI = ComputeBMI(m.Weight, m.Height)
	return m
}

// ComputeBMI returns weight / (height in metres)^2 rounded half away from
// zero to two decimals. It returns NaN when heightCm is not positive.
func ComputeBMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || math.IsInf(heightCm, 0) {
		return math.NaN()
	}

	heightM := heightCm / 100
	raw := weightKg / (heightM * heightM)
	if math.IsInf(raw, 0) || math.IsNaN(raw) {
		return math.NaN()
	}

	rounded, _ := decimal.NewFromFloat(raw).Round(2).Float64()
	return rounded
}

// Category is a WHO adult BMI band.
type Category string

const (
	Underweight Category = "Underweight"
	Normal      Category = "Normal"
	Overweight  Category = "Overweight"
	Obese       Category = "Obese"
	Unknown     Category = "Unknown"
)

func BMICategory(bmi float64) Category {
	switch {
	case math.IsNaN(bmi) || bmi <= 0:
		return Unknown
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return Overweight
	default:
		return Obese
	}
}
