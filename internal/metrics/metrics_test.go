package metrics

import (
	"errors"
	"math"
	"testing"
)

func TestComputeBMIKnownValues(t *testing.T) {
	cases := []struct {
		weight, height, want float64
	}{
		{70, 175, 22.86},
		{50, 160, 19.53},
		{80, 180, 24.69},
		{100, 200, 25},
		{45.5, 152.4, 19.59},
	}

	for _, tc := range cases {
		got := ComputeBMI(tc.weight, tc.height)
		if got != tc.want {
			t.Fatalf("ComputeBMI(%v, %v) = %v, want %v", tc.weight, tc.height, got, tc.want)
		}
	}
}

func TestComputeBMIMatchesFormula(t *testing.T) {
	for w := 30.0; w <= 150; w += 7.3 {
		for h := 120.0; h <= 210; h += 11.1 {
			hm := h / 100
			want := math.Round(w/(hm*hm)*100) / 100
			got := ComputeBMI(w, h)
			if math.Abs(got-want) > 0.0051 {
				t.Fatalf("ComputeBMI(%v, %v) = %v, want ~%v", w, h, got, want)
			}
			if math.Abs(got*100-math.Round(got*100)) > 1e-6 {
				t.Fatalf("ComputeBMI(%v, %v) = %v has more than two decimals", w, h, got)
			}
		}
	}
}

func TestComputeBMIZeroHeightIsNaN(t *testing.T) {
	for _, h := range []float64{0, -10} {
		if got := ComputeBMI(70, h); !math.IsNaN(got) {
			t.Fatalf("expected NaN for height %v, got %v", h, got)
		}
	}
}

func TestValidateRequiresEveryField(t *testing.T) {
	full := Metrics{Glucose: 110, Systolic: 120, Diastolic: 80, Weight: 70, Height: 175}
	if err := full.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noHeight := full
	noHeight.Height = 0
	err := noHeight.Validate()
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "height" {
		t.Fatalf("expected height field error, got %v", err)
	}

	if err := (Metrics{}).Validate(); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected zero metrics to fail, got %v", err)
	}
}

func TestValidateRejectsNegative(t *testing.T) {
	m := Metrics{Glucose: 110, Systolic: 120, Diastolic: 80, Weight: -70, Height: 175}
	if err := m.Validate(); !errors.Is(err, ErrNegativeValue) {
		t.Fatalf("expected ErrNegativeValue, got %v", err)
	}
}

func TestWithBMIRecomputes(t *testing.T) {
	m := Metrics{Weight: 70, Height: 175, BMI: 99}
	if got := m.WithBMI().BMI; got != 22.86 {
		t.Fatalf("expected recomputed BMI 22.86, got %v", got)
	}
	if m.BMI != 99 {
		t.Fatal("WithBMI must not mutate the receiver")
	}
}

func TestBMICategory(t *testing.T) {
	cases := map[float64]Category{
		17.2:       Underweight,
		22.86:      Normal,
		27:         Overweight,
		30:         Obese,
		0:          Unknown,
		math.NaN(): Unknown,
	}
	for bmi, want := range cases {
		if got := BMICategory(bmi); got != want {
			t.Fatalf("BMICategory(%v) = %s, want %s", bmi, got, want)
		}
	}
}

func TestValidateRejectsNonFinite(t *testing.T) {
	m := Metrics{Glucose: 110, Systolic: 120, Diastolic: 80, Weight: 70, Height: math.Inf(1)}
	err := m.Validate()
	if !errors.Is(err, ErrNotFinite) {
		t.Fatalf("expected ErrNotFinite, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "height" {
		t.Fatalf("expected height field error, got %v", err)
	}

	m.Height = 175
	m.Glucose = math.NaN()
	if err := m.Validate(); !errors.Is(err, ErrNotFinite) {
		t.Fatalf("expected ErrNotFinite for NaN glucose, got %v", err)
	}
}

func TestValidateRejectsOverflowingBMI(t *testing.T) {
	m := Metrics{Glucose: 110, Systolic: 120, Diastolic: 80, Weight: 1e308, Height: 0.0001}
	if got := ComputeBMI(m.Weight, m.Height); !math.IsNaN(got) {
		t.Fatalf("expected NaN BMI for overflowing pair, got %v", got)
	}
	if err := m.Validate(); !errors.Is(err, ErrInvalidHeight) {
		t.Fatalf("expected ErrInvalidHeight, got %v", err)
	}
}
