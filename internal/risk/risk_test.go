package risk

import (
	"testing"

	"github.com/Skufu/vitalrisk/internal/prediction"
)

func TestCategorizeBands(t *testing.T) {
	cases := []struct {
		p    float64
		want Category
	}{
		{0, Low},
		{0.39, Low},
		{0.4, Medium},
		{0.69, Medium},
		{0.7, High},
		{0.87, High},
	}
	for _, tc := range cases {
		if got := Categorize(tc.p); got != tc.want {
			t.Fatalf("Categorize(%v) = %+v, want %+v", tc.p, got, tc.want)
		}
	}
}

func TestMessage(t *testing.T) {
	high := prediction.Result{Prediction: 1, Probability: 0.87}
	if got := Message(high); got != "Risk Detected: There is a 87.00% chance of diabetes risk." {
		t.Fatalf("unexpected message: %q", got)
	}

	low := prediction.Result{Prediction: 0, Probability: 0.1234}
	if got := Message(low); got != "Low Risk: There is a 12.34% chance of being healthy." {
		t.Fatalf("unexpected message: %q", got)
	}

	if got := Message(prediction.Failed); got != "Prediction unavailable: the risk service could not be reached." {
		t.Fatalf("unexpected failure message: %q", got)
	}
}

func TestLabelAndConfidence(t *testing.T) {
	r := prediction.Result{Prediction: 1, Probability: 0.5}
	if Label(r) != "High Risk" {
		t.Fatalf("expected High Risk label, got %s", Label(r))
	}
	if Confidence(r) != "50.00%" {
		t.Fatalf("unexpected confidence %s", Confidence(r))
	}
	if Label(prediction.Result{}) != "Low Risk" {
		t.Fatal("expected Low Risk label for prediction 0")
	}
	if Label(prediction.Failed) != "Unavailable" {
		t.Fatal("a failed request must not read as low risk")
	}
}

func TestClassifyFailed(t *testing.T) {
	if got := Classify(prediction.Failed); got != Unavailable {
		t.Fatalf("expected Unavailable, got %+v", got)
	}
	if got := Classify(prediction.Result{Prediction: 1, Probability: 0.9}); got != High {
		t.Fatalf("expected High, got %+v", got)
	}
}
