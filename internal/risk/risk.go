// Package risk turns a classifier result into what the form shows.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skufu/vitalrisk/internal/prediction"
)

type Category struct {
	Level string `json:"level"`
	Color string `json:"color"`
}

var (
	Low         = Category{Level: "Low Risk", Color: "Green"}
	Medium      = Category{Level: "Medium Risk", Color: "Amber"}
	High        = Category{Level: "High Risk", Color: "Red"}
	Unavailable = Category{Level: "Unavailable", Color: "Grey"}
)

// Categorize maps the probability of elevated risk onto three bands.
func Categorize(probability float64) Category {
	switch {
	case probability < 0.4:
		return Low
	case probability < 0.7:
		return Medium
	default:
		return High
	}
}

// Classify is Categorize for a full result; failed results are Unavailable.
func Classify(r prediction.Result) Category {
	if r.Failed() {
		return Unavailable
	}
	return Categorize(r.Probability)
}

func Label(r prediction.Result) string {
	if r.Failed() {
		return "Unavailable"
	}
	if r.Prediction == 1 {
		return "High Risk"
	}
	return "Low Risk"
}

// Percent formats a probability as a percentage with two decimals.
func Percent(probability float64) string {
	return decimal.NewFromFloat(probability).Mul(decimal.NewFromInt(100)).StringFixed(2)
}

func Confidence(r prediction.Result) string {
	return Percent(r.Probability) + "%"
}

func Message(r prediction.Result) string {
	if r.Failed() {
		return "Prediction unavailable: the risk service could not be reached."
	}
	if r.Prediction == 1 {
		return fmt.Sprintf("Risk Detected: There is a %s%% chance of diabetes risk.", Percent(r.Probability))
	}
	return fmt.Sprintf("Low Risk: There is a %s%% chance of being healthy.", Percent(r.Probability))
}
