// Command riskcheck computes BMI and asks the risk service for a prediction
// from the terminal.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/Skufu/vitalrisk/internal/assessment"
	"github.com/Skufu/vitalrisk/internal/config"
	"github.com/Skufu/vitalrisk/internal/logging"
	"github.com/Skufu/vitalrisk/internal/metrics"
	"github.com/Skufu/vitalrisk/internal/prediction"
	"github.com/Skufu/vitalrisk/internal/risk"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("riskcheck failed")
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "riskcheck",
		Usage:     "compute BMI and request a diabetes risk prediction",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			logging.Init(c.String("log-level"), "console")
			return nil
		},
		Commands: []*cli.Command{
			bmiCommand(),
			predictCommand(),
		},
	}
}

func bmiCommand() *cli.Command {
	return &cli.Command{
		Name:  "bmi",
		Usage: "compute body-mass index",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "weight", Usage: "weight in kg", Required: true},
			&cli.Float64Flag{Name: "height", Usage: "height in cm", Required: true},
		},
		Action: func(c *cli.Context) error {
			height := c.Float64("height")
			if height <= 0 {
				return cli.Exit("height must be greater than zero", 2)
			}
			bmi := metrics.ComputeBMI(c.Float64("weight"), height)
			fmt.Fprintf(c.App.Writer, "BMI: %.2f (%s)\n", bmi, metrics.BMICategory(bmi))
			return nil
		},
	}
}

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "compute BMI and request a prediction",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "glucose", Usage: "glucose in mg/dL", Required: true},
			&cli.Float64Flag{Name: "systolic", Usage: "systolic blood pressure in mmHg", Required: true},
			&cli.Float64Flag{Name: "diastolic", Usage: "diastolic blood pressure in mmHg", Required: true},
			&cli.Float64Flag{Name: "weight", Usage: "weight in kg", Required: true},
			&cli.Float64Flag{Name: "height", Usage: "height in cm", Required: true},
			&cli.StringFlag{Name: "endpoint", Usage: "prediction endpoint", EnvVars: []string{"PREDICTION_URL"}, Value: config.DefaultPredictionURL},
			&cli.DurationFlag{Name: "timeout", Usage: "request timeout (0 = none)", EnvVars: []string{"PREDICTION_TIMEOUT"}},
			&cli.BoolFlag{Name: "json", Usage: "print the result as JSON"},
		},
		Action: func(c *cli.Context) error {
			client := prediction.NewClient(c.String("endpoint"), prediction.WithTimeout(c.Duration("timeout")))
			form := assessment.NewForm(client)
			form.SetGlucose(c.Float64("glucose"))
			form.SetSystolic(c.Float64("systolic"))
			form.SetDiastolic(c.Float64("diastolic"))
			form.SetWeight(c.Float64("weight"))
			form.SetHeight(c.Float64("height"))

			result, err := form.Submit(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			return printResult(c.App.Writer, form.Metrics(), result, c.Bool("json"))
		},
	}
}

func printResult(w io.Writer, m metrics.Metrics, result prediction.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Metrics    metrics.Metrics   `json:"metrics"`
			Prediction prediction.Result `json:"prediction"`
			Risk       risk.Category     `json:"risk"`
		}{m, result, risk.Classify(result)})
	}

	fmt.Fprintf(w, "BMI: %.2f (%s)\n", m.BMI, metrics.BMICategory(m.BMI))
	fmt.Fprintf(w, "Glucose Level: %g mg/dL\n", m.Glucose)
	fmt.Fprintf(w, "Blood Pressure: %g/%g mmHg\n", m.Systolic, m.Diastolic)
	fmt.Fprintln(w, risk.Message(result))
	if !result.Failed() {
		fmt.Fprintf(w, "Prediction: %s\n", risk.Label(result))
		fmt.Fprintf(w, "Confidence: %s\n", risk.Confidence(result))
	}
	return nil
}
