package assessment

import (
	"context"
	"errors"
	"sync"

	"github.com/Skufu/vitalrisk/internal/metrics"
	"github.com/Skufu/vitalrisk/internal/prediction"
)

var ErrBusy = errors.New("a submission is already in flight")

// Requester is satisfied by *prediction.Client.
type Requester interface {
	Request(ctx context.Context, glucose, systolicBP, bmi float64) prediction.Result
}

// Form holds the single in-memory metrics/result pair behind one form.
// Fields start at zero and change one at a time; Submit derives BMI and
// fetches a result.
type Form struct {
	requester Requester

	mu      sync.Mutex
	metrics metrics.Metrics
	result  *prediction.Result
	busy    bool
}

func NewForm(requester Requester) *Form {
	return &Form{requester: requester}
}

func (f *Form) SetGlucose(v float64)   { f.update(func(m *metrics.Metrics) { m.Glucose = v }) }
func (f *Form) SetSystolic(v float64)  { f.update(func(m *metrics.Metrics) { m.Systolic = v }) }
func (f *Form) SetDiastolic(v float64) { f.update(func(m *metrics.Metrics) { m.Diastolic = v }) }
func (f *Form) SetWeight(v float64)    { f.update(func(m *metrics.Metrics) { m.Weight = v }) }
func (f *Form) SetHeight(v float64)    { f.update(func(m *metrics.Metrics) { m.Height = v }) }

func (f *Form) update(fn func(*metrics.Metrics)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.metrics)
}

func (f *Form) Metrics() metrics.Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metrics
}

// Result returns the last response, or false before any submission has
// completed.
func (f *Form) Result() (prediction.Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return prediction.Result{}, false
	}
	return *f.result, true
}

func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Submit recomputes BMI from the current weight and height, sends one
// prediction request and stores the outcome. The busy flag is cleared on
// every path.
func (f *Form) Submit(ctx context.Context) (prediction.Result, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return prediction.Result{}, ErrBusy
	}
	if err := f.metrics.Validate(); err != nil {
		f.mu.Unlock()
		return prediction.Result{}, err
	}
	f.metrics = f.metrics.WithBMI()
	m := f.metrics
	f.busy = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	result := f.requester.Request(ctx, m.Glucose, m.Systolic, m.BMI)

	f.mu.Lock()
	f.result = &result
	f.mu.Unlock()

	return result, nil
}
