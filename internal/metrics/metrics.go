// Package metrics exposes prometheus collectors for wizard navigation and
// the company listing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "onboarding"

// Recorder implements the onboarding, registration and companies recorders.
type Recorder struct {
	stepTransitions  *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
	invalidFields    prometheus.Histogram
	submissions      prometheus.Counter
	registrations    *prometheus.CounterVec
	listingActions   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		stepTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wizard",
				Name:      "step_transitions_total",
				Help:      "Total number of wizard step changes by origin and target step",
			},
			[]string{"from", "to"},
		),
		validationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wizard",
				Name:      "validation_failures_total",
				Help:      "Total number of rejected step validations by step",
			},
			[]string{"step"},
		),
		invalidFields: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "wizard",
				Name:      "invalid_fields",
				Help:      "Number of invalid fields per rejected step validation",
				Buckets:   prometheus.LinearBuckets(1, 1, 8),
			},
		),
		submissions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wizard",
				Name:      "submissions_total",
				Help:      "Total number of onboarding form submissions",
			},
		),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registration",
				Name:      "results_total",
				Help:      "Total number of processed registrations by outcome",
			},
			[]string{"outcome"},
		),
		listingActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "companies",
				Name:      "actions_total",
				Help:      "Total number of listing actions by action and outcome",
			},
			[]string{"action", "outcome"},
		),
	}

	if reg != nil {
		for _, c := range r.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (r *Recorder) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		r.stepTransitions,
		r.validationErrors,
		r.invalidFields,
		r.submissions,
		r.registrations,
		r.listingActions,
	}
}

// StepChanged counts a wizard transition.
func (r *Recorder) StepChanged(from, to int) {
	r.stepTransitions.WithLabelValues(strconv.Itoa(from), strconv.Itoa(to)).Inc()
}

// ValidationFailed counts a rejected step and the number of invalid fields.
func (r *Recorder) ValidationFailed(step, fields int) {
	r.validationErrors.WithLabelValues(strconv.Itoa(step)).Inc()
	r.invalidFields.Observe(float64(fields))
}

// Submitted counts a form submission.
func (r *Recorder) Submitted() {
	r.submissions.Inc()
}

// Registered counts a processed registration.
func (r *Recorder) Registered(outcome string) {
	r.registrations.WithLabelValues(outcome).Inc()
}

// Observe counts a listing action.
func (r *Recorder) Observe(action, outcome string) {
	if action == "" {
		action = "none"
	}
	r.listingActions.WithLabelValues(action, outcome).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
