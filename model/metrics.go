/*
Copyright © 2026 the windmover authors.
This file is part of windmover.

windmover is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

windmover is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with windmover.  If not, see <http://www.gnu.org/licenses/>.
*/

package model

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spatialmodel/windmover"
)

// Metrics holds Prometheus metrics describing a model run.
type Metrics struct {
	Steps        prometheus.Counter
	Elements     *prometheus.GaugeVec
	StepDuration prometheus.Histogram
	WindErrors   prometheus.Counter
}

// NewMetrics registers model metrics against reg, defaulting to the
// global Prometheus registry when nil. Metrics that are already
// registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	steps, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "windmover_steps_total",
		Help: "Total number of completed model steps.",
	}), "windmover_steps_total")
	if err != nil {
		return nil, err
	}
	elements, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "windmover_elements",
		Help: "Current number of elements in the model, labeled by spill type.",
	}, []string{"spill_type"}), "windmover_elements")
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "windmover_step_duration_seconds",
		Help:    "Wall-clock time taken by each model step.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}), "windmover_step_duration_seconds")
	if err != nil {
		return nil, err
	}
	windErrors, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "windmover_wind_errors_total",
		Help: "Total number of steps for which the wind could not be resolved.",
	}), "windmover_wind_errors_total")
	if err != nil {
		return nil, err
	}
	return &Metrics{
		Steps:        steps,
		Elements:     elements,
		StepDuration: duration,
		WindErrors:   windErrors,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("model: collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}

func (m *Metrics) observeStep(start time.Time, containers []*SpillContainer) {
	if m == nil {
		return
	}
	m.Steps.Inc()
	m.StepDuration.Observe(time.Since(start).Seconds())
	counts := map[windmover.LEType]int{windmover.ForecastLE: 0}
	for _, c := range containers {
		counts[c.SpillType] += c.Len()
	}
	for t, n := range counts {
		m.Elements.WithLabelValues(t.String()).Set(float64(n))
	}
}

func (m *Metrics) windError() {
	if m == nil {
		return
	}
	m.WindErrors.Inc()
}
