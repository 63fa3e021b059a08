// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector gathers conversion metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	conversionsCounter    *prometheus.CounterVec
	conversionDuration    *prometheus.HistogramVec
	requestsInFlightGauge prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Collector registered on its own registry.
func New() *Collector {
	c := &Collector{
		conversionsCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docconvert_conversions_total",
			Help: "Total number of conversions by input type, output type and outcome",
		}, []string{"input", "output", "outcome"}),
		conversionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docconvert_conversion_duration_seconds",
			Help:    "Histogram of engine conversion time by output type",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 15), // 10ms .. ~163s
		}, []string{"output"}),
		requestsInFlightGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docconvert_requests_in_flight",
			Help: "Current number of conversion requests being served",
		}),
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(c)
	return c
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.conversionsCounter.Describe(ch)
	c.conversionDuration.Describe(ch)
	c.requestsInFlightGauge.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.conversionsCounter.Collect(ch)
	c.conversionDuration.Collect(ch)
	c.requestsInFlightGauge.Collect(ch)
}

// Handler serves the collector's registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveConversion records one engine call.
func (c *Collector) ObserveConversion(input, output string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.conversionsCounter.WithLabelValues(input, output, outcome).Inc()
	c.conversionDuration.WithLabelValues(output).Observe(elapsed.Seconds())
}

// TrackInFlight marks a request as started; the returned func marks it done.
func (c *Collector) TrackInFlight() func() {
	if c == nil {
		return func() {}
	}
	c.requestsInFlightGauge.Inc()
	return c.requestsInFlightGauge.Dec
}
