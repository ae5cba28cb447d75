package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DeliveryMetrics records outbound notification delivery outcomes per channel.
type DeliveryMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewDeliveryMetrics registers the delivery metrics on the provided registerer.
func NewDeliveryMetrics(reg prometheus.Registerer) *DeliveryMetrics {
	if reg == nil {
		return &DeliveryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "delivery_duration_seconds",
		Help:    "Duration of outbound delivery attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_success",
		Help: "Successful outbound deliveries.",
	}, []string{"channel"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_failure",
		Help: "Failed outbound deliveries.",
	}, []string{"channel"})
	reg.MustRegister(duration, success, failure)
	return &DeliveryMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration of an attempt on the named channel.
func (d *DeliveryMetrics) ObserveDuration(channel string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(channel)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named channel.
func (d *DeliveryMetrics) IncSuccess(channel string) {
	if d == nil || d.success == nil {
		return
	}
	d.success.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncFailure increments the failure counter for the named channel.
func (d *DeliveryMetrics) IncFailure(channel string) {
	if d == nil || d.failure == nil {
		return
	}
	d.failure.WithLabelValues(normalizeLabel(channel)).Inc()
}

func normalizeLabel(channel string) string {
	if channel == "" {
		return "unknown"
	}
	return channel
}
