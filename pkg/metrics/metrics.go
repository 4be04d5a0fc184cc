// Package metrics exposes the validator's Prometheus counters and
// histograms. This is an ambient concern spec.md is silent on, carried
// anyway per the teacher's own stack (prometheus/client_golang is in
// its go.mod), the same way a production validator would want it
// regardless of whether a spec calls it out.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AttestationsIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_attestations_issued_total",
		Help: "Attestations issued by this validator, by asset and result.",
	}, []string{"asset", "result"})

	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_verifications_total",
		Help: "submit_burn_attestation_v3 calls, by asset and result.",
	}, []string{"asset", "result"})

	MintsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_mints_total",
		Help: "mint_from_burn_v3 calls, by asset and result.",
	}, []string{"asset", "result"})

	AttestationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bridge_attestation_duration_seconds",
		Help:    "Time spent handling an attest-burn-v3 request.",
		Buckets: prometheus.DefBuckets,
	})
)
