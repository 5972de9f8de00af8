// Package metrics exposes the console's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogRequests counts calls against the remote catalog by operation
	// and outcome ("ok" or "error").
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "review_console",
		Name:      "catalog_requests_total",
		Help:      "Catalog API calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	// ReviewDecisions counts confirmed review actions.
	ReviewDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "review_console",
		Name:      "review_decisions_total",
		Help:      "Confirmed review workflow actions.",
	}, []string{"action"})
)

// Outcome maps an error to the label value used on CatalogRequests.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
