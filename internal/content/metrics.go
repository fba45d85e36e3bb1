package content

import "github.com/prometheus/client_golang/prometheus"

// FetchTotal counts document lookups by outcome (hit, ok, error, invalid).
// Registered by platform.InitMetrics.
var FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kpterm",
	Name:      "content_fetch_total",
	Help:      "Content document lookups, labeled by document and outcome.",
}, []string{"doc", "outcome"})
