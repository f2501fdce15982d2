package area

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultLabel = "result"

	lookupResultExact    = "exact"
	lookupResultCached   = "cached"
	lookupResultAncestor = "ancestor"
	lookupResultMiss     = "miss"
)

var (
	converterLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "area_converter_lookups_total",
		Help: "The number of converter lookups by how the conversion function was found.",
	}, []string{resultLabel})
)

func instrumentConverterLookup(result string) {
	converterLookups.
		With(prometheus.Labels{resultLabel: result}).
		Inc()
}
