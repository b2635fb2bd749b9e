package metrics

import (
	"net/http"

	"lendex/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	executions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lendex",
		Name:      "executions_total",
		Help:      "Executed messages by component, message and result.",
	}, []string{"component", "msg", "result"})

	priceUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lendex",
		Name:      "price_feed_updates_total",
		Help:      "Prices pushed by the price feed worker.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(executions, priceUpdates)
}

// Observe count an executed message; rejections are labelled with their error code
func Observe(component, msg string, err error) {
	executions.WithLabelValues(component, msg, result(err)).Inc()
}

// ObservePriceUpdate count a price pushed by the feed
func ObservePriceUpdate(err error) {
	priceUpdates.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err == nil {
		return "ok"
	}

	if code, ok := core.ErrorCodeOf(err); ok {
		return code.String()
	}

	return "error"
}

// Handler metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
