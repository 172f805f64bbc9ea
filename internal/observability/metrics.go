package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otomo_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CatalogSearches counts product searches by search type and outcome.
	// search_type is "url" or "keyword"; outcome is "hit", "empty" or "invalid".
	CatalogSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otomo_catalog_searches_total",
		Help: "Total number of Rakuten product searches by type and outcome",
	}, []string{"search_type", "outcome"})

	// CatalogClientFailures counts swallowed Rakuten API call failures.
	// reason is "timeout" or "error"; operation names the client call.
	CatalogClientFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otomo_catalog_client_failures_total",
		Help: "Total number of Rakuten API call failures by operation and reason",
	}, []string{"operation", "reason"})

	// ImageProxyRequests counts image proxy requests by result.
	// result is "ok", "rejected", "not_found" or "upstream_error".
	ImageProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otomo_image_proxy_requests_total",
		Help: "Total number of image proxy requests by result",
	}, []string{"result"})

	// CatalogRequestLatency records latency of outbound Rakuten API calls.
	CatalogRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "otomo_catalog_request_latency_seconds",
		Help:    "Latency of outbound Rakuten API calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
