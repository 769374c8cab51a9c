// Package observability provides Prometheus metrics for the resilient
// generation pipeline.
//
// Collectors cover the cache (hits, misses, evictions), budget admission
// (rejections per limit, near-limit warnings), the provider chain (attempts,
// retries, latency), and spend accounting (USD and tokens per provider and
// model). Registration happens at package init through promauto; exposing a
// /metrics endpoint is the consuming application's concern.
package observability
