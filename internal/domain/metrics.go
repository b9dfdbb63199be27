package domain

// UsageMetrics is the body for GET /v1/metrics/usage.
type UsageMetrics struct {
	HistoryLoads        int64   `json:"history_loads"`
	HistoryErrorRate    float64 `json:"history_error_rate"`
	SessionCacheHitRate float64 `json:"session_cache_hit_rate"`
	Period              string  `json:"period"`
}
