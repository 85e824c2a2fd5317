package domain

// CacheStats describes the operation cache of a worker.
type CacheStats struct {
	Entries   int `json:"entries"`
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
	Evictions int `json:"evictions"`
}

// OpTiming aggregates the wall time spent in one kind of operation.
type OpTiming struct {
	Count       int     `json:"count"`
	TotalMillis float64 `json:"totalMillis"`
	Failures    int     `json:"failures"`
}
