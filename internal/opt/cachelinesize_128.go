//go:build chanx_cachelinesize_128

package opt

// CacheLineSize_ is forced to 128 bytes (two adjacent lines on CPUs that
// prefetch in pairs).
// Use: go build -tags=chanx_cachelinesize_128
const CacheLineSize_ = 128
