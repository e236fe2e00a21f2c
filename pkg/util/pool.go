package util

import "runtime"

// GetOptimalPoolSize returns the parser pool size for one grammar.
//
// Formula: min(max(runtime.NumCPU(), 2), 16)
//
// A tree build parses one file at a time, so a single session needs one
// parser. Extra parsers only help when several sessions (MCP clients, a
// watcher) parse concurrently.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU()
	if size < 2 {
		size = 2
	}
	if size > 16 {
		size = 16
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
