package parser

import (
	"github.com/gnana997/comptree/pkg/util"
)

// getPoolSize returns the number of parsers kept per grammar.
//
// A zero override falls back to util.GetOptimalPoolSize(). Builds run one
// file at a time, but a watcher and an MCP server may parse for different
// sessions concurrently, so the pool is sized like any other CPU-bound pool.
func getPoolSize(override int) int {
	return util.GetOptimalPoolSizeWithOverride(override)
}
