package ratelimit

import (
	"net/http"
	"strings"
)

// OpClass groups requests that share a rate limit counter
type OpClass string

const (
	ClassRead    OpClass = "read"    // GET, HEAD
	ClassWrite   OpClass = "write"   // create, update, delete
	ClassReorder OpClass = "reorder" // rank changes; each one locks a whole scope
)

// ClassConfig defines the limit for one class
type ClassConfig struct {
	Class         OpClass
	Limit         int64
	WindowSeconds int
}

// Limits maps every class to its limit
type Limits map[OpClass]ClassConfig

// DefaultLimits derives per-class limits from the configured write budget.
// Reads are not limited. Reorders get a quarter of the write budget.
func DefaultLimits(writesPerMinute int64) Limits {
	reorder := writesPerMinute / 4
	if reorder < 1 {
		reorder = 1
	}
	return Limits{
		ClassWrite:   {Class: ClassWrite, Limit: writesPerMinute, WindowSeconds: 60},
		ClassReorder: {Class: ClassReorder, Limit: reorder, WindowSeconds: 60},
	}
}

// For returns the limit of class and whether the class is limited at all
func (l Limits) For(class OpClass) (ClassConfig, bool) {
	cfg, ok := l[class]
	return cfg, ok
}

// Classify maps a request method and path to its class
func Classify(method, path string) OpClass {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ClassRead
	}
	if method == http.MethodPut && strings.HasSuffix(strings.TrimSuffix(path, "/"), "/order") {
		return ClassReorder
	}
	return ClassWrite
}
