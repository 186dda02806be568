// Package debug gates diagnostic logging behind TIR_DEBUG_* environment
// variables so the core stays silent by default.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Compare bool
	Render  bool
	Resolve bool
}

var d *debug

func init() {
	d = &debug{
		Compare: boolEnv("TIR_DEBUG_COMPARE"),
		Render:  boolEnv("TIR_DEBUG_RENDER"),
		Resolve: boolEnv("TIR_DEBUG_RESOLVE"),
	}
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Compare() bool {
	return d.Compare
}

func Render() bool {
	return d.Render
}

func Resolve() bool {
	return d.Resolve
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
