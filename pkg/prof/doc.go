// Package prof wraps [runtime/pprof] for the softuart command.
//
// Profiling is compiled in only with the "profile" build tag:
//
//	go build -tags profile ./cmd/softuart
//
// Without the tag every function is a no-op and [Enabled] is false, so the
// command's --cpuprofile flag costs nothing in production builds.
package prof
