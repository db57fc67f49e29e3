package exec

import "time"

// TraceLevel controls how much detail Execute/ExecuteAndCapture record
// into a run's trace ring, mirroring the teacher's Debug/DebugDetailed
// split.
type TraceLevel int

const (
	TraceOff TraceLevel = iota
	TraceBasic
	TraceDetailed
)

// TelemetryLevel controls whether ExecutionTelemetry is populated.
type TelemetryLevel int

const (
	TelemetryOff TelemetryLevel = iota
	TelemetryOn
)

// Config is passed to NewEngine; the zero value disables tracing and
// telemetry entirely.
type Config struct {
	Trace     TraceLevel
	Telemetry TelemetryLevel
}

// TraceEvent is one recorded point in an Execute call, e.g. entry/exit
// of the script or, under TraceDetailed, each node dispatch.
type TraceEvent struct {
	Node string // %T of the dispatched node, or "script" for script entry/exit
	Note string // "script:enter"/"script:exit" for script events, else empty
}

// ExecutionTelemetry summarizes one top-level Execute/ExecuteAndCapture
// call.
type ExecutionTelemetry struct {
	NodesRun   int
	Duration   time.Duration
	FailedNode string // %T of the node whose status first went non-zero, if any
}
