// Package doctor provides diagnostic checks for a folco installation.
//
// Each [Check] inspects one concern (configuration, icon sources, the
// guarded icon handle, telemetry) and reports a [CheckResult]. A [Runner]
// executes checks in order and summarizes them in a [DoctorReport].
package doctor
