// Package logging provides structured logging utilities for cns-ops binaries.
//
// # Overview
//
// This package wraps the standard library slog package with consistent
// defaults: JSON records on stderr, module/version attributes on every record,
// and source locations for debug logs. Stdout stays reserved for the
// human-readable progress lines the CLIs print.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Per-operation executor tracing with source location
//   - INFO: Run start and completion (default)
//   - WARN/WARNING: Best-effort housekeeping failures
//   - ERROR: Fatal failures before exit
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("cns-label", version, "debug")
//	    slog.Info("starting", "run_id", runID)
//	}
//
// # Environment Configuration
//
// LOG_LEVEL controls verbosity when no explicit level is passed:
//
//	LOG_LEVEL=debug cns-deploy config.yaml template.yaml
package logging
