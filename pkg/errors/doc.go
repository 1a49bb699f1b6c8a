// Package errors provides structured error types for better observability
// and programmatic error handling across cns-ops.
//
// Codes classify failures the way both CLIs report them: input errors are
// caught before any cluster call, parse and render errors stop a deploy before
// the cluster is touched, and command failures surface the captured output of
// the failing cluster operation.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeCommandFailed,
//	    "failed to label node",
//	    runErr,
//	    map[string]any{
//	        "command": "kubectl label node worker-1 tier=gpu --overwrite",
//	        "stderr":  stderr,
//	    },
//	)
package errors
