/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
	"github.com/NVIDIA/cns-ops/pkg/logging"
)

const (
	versionDefault = "dev"

	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitCanceled = 130
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

type runIDKey struct{}

// ExecuteLabel runs the node labeler and exits the process.
func ExecuteLabel() {
	execute(labelCmd())
}

// ExecuteDeploy runs the manifest deployer and exits the process.
func ExecuteDeploy() {
	execute(deployCmd())
}

func execute(cmd *cli.Command) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	cancel()
	os.Exit(ExitCode(err))
}

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitCanceled
	case cnserrors.CodeOf(err) == cnserrors.ErrCodeInvalidRequest:
		return exitUsage
	default:
		return exitFailure
	}
}

// before configures logging from --log-level and tags the run with an ID.
func before(name string) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		logLevel := cmd.String(flagLogLevel)
		logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)

		runID := uuid.NewString()
		slog.Info("starting",
			"name", name,
			"version", version,
			"commit", commit,
			"date", date,
			"logLevel", logLevel,
			"run_id", runID)

		return context.WithValue(ctx, runIDKey{}, runID), nil
	}
}

func runIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// usageError marks flag parsing failures as input errors.
func usageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid usage", err)
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}
