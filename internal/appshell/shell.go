package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/outofforest/logger"
	"go.uber.org/zap"
)

// RunFunc is the body of a command. It returns the process exit code.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// NewContext derives a context carrying a logger tagged with tool and a fresh run id.
func NewContext(parent context.Context, tool string) context.Context {
	log := logger.New(logger.DefaultConfig).With(
		zap.String("tool", tool),
		zap.String("run_id", uuid.NewString()),
	)
	return logger.WithLogger(parent, log)
}

// Main runs run with the process arguments and exits with its code. SIGINT
// and SIGTERM cancel the context; a cancelled run that reports success exits 130.
func Main(tool string, run RunFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = NewContext(ctx, tool)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	code := run(ctx, argv, os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}

	_ = logger.Get(ctx).Sync()
	stop()
	os.Exit(code)
}
