// Package app runs the hmerize commands: it wires configuration, logging,
// metrics, FASTA input, the batch pipeline and the output writers.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"hmerize/internal/cli"
	"hmerize/internal/cmdutil"
	"hmerize/internal/config"
	"hmerize/internal/metrics"
	"hmerize/internal/pipeline"
	"hmerize/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitRejected = 1 // limits: the requested sizes do not pass
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// errRejected is returned by limits when the sizes fail validation; the
// report itself has already been written.
var errRejected = errors.New("k-mer sizes rejected")

// RunContext executes argv and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	r := &runner{out: outw, stderr: stderr}
	root := cli.NewRootCmd(r.handlers(), outw, stderr)

	err := cli.Execute(parent, root, argv)
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) && err == nil {
		err = e
	}
	return exitCode(err, stderr)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errRejected):
		return ExitRejected
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case cli.IsUsage(err):
		_, _ = fmt.Fprintf(stderr, "error: %v\nRun 'hmerize --help' for usage.\n", err)
		return ExitUsage
	default:
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitRuntime
	}
}

// runner carries the streams shared by every command.
type runner struct {
	out    *bufio.Writer
	stderr io.Writer
}

func (r *runner) handlers() cli.Handlers {
	return cli.Handlers{
		Kmers:       r.kmers,
		Theoretical: r.theoretical,
		Primers:     r.primers,
		Limits:      r.limits,
	}
}

// session is the per-command state built from the resolved configuration.
type session struct {
	cfg     config.Config
	log     *slog.Logger
	metrics *metrics.Metrics
}

func (r *runner) session(cfg config.Config) (*session, error) {
	lg, err := cmdutil.NewLogger(r.stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, &cli.UsageError{Err: err}
	}
	s := &session{cfg: cfg, log: lg}
	if cfg.Metrics != "" {
		s.metrics = metrics.New()
	}
	return s, nil
}

func (s *session) pipeline() pipeline.Config {
	return pipeline.Config{
		Threads:   s.cfg.Threads,
		ChunkSize: s.cfg.ChunkSize,
		Limits:    s.cfg.Engine(),
		Logger:    s.log,
		Metrics:   s.metrics,
	}
}

// write serializes payload in the configured format.
func (r *runner) write(s *session, payload any) error {
	return writers.Write(s.cfg.Output, r.out, payload, writers.Options{Header: s.cfg.Header})
}

// finish dumps metrics, when enabled, whatever the outcome of the command.
func (r *runner) finish(s *session, err error) error {
	if s.metrics == nil {
		return err
	}
	if derr := r.dumpMetrics(s); derr != nil {
		s.log.Warn("metrics dump failed", "target", s.cfg.Metrics, "err", derr)
	}
	return err
}

func (r *runner) dumpMetrics(s *session) error {
	if s.cfg.Metrics == "-" {
		return s.metrics.WriteText(r.stderr)
	}
	fh, err := os.Create(s.cfg.Metrics)
	if err != nil {
		return err
	}
	if err := s.metrics.WriteText(fh); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
