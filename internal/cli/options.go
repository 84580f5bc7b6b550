// Package cli defines the hmerize command tree. It parses flags and
// configuration into option structs and hands them to Handlers; it never
// runs a batch itself.
package cli

import (
	"context"
	"errors"

	"hmerize/internal/config"
)

// KmersOptions are the arguments of `hmerize kmers`.
type KmersOptions struct {
	Sizes    []int
	SeqFiles []string // "-" is stdin
	WithKmer bool     // decode hashes back to bases in the output
}

// TheoreticalOptions are the arguments of `hmerize theoretical`.
type TheoreticalOptions struct {
	Sizes     []int
	KmersFile string // one k-mer per line; empty enumerates the whole space
	WithKmer  bool
}

// PrimersOptions are the arguments of `hmerize primers`.
type PrimersOptions struct {
	PrimerFile  string // TSV: id sequence
	PrimerFasta string
	SeqFiles    []string
}

// LimitsOptions are the arguments of `hmerize limits`.
type LimitsOptions struct {
	Sizes []int
}

// Handlers run the subcommands with the resolved configuration.
type Handlers struct {
	Kmers       func(ctx context.Context, cfg config.Config, o KmersOptions) error
	Theoretical func(ctx context.Context, cfg config.Config, o TheoreticalOptions) error
	Primers     func(ctx context.Context, cfg config.Config, o PrimersOptions) error
	Limits      func(ctx context.Context, cfg config.Config, o LimitsOptions) error
}

// UsageError marks bad flags, arguments or configuration.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// IsUsage reports whether err came from command-line or configuration parsing.
func IsUsage(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}

func usage(err error) error {
	if err == nil || IsUsage(err) {
		return err
	}
	return &UsageError{Err: err}
}
