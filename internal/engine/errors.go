package engine

import (
	"errors"
	"fmt"

	"hmerize/internal/hmer"
	"hmerize/internal/seqmask"
)

// Kind names the buffer an allocation failure was raised for.
type Kind uint8

const (
	KindMap       Kind = iota + 1 // ambiguous map
	KindHashmask                  // per-position hashmask
	KindDeambig                   // deambiguation matrix
	KindHashArray                 // per-window hash buffer
	KindChunk                     // chunk-wide scratch
	KindResult                    // per-sequence result slot
)

var kindNames = map[Kind]string{
	KindMap:       "map",
	KindHashmask:  "hashmask",
	KindDeambig:   "deambig",
	KindHashArray: "hasharray",
	KindChunk:     "chunk",
	KindResult:    "result",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ErrAlloc matches every *Error with errors.Is.
var ErrAlloc = errors.New("allocation failed")

// ErrDuplicateID is reported (kind result) when two records of one call share an id.
var ErrDuplicateID = errors.New("duplicate sequence id")

// ErrChunkBudget reports (kind chunk) a chunk whose records exceed Config.MaxChunkBases.
var ErrChunkBudget = errors.New("chunk over budget")

// Error is an allocation failure of the engine.
type Error struct {
	Kind Kind
	Op   string // "parse", "match", "primer", "theoretical"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s allocation: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrAlloc }

// KindOf returns the allocation kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// classify maps the sentinels of the lower layers onto allocation kinds.
// Errors that are not allocation failures are wrapped with op only.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var kind Kind
	switch {
	case errors.Is(err, seqmask.ErrMapSize):
		kind = KindMap
	case errors.Is(err, seqmask.ErrMaskSize):
		kind = KindHashmask
	case errors.Is(err, hmer.ErrCellBudget):
		kind = KindDeambig
	case errors.Is(err, hmer.ErrVariantBudget):
		kind = KindHashArray
	case errors.Is(err, ErrDuplicateID):
		kind = KindResult
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
