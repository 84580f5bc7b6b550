package pipeline

import (
	"hmerize/internal/engine"
	"hmerize/internal/hmer"
	"hmerize/internal/primer"
	"hmerize/internal/record"
)

// Engine is the minimal chunk-level capability the pipeline needs.
// Any engine (including fakes in tests) can satisfy this.
type Engine interface {
	ParseChunk(chunk []record.Record, sizes []int) ([]hmer.Parsed, engine.Stats, error)
	BuildPrimers(recs []record.Record) ([]primer.Primer, error)
	MatchChunk(chunk []record.Record, primers []primer.Primer) ([]engine.Matched, engine.Stats, error)
	Theoretical(kmers []string, size int) (map[hmer.Hash]struct{}, error)
}

var _ Engine = (*engine.Engine)(nil)
