package fasta

import (
	"context"
	"fmt"
	"sync"

	"hmerize/internal/record"
)

// Names maps the ids handed out while reading back to FASTA names.
// It is safe for concurrent use.
type Names struct {
	mu    sync.RWMutex
	names []string
}

func (n *Names) add(name string) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.names = append(n.names, name)
	return uint64(len(n.names) - 1)
}

// Name returns the name of record id, or "" if it was never read.
func (n *Names) Name(id uint64) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if id >= uint64(len(n.names)) {
		return ""
	}
	return n.names[id]
}

// Len is the number of records read so far.
func (n *Names) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.names)
}

// ReadPathCtx reads every record of one file, numbering them from names.
func ReadPathCtx(ctx context.Context, path string, names *Names, emit func(record.Named) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	err = ScanCtx(ctx, rc, func(name string, seq []byte) error {
		id := names.add(name)
		return emit(record.Named{Record: record.New(id, string(seq)), Name: name})
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadAll loads every record of the given files.
func ReadAll(ctx context.Context, paths ...string) ([]record.Named, error) {
	var (
		names Names
		out   []record.Named
	)
	for _, p := range paths {
		err := ReadPathCtx(ctx, p, &names, func(r record.Named) error {
			out = append(out, r)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Stream reads paths in order on a background goroutine and sends their
// records, numbered from 0 across all files. Open errors for regular files
// are reported immediately. wait blocks until reading ends and returns the
// first read error; call it after draining recs (or cancelling ctx).
func Stream(ctx context.Context, paths []string) (recs <-chan record.Record, names *Names, wait func() error, err error) {
	for _, p := range paths {
		if p == "-" {
			continue
		}
		rc, err := Open(p)
		if err != nil {
			return nil, nil, nil, err
		}
		_ = rc.Close()
	}

	names = &Names{}
	out := make(chan record.Record, 8)
	done := make(chan error, 1)
	go func() {
		defer close(out)
		for _, p := range paths {
			err := ReadPathCtx(ctx, p, names, func(r record.Named) error {
				select {
				case out <- r.Record:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	var once sync.Once
	var werr error
	wait = func() error {
		once.Do(func() { werr = <-done })
		return werr
	}
	return out, names, wait, nil
}
