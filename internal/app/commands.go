package app

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"hmerize/internal/cli"
	"hmerize/internal/config"
	"hmerize/internal/fasta"
	"hmerize/internal/output"
	"hmerize/internal/pipeline"
	"hmerize/internal/primer"
	"hmerize/internal/record"
)

func (r *runner) kmers(ctx context.Context, cfg config.Config, o cli.KmersOptions) error {
	s, err := r.session(cfg)
	if err != nil {
		return err
	}
	return r.finish(s, r.runKmers(ctx, s, o))
}

func (r *runner) runKmers(ctx context.Context, s *session, o cli.KmersOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recs, names, wait, err := fasta.Stream(ctx, o.SeqFiles)
	if err != nil {
		return err
	}
	res, err := pipeline.ExtractKmers(ctx, s.pipeline(), recs, o.Sizes)
	if err != nil {
		cancel()
		_ = wait()
		return err
	}
	if err := wait(); err != nil {
		return err
	}
	return r.write(s, output.ToAPIKmers(res, names.Name, o.WithKmer))
}

func (r *runner) theoretical(ctx context.Context, cfg config.Config, o cli.TheoreticalOptions) error {
	s, err := r.session(cfg)
	if err != nil {
		return err
	}
	return r.finish(s, r.runTheoretical(ctx, s, o))
}

func (r *runner) runTheoretical(ctx context.Context, s *session, o cli.TheoreticalOptions) error {
	if o.KmersFile == "" {
		set, err := pipeline.TheoreticalSpace(ctx, s.pipeline(), o.Sizes)
		if err != nil {
			return err
		}
		return r.write(s, output.ToAPITheoretical(set, o.Sizes, o.WithKmer))
	}
	kmers, err := readKmers(o.KmersFile)
	if err != nil {
		return err
	}
	s.log.Debug("k-mers loaded", "file", o.KmersFile, "kmers", len(kmers))
	set, err := pipeline.ExtractTheoretical(kmers, o.Sizes[0])
	if err != nil {
		return err
	}
	return r.write(s, output.ToAPITheoretical(set, o.Sizes, o.WithKmer))
}

// readKmers reads one k-mer per line, upper-cased. Blank lines and lines
// starting with '#' are skipped.
func readKmers(path string) ([]string, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var out []string
	sc := bufio.NewScanner(rc)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.ToUpper(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func (r *runner) primers(ctx context.Context, cfg config.Config, o cli.PrimersOptions) error {
	s, err := r.session(cfg)
	if err != nil {
		return err
	}
	return r.finish(s, r.runPrimers(ctx, s, o))
}

func (r *runner) runPrimers(ctx context.Context, s *session, o cli.PrimersOptions) error {
	named, err := loadPrimers(ctx, o)
	if err != nil {
		return err
	}
	if len(named) == 0 {
		return &cli.UsageError{Err: fmt.Errorf("no primers loaded")}
	}
	prs := make([]record.Record, len(named))
	primerNames := make(map[uint64]string, len(named))
	for i, n := range named {
		prs[i] = n.Record
		primerNames[n.ID] = n.Name
	}
	s.log.Debug("primers loaded", "primers", len(prs))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	recs, names, wait, err := fasta.Stream(ctx, o.SeqFiles)
	if err != nil {
		return err
	}
	res, err := pipeline.MatchPrimers(ctx, s.pipeline(), recs, prs)
	if err != nil {
		cancel()
		_ = wait()
		return err
	}
	if err := wait(); err != nil {
		return err
	}
	return r.write(s, output.ToAPIPrimers(res, names.Name, func(id uint64) string { return primerNames[id] }))
}

func loadPrimers(ctx context.Context, o cli.PrimersOptions) ([]record.Named, error) {
	if o.PrimerFile != "" {
		return primer.LoadTSV(o.PrimerFile)
	}
	return fasta.ReadAll(ctx, o.PrimerFasta)
}

func (r *runner) limits(_ context.Context, cfg config.Config, o cli.LimitsOptions) error {
	s, err := r.session(cfg)
	if err != nil {
		return err
	}
	rep := output.ToAPILimits(o.Sizes)
	if err := r.write(s, rep); err != nil {
		return err
	}
	if !rep.Valid {
		s.log.Warn("sizes rejected", "sizes", o.Sizes, "err", rep.Error)
		return errRejected
	}
	return nil
}
