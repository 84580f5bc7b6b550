package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"hmerize/internal/config"
	"hmerize/internal/hmer"
	"hmerize/internal/version"
	"hmerize/internal/writers"
)

// configured is filled by the root PersistentPreRunE before any subcommand runs.
type configured struct {
	file string
	cfg  config.Config
}

// NewRootCmd builds the command tree. Output of help and version goes to
// stdout; cobra's own error printing is silenced so the caller decides.
func NewRootCmd(h Handlers, stdout, stderr io.Writer) *cobra.Command {
	state := &configured{}
	root := &cobra.Command{
		Use:   "hmerize",
		Short: "Ambiguity-aware k-mer hashing and exact primer matching",
		Long: `hmerize converts DNA sequences, IUPAC ambiguity codes included, into
length-tagged k-mer hashes ("hmers") and matches short primers against them.

Every ambiguous window is expanded into its concrete variants; each variant
is packed into a 64-bit hash with 2 bits per base and a size tag.`,
		Version:       version.Version,
		Args:          noArgs,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := config.New()
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return usage(err)
			}
			cfg, err := config.Load(v, state.file)
			if err != nil {
				return usage(err)
			}
			if _, ok := writers.Writers[cfg.Output]; !ok {
				return usage(fmt.Errorf("output %q not one of %s", cfg.Output, strings.Join(writers.Formats(), ", ")))
			}
			state.cfg = cfg
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usage(err) })
	root.SetVersionTemplate("hmerize version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&state.file, "config", "", "YAML config file (default ./"+config.DefaultFile+" if present)")
	pf.Int("threads", 0, "worker goroutines (default: number of CPUs)")
	pf.Int("chunk-size", 64, "records per chunk")
	pf.StringP("output", "o", "json", "output format: "+strings.Join(writers.Formats(), "|"))
	pf.Bool("header", true, "print the TSV header row")
	pf.String("log-level", "warn", "log level: debug|info|warn|error")
	pf.String("log-format", "text", "log format: text|json")
	pf.Uint64("max-cells", hmer.DefaultLimits.MaxCells, "max deambiguation matrix cells per chunk (0 = built-in ceiling)")
	pf.Uint64("max-variants", hmer.DefaultLimits.MaxVariants, "max variant rows per window (0 = built-in ceiling)")
	pf.Uint64("max-chunk-bases", 0, "max summed sequence length per chunk (0 = unlimited)")
	pf.String("metrics", "", `dump Prometheus metrics to FILE ("-" = stderr) after the run`)

	root.AddCommand(
		newKmersCmd(h, state),
		newTheoreticalCmd(h, state),
		newPrimersCmd(h, state),
		newLimitsCmd(h, state),
		newVersionCmd(),
	)
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	return usage(cobra.NoArgs(cmd, args))
}

func seqFiles(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

func requireSizes(sizes []int) error {
	if len(sizes) == 0 {
		return usage(fmt.Errorf("at least one k-mer size is required (-k)"))
	}
	return nil
}

func newKmersCmd(h Handlers, st *configured) *cobra.Command {
	var o KmersOptions
	cmd := &cobra.Command{
		Use:   "kmers [flags] [FASTA...]",
		Short: "Extract the distinct hmers of every sequence",
		Long: `Extract the distinct hmers of every sequence for every requested size.
Each hmer carries the first and last window offset it was seen at.
FASTA input may be plain, gzip, or "-" for stdin (the default).`,
		Example: "  hmerize kmers -k 3,5 genomes.fa.gz\n  cat reads.fa | hmerize kmers -k 8 -o tsv",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSizes(o.Sizes); err != nil {
				return err
			}
			o.SeqFiles = seqFiles(args)
			return h.Kmers(cmd.Context(), st.cfg, o)
		},
	}
	cmd.Flags().IntSliceVarP(&o.Sizes, "size", "k", nil, "k-mer sizes, comma separated (1..31)")
	cmd.Flags().BoolVar(&o.WithKmer, "with-kmer", false, "decode each hash back to its bases")
	return cmd
}

func newTheoreticalCmd(h Handlers, st *configured) *cobra.Command {
	var o TheoreticalOptions
	cmd := &cobra.Command{
		Use:     "theoretical [flags]",
		Short:   "Hash a list of k-mers, or the whole k-mer space of a size",
		Example: "  hmerize theoretical -k 2\n  hmerize theoretical -k 4 --kmers list.txt",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSizes(o.Sizes); err != nil {
				return err
			}
			if o.KmersFile != "" && len(o.Sizes) != 1 {
				return usage(fmt.Errorf("--kmers takes exactly one size, got %d", len(o.Sizes)))
			}
			return h.Theoretical(cmd.Context(), st.cfg, o)
		},
	}
	cmd.Flags().IntSliceVarP(&o.Sizes, "size", "k", nil, "k-mer sizes, comma separated")
	cmd.Flags().StringVar(&o.KmersFile, "kmers", "", `file of k-mers, one per line ("-" = stdin)`)
	cmd.Flags().BoolVar(&o.WithKmer, "with-kmer", false, "decode each hash back to its bases")
	return cmd
}

func newPrimersCmd(h Handlers, st *configured) *cobra.Command {
	var o PrimersOptions
	cmd := &cobra.Command{
		Use:   "primers --primers FILE [flags] [FASTA...]",
		Short: "Find the first exact match of every primer in every sequence",
		Long: `Find the first exact match of every primer in every sequence.
Ambiguity codes are expanded on both sides; target windows whose variant
count reaches the primer's guard are skipped.`,
		Example: "  hmerize primers --primers primers.tsv genome.fa",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (o.PrimerFile == "") == (o.PrimerFasta == "") {
				return usage(fmt.Errorf("exactly one of --primers or --primers-fasta is required"))
			}
			o.SeqFiles = seqFiles(args)
			return h.Primers(cmd.Context(), st.cfg, o)
		},
	}
	cmd.Flags().StringVar(&o.PrimerFile, "primers", "", "TSV primer file: id sequence")
	cmd.Flags().StringVar(&o.PrimerFasta, "primers-fasta", "", "FASTA primer file")
	return cmd
}

func newLimitsCmd(h Handlers, st *configured) *cobra.Command {
	var o LimitsOptions
	cmd := &cobra.Command{
		Use:   "limits -k SIZES",
		Short: "Report hash width and theoretical space of k-mer sizes",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSizes(o.Sizes); err != nil {
				return err
			}
			return h.Limits(cmd.Context(), st.cfg, o)
		},
	}
	cmd.Flags().IntSliceVarP(&o.Sizes, "size", "k", nil, "k-mer sizes, comma separated")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  noArgs,
		// Skips configuration loading.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hmerize version %s\n", version.Version)
		},
	}
}

// Execute runs the tree with argv under ctx.
func Execute(ctx context.Context, root *cobra.Command, argv []string) error {
	root.SetArgs(argv)
	return root.ExecuteContext(ctx)
}
