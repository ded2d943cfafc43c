// internal/cli/options.go
package cli

import (
	"runtime"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"kr2r/internal/cliutil"
	"kr2r/internal/seqkmer"
	"kr2r/internal/writers"
)

// ClassifyOptions holds all kr2r-classify flags and arguments.
type ClassifyOptions struct {
	// Input
	DB     string
	Inputs []string
	Paired bool

	// Classification
	Confidence         float64
	MinimumHitGroups   int
	MinimumBaseQuality int

	// Performance
	Threads   int
	BatchSize int

	// Output
	Output      string
	OutputFile  string
	MetricsFile string
	ConfigFile  string

	Version bool
}

// DefaultThreads is the smallest thread count the pipeline accepts, or the
// number of CPUs when that is larger.
func DefaultThreads() int { return max(runtime.NumCPU(), 3) }

// ClassifySynopsis is the usage line of kr2r-classify.
const ClassifySynopsis = "Usage: kr2r-classify --db DIR [flags] <reads.fq[.gz|.zst]>... ('-' for STDIN)"

// ParseClassifyArgs registers and parses all classify flags. Values from a
// --config file fill in every flag not given on the command line.
func ParseClassifyArgs(fs *pflag.FlagSet, argv []string) (ClassifyOptions, error) {
	var opt ClassifyOptions
	var help bool

	fs.StringVarP(&opt.DB, "db", "d", "", "database directory holding opts.k2d, taxo.k2d and hash.k2d [*]")
	fs.BoolVarP(&opt.Paired, "paired-end-processing", "P", false, "inputs are mate files, consumed two at a time")

	fs.Float64VarP(&opt.Confidence, "confidence", "T", 0, "fraction of minimizer windows the call must explain, in [0,1]")
	fs.IntVarP(&opt.MinimumHitGroups, "minimum-hit-groups", "g", 2, "minimum minimizer windows before a call is made")
	fs.IntVarP(&opt.MinimumBaseQuality, "minimum-base-quality", "Q", 0, "FASTQ bases below this Phred score are treated as ambiguous")

	fs.IntVarP(&opt.Threads, "threads", "p", DefaultThreads(), "total goroutines for reading, classifying and writing (>= 3)")
	fs.IntVar(&opt.BatchSize, "batch-size", seqkmer.DefaultBatchSize, "records per batch")

	fs.StringVarP(&opt.Output, "output", "o", writers.FormatText, "output format: "+strings.Join(writers.Formats(), " | "))
	fs.StringVarP(&opt.OutputFile, "output-file", "O", "-", "write records here instead of STDOUT")
	fs.StringVar(&opt.MetricsFile, "metrics-file", "", "write a Prometheus text-format metrics snapshot here when done")
	fs.StringVar(&opt.ConfigFile, "config", "", "YAML file with defaults for any of the flags above")

	fs.BoolVarP(&opt.Version, "version", "v", false, "print version and exit")
	fs.BoolVarP(&help, "help", "h", false, "show this help message")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, pflag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if opt.ConfigFile != "" {
		if err := ApplyConfigFile(fs, opt.ConfigFile); err != nil {
			return opt, err
		}
	}

	inputs, err := cliutil.ExpandPositionals(fs.Args())
	if err != nil {
		return opt, err
	}
	opt.Inputs = inputs

	if opt.DB == "" {
		return opt, errors.New("--db is required")
	}
	if len(opt.Inputs) == 0 {
		return opt, errors.New("at least one input file is required")
	}
	if opt.Paired && len(opt.Inputs)%2 != 0 {
		return opt, errors.Errorf("--paired-end-processing needs an even number of inputs, got %d", len(opt.Inputs))
	}
	if !(opt.Confidence >= 0 && opt.Confidence <= 1) {
		return opt, errors.Errorf("--confidence must be in [0,1], got %g", opt.Confidence)
	}
	if opt.MinimumHitGroups < 0 {
		return opt, errors.New("--minimum-hit-groups must be ≥ 0")
	}
	if opt.MinimumBaseQuality < 0 {
		return opt, errors.New("--minimum-base-quality must be ≥ 0")
	}
	if opt.Threads < 3 {
		return opt, errors.Errorf("--threads must be ≥ 3, got %d", opt.Threads)
	}
	if opt.BatchSize <= 0 {
		return opt, errors.New("--batch-size must be > 0")
	}
	if !slices.Contains(writers.Formats(), opt.Output) {
		return opt, errors.Errorf("invalid --output %q", opt.Output)
	}
	return opt, nil
}

// InspectOptions holds kr2r-inspect flags.
type InspectOptions struct {
	DB      string
	Taxa    bool
	JSON    bool
	Version bool
}

// InspectSynopsis is the usage line of kr2r-inspect.
const InspectSynopsis = "Usage: kr2r-inspect --db DIR [--taxa] [--json]"

// ParseInspectArgs registers and parses kr2r-inspect flags. The database
// directory may also be given as the only positional argument.
func ParseInspectArgs(fs *pflag.FlagSet, argv []string) (InspectOptions, error) {
	var opt InspectOptions
	var help bool

	fs.StringVarP(&opt.DB, "db", "d", "", "database directory [*]")
	fs.BoolVar(&opt.Taxa, "taxa", false, "also list every taxonomy node")
	fs.BoolVar(&opt.JSON, "json", false, "print the report as JSON")
	fs.BoolVarP(&opt.Version, "version", "v", false, "print version and exit")
	fs.BoolVarP(&help, "help", "h", false, "show this help message")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, pflag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	switch args := fs.Args(); {
	case len(args) > 1:
		return opt, errors.Errorf("unexpected arguments %q", args[1:])
	case len(args) == 1 && opt.DB != "":
		return opt, errors.New("give the database either with --db or as an argument, not both")
	case len(args) == 1:
		opt.DB = args[0]
	}
	if opt.DB == "" {
		return opt, errors.New("--db is required")
	}
	return opt, nil
}
