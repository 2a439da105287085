// internal/cli/options.go
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"repeattools/internal/config"
	"repeattools/internal/output"
	"repeattools/internal/repeat"
	"repeattools/internal/writers"
)

// CollectOptions holds the collect flags. Values only reach the resolved
// configuration when the flag was set on the command line.
type CollectOptions struct {
	ConfigFile string
	flags      config.Config
}

func depthHelp() string {
	fs := repeat.Fields()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = string(f)
	}
	return strings.Join(names, " | ")
}

// BindCollect registers the collect flags on fs.
func BindCollect(fs *pflag.FlagSet) *CollectOptions {
	def := config.Default()
	o := &CollectOptions{}
	f := &o.flags

	fs.StringVar(&o.ConfigFile, "config", "", "YAML run configuration")

	// Input / output
	fs.StringVarP(&f.Input, "input", "i", "", "directory of species sub-directories [*]")
	fs.StringVarP(&f.Names, "names", "n", "", "names file: dir<TAB>species [*]")
	fs.StringVarP(&f.Output, "output", "o", def.Output, "output directory (env "+config.EnvOutput+")")

	// Grouping
	fs.StringVar(&f.Depth, "depth", def.Depth, "category field: "+depthHelp()+" (env "+config.EnvDepth+")")
	fs.BoolVar(&f.Override, "override", false, "use the TEsorter order/superfamily when RepeatMasker says Unknown")
	fs.BoolVar(&f.ExcludeNonTE, "exclude-non-te", false, "drop non-TE categories from the count matrix")

	// Filters
	fs.IntVarP(&f.Length, "length", "l", 0, "minimum repeat length (0 = off)")
	fs.StringVarP(&f.Chromosomes.File, "chrom", "c", "", "chromosome file: species<TAB>chr1,chr2 (keeps listed chromosomes)")
	fs.BoolVarP(&f.Chromosomes.Exclude, "exclude-chrom", "E", false, "drop the listed chromosomes instead")
	fs.BoolVarP(&f.Domains.Enabled, "domains", "d", false, "drop unclassified repeats; with -D also apply its allowlists")
	fs.StringVarP(&f.Domains.File, "domains-file", "D", "", "domains file: domains<TAB>clades<TAB>features")
	fs.BoolVarP(&f.Percentage.Enabled, "per", "p", false, "enable the percentage filter")
	fs.StringVarP(&f.Percentage.Threshold, "threshold", "t", def.Percentage.Threshold, "percentage threshold field=value (div, del, ins)")
	fs.StringVarP(&f.Percentage.Mode, "mode", "m", def.Percentage.Mode, "lower_than | higher_than | equal")

	// Run
	fs.StringVar(&f.Database, "db", "", "also store filtered repeats and counts in this SQLite file")
	fs.BoolVar(&f.FailFast, "fail-fast", false, "abort on the first species failure")
	fs.BoolVarP(&f.Logging.Verbose, "verbose", "v", false, "debug output on stderr")
	fs.BoolVarP(&f.Logging.Quiet, "quiet", "q", false, "warnings and errors only on stderr")
	return o
}

// Resolve merges defaults, the YAML file, the environment and the flags
// set on fs (in increasing precedence) and validates the result.
func (o *CollectOptions) Resolve(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, err
	}
	f := &o.flags
	set := map[string]func(){
		"input":          func() { cfg.Input = f.Input },
		"names":          func() { cfg.Names = f.Names },
		"output":         func() { cfg.Output = f.Output },
		"depth":          func() { cfg.Depth = f.Depth },
		"override":       func() { cfg.Override = f.Override },
		"exclude-non-te": func() { cfg.ExcludeNonTE = f.ExcludeNonTE },
		"length":         func() { cfg.Length = f.Length },
		"chrom":          func() { cfg.Chromosomes.File = f.Chromosomes.File },
		"exclude-chrom":  func() { cfg.Chromosomes.Exclude = f.Chromosomes.Exclude },
		"domains":        func() { cfg.Domains.Enabled = f.Domains.Enabled },
		"domains-file":   func() { cfg.Domains.File = f.Domains.File },
		"per":            func() { cfg.Percentage.Enabled = f.Percentage.Enabled },
		"threshold":      func() { cfg.Percentage.Threshold = f.Percentage.Threshold },
		"mode":           func() { cfg.Percentage.Mode = f.Percentage.Mode },
		"db":             func() { cfg.Database = f.Database },
		"fail-fast":      func() { cfg.FailFast = f.FailFast },
		"verbose":        func() { cfg.Logging.Verbose = f.Logging.Verbose },
		"quiet":          func() { cfg.Logging.Quiet = f.Logging.Quiet },
	}
	fs.Visit(func(fl *pflag.Flag) {
		if fn, ok := set[fl.Name]; ok {
			fn()
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeOptions holds the merge flags.
type MergeOptions struct {
	Masker     string
	Classifier string
	Format     string
	Sort       bool
	NoHeader   bool
	Verbose    bool
	Quiet      bool
}

// BindMerge registers the merge flags on fs.
func BindMerge(fs *pflag.FlagSet) *MergeOptions {
	o := &MergeOptions{}
	fs.StringVar(&o.Masker, "masker", "", "RepeatMasker .out file (plain, gzip or '-') [*]")
	fs.StringVar(&o.Classifier, "classifier", "", "TEsorter .cls.tsv file (plain, gzip or '-') [*]")
	fs.StringVarP(&o.Format, "format", "f", output.FormatTSV, "output format: "+strings.Join(writers.Formats(), " | "))
	fs.BoolVar(&o.Sort, "sort", false, "sort by sequence_id, start, end, repeat_name")
	fs.BoolVar(&o.NoHeader, "no-header", false, "suppress the TSV header line")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "debug output on stderr")
	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "warnings and errors only on stderr")
	return o
}

func (o *MergeOptions) Header() bool { return !o.NoHeader }

// Validate checks the merge flags after parsing.
func (o *MergeOptions) Validate() error {
	if o.Masker == "" || o.Classifier == "" {
		return fmt.Errorf("--masker and --classifier are required")
	}
	if o.Masker == "-" && o.Classifier == "-" {
		return fmt.Errorf("only one of --masker and --classifier can read stdin")
	}
	if !slices.Contains(writers.Formats(), o.Format) {
		return fmt.Errorf("invalid --format %q (want %s)", o.Format, strings.Join(writers.Formats(), ", "))
	}
	if o.Verbose && o.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	return nil
}
