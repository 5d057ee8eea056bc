package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into paths, index, behavior, display, and utility.
// Negated flags (e.g. --no-progress) are applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// ErrHelp is returned by [ParseArgs] after --help or --version output has
// been printed; the caller should exit 0.
var ErrHelp = errors.New("help requested")

// ParseArgs parses command-line args into cfg. A --config file, if named,
// is loaded first so flags override it. After printing --help or --version
// output it returns [ErrHelp]; other errors cover unknown flags and
// unreadable config files.
func ParseArgs(cfg *Config, args []string, version string, stdout, stderr io.Writer) error {
	if path := configFileArg(args); path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet("quiltpair", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(stderr, version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var negated negatedFlags

	definePathFlags(fs, cfg)
	defineIndexFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stderr, version)
			return ErrHelp
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(stderr, version)
		return ErrHelp
	}
	if negated.showVersion {
		fmt.Fprintln(stdout, "quiltpair v"+version)
		return ErrHelp
	}

	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	cfg.ImageDir = NormalizeDirArg(cfg.ImageDir)
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	return nil
}

// configFileArg scans args for --config/-config before the real parse.
func configFileArg(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return ""
		}
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noProgress -> ShowProgress=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noProgress  bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// definePathFlags registers -i/--index, -d/--images, -o/--output, --config.
func definePathFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.IndexPath, "index", cfg.IndexPath, "Caption index (csv, tsv, xlsx)")
	fs.StringVar(&cfg.IndexPath, "i", cfg.IndexPath, "Same as --index")
	fs.StringVar(&cfg.ImageDir, "images", cfg.ImageDir, "Image directory")
	fs.StringVar(&cfg.ImageDir, "d", cfg.ImageDir, "Same as --images")
	fs.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Output directory")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --output")
	// Already consumed by configFileArg; registered so Parse accepts it.
	var ignored string
	fs.StringVar(&ignored, "config", "", "YAML config file")
}

// defineIndexFlags registers --image-column and --caption-column.
func defineIndexFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ImageColumn, "image-column", cfg.ImageColumn, "Index column holding image paths")
	fs.StringVar(&cfg.CaptionColumn, "caption-column", cfg.CaptionColumn, "Index column holding captions")
}

// defineBehaviorFlags registers mode, workers, dry-run and the auxiliary output files.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&modeValue{&cfg.Mode}, "mode", "Mode: pair | merge | missing | stats")
	fs.Var(&modeValue{&cfg.Mode}, "m", "Same as --mode")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel emission/decode workers")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "Same as --workers")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Classify only; write nothing")
	fs.BoolVar(&cfg.DryRun, "n", cfg.DryRun, "Same as --dry-run")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write run counters as a Prometheus textfile")
	fs.StringVar(&cfg.ReportFile, "report", cfg.ReportFile, "Write missing-caption report to file")
	fs.StringVar(&cfg.StatsOut, "stats-out", cfg.StatsOut, "Image statistics JSON output")
}

// defineDisplayFlags registers --color, --no-color, --no-progress, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&n.noProgress, "no-progress", false, "Disable the progress bar")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run preflight diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 30
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "quiltpair v" + version + " - image/caption dataset preparation"},
		{"", ""},
		{"  quiltpair [OPTIONS]", ""},
		{"", ""},
		{"Paths", ""},
		{"  -i, --index <path>", "Caption index (default: quilt_1M_lookup.csv)"},
		{"  -d, --images <dir>", "Image directory (default: quilt_1m)"},
		{"  -o, --output <dir>", "Output directory (default: quilt_1m_paired)"},
		{"  --config <path>", "YAML config file; flags override it"},
		{"", ""},
		{"Index", ""},
		{"  --image-column <name>", "Image path column (default: image_path)"},
		{"  --caption-column <name>", "Caption column (default: caption)"},
		{"", ""},
		{"Behavior", ""},
		{"  -m, --mode <mode>", "pair | merge | missing | stats (default: pair)"},
		{"  -w, --workers <n>", "Parallel emission/decode workers (default: 1)"},
		{"  -n, --dry-run", "Classify only; write nothing"},
		{"  --metrics-file <path>", "Write counters as a Prometheus textfile"},
		{"  --report <path>", "Missing mode: write report to file"},
		{"  --stats-out <path>", "Stats mode: JSON output (default: image_stats.json)"},
		{"", ""},
		{"Display", ""},
		{"  --no-progress", "Disable the progress bar"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (per-row decisions)"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "Preflight diagnostics (index, images, output)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum types (Mode, ColorMode) with flag.Var.

type modeValue struct{ p *Mode }

func (m *modeValue) String() string {
	if m.p == nil {
		return ""
	}
	return string(*m.p)
}

func (m *modeValue) Set(s string) error {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePair:
		*m.p = ModePair
	case ModeMerge:
		*m.p = ModeMerge
	case ModeMissing:
		*m.p = ModeMissing
	case ModeStats:
		*m.p = ModeStats
	default:
		return fmt.Errorf("invalid mode %q (use 'pair', 'merge', 'missing' or 'stats')", s)
	}
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorModeValue) Set(s string) error {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case ColorAuto:
		*c.p = ColorAuto
	case ColorAlways:
		*c.p = ColorAlways
	case ColorNever:
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
