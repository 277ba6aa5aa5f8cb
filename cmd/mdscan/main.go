package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/mdscan/internal/compare"
	"github.com/gubarz/mdscan/internal/config"
	"github.com/gubarz/mdscan/internal/highlight"
	"github.com/gubarz/mdscan/internal/index"
	"github.com/gubarz/mdscan/internal/logging"
	"github.com/gubarz/mdscan/internal/output"
	"github.com/gubarz/mdscan/internal/parser"
	"github.com/gubarz/mdscan/internal/ui"
)

var version = "0.2.0"

// log is set up in the root command's PersistentPreRunE, once flags and config are read
var log = logging.Nop()

var rootCmd = &cobra.Command{
	Use:   "mdscan [path]",
	Short: "Find the code in Markdown files",
	Long: `Scans Markdown files for inline code spans, indented code blocks
and fenced code blocks, tracking blockquote nesting.

Lists every piece of code with its position, prints documents with the
code highlighted, browses code interactively, and cross-checks the
scanner against a CommonMark parser.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: setupLogger,
	RunE:              runList,
	SilenceUsage:      true,
}

var highlightCmd = &cobra.Command{
	Use:   "highlight FILE",
	Short: "Print a document with its code highlighted",
	Args:  cobra.ExactArgs(1),
	RunE:  runHighlight,
}

var browseCmd = &cobra.Command{
	Use:   "browse [path]",
	Short: "Browse code interactively and print, copy or run a selection",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBrowse,
}

var compareCmd = &cobra.Command{
	Use:   "compare FILE",
	Short: "Cross-check the scanner against goldmark",
	Long: `Parses FILE with both the scanner and goldmark's CommonMark parser
and lists the code payloads each one found. Exits non-zero when they differ.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(highlightCmd, browseCmd, compareCmd, widgetCmd)

	rootCmd.PersistentFlags().Bool("debug", false, "Debug logging")
	rootCmd.PersistentFlags().StringSliceP("kind", "k", nil, "Only these kinds: inline, indented, fenced")

	rootCmd.Flags().StringP("format", "f", "", "Listing format: text, json")
	rootCmd.Flags().Bool("blocks", false, "Group indented and fenced lines into blocks")
	rootCmd.Flags().BoolP("benchmark", "b", false, "Benchmark scan time and exit")

	browseCmd.Flags().StringP("output", "o", "", "Output mode: print, copy, exec")
	browseCmd.Flags().StringP("query", "q", "", "Initial filter query")
	browseCmd.Flags().Bool("print", false, "Print selection (shorthand for -o print)")
	browseCmd.Flags().Bool("copy", false, "Copy selection (shorthand for -o copy)")
	browseCmd.Flags().Bool("exec", false, "Execute selection (shorthand for -o exec)")

	compareCmd.Flags().StringP("format", "f", "", "Report format: text, json")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("kinds", rootCmd.PersistentFlags().Lookup("kind"))
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	viper.BindPFlag("blocks", rootCmd.Flags().Lookup("blocks"))
	viper.BindPFlag("output", browseCmd.Flags().Lookup("output"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func setupLogger(cmd *cobra.Command, args []string) error {
	l, err := logging.New(config.GetDebug())
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	log = l
	return nil
}

// scanPath resolves the path argument (or the configured path) and indexes it
func scanPath(args []string) (*index.Index, error) {
	path := config.GetPath()
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving path: %w", err)
	}

	idx, err := index.NewOS(log, config.GetExtensions()...).Parse(absPath)
	if err != nil {
		return nil, err
	}

	kinds, err := selectedKinds()
	if err != nil {
		return nil, err
	}
	return idx.Filter(kinds...), nil
}

// selectedKinds parses the kind filter; empty means every kind
func selectedKinds() ([]parser.Kind, error) {
	var kinds []parser.Kind
	for _, name := range config.GetKinds() {
		k, err := parser.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func runList(cmd *cobra.Command, args []string) error {
	start := time.Now()
	idx, err := scanPath(args)
	if err != nil {
		return err
	}

	if benchmark, _ := cmd.Flags().GetBool("benchmark"); benchmark {
		elapsed := time.Since(start)
		// Force GC and get memory stats
		runtime.GC()
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Scanned %d documents in %v\n", len(idx.Documents), elapsed)
		for _, k := range parser.Kinds() {
			fmt.Fprintf(out, "  %-8s %d\n", k, idx.Count(k))
		}
		fmt.Fprintf(out, "Memory: Alloc=%dMB, TotalAlloc=%dMB, Sys=%dMB, HeapObjects=%d\n",
			m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024, m.HeapObjects)
		return nil
	}

	return highlight.Format(cmd.OutOrStdout(), idx, config.GetFormat(), config.GetBlocks())
}

func runHighlight(cmd *cobra.Command, args []string) error {
	idx, err := scanPath(args)
	if err != nil {
		return err
	}

	styles := highlight.DefaultStyles()
	styles.LoadFromConfig()
	for _, doc := range idx.Documents {
		fmt.Fprint(cmd.OutOrStdout(), styles.Render(doc.Text, doc.Artifacts))
	}
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// Handle output mode flags
	if p, _ := cmd.Flags().GetBool("print"); p {
		config.SetOutput("print")
	} else if c, _ := cmd.Flags().GetBool("copy"); c {
		config.SetOutput("copy")
	} else if e, _ := cmd.Flags().GetBool("exec"); e {
		config.SetOutput("exec")
	}
	if _, err := output.ParseMode(config.GetOutput()); err != nil {
		return err
	}

	idx, err := scanPath(args)
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	return ui.Run(idx, output.New(log), query, log)
}

func runCompare(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	report := compare.Compare(string(data))
	log.Debugw("compared", "file", args[0],
		"matched", len(report.Matched),
		"only_scanner", len(report.OnlyScanner),
		"only_reference", len(report.OnlyReference))

	format, _ := cmd.Flags().GetString("format")
	if err := writeReport(cmd.OutOrStdout(), report, format); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%s: %d scanner-only and %d reference-only payloads",
			args[0], len(report.OnlyScanner), len(report.OnlyReference))
	}
	return nil
}

// writeReport prints "=" for matched payloads, "+" for scanner-only and "-" for reference-only
func writeReport(w io.Writer, r compare.Report, format string) error {
	switch format {
	case "", "text":
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default:
		return fmt.Errorf("%w: %s (supported: text, json)", highlight.ErrUnknownFormat, format)
	}

	sections := []struct {
		mark    string
		entries []compare.Entry
	}{
		{"=", r.Matched},
		{"+", r.OnlyScanner},
		{"-", r.OnlyReference},
	}
	for _, s := range sections {
		for _, e := range s.entries {
			if _, err := fmt.Fprintf(w, "%s %d\t%s\t%s\n", s.mark, e.Line, e.Kind, strconv.Quote(e.Text)); err != nil {
				return err
			}
		}
	}
	return nil
}

func main() {
	rootCmd.Version = version
	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
