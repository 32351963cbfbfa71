package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/differ"
	"github.com/erraggy/catalogdiff/internal/cliutil"
	"github.com/erraggy/catalogdiff/internal/fileutil"
	"github.com/erraggy/catalogdiff/internal/telemetry"
)

// DiffFlags contains flags for the diff command
type DiffFlags struct {
	LoadFlags
	Format       string
	Output       string
	IDKey        string
	MaxNodes     int
	History      stringList
	MetricsFile  string
	BreakingOnly bool
	StrictIDs    bool
	Lenient      bool
}

// SetupDiffFlags creates and configures a FlagSet for the diff command.
// Returns the FlagSet and a DiffFlags struct with bound flag variables.
func SetupDiffFlags() (*flag.FlagSet, *DiffFlags) {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags := &DiffFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Output, "o", "", "write the report to this file instead of stdout")
	fs.StringVar(&flags.Output, "output", "", "write the report to this file instead of stdout")
	fs.StringVar(&flags.Root, "root", "", "slash-separated key path of the entity map, e.g. components/schemas")
	fs.BoolVar(&flags.Flatten, "flatten", false, "flatten nested token groups into dotted entity names")
	fs.StringVar(&flags.IDKey, "id-key", differ.DefaultIdentifierKey, "entity field holding the stable identifier")
	fs.IntVar(&flags.MaxNodes, "max-nodes", differ.DefaultMaxNodes, "fail when a snapshot has more value nodes (0 disables)")
	fs.Var(&flags.History, "history", "earlier snapshot used to detect reverted entities (repeatable)")
	fs.StringVar(&flags.MetricsFile, "metrics-file", "", "write Prometheus metrics of the run to this file")
	fs.BoolVar(&flags.BreakingOnly, "breaking-only", false, "only list breaking changes (text format)")
	fs.BoolVar(&flags.StrictIDs, "strict-ids", false, "fail when an identifier is shared by several entities")
	fs.BoolVar(&flags.Lenient, "lenient", false, "treat removed enum values as compatible")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log diff phases to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: catalogdiff diff [flags] <original> <updated>\n\n")
		cliutil.Writef(fs.Output(), "Compare two snapshots of a token or component catalog and classify every change.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  Human-readable report grouped by partition\n")
		cliutil.Writef(fs.Output(), "  json            JSON result object for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            YAML result object for programmatic processing\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  catalogdiff diff --flatten tokens-v1.json tokens-v2.json\n")
		cliutil.Writef(fs.Output(), "  catalogdiff diff --root components/schemas schemas-v1.yaml schemas-v2.yaml\n")
		cliutil.Writef(fs.Output(), "  catalogdiff diff --format json v1.json v2.json | jq '.summary.hasBreakingChanges'\n")
		cliutil.Writef(fs.Output(), "  catalogdiff diff --history v0.json v1.json v2.json\n")
		cliutil.Writef(fs.Output(), "  catalogdiff diff -o report.txt v1.json v2.json\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    No breaking changes\n")
		cliutil.Writef(fs.Output(), "  1    Breaking changes found, or an error occurred\n")
	}

	return fs, flags
}

// HandleDiff executes the diff command
func HandleDiff(args []string) error {
	fs, flags := SetupDiffFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("diff command requires exactly two catalog files")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	original, err := flags.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	updated, err := flags.Load(fs.Arg(1))
	if err != nil {
		return err
	}
	history := make([]*catalog.Snapshot, 0, len(flags.History))
	for _, path := range flags.History {
		snap, err := flags.Load(path)
		if err != nil {
			return err
		}
		history = append(history, snap)
	}

	opts := []differ.Option{
		differ.WithOriginalSnapshot(original),
		differ.WithUpdatedSnapshot(updated),
		differ.WithIdentifierPath(flags.IDKey),
		differ.WithMaxNodes(flags.MaxNodes),
		differ.WithStrictIdentifiers(flags.StrictIDs),
		differ.WithHistory(history...),
		differ.WithLogger(flags.Logger()),
	}
	if flags.Lenient {
		opts = append(opts, differ.WithBreakingRules(differ.LenientRules()))
	}

	var reg *prometheus.Registry
	if flags.MetricsFile != "" {
		reg = prometheus.NewRegistry()
		metrics, err := telemetry.New(reg)
		if err != nil {
			return err
		}
		opts = append(opts, differ.WithObserver(metrics))
	}

	startTime := time.Now()
	result, diffErr := differ.DiffWithOptions(opts...)
	totalTime := time.Since(startTime)

	if reg != nil {
		if err := telemetry.WriteTextfile(reg, flags.MetricsFile); err != nil {
			return err
		}
	}
	if diffErr != nil {
		return fmt.Errorf("comparing catalogs: %w", diffErr)
	}

	out := Stdout
	if flags.Output != "" {
		f, err := fileutil.CreateReport(flags.Output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		if err := OutputStructured(out, result, flags.Format); err != nil {
			return err
		}
	} else {
		OutputHeader(out, original, updated)
		Writef(out, "Total Time: %v\n\n", totalTime)
		writeTextReport(out, result, flags.BreakingOnly)
	}

	if result.Summary.HasBreakingChanges {
		return ErrBreakingChanges
	}
	return nil
}

// partitionOrder is the order of the report sections.
var partitionOrder = []string{"deleted", "renamed", "deprecated", "reverted", "updated", "added"}

// writeTextReport prints the changes of result grouped by partition.
func writeTextReport(w io.Writer, result *differ.Result, breakingOnly bool) {
	if result.IsEmpty() {
		Writef(w, "✓ No differences found - catalogs are identical\n")
		return
	}

	partitions := result.Partitions()
	groups := make(map[string][]differ.Change)
	for _, c := range result.Changes() {
		if breakingOnly && !c.Breaking {
			continue
		}
		p := partitions[c.Entity]
		groups[p] = append(groups[p], c)
	}

	for _, p := range partitionOrder {
		changes := groups[p]
		if len(changes) == 0 {
			continue
		}
		cliutil.Heading(w, p, "Entities", len(changes))
		for _, c := range changes {
			Writef(w, "  %s\n", c)
		}
		Writef(w, "\n")
	}

	if len(result.Ambiguities) > 0 {
		Writef(w, "Ambiguous Identifiers (%d):\n", len(result.Ambiguities))
		for _, a := range result.Ambiguities {
			Writef(w, "  ⚠ %s\n", a)
		}
		Writef(w, "\n")
	}

	s := result.Summary
	Writef(w, "Summary:\n")
	Writef(w, "  Added: %d  Deleted: %d  Updated: %d\n",
		s.TotalEntities.Added, s.TotalEntities.Deleted, s.TotalEntities.Updated)
	if s.HasBreakingChanges {
		Writef(w, "  ⚠️  Breaking changes: %d\n", s.BreakingChanges)
	} else {
		Writef(w, "  ✓ Breaking changes: 0\n")
	}
	Writef(w, "  Non-breaking changes: %d\n", s.NonBreakingChanges)
	Writef(w, "  Suggested bump: %s\n", result.Bump())
}
