package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/catalogdiff/differ"
	"github.com/erraggy/catalogdiff/internal/cliutil"
)

// BumpFlags contains flags for the bump command
type BumpFlags struct {
	LoadFlags
	Current string
	IDKey   string
}

// SetupBumpFlags creates and configures a FlagSet for the bump command.
func SetupBumpFlags() (*flag.FlagSet, *BumpFlags) {
	fs := flag.NewFlagSet("bump", flag.ContinueOnError)
	flags := &BumpFlags{}

	fs.StringVar(&flags.Current, "current", "", "current release version (MAJOR.MINOR.PATCH); prints the next version instead of the bump")
	fs.StringVar(&flags.Root, "root", "", "slash-separated key path of the entity map, e.g. components/schemas")
	fs.BoolVar(&flags.Flatten, "flatten", false, "flatten nested token groups into dotted entity names")
	fs.StringVar(&flags.IDKey, "id-key", differ.DefaultIdentifierKey, "entity field holding the stable identifier")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log diff phases to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: catalogdiff bump [flags] <original> <updated>\n\n")
		cliutil.Writef(fs.Output(), "Print the semantic version increment a release of <updated> needs:\n")
		cliutil.Writef(fs.Output(), "major when entities were removed, minor when entities were added, patch otherwise.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  catalogdiff bump tokens-v1.json tokens-v2.json\n")
		cliutil.Writef(fs.Output(), "  catalogdiff bump --current v1.4.2 --flatten tokens-v1.json tokens-v2.json\n")
	}

	return fs, flags
}

// HandleBump executes the bump command
func HandleBump(args []string) error {
	fs, flags := SetupBumpFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("bump command requires exactly two catalog files")
	}

	original, err := flags.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	updated, err := flags.Load(fs.Arg(1))
	if err != nil {
		return err
	}

	result, err := differ.DiffWithOptions(
		differ.WithOriginalSnapshot(original),
		differ.WithUpdatedSnapshot(updated),
		differ.WithIdentifierPath(flags.IDKey),
		differ.WithLogger(flags.Logger()),
	)
	if err != nil {
		return fmt.Errorf("comparing catalogs: %w", err)
	}

	bump := result.Bump()
	if flags.Current == "" {
		Writef(Stdout, "%s\n", bump)
		return nil
	}
	next, err := differ.NextVersion(flags.Current, bump)
	if err != nil {
		return err
	}
	Writef(Stdout, "%s\n", next)
	return nil
}
