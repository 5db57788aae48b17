package main

import (
	"flag"
	"os"

	"github.com/peterbourgon/ff/v3"

	"github.com/autofdo-go/sampleprofile/config"
)

// cliArgs extends config.Config with the demo harness's own flags: which
// textual CFG fixture to load and which function within it to annotate.
// Keeping these separate from config.Config mirrors the project's own
// cli_flags.go convention of a command-scoped args struct distinct from
// the library's own configuration type.
type cliArgs struct {
	config.Config

	CFGFile      string
	FunctionName string
}

// The harness's own flags come first, followed by the config.Config
// knobs in the same order as that struct's fields.
func parseArgs() (*cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet("spannotate", flag.ExitOnError)

	fs.StringVar(&args.CFGFile, "cfg-file", "",
		"Path to the textual CFG fixture to annotate.")
	fs.StringVar(&args.FunctionName, "function-name", "",
		"Mangled assembler name of the function to annotate (default: the fixture's own 'function' directive).")

	fs.BoolVar(&args.SampleProfileEnabled, "sample-profile", false,
		"Enable sample-based profile annotation.")
	fs.BoolVar(&args.BranchProbabilities, "branch-probabilities", false,
		"Use static branch-probability estimation instead of sample profiling. "+
			"Mutually exclusive with -sample-profile; takes precedence on conflict.")
	fs.StringVar(&args.SampleDataName, "sample-data-name", "",
		"Path (or s3:// URI) to the sample data file. Default: sp.data.")
	fs.BoolVar(&args.ProfileDump, "profile-dump", false,
		"Enable the CFG flow-analysis dumper.")
	fs.StringVar(&args.DumpFile, "dump-file", "",
		"File to receive the flow-analysis dump (one header line and one record per edge).")

	fs.Usage = func() {
		fs.PrintDefaults()
	}

	return &args, ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("SPANNOTATE"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithIgnoreUndefined(true),
		ff.WithAllowMissingConfigFile(true),
	)
}
