// Command spannotate is a smoke-testing harness for the sample-based
// profile annotator: it loads a textual CFG fixture (see fixture.go),
// runs the annotator and CFG smoother against a real (or absent) sample
// data file, and prints a summary of the resulting block counts. It is
// not a production compiler integration.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/autofdo-go/sampleprofile/annotator"
	"github.com/autofdo-go/sampleprofile/dump"
	"github.com/autofdo-go/sampleprofile/log"
	"github.com/autofdo-go/sampleprofile/profile"
	"github.com/autofdo-go/sampleprofile/profile/remote"
	"github.com/autofdo-go/sampleprofile/sampleindex"
	"github.com/autofdo-go/sampleprofile/smoother"
)

func main() {
	defer func() {
		// Structural impossibility (assertion-class panics from
		// sampleindex/annotator/profile) are only ever recovered here,
		// at the command's top level, mirroring the source's gcc_assert
		// aborting the whole compilation rather than being silently
		// swallowed.
		if r := recover(); r != nil {
			log.Fatalf("spannotate: fatal: %v", r)
		}
	}()

	args, err := parseArgs()
	if err != nil {
		log.Errorf("parsing arguments: %v", err)
		os.Exit(2)
	}

	if err := args.Validate(); err != nil {
		log.Errorf("validating configuration: %v", err)
		os.Exit(1)
	}

	if args.CFGFile == "" {
		log.Errorf("-cfg-file is required")
		os.Exit(2)
	}

	if err := run(context.Background(), args); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args *cliArgs) error {
	f, err := os.Open(args.CFGFile)
	if err != nil {
		return fmt.Errorf("opening cfg fixture: %w", err)
	}
	defer f.Close()

	fn, err := parseFixture(f)
	if err != nil {
		return fmt.Errorf("parsing cfg fixture: %w", err)
	}
	functionName := args.FunctionName
	if functionName == "" {
		functionName = fn.name
	}

	idx := sampleindex.New()
	numAnnotated := 0

	if args.SampleProfileEnabled {
		localPath, cleanup, err := remote.Fetch(ctx, args.SampleDataName)
		if err != nil {
			return fmt.Errorf("fetching sample data: %w", err)
		}
		defer cleanup()

		var numSamples int
		idx, numSamples, err = profile.Load(localPath)
		if err != nil {
			return fmt.Errorf("loading sample data: %w", err)
		}
		log.Infof("loaded %d samples from %s", numSamples, args.SampleDataName)
	}

	log.Debugf("annotating %d blocks for function %s", len(fn.graph.Blocks()), functionName)

	for _, b := range fn.graph.Blocks() {
		if annotator.Annotate(b, idx, functionName) {
			numAnnotated++
		}
	}

	estimator := smoother.UniformEstimator{}
	solver := smoother.ConservationSolver{}
	adopted, err := smoother.Smooth(fn.graph, numAnnotated, estimator, solver)
	if err != nil {
		return fmt.Errorf("smoothing cfg: %w", err)
	}

	fmt.Printf("function %s: adopted=%v entry_count=%d\n",
		annotator.DemangledName(functionName), adopted, fn.graph.Entry().Count())

	if args.ProfileDump && args.DumpFile != "" {
		out, err := os.OpenFile(args.DumpFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("creating dump file: %w", err)
		}
		defer out.Close()
		if err := dump.WriteFunctionProfile(out, fn.graph, functionName); err != nil {
			return fmt.Errorf("writing dump file: %w", err)
		}
	}

	return nil
}
