// Command bcc is the B compiler driver: it wires the CLI flag surface
// onto internal/driver, in the same cobra-based shape used by other
// small compiler front ends.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Spydr06/BCause/internal/compiler"
	"github.com/Spydr06/BCause/internal/driver"
)

var (
	output     string
	stopAfterS bool
	stopAfterC bool
	saveTemps  bool
	libDirs    []string
	verbose    bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bcc [flags] FILES...",
		Short:   "Compile B source files to a native executable",
		Version: "1.0.0",
		Args:    cobra.MinimumNArgs(1),
		RunE:    run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVarP(&output, "output", "o", "a.out", "output file")
	cmd.Flags().BoolVarP(&stopAfterS, "S", "S", false, "stop after generating assembly (.s)")
	cmd.Flags().BoolVarP(&stopAfterC, "c", "c", false, "stop after assembling (.o)")
	cmd.Flags().BoolVar(&saveTemps, "save-temps", false, "keep intermediate .s/.o files")
	cmd.Flags().StringArrayVarP(&libDirs, "L", "L", nil, "add a library search directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each compilation step")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		return err
	}
	defer logger.Sync()

	d := driver.New(driver.Options{
		Output:     output,
		StopAfterS: stopAfterS,
		StopAfterC: stopAfterC,
		SaveTemps:  saveTemps,
		LibDirs:    libDirs,
		Logger:     logger.Sugar(),
	})
	return d.Run(args)
}

func main() {
	cmd := newRootCmd()
	args := os.Args[1:]
	for i, a := range args {
		// pflag reads a single-dash word as a run of shorthand flags,
		// so the one-dash spelling is rewritten to the long form.
		if a == "-save-temps" {
			args[i] = "--save-temps"
		}
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if ce, ok := asCompileError(err); ok {
			fmt.Fprintln(os.Stderr, compiler.Render("bcc", ce))
		} else {
			fmt.Fprintf(os.Stderr, "bcc: %s\n", err)
		}
		os.Exit(1)
	}
}

func asCompileError(err error) (*compiler.CompileError, bool) {
	ce, ok := err.(*compiler.CompileError)
	return ce, ok
}
