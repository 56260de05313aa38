// Package cutrcmd is the cobra command line of cutr.
package cutrcmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/cutr-cli/cutr/cutr/pkg/clilog"
	"github.com/cutr-cli/cutr/cutr/pkg/cutconf"
	"github.com/cutr-cli/cutr/cutr/pkg/runner"
	"github.com/cutr-cli/cutr/cutr/pkg/xinput"
)

// Version of cutr.
const Version = "0.1.0"

const (
	flagFields      = "fields"
	flagBytes       = "bytes"
	flagChars       = "chars"
	flagDelim       = "delim"
	flagOutputDelim = "output-delim"
	flagJobs        = "jobs"
	flagConfig      = "config"
	flagVerbose     = "verbose"
)

// New creates the root command.
func New() *cobra.Command {
	c := &cobra.Command{
		Use:   "cutr [FILE]...",
		Short: "Print selected bytes, characters or fields of each line",
		Long: `Print selected parts of each line of the given files, or of standard input
when no file or "-" is given.

A LIST is made of one or more comma separated 1-based positions or
inclusive ranges, e.g. "1,3-5,8". Positions are printed in LIST order,
repeated positions are printed again and positions past the end of a line
are ignored.`,
		Example: `  cutr -c 1-3,7 notes.txt
  cutr -f 2 -d , data.csv
  cutr -f 3,1 -d , --output-delim '|' 'logs/**/*.csv'`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cutHandler,
	}

	c.Flags().StringP(flagFields, "f", "", "select only these fields (LIST)")
	c.Flags().StringP(flagBytes, "b", "", "select only these bytes (LIST)")
	c.Flags().StringP(flagChars, "c", "", "select only these characters (LIST)")
	c.Flags().StringP(flagDelim, "d", "\t", "field delimiter, a single byte")
	c.Flags().String(flagOutputDelim, "", "delimiter joining selected fields (default: --delim)")
	c.Flags().IntP(flagJobs, "j", 1, "number of goroutines extracting lines")
	c.Flags().String(flagConfig, "", "config file (.yaml, .yml or .toml), default $"+cutconf.EnvConfig)
	c.Flags().BoolP(flagVerbose, "v", false, "log progress to stderr")

	return c
}

func cutHandler(cmd *cobra.Command, args []string) error {
	opts, err := optionsFromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	if path := cutconf.ConfigPath(getString(cmd.Flags(), flagConfig)); path != "" {
		if opts.File, err = cutconf.LoadFile(path); err != nil {
			return err
		}
	}

	cfg, err := cutconf.New(opts)
	if err != nil {
		return err
	}

	files, err := xinput.Expand(args)
	if err != nil {
		return err
	}

	log := clilog.New(cmd.ErrOrStderr(), cfg.Verbose)
	log.Debug("starting", "mode", cfg.Extraction.Mode(), "selection", cfg.Extraction.Selection().String(), "files", len(files))

	return runner.New(cfg,
		runner.WithStdin(cmd.InOrStdin()),
		runner.WithStdout(cmd.OutOrStdout()),
		runner.WithStderr(cmd.ErrOrStderr()),
		runner.WithLogger(log),
	).Run(cmd.Context(), files)
}

// optionsFromFlags keeps only the flags the user set so that the config file
// and the defaults can fill the rest.
func optionsFromFlags(flags *flag.FlagSet) (cutconf.Options, error) {
	var opts cutconf.Options

	for name, dst := range map[string]**string{
		flagFields: &opts.Fields,
		flagBytes:  &opts.Bytes,
		flagChars:  &opts.Chars,
	} {
		if flags.Changed(name) {
			value := getString(flags, name)
			*dst = &value
		}
	}

	if flags.Changed(flagDelim) {
		opts.Settings.Delimiter = getString(flags, flagDelim)
		if opts.Settings.Delimiter == "" {
			return opts, errors.New(`--delim "" must be single byte`)
		}
	}
	if flags.Changed(flagOutputDelim) {
		opts.Settings.OutputDelimiter = getString(flags, flagOutputDelim)
		if opts.Settings.OutputDelimiter == "" {
			return opts, errors.New(`--output-delim "" must be single byte`)
		}
	}
	if flags.Changed(flagJobs) {
		jobs, _ := flags.GetInt(flagJobs)
		if jobs < 1 {
			return opts, errors.New("--jobs must be at least 1")
		}
		opts.Settings.Jobs = jobs
	}
	if flags.Changed(flagVerbose) {
		verbose, _ := flags.GetBool(flagVerbose)
		opts.Verbose = &verbose
	}

	return opts, nil
}

func getString(flags *flag.FlagSet, name string) string {
	value, _ := flags.GetString(name)
	return value
}
