// Package cutconf builds the immutable run configuration from flags, an
// optional config file and built-in defaults.
package cutconf

import (
	"fmt"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"

	"github.com/cutr-cli/cutr/cutr/pkg/clipper"
	"github.com/cutr-cli/cutr/cutr/pkg/records"
)

var (
	// ErrNoMode is returned when none of the selection modes is given.
	ErrNoMode = errors.New("must have --fields, --bytes, or --chars")

	// ErrModeConflict is matched by a ModeConflictError.
	ErrModeConflict = errors.New("selection modes conflict")
)

// ModeConflictError is returned when more than one selection mode is given.
type ModeConflictError struct {
	First, Second clipper.Mode
}

// Error implements the Error interface for ModeConflictError.
func (e *ModeConflictError) Error() string {
	return fmt.Sprintf("the argument '--%s' cannot be used with '--%s'", e.First, e.Second)
}

// Is lets errors.Is match ErrModeConflict.
func (e *ModeConflictError) Is(target error) bool { return target == ErrModeConflict }

// Options is the raw user input. A nil selection means the flag was not given.
type Options struct {
	Fields *string
	Bytes  *string
	Chars  *string

	// Settings holds only the values set explicitly on the command line.
	Settings Settings

	// File holds the values read from a config file, if any.
	File Settings

	// Verbose overrides the merged verbose setting when set. A false value in
	// Settings cannot be told apart from an unset one.
	Verbose *bool
}

// Config is the validated configuration of one run. It is not modified after
// New returns.
type Config struct {
	Extraction      clipper.Extraction
	Delimiter       byte
	OutputDelimiter byte
	Jobs            int
	Verbose         bool
}

// New validates opts and builds a Config. Flags win over the config file,
// which wins over the defaults.
func New(opts Options) (Config, error) {
	extraction, err := extractionOf(opts)
	if err != nil {
		return Config{}, err
	}

	if opts.Settings.Jobs < 0 || opts.File.Jobs < 0 {
		return Config{}, errors.New("jobs must be at least 1")
	}

	settings := opts.Settings
	if err := mergo.Merge(&settings, opts.File); err != nil {
		return Config{}, errors.Wrap(err, "cannot merge config")
	}
	if err := mergo.Merge(&settings, DefaultSettings()); err != nil {
		return Config{}, errors.Wrap(err, "cannot merge config")
	}
	if opts.Verbose != nil {
		settings.Verbose = *opts.Verbose
	}

	delim, err := records.ParseDelimiter(settings.Delimiter)
	if err != nil {
		return Config{}, err
	}

	outDelim := delim
	if settings.OutputDelimiter != "" {
		if outDelim, err = records.ParseDelimiter(settings.OutputDelimiter); err != nil {
			var delimErr *records.DelimiterError
			if errors.As(err, &delimErr) {
				delimErr.Flag = "output-delim"
			}
			return Config{}, err
		}
	}

	return Config{
		Extraction:      extraction,
		Delimiter:       delim,
		OutputDelimiter: outDelim,
		Jobs:            settings.Jobs,
		Verbose:         settings.Verbose,
	}, nil
}

// extractionOf picks the single requested mode and parses its selection.
// Mode errors are reported before selection syntax errors.
func extractionOf(opts Options) (clipper.Extraction, error) {
	type candidate struct {
		mode clipper.Mode
		spec *string
	}

	var given []candidate
	for _, c := range []candidate{
		{clipper.ModeFields, opts.Fields},
		{clipper.ModeBytes, opts.Bytes},
		{clipper.ModeChars, opts.Chars},
	} {
		if c.spec != nil {
			given = append(given, c)
		}
	}

	switch len(given) {
	case 0:
		return clipper.Extraction{}, ErrNoMode
	case 1:
	default:
		return clipper.Extraction{}, &ModeConflictError{First: given[0].mode, Second: given[1].mode}
	}

	selection, err := clipper.ParseSelection(*given[0].spec)
	if err != nil {
		return clipper.Extraction{}, err
	}

	switch given[0].mode {
	case clipper.ModeFields:
		return clipper.Fields(selection), nil
	case clipper.ModeBytes:
		return clipper.Bytes(selection), nil
	default:
		return clipper.Chars(selection), nil
	}
}
