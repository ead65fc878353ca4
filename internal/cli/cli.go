// Package cli interprets the esdots command line and drives a trace over
// the chosen input.
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/etomahawk/tstools/internal/avs"
	"github.com/etomahawk/tstools/internal/dots"
	"github.com/etomahawk/tstools/internal/es"
	"github.com/etomahawk/tstools/internal/h262"
	"github.com/etomahawk/tstools/internal/h264"
)

const (
	exitOK    = 0
	exitError = 1
)

// Options collects the command line switches.
type Options struct {
	InputName string
	UseStdin  bool
	UsePES    bool
	WantES    bool
	Verbose   bool
	HashEOS   bool

	// Want fixes the video type. VideoUnknown asks for auto-detection.
	Want es.VideoType

	// Max bounds how many entities are traced. Zero means no limit.
	Max int
}

// Run interprets args as the esdots command line, traces the input to
// stdout and returns the process exit code. args[0] is the program name.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return exitError
	}
	if len(args) == 1 {
		Usage(stdout)
		return exitOK
	}

	var opts Options
	haveInput := false

	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-help", "-h":
			Usage(stdout)
			return exitOK
		case "-stdin":
			opts.UseStdin = true
			haveInput = true
		case "-avc", "-h264":
			opts.Want = es.VideoH264
		case "-h262":
			opts.Want = es.VideoH262
		case "-avs":
			opts.Want = es.VideoAVS
		case "-es":
			opts.WantES = true
		case "-verbose", "-v":
			opts.Verbose = true
		case "-hasheos":
			opts.HashEOS = true
		case "-pes", "-ts":
			opts.UsePES = true
		case "-max", "-m":
			if i+1 == len(args) {
				fmt.Fprintf(stderr, "### esdots: missing argument to %s\n", arg)
				return exitError
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(stderr, "### esdots: unable to convert '%s' to an integer for %s\n", args[i], arg)
				return exitError
			}
			if n < 0 {
				fmt.Fprintf(stderr, "### esdots: value %d (for %s) is less than zero\n", n, arg)
				return exitError
			}
			opts.Max = n
		default:
			if len(arg) > 0 && arg[0] == '-' {
				fmt.Fprintf(stderr, "### esdots: Unrecognised command line switch '%s'\n", arg)
				return exitError
			}
			if haveInput {
				fmt.Fprintf(stderr, "### esdots: Unexpected '%s'\n", arg)
				return exitError
			}
			opts.InputName = arg
			haveInput = true
		}
	}

	if !haveInput {
		fmt.Fprintln(stderr, "### esdots: No input file specified")
		return exitError
	}

	return trace(opts, stdout, stderr)
}

func trace(opts Options, stdout, stderr io.Writer) int {
	if opts.WantES && opts.Want == es.VideoH264 {
		fmt.Fprintln(stderr, "### esdots: -es is not yet supported for H.264")
		return exitError
	}

	path := opts.InputName
	if opts.UseStdin {
		path = ""
	}
	stream, err := es.Open(path, opts.UsePES, opts.Want)
	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr, "### esdots: Error opening input file")
		return exitError
	}

	// The forced-type check above cannot see a type that was detected
	// from the file or the PMT.
	if opts.WantES && stream.Type == es.VideoH264 {
		stream.Close()
		fmt.Fprintln(stderr, "### esdots: -es is not yet supported for H.264")
		return exitError
	}

	dopts := dots.Options{Max: opts.Max, Verbose: opts.Verbose, HashEOS: opts.HashEOS}
	switch {
	case opts.WantES:
		err = dots.ESDots(stdout, stream.Reader, stream.Type, dopts)
	case stream.Type == es.VideoH262:
		err = dots.H262Dots(stdout, h262.NewItemReader(stream.Reader), dopts)
	case stream.Type == es.VideoH264:
		err = dots.H264Dots(stdout, h264.NewAccessUnitReader(stream.Reader), dopts)
	case stream.Type == es.VideoAVS:
		err = dots.AVSDots(stdout, avs.NewFrameReader(stream.Reader), dopts)
	default:
		stream.Close()
		fmt.Fprintf(stderr, "### esdots: Unexpected video type %s\n", stream.Type)
		return exitError
	}
	if err != nil {
		stream.Close()
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr, "### esdots: Error producing 'dots'")
		return exitError
	}

	if err := stream.Close(); err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr, "### esdots: Error closing input file")
		return exitError
	}
	return exitOK
}
