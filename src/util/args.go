package util

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

type Options struct {
	Src        string // Path to program file. Empty if the program is read from stdin.
	Out        string // Path to output file. Empty if the output is written to stdout.
	Threads    int    // Thread count.
	Verbose    bool   // Set true if the analyser should log per function statistics.
	JSON       bool   // Set true if log records should be written as JSON.
	TargetArch int    // Target architecture whose registers are precolored.
	Help       bool   // Set true if the usage message was requested.
	Version    bool   // Set true if the application version was requested.
}

// ---------------------
// ----- Constants -----
// ---------------------

const maxThreads = 64 // Maximum threads allowed executing in parallel.
const AppVersion = "tigerc liveness 1.0"

// Target machine architectures.
const (
	UnknownArch = iota
	X86_64
	X86_32
	Aarch64
	Riscv64
	Riscv32
)

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses the command line arguments of the running process.
func ParseArgs() (Options, error) {
	return parseArgs(os.Args[1:])
}

// parseArgs parses the command line arguments args. The last argument is the program file unless it is a flag.
func parseArgs(args []string) (Options, error) {
	opt := Options{Threads: 1}
	if len(args) == 0 {
		return opt, nil
	}
	n := len(args)
	if !strings.HasPrefix(args[n-1], "-") {
		// The last argument names the program file, unless it is the value of a flag.
		if n < 2 || !takesValue(args[n-2]) {
			opt.Src = args[n-1]
			n--
		}
	}

	for i1 := 0; i1 < n; i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			// Help and usage.
			opt.Help = true
		case "-o", "-t", "-arch":
			if i1+1 >= n {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected argument to %s, got new flag %s", args[i1], args[i1+1])
			}
			switch args[i1] {
			case "-o":
				// Output file.
				opt.Out = args[i1+1]
			case "-t":
				// Thread count.
				if t, err := strconv.Atoi(args[i1+1]); err == nil {
					if t > 0 && t <= maxThreads {
						opt.Threads = t
					} else {
						return opt, fmt.Errorf("thread count must be integer in range [1, %d]", maxThreads)
					}
				} else {
					return opt, fmt.Errorf("expected integer thread count, got: %s", args[i1+1])
				}
			case "-arch":
				// Target architecture.
				switch args[i1+1] {
				case "x86_64":
					opt.TargetArch = X86_64
				case "aarch64":
					opt.TargetArch = Aarch64
				case "riscv64":
					opt.TargetArch = Riscv64
				default:
					return opt, fmt.Errorf("unexpected architecture identifier: %s", args[i1+1])
				}
			}
			i1++
		case "-json":
			// JSON log records.
			opt.JSON = true
		case "-v", "--v", "-version", "--version":
			// Application version.
			opt.Version = true
		case "-vb":
			// Verbose mode.
			opt.Verbose = true
		default:
			return opt, fmt.Errorf("unexpected flag: %s", args[i1])
		}
	}
	return opt, nil
}

// takesValue returns true if flag is followed by a value.
func takesValue(flag string) bool {
	return flag == "-o" || flag == "-t" || flag == "-arch"
}

// PrintHelp prints a helpful usage message to w.
func PrintHelp(w io.Writer) {
	tw := tabwriter.NewWriter(w, 6, 1, 1, ' ', 0)
	_, _ = fmt.Fprintln(tw, "usage: tigerc [flags] [program.yaml]")
	_, _ = fmt.Fprintln(tw, "-arch\tTarget architecture: 'x86_64', 'aarch64' or 'riscv64'. Defaults to 'x86_64'.")
	_, _ = fmt.Fprintln(tw, "-h, -help\tPrints this help message and exits the application.")
	_, _ = fmt.Fprintln(tw, "-json\tWrite log records as JSON.")
	_, _ = fmt.Fprintln(tw, "-o\tPath and name of the output file.")
	_, _ = fmt.Fprintf(tw, "-t\tNumber of threads to run in parallel. Must be in range [1, %d].\n", maxThreads)
	_, _ = fmt.Fprintln(tw, "-v, -version\tPrints application version and exits the application.")
	_, _ = fmt.Fprintln(tw, "-vb\tVerbose mode: log per function analysis statistics.")
	_ = tw.Flush()
}
