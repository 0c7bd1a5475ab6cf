package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"tigerc/src/assem"
	"tigerc/src/backend"
	"tigerc/src/backend/dump"
	"tigerc/src/frame"
	"tigerc/src/util"

	"github.com/tebeka/atexit"
)

func main() {
	// Parse command line arguments.
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Command line argument error: %s\n", err)
		util.PrintHelp(os.Stderr)
		atexit.Exit(1)
	}
	if opt.Help {
		util.PrintHelp(os.Stdout)
		atexit.Exit(0)
	}
	if opt.Version {
		fmt.Println(util.AppVersion)
		atexit.Exit(0)
	}

	util.SetupLogging(opt, os.Stderr)

	// Initiate output writer.
	var out io.Writer
	if len(opt.Out) > 0 {
		// Attempt to open output file. Create new file if necessary.
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			slog.Error("could not open output file", "file", opt.Out, "err", err)
			atexit.Exit(1)
		}
		atexit.Register(func() {
			if err := f.Close(); err != nil {
				slog.Error("could not close output file", "file", opt.Out, "err", err)
			}
		})
		out = f
	}

	if err := run(opt, out); err != nil {
		slog.Error("analysis failed", "err", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// run loads the program selected by opt, analyses every function and writes the dumps to out, or stdout if out
// is nil.
func run(opt util.Options, out io.Writer) error {
	regs, err := frame.ForArch(opt.TargetArch)
	if err != nil {
		return err
	}

	// Read and decode the program.
	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read program: %w", err)
	}
	prog, err := assem.Load(strings.NewReader(src), regs)
	if err != nil {
		return err
	}

	// Build flow graphs, live sets and interference graphs.
	res, err := backend.Analyze(opt, prog, regs)
	if err != nil {
		return err
	}
	slog.Info("analysis done", "arch", regs.Arch(), "functions", len(res), "threads", opt.Threads)

	// Write the dumps in program order.
	util.ListenWrite(opt.Threads, out)
	for i1, e1 := range res {
		w := util.NewWriter()
		w.WriteString(dump.Function(e1, prog.Functions[i1].Namer(regs), regs))
		w.Close()
	}
	return util.Close()
}
