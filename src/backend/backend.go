package backend

import (
	"fmt"
	"log/slog"
	"sync"
	"tigerc/src/assem"
	"tigerc/src/liveness"
	"tigerc/src/util"
)

// ---------------------
// ----- Functions -----
// ---------------------

// Analyze runs liveness and interference analysis on every function of prog, using the precolored registers of
// regs. The results are returned in program order. With opt.Threads > 1 the functions are split into contiguous
// chunks analysed by parallel worker go routines; regs is shared read-only between them.
func Analyze(opt util.Options, prog *assem.Program, regs liveness.Registers) ([]*liveness.Result, error) {
	fs := prog.Functions
	res := make([]*liveness.Result, len(fs))

	if opt.Threads <= 1 || len(fs) < 2 {
		// Sequential.
		for i1, e1 := range fs {
			r, err := liveness.Analyze(e1.Name, e1.Body, regs)
			if err != nil {
				return nil, err
			}
			res[i1] = r
		}
		return res, nil
	}

	// Parallel.
	t := opt.Threads
	l := len(fs)
	if t > l {
		t = l
	}
	n := l / t
	rem := l % t

	start := 0
	end := n

	// Create error listener.
	perr := util.NewPerror(t)

	// Create wait group for main go routine to wait for worker go routines.
	wg := sync.WaitGroup{}
	wg.Add(t)

	// Spawn t worker go routines.
	for i1 := 0; i1 < t; i1++ {
		if i1 < rem {
			end++
		}

		// Every worker writes to its own range of res.
		go func(start, end int) {
			defer wg.Done()
			for i2 := start; i2 < end; i2++ {
				r, err := liveness.Analyze(fs[i2].Name, fs[i2].Body, regs)
				if err != nil {
					perr.Append(err)
					continue
				}
				res[i2] = r
			}
		}(start, end)

		start = end
		end += n
	}

	// Wait for worker go routines to finish.
	wg.Wait()
	perr.Stop()

	// Check for errors from worker go routines.
	if perr.Len() > 0 {
		for _, e1 := range perr.Errors() {
			slog.Error("analysis failed", "err", e1)
		}
		return nil, fmt.Errorf("%d error(s) during parallel analysis: %w", perr.Len(), perr.Err())
	}
	return res, nil
}
