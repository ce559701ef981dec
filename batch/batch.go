// Public domain.

// Package batch applies the correction chain of package pipeline to many
// objects at one instant and location.
//
// Shared terms are computed once per call.  Objects are then split into
// contiguous index ranges, one goroutine each.  Results are written to
// their own slots so no locking is needed beyond the final join.
package batch

import (
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soniakeys/altaz/astroerr"
	"github.com/soniakeys/altaz/horizon"
	"github.com/soniakeys/altaz/internal/metrics"
	"github.com/soniakeys/altaz/location"
	"github.com/soniakeys/altaz/pipeline"
	"github.com/soniakeys/altaz/place"
	"github.com/soniakeys/altaz/timescale"
	"github.com/soniakeys/coord"
)

// DefaultThreshold is the batch size below which Run works sequentially.
const DefaultThreshold = 256

// Request is a batch of catalog places sharing an instant and location.
type Request struct {
	Coords []coord.Equa
	// ProperMotions, if not nil, has one entry per coordinate and
	// overrides Options.ProperMotion.
	ProperMotions []place.ProperMotion
	Instant       timescale.Instant
	Location      location.Location
	Options       pipeline.Options
}

// Result is the outcome for one coordinate.  Err is nil on success.
type Result struct {
	horizon.Horizontal
	Err error
}

// Engine runs batches.
type Engine struct {
	workers   int
	threshold int
	logger    *slog.Logger
}

// New creates an engine.  Workers < 1 means runtime.GOMAXPROCS(0),
// threshold < 1 means DefaultThreshold, a nil logger discards.
func New(workers, threshold int, logger *slog.Logger) *Engine {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{workers: workers, threshold: threshold, logger: logger}
}

// Workers returns the maximum number of goroutines of a batch.
func (e *Engine) Workers() int { return e.workers }

// Threshold returns the smallest batch run in parallel.
func (e *Engine) Threshold() int { return e.threshold }

// Run transforms every coordinate of req.
//
// The returned slice corresponds index for index with req.Coords.  A
// coordinate that fails has its error in its Result and does not affect
// others.  An error return means terms shared by the whole batch could not
// be computed, and no results are returned.
func (e *Engine) Run(req Request) ([]Result, error) {
	const op = "batch.Run"
	n := len(req.Coords)
	if req.ProperMotions != nil && len(req.ProperMotions) != n {
		return nil, astroerr.New(astroerr.InvalidInput, op, "",
			"proper motions do not match coordinates")
	}
	start := time.Now()
	id := uuid.New()
	t, err := pipeline.NewTerms(req.Instant, req.Location, req.Options)
	if err != nil {
		e.logger.Warn("batch terms failed", "batch_id", id, "error", err)
		return nil, err
	}
	res := make([]Result, n)
	mode := metrics.Sequential
	workers := 1
	if n >= e.threshold && e.workers > 1 {
		mode = metrics.Parallel
		workers = e.workers
	}
	if workers == 1 {
		transform(t, req, res, 0, n)
	} else {
		chunk := (n + workers - 1) / workers
		var wg sync.WaitGroup
		for lo := 0; lo < n; lo += chunk {
			lo, hi := lo, min(lo+chunk, n)
			wg.Add(1)
			go func() {
				defer wg.Done()
				transform(t, req, res, lo, hi)
			}()
		}
		wg.Wait()
	}
	failed := 0
	for i := range res {
		if res[i].Err != nil {
			failed++
		}
	}
	elapsed := time.Since(start)
	metrics.ObserveBatch(mode, n-failed, failed, elapsed)
	e.logger.Debug("batch done",
		"batch_id", id,
		"mode", mode,
		"objects", n,
		"failed", failed,
		"elapsed", elapsed,
	)
	return res, nil
}

// transform fills res[lo:hi].
func transform(t *pipeline.Terms, req Request, res []Result, lo, hi int) {
	for i := lo; i < hi; i++ {
		pm := req.Options.ProperMotion
		if req.ProperMotions != nil {
			pm = req.ProperMotions[i]
		}
		res[i].Horizontal, res[i].Err = t.AltAz(req.Coords[i], pm)
	}
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// RaDecToAltAzBatch runs a batch on an engine with default settings.
func RaDecToAltAzBatch(coords []coord.Equa, inst timescale.Instant, loc location.Location, opts pipeline.Options) ([]Result, error) {
	defaultOnce.Do(func() { defaultEngine = New(0, 0, nil) })
	return defaultEngine.Run(Request{
		Coords:   coords,
		Instant:  inst,
		Location: loc,
		Options:  opts,
	})
}
