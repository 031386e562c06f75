package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

var ErrWorkerPanic = errors.New("render worker panicked")

// ScanlineRange is a contiguous block of image rows
type ScanlineRange struct {
	Start int // First row
	Count int // Number of rows
}

// End returns one past the last row of the range
func (r ScanlineRange) End() int { return r.Start + r.Count }

// PartitionScanlines splits height rows into contiguous ranges, one per
// worker. Every range gets height/workers rows and the last one also takes
// the remainder. The worker count is clamped to [1, height].
func PartitionScanlines(height, workers int) []ScanlineRange {
	if height <= 0 {
		return nil
	}
	workers = max(1, min(workers, height))

	perWorker := height / workers
	ranges := make([]ScanlineRange, workers)
	for i := range ranges {
		ranges[i] = ScanlineRange{Start: i * perWorker, Count: perWorker}
	}
	last := &ranges[workers-1]
	last.Count = height - last.Start

	return ranges
}

// WorkerState is the lifecycle stage of a render worker
type WorkerState int

const (
	WorkerCreated WorkerState = iota
	WorkerWaiting
	WorkerRendering
	WorkerJoined
)

func (s WorkerState) String() string {
	switch s {
	case WorkerCreated:
		return "created"
	case WorkerWaiting:
		return "waiting"
	case WorkerRendering:
		return "rendering"
	case WorkerJoined:
		return "joined"
	default:
		return fmt.Sprintf("WorkerState(%d)", int(s))
	}
}

// Worker renders one scanline range. Its fields are written only by its
// own goroutine and read by the scheduler after the join.
type Worker struct {
	ID      int
	Range   ScanlineRange
	State   WorkerState
	Elapsed time.Duration
	err     error
}

// Scheduler runs one parallel render: it partitions the rows, holds every
// worker at a start barrier, releases them together and joins them.
// A Scheduler is single use.
type Scheduler struct {
	raytracer *Raytracer
	workers   []*Worker
}

// NewScheduler creates a scheduler with the given number of workers.
// Zero or negative means one worker per CPU; more workers than rows are
// reduced to one per row.
func NewScheduler(rt *Raytracer, numWorkers int) *Scheduler {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > rt.height {
		rt.logger.Warn().
			Int("requested", numWorkers).
			Int("workers", rt.height).
			Msg("more workers than scanlines, reducing worker count")
	}

	ranges := PartitionScanlines(rt.height, numWorkers)
	workers := make([]*Worker, len(ranges))
	for i, r := range ranges {
		workers[i] = &Worker{ID: i, Range: r, State: WorkerCreated}
	}

	return &Scheduler{
		raytracer: rt,
		workers:   workers,
	}
}

// Workers returns the scheduler's workers
func (s *Scheduler) Workers() []*Worker {
	return s.workers
}

// Ranges returns the scanline range of each worker
func (s *Scheduler) Ranges() []ScanlineRange {
	ranges := make([]ScanlineRange, len(s.workers))
	for i, w := range s.workers {
		ranges[i] = w.Range
	}
	return ranges
}

// Run renders every scanline into fb and returns the time between the start
// release and the last join. A panicking worker fails the whole render.
func (s *Scheduler) Run(fb *FrameBuffer) (time.Duration, error) {
	if len(s.workers) == 0 {
		return 0, fmt.Errorf("%w: no scanlines to render", ErrInvalidDimensions)
	}

	barrier := newStartBarrier(len(s.workers))
	var wg sync.WaitGroup

	for _, w := range s.workers {
		wg.Add(1)
		go w.run(&wg, barrier, s.raytracer, fb)
	}

	// Every worker exists and is parked before any of them starts
	barrier.awaitArrivals()
	start := time.Now()
	barrier.release()

	wg.Wait()
	elapsed := time.Since(start)

	var errs []error
	for _, w := range s.workers {
		if w.err != nil {
			errs = append(errs, w.err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return 0, err
	}

	s.raytracer.logger.Debug().
		Int("workers", len(s.workers)).
		Dur("elapsed", elapsed).
		Msg("parallel render finished")

	return elapsed, nil
}

// run is the worker body
func (w *Worker) run(wg *sync.WaitGroup, barrier *startBarrier, rt *Raytracer, fb *FrameBuffer) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			w.err = fmt.Errorf("%w: worker %d: %v", ErrWorkerPanic, w.ID, r)
		}
		w.State = WorkerJoined
	}()

	w.State = WorkerWaiting
	barrier.wait()

	w.State = WorkerRendering
	start := time.Now()
	for row := w.Range.Start; row < w.Range.End(); row++ {
		rt.RenderScanline(row, fb)
	}
	w.Elapsed = time.Since(start)
}

// startBarrier is a one-shot start signal for a known number of
// participants. Participants block in wait until release is called;
// awaitArrivals returns once all of them are blocked.
type startBarrier struct {
	arrived sync.WaitGroup
	start   chan struct{}
	once    sync.Once
}

func newStartBarrier(participants int) *startBarrier {
	b := &startBarrier{start: make(chan struct{})}
	b.arrived.Add(participants)
	return b
}

func (b *startBarrier) wait() {
	b.arrived.Done()
	<-b.start
}

func (b *startBarrier) awaitArrivals() {
	b.arrived.Wait()
}

func (b *startBarrier) release() {
	b.once.Do(func() { close(b.start) })
}
