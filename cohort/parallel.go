package cohort

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/souls/soul"
)

// parallelThreshold is the minimum soul count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk represents a range of souls for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for the parallel advance pass.
type parallelState struct {
	souls      []*soul.Soul
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		souls:      make([]*soul.Soul, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.advanceChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// advanceChunk advances souls [i0, i1). Souls share no state, so chunks
// never touch the same memory.
func (p *parallelState) advanceChunk(i0, i1 int) {
	for _, s := range p.souls[i0:i1] {
		s.Advance()
	}
}

// advanceAll advances every collected soul, in parallel when worthwhile.
func (p *parallelState) advanceAll(useParallel bool) {
	n := len(p.souls)
	if n == 0 {
		return
	}
	if !useParallel || n < parallelThreshold || p.numWorkers < 2 {
		p.advanceChunk(0, n)
		return
	}

	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}
