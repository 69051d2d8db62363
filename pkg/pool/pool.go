package pool

import (
	"io"
	"runtime"
	"sync"
)

// parallelizeAlone calculates the result of f count times
func parallelizeAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		results[i] = f(i)
	}
	return results
}

// command is used to trigger our latent workers to evaluate a function at one index.
type command struct {
	// This is the index we evaluate our function at
	i int
	f func(int) interface{}
	// This is the array where we put results
	results []interface{}
}

// worker starts up a new worker, listening to commands, and producing results.
//
// Every evaluation is followed by exactly one signal on done, which the
// dispatching Parallelize call always receives.
func worker(commands <-chan command, done chan<- struct{}) {
	for c := range commands {
		c.results[c.i] = c.f(c.i)
		done <- struct{}{}
	}
}

// Pool represents a pool of workers, used for parallelizing batches of
// independent OT instances.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current thread instead.
//
// By creating a pool, you avoid the overhead of spinning up goroutines for
// each new batch.
type Pool struct {
	// The common channel used to send commands to the workers.
	//
	// This effectively makes a work stealing pool.
	commands chan command
	// The channel used to signal a finished task
	done chan struct{}
	// This holds the number of workers we've created
	workerCount int
	// Parallelize is not reentrant: callers sharing a pool are serialized.
	mtx sync.Mutex
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	var p Pool

	if count <= 0 {
		count = runtime.NumCPU()
	}

	p.commands = make(chan command)
	p.workerCount = count
	p.done = make(chan struct{})

	for i := 0; i < count; i++ {
		go worker(p.commands, p.done)
	}

	return &p
}

// Workers returns the number of workers in the pool, or 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workerCount
}

// TearDown cleanly tears down a pool, closing channels, etc.
func (p *Pool) TearDown() {
	close(p.commands)
}

// Parallelize calls a function count times, passing in indices from 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)].
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil {
		return parallelizeAlone(f, count)
	}
	p.mtx.Lock()
	defer p.mtx.Unlock()

	results := make([]interface{}, count)

	// remaining counts the signals still owed by the workers.
	remaining := count
	cmdI := 0
	for cmdI < count {
		cmd := command{
			i:       cmdI,
			f:       f,
			results: results,
		}
		// We won't be able to send all the commands without blocking, so we make
		// sure to interleave picking off the results of workers to free them up
		// to receive our commands
		select {
		case p.commands <- cmd:
			cmdI++
		case <-p.done:
			remaining--
		}
	}
	for ; remaining > 0; remaining-- {
		<-p.done
	}

	return results
}

// Map evaluates f at every index in 0..count-1 on the pool, and collects the results.
//
// Every index is evaluated; the error returned is the one at the lowest failing index.
func Map[T any](p *Pool, count int, f func(int) (T, error)) ([]T, error) {
	type result struct {
		value T
		err   error
	}
	raw := p.Parallelize(count, func(i int) interface{} {
		v, err := f(i)
		return result{v, err}
	})
	out := make([]T, count)
	for i, r := range raw {
		res := r.(result)
		if res.err != nil {
			return nil, res.err
		}
		out[i] = res.value
	}
	return out, nil
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This type implements io.Reader, returning the same output.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	// Intentionally not initializing m, since the zero value is ok
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader
//
// The behavior is to return the same output as the underlying reader. The difference
// is that it's safe to call this function concurrently.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
