package searchdir

import (
	"io/fs"
	"sync"
)

// traceFS wraps an fs.FS and records what a search does with it. Opens can
// be held back on a gate channel or failed outright, and stats can fail.
type traceFS struct {
	fsys fs.FS

	mu       sync.Mutex
	opens    map[string]int
	reads    map[string]int
	handles  map[string]int
	closes   map[string]int
	gates    map[string]<-chan struct{}
	failures map[string]error
	statErrs map[string]error
	inflight int
	peak     int
}

func newTraceFS(fsys fs.FS) *traceFS {
	return &traceFS{
		fsys:     fsys,
		opens:    make(map[string]int),
		reads:    make(map[string]int),
		handles:  make(map[string]int),
		closes:   make(map[string]int),
		gates:    make(map[string]<-chan struct{}),
		failures: make(map[string]error),
		statErrs: make(map[string]error),
	}
}

func (f *traceFS) gate(name string, ch <-chan struct{}) *traceFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[name] = ch
	return f
}

func (f *traceFS) fail(name string, err error) *traceFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[name] = err
	return f
}

func (f *traceFS) failStat(name string, err error) *traceFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statErrs[name] = err
	return f
}

func (f *traceFS) Stat(name string) (fs.FileInfo, error) {
	f.mu.Lock()
	failure := f.statErrs[name]
	f.mu.Unlock()

	if failure != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: failure}
	}
	return fs.Stat(f.fsys, name)
}

func (f *traceFS) Open(name string) (fs.File, error) {
	f.mu.Lock()
	gate, failure := f.gates[name], f.failures[name]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	f.opens[name]++
	f.mu.Unlock()

	if failure != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: failure}
	}

	file, err := f.fsys.Open(name)
	if err != nil {
		return nil, err
	}

	dir, ok := file.(fs.ReadDirFile)
	if !ok {
		return file, nil
	}

	f.mu.Lock()
	f.handles[name]++
	f.inflight++
	if f.inflight > f.peak {
		f.peak = f.inflight
	}
	f.mu.Unlock()

	return &traceDir{ReadDirFile: dir, owner: f, name: name}, nil
}

func (f *traceFS) openCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens[name]
}

func (f *traceFS) readCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[name]
}

func (f *traceFS) totalOpens() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, n := range f.opens {
		total += n
	}
	return total
}

// leaked returns the directories whose handles were not all closed
func (f *traceFS) leaked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var names []string
	for name, n := range f.handles {
		if n != f.closes[name] {
			names = append(names, name)
		}
	}
	return names
}

func (f *traceFS) peakInflight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

type traceDir struct {
	fs.ReadDirFile
	owner *traceFS
	name  string
}

func (d *traceDir) ReadDir(n int) ([]fs.DirEntry, error) {
	d.owner.mu.Lock()
	d.owner.reads[d.name]++
	d.owner.mu.Unlock()

	return d.ReadDirFile.ReadDir(n)
}

func (d *traceDir) Close() error {
	d.owner.mu.Lock()
	d.owner.closes[d.name]++
	d.owner.inflight--
	d.owner.mu.Unlock()

	return d.ReadDirFile.Close()
}
