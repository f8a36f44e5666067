package hmd

import (
	"errors"
	"reflect"
	"sync"
)

// errRuntimeNotComparable is returned for Runtime values that cannot key the reference count,
// such as a struct value holding a slice.
var errRuntimeNotComparable = errors.New("runtime value is not comparable; pass a pointer")

// runtimes counts sessions per Runtime so the SDK is started by the first session and stopped by the last.
var runtimes = struct {
	mu   sync.Mutex
	refs map[Runtime]int
}{refs: make(map[Runtime]int)}

// acquireRuntime takes a reference on rt, calling Init if this is the first one.
// A failed Init leaves no reference behind.
func acquireRuntime(rt Runtime) error {
	if !reflect.ValueOf(rt).Comparable() {
		return errRuntimeNotComparable
	}

	runtimes.mu.Lock()
	defer runtimes.mu.Unlock()

	if runtimes.refs[rt] == 0 {
		if err := rt.Init(); err != nil {
			return err
		}
	}
	runtimes.refs[rt]++
	return nil
}

// releaseRuntime drops a reference on rt, calling Shutdown when the last one goes away.
func releaseRuntime(rt Runtime) {
	runtimes.mu.Lock()
	defer runtimes.mu.Unlock()

	n := runtimes.refs[rt]
	if n == 0 {
		return
	}
	if n == 1 {
		delete(runtimes.refs, rt)
		rt.Shutdown()
		return
	}
	runtimes.refs[rt] = n - 1
}

// runtimeRefs reports how many open sessions hold rt.
func runtimeRefs(rt Runtime) int {
	if !reflect.ValueOf(rt).Comparable() {
		return 0
	}
	runtimes.mu.Lock()
	defer runtimes.mu.Unlock()
	return runtimes.refs[rt]
}
