// Package annotate walks a tree, resolves every located leaf and merges the
// resolver output back into the tree in place.
package annotate

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"menu-scraper/tree"

	kinds "gopkg.in/src-d/go-errors.v1"
	"golang.org/x/sync/semaphore"
)

// ErrResolverPanic wraps a panic raised inside a Resolver.
var ErrResolverPanic = kinds.NewKind("resolver panicked on %q: %v")

// Result is what a Resolver produced for one located node.
type Result struct {
	// Value is stored under the annotator key. Nil writes nothing.
	Value tree.Node
	// Rewrite replaces the locator field with Locator (nil writes null).
	Rewrite bool
	Locator tree.Node
}

// Empty reports whether applying r would leave the node untouched.
func (r Result) Empty() bool {
	return r.Value == nil && !r.Rewrite
}

// Resolver maps a located value to supplemental data. An error means the
// resolution failed; a zero Result means there is legitimately nothing to add.
type Resolver interface {
	Resolve(ctx context.Context, value string) (Result, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, value string) (Result, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, value string) (Result, error) {
	return f(ctx, value)
}

// Mode selects how resolver calls are scheduled.
type Mode int

const (
	// Sequential resolves one node at a time in depth-first order.
	Sequential Mode = iota
	// Concurrent walks the children of every mapping and sequence in
	// parallel; a parent completes only after all of its children.
	Concurrent
)

func (m Mode) String() string {
	if m == Concurrent {
		return "concurrent"
	}
	return "sequential"
}

// Options tune scheduling.
type Options struct {
	Mode Mode
	// MaxInFlight bounds concurrent resolver calls. Zero means unbounded.
	MaxInFlight int64
	// Timeout bounds every single resolver call. Zero disables it.
	Timeout time.Duration
}

// Annotator merges resolver output into located nodes.
type Annotator struct {
	Locator  Locator
	Resolver Resolver
	// Key is the reserved mapping key annotations are stored under.
	Key string
	Options
}

// New returns a sequential annotator.
func New(loc Locator, res Resolver, key string) *Annotator {
	return &Annotator{Locator: loc, Resolver: res, Key: key}
}

// Annotate walks n, mutating mappings and sequences in place, and returns the
// annotated tree. Located bare scalars are replaced, so callers must use the
// returned node. Resolver failures are logged and skipped. A malformed node
// aborts the walk with tree.ErrMalformedNode. If ctx is cancelled no further
// resolver calls are started and ctx.Err() is returned with the partial tree.
func (a *Annotator) Annotate(ctx context.Context, n tree.Node) (tree.Node, error) {
	w := &walker{a: a}
	if a.Mode == Concurrent && a.MaxInFlight > 0 {
		w.sem = semaphore.NewWeighted(a.MaxInFlight)
	}

	out, err := w.visit(ctx, n, "$")
	if err != nil {
		return out, err
	}
	return out, ctx.Err()
}

type walker struct {
	a   *Annotator
	sem *semaphore.Weighted
}

func (w *walker) visit(ctx context.Context, n tree.Node, path string) (tree.Node, error) {
	if value, ok := w.a.Locator.Locate(n); ok {
		return w.apply(ctx, n, value, path), nil
	}

	switch n := n.(type) {
	case nil, tree.String, tree.Number, tree.Bool:
		return n, nil
	case tree.Mapping:
		return n, w.visitMapping(ctx, n, path)
	case tree.Sequence:
		return n, w.visitSequence(ctx, n, path)
	}
	return n, tree.ErrMalformedNode.New(n, path)
}

func (w *walker) visitMapping(ctx context.Context, m tree.Mapping, path string) error {
	keys := m.Keys()
	if w.a.Mode != Concurrent {
		for _, k := range keys {
			child, err := w.visit(ctx, m[k], path+"."+k)
			if err != nil {
				return err
			}
			m[k] = child
		}
		return nil
	}

	children := make([]tree.Node, len(keys))
	errs := make([]error, len(keys))
	var wg sync.WaitGroup
	for i, k := range keys {
		wg.Add(1)
		go func(i int, k string, child tree.Node) {
			defer wg.Done()
			children[i], errs[i] = w.visit(ctx, child, path+"."+k)
		}(i, k, m[k])
	}
	wg.Wait()

	for i, k := range keys {
		m[k] = children[i]
	}
	return firstError(errs)
}

func (w *walker) visitSequence(ctx context.Context, s tree.Sequence, path string) error {
	if w.a.Mode != Concurrent {
		for i := range s {
			child, err := w.visit(ctx, s[i], path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return err
			}
			s[i] = child
		}
		return nil
	}

	errs := make([]error, len(s))
	var wg sync.WaitGroup
	for i := range s {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s[i], errs[i] = w.visit(ctx, s[i], path+"["+strconv.Itoa(i)+"]")
		}(i)
	}
	wg.Wait()
	return firstError(errs)
}

// apply resolves value and merges the result into n. Mappings are mutated in
// place; a located scalar is promoted to a new mapping.
func (w *walker) apply(ctx context.Context, n tree.Node, value, path string) tree.Node {
	if ctx.Err() != nil {
		return n
	}

	res, err := w.resolve(ctx, value)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("Warning: failed to resolve %s at %s: %v\n", value, path, err)
		}
		return n
	}
	if res.Empty() {
		return n
	}

	field := w.a.Locator.Field()
	m, ok := n.(tree.Mapping)
	if !ok {
		m = tree.Mapping{field: n}
	}
	if res.Rewrite {
		m[field] = res.Locator
	}
	if res.Value != nil {
		m[w.a.Key] = res.Value
	}
	return m
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

type outcome struct {
	res Result
	err error
}

// resolve runs one resolver call under the semaphore and the per-call
// timeout. A call that outlives its timeout is abandoned. When the parent
// context is cancelled the call is waited for, bounded by its timeout, so a
// result it still returns is kept.
func (w *walker) resolve(parent context.Context, value string) (Result, error) {
	if w.sem != nil {
		if err := w.sem.Acquire(parent, 1); err != nil {
			return Result{}, err
		}
		defer w.sem.Release(1)
	}

	ctx := parent
	if w.a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, w.a.Timeout)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: ErrResolverPanic.New(value, r)}
			}
		}()
		res, err := w.a.Resolver.Resolve(ctx, value)
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
	}

	if parent.Err() == nil {
		return Result{}, ctx.Err()
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		o := <-done
		return o.res, o.err
	}

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case o := <-done:
		return o.res, o.err
	case <-timer.C:
		return Result{}, parent.Err()
	}
}
