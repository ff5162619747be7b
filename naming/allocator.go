// Package naming issues synthetic identifiers that cannot collide with names
// already present in a module.
package naming

import "strconv"

// Allocator hands out deterministic, collision-free names. It is not safe for
// concurrent use; each transpilation owns its own allocator.
type Allocator struct {
	reserved map[string]struct{}
	counters map[string]int
}

// New creates an allocator that never returns any of the reserved names
func New(reserved ...string) *Allocator {
	a := &Allocator{
		reserved: make(map[string]struct{}, len(reserved)),
		counters: make(map[string]int),
	}
	a.Reserve(reserved...)

	return a
}

// Reserve marks names as taken
func (a *Allocator) Reserve(names ...string) {
	for _, name := range names {
		a.reserved[name] = struct{}{}
	}
}

// IsTaken reports whether name was reserved or already issued
func (a *Allocator) IsTaken(name string) bool {
	_, ok := a.reserved[name]
	return ok
}

// Next returns the next numbered name for prefix: __prefix1__, __prefix2__, ...
func (a *Allocator) Next(prefix string) string {
	for {
		a.counters[prefix]++

		name := "__" + prefix + strconv.Itoa(a.counters[prefix]) + "__"
		if !a.IsTaken(name) {
			a.reserved[name] = struct{}{}
			return name
		}
	}
}

// Name returns __prefix__ when it is free, otherwise the next numbered name
func (a *Allocator) Name(prefix string) string {
	name := "__" + prefix + "__"
	if a.IsTaken(name) {
		return a.Next(prefix)
	}

	a.reserved[name] = struct{}{}

	return name
}

// Fork returns an independent allocator with the same reserved names and
// fresh counters. Names issued by either side afterwards are not shared.
func (a *Allocator) Fork() *Allocator {
	fork := &Allocator{
		reserved: make(map[string]struct{}, len(a.reserved)),
		counters: make(map[string]int),
	}

	for name := range a.reserved {
		fork.reserved[name] = struct{}{}
	}

	return fork
}
