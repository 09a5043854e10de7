// Package stage implements the loop-stage event protocol: every repeated
// structure in a binary format is bracketed by LoopStart, one LoopNext per
// element, and LoopEnd.
//
// Stage identities are closed enums defined by each format package, so two
// formats can share this machinery without their stages ever comparing equal.
package stage

// UnknownCount is passed to LoopStart when the element count is not known
// in advance.
const UnknownCount = -1

// LoopHandler receives loop notifications for stages of type S.
// Returning an error from any method aborts the parse.
type LoopHandler[S comparable] interface {
	LoopStart(stage S, count int) error
	LoopNext(stage S) error
	LoopEnd(stage S) error
}

// Nop is a LoopHandler that ignores every notification.
type Nop[S comparable] struct{}

// LoopStart implements LoopHandler.
func (Nop[S]) LoopStart(S, int) error { return nil }

// LoopNext implements LoopHandler.
func (Nop[S]) LoopNext(S) error { return nil }

// LoopEnd implements LoopHandler.
func (Nop[S]) LoopEnd(S) error { return nil }

// Run fires LoopStart, then for each of count elements calls each followed by
// LoopNext, then LoopEnd. LoopEnd fires even when count is zero. The first
// error stops the loop and is returned unchanged.
func Run[S comparable](h LoopHandler[S], s S, count int, each func(i int) error) error {
	if err := h.LoopStart(s, count); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := each(i); err != nil {
			return err
		}
		if err := h.LoopNext(s); err != nil {
			return err
		}
	}
	return h.LoopEnd(s)
}

// Counter tracks the element index of every open stage. Handlers embed it to
// learn which element an event belongs to.
type Counter[S comparable] struct {
	index map[S]int
}

// Start resets the index of s to zero.
func (c *Counter[S]) Start(s S) {
	if c.index == nil {
		c.index = make(map[S]int)
	}
	c.index[s] = 0
}

// Next advances the index of s.
func (c *Counter[S]) Next(s S) {
	if c.index == nil {
		c.index = make(map[S]int)
	}
	c.index[s]++
}

// Index returns the current element index of s.
func (c *Counter[S]) Index(s S) int {
	return c.index[s]
}
