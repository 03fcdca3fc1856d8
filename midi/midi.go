// Package midi provides a time-tagged event buffer exchanged between
// processing nodes within a single block.
package midi

import "sort"

// Event is a single midi event tagged with its sample position
// within the block.
type Event struct {
	Offset int  // sample position within the block
	Status byte // status byte, e.g. 0x90 for note on
	Data1  byte // first data byte, e.g. note number
	Data2  byte // second data byte, e.g. velocity
}

// Buffer holds events of a single block ordered by offset.
type Buffer struct {
	events []Event
}

// Append adds an event to the buffer. Events appended with
// non-decreasing offsets keep their order, otherwise the buffer is
// re-sorted on the next merge or iteration.
func (b *Buffer) Append(e Event) {
	b.events = append(b.events, e)
}

// Clear removes all events. Underlying storage is retained, so a
// buffer cleared once per block does not allocate in steady state.
func (b *Buffer) Clear() {
	b.events = b.events[:0]
}

// Len returns number of events in the buffer.
func (b *Buffer) Len() int {
	return len(b.events)
}

// Events returns the events ordered by offset. The returned slice is
// owned by the buffer and valid until the next mutation.
func (b *Buffer) Events() []Event {
	b.sort()
	return b.events
}

// Merge appends all events of the source buffer, keeping the result
// ordered by offset. Events with equal offsets preserve the order of
// merging.
func (b *Buffer) Merge(source *Buffer) {
	if source == nil || len(source.events) == 0 {
		return
	}
	b.events = append(b.events, source.events...)
	b.sort()
}

func (b *Buffer) sort() {
	sort.SliceStable(b.events, func(i, j int) bool {
		return b.events[i].Offset < b.events[j].Offset
	})
}
