// Package history keeps a short, fixed-size record of recent scroll
// measurements so the scroller can tell when the page stopped growing.
package history

// Buffer is a fixed-capacity FIFO. Once full, every Enqueue evicts the
// oldest value.
type Buffer struct {
	values   []float64
	capacity int
}

// New creates a Buffer holding at most capacity values. A capacity below
// one is treated as one.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		values:   make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Enqueue appends v, evicting the oldest value first when the buffer is full.
func (b *Buffer) Enqueue(v float64) {
	if b.IsFull() {
		copy(b.values, b.values[1:])
		b.values = b.values[:len(b.values)-1]
	}
	b.values = append(b.values, v)
}

// Len returns the number of stored values.
func (b *Buffer) Len() int {
	return len(b.values)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.capacity
}

// IsFull reports whether the buffer holds capacity values.
func (b *Buffer) IsFull() bool {
	return len(b.values) == b.capacity
}

// AllEqual reports whether the buffer is full and every stored value equals
// the first. A buffer that has not filled yet never counts as stalled.
func (b *Buffer) AllEqual() bool {
	if !b.IsFull() {
		return false
	}
	for _, v := range b.values[1:] {
		if v != b.values[0] {
			return false
		}
	}
	return true
}

// Values returns a copy of the stored values, oldest first.
func (b *Buffer) Values() []float64 {
	out := make([]float64, len(b.values))
	copy(out, b.values)
	return out
}
