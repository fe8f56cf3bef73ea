package arena

import "fmt"

// Mem is an arena backed by a Go byte slice whose capacity is reserved when
// the arena is created.
type Mem struct {
	data   []byte
	limit  int
	closed bool
}

// NewMem returns an empty arena able to grow to limit bytes (DefaultLimit
// when limit <= 0).
func NewMem(limit int) *Mem {
	limit = limitOrDefault(limit)
	return &Mem{data: make([]byte, 0, limit), limit: limit}
}

// Grow implements Arena.
func (m *Mem) Grow(n int) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeGrow, n)
	}
	old := len(m.data)
	if n > m.limit-old {
		return 0, fmt.Errorf("%w: grow by %d at %d exceeds limit %d", ErrExhausted, n, old, m.limit)
	}
	m.data = m.data[:old+n]
	return old, nil
}

// Bytes implements Arena.
func (m *Mem) Bytes() []byte { return m.data }

// Len returns the current region size.
func (m *Mem) Len() int { return len(m.data) }

// Limit returns the maximum region size.
func (m *Mem) Limit() int { return m.limit }

// Close releases the backing slice. Further Grow calls fail with ErrClosed.
func (m *Mem) Close() error {
	m.data = nil
	m.closed = true
	return nil
}
