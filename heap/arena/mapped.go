package arena

import "fmt"

// Mapped is an arena backed by an anonymous private memory reservation of
// Limit bytes. On platforms without mmap the reservation is a plain Go slice.
type Mapped struct {
	mem    []byte // full reservation
	n      int    // bytes handed out
	unmap  func([]byte) error
	closed bool
}

// NewMapped reserves limit bytes (DefaultLimit when limit <= 0).
func NewMapped(limit int) (*Mapped, error) {
	limit = limitOrDefault(limit)
	mem, unmap, err := reserve(limit)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", limit, err)
	}
	return &Mapped{mem: mem, unmap: unmap}, nil
}

// Grow implements Arena.
func (m *Mapped) Grow(n int) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeGrow, n)
	}
	old := m.n
	if n > len(m.mem)-old {
		return 0, fmt.Errorf("%w: grow by %d at %d exceeds limit %d", ErrExhausted, n, old, len(m.mem))
	}
	m.n += n
	return old, nil
}

// Bytes implements Arena.
func (m *Mapped) Bytes() []byte {
	if m.closed {
		return nil
	}
	return m.mem[:m.n:m.n]
}

// Len returns the current region size.
func (m *Mapped) Len() int { return m.n }

// Limit returns the reservation size.
func (m *Mapped) Limit() int { return len(m.mem) }

// Close unmaps the reservation. Slices previously returned by Bytes must not
// be used afterwards.
func (m *Mapped) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	mem := m.mem
	m.mem, m.n = nil, 0
	if m.unmap == nil {
		return nil
	}
	if err := m.unmap(mem); err != nil {
		return fmt.Errorf("arena: unmap: %w", err)
	}
	return nil
}
