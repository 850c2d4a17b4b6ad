package port

import (
	"fmt"
	"iter"

	"github.com/aretw0/harbor/pkg/domain"
)

// Size of a single place in the drawing area.
const (
	PlaceWidth  = 210
	PlaceHeight = 120
)

// Port is an ordered, fixed-capacity sequence of items.
type Port[T any] struct {
	places   []T
	capacity int
	columns  int
}

// New creates an empty port sized for a width × height drawing area.
// Areas smaller than a single place yield a port with zero capacity.
func New[T any](width, height int) *Port[T] {
	cols := max(width/PlaceWidth, 0)
	rows := max(height/PlaceHeight, 0)
	return &Port[T]{
		places:   make([]T, 0, cols*rows),
		capacity: cols * rows,
		columns:  rows,
	}
}

// Capacity returns the maximum number of items the port can hold.
func (p *Port[T]) Capacity() int { return p.capacity }

// Columns returns how many places are stacked in each drawn column.
// Renderers place item i at column i/Columns() and row i%Columns().
func (p *Port[T]) Columns() int { return p.columns }

// Len returns the number of occupied places.
func (p *Port[T]) Len() int { return len(p.places) }

// Full reports whether Insert would overflow.
func (p *Port[T]) Full() bool { return len(p.places) >= p.capacity }

// Insert appends item to the first free place.
// It returns domain.ErrPortOverflow and leaves the port untouched when it is full.
func (p *Port[T]) Insert(item T) error {
	if p.Full() {
		return fmt.Errorf("%w: all %d places taken", domain.ErrPortOverflow, p.capacity)
	}
	p.places = append(p.places, item)
	return nil
}

// RemoveAt takes the item at index out of the port and shifts the rest left.
// Indices outside [0, Len()) return domain.ErrPlaceNotFound and leave the port untouched.
func (p *Port[T]) RemoveAt(index int) (T, error) {
	var zero T
	if index < 0 || index >= len(p.places) {
		return zero, fmt.Errorf("%w: index %d", domain.ErrPlaceNotFound, index)
	}
	item := p.places[index]
	copy(p.places[index:], p.places[index+1:])
	p.places[len(p.places)-1] = zero
	p.places = p.places[:len(p.places)-1]
	return item, nil
}

// GetAt returns the item at index. The boolean is false for any index
// outside [0, Len()), which lets callers enumerate until the first gap.
func (p *Port[T]) GetAt(index int) (T, bool) {
	if index < 0 || index >= len(p.places) {
		var zero T
		return zero, false
	}
	return p.places[index], true
}

// All yields every occupied place in order.
func (p *Port[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range p.places {
			if !yield(i, item) {
				return
			}
		}
	}
}
