package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Tensor is a dense row-major float64 tensor of rank ≥ 1.
// Axis 0 is the example (batch) axis; the remaining axes describe one
// example's features. The backing buffer holds prod(shape) elements.
type Tensor struct {
	shape []int     // dimensions, len ≥ 1, all > 0
	data  []float64 // flat backing storage, length == prod(shape)
}

// size returns the element count implied by shape, or -1 if any dimension
// is non-positive.
func size(shape []int) int {
	if len(shape) == 0 {
		return -1
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return -1
		}
		n *= d
	}
	return n
}

// New creates a zero-initialized tensor of the given shape.
// Complexity: O(prod(shape)).
func New(shape ...int) (*Tensor, error) {
	n := size(shape)
	if n < 0 {
		return nil, fmt.Errorf("New%v: %w", shape, ErrBadShape)
	}
	return &Tensor{shape: append([]int(nil), shape...), data: make([]float64, n)}, nil
}

// FromSlice creates a tensor of the given shape, copying data as its
// row-major contents. len(data) must equal prod(shape).
func FromSlice(data []float64, shape ...int) (*Tensor, error) {
	n := size(shape)
	if n < 0 || n != len(data) {
		return nil, fmt.Errorf("FromSlice(len=%d)%v: %w", len(data), shape, ErrBadShape)
	}
	return &Tensor{shape: append([]int(nil), shape...), data: append([]float64(nil), data...)}, nil
}

// Full creates a tensor of the given shape with every element set to v.
func Full(v float64, shape ...int) (*Tensor, error) {
	t, err := New(shape...)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = v
	}
	return t, nil
}

// Clone returns a deep copy. Complexity: O(len(data)).
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		shape: append([]int(nil), t.shape...),
		data:  append([]float64(nil), t.data...),
	}
}

// Shape returns a copy of the dimensions.
func (t *Tensor) Shape() []int { return append([]int(nil), t.shape...) }

// Rank returns the number of axes.
func (t *Tensor) Rank() int { return len(t.shape) }

// Len returns the total element count.
func (t *Tensor) Len() int { return len(t.data) }

// Batch returns the size of the example axis (axis 0).
func (t *Tensor) Batch() int { return t.shape[0] }

// RowLen returns the number of elements in one example
// (the product of all non-example axes; 1 for a rank-1 tensor).
func (t *Tensor) RowLen() int { return len(t.data) / t.shape[0] }

// Data returns the backing slice without copying. Mutations are visible to
// the tensor; hot loops in the aggregation core rely on this.
func (t *Tensor) Data() []float64 { return t.data }

// Row returns the backing slice of example r without copying.
func (t *Tensor) Row(r int) ([]float64, error) {
	if r < 0 || r >= t.shape[0] {
		return nil, fmt.Errorf("Row(%d): %w", r, ErrOutOfRange)
	}
	w := t.RowLen()
	return t.data[r*w : (r+1)*w], nil
}

// offset computes the flat index for a full multi-index, or ErrOutOfRange.
func (t *Tensor) offset(idx []int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, fmt.Errorf("index rank %d vs tensor rank %d: %w", len(idx), len(t.shape), ErrOutOfRange)
	}
	off := 0
	for a, i := range idx {
		if i < 0 || i >= t.shape[a] {
			return 0, fmt.Errorf("index %d on axis %d (size %d): %w", i, a, t.shape[a], ErrOutOfRange)
		}
		off = off*t.shape[a] + i
	}
	return off, nil
}

// At retrieves the element at the given multi-index.
func (t *Tensor) At(idx ...int) (float64, error) {
	off, err := t.offset(idx)
	if err != nil {
		return 0, err
	}
	return t.data[off], nil
}

// Set assigns v at the given multi-index.
func (t *Tensor) Set(v float64, idx ...int) error {
	off, err := t.offset(idx)
	if err != nil {
		return err
	}
	t.data[off] = v
	return nil
}

// SameShape reports whether o has exactly the same shape as t.
func (t *Tensor) SameShape(o *Tensor) bool {
	if len(t.shape) != len(o.shape) {
		return false
	}
	for i, d := range t.shape {
		if o.shape[i] != d {
			return false
		}
	}
	return true
}

// SameShapeFromAxis1 reports whether o matches t on every axis except the
// example axis. This is the broadcastability rule between inputs and
// baselines: batch sizes may differ, feature shapes may not.
func (t *Tensor) SameShapeFromAxis1(o *Tensor) bool {
	if len(t.shape) != len(o.shape) {
		return false
	}
	for i := 1; i < len(t.shape); i++ {
		if o.shape[i] != t.shape[i] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer for debugging.
func (t *Tensor) String() string {
	var b strings.Builder
	b.WriteString("tensor")
	b.WriteByte('(')
	for i, d := range t.shape {
		if i > 0 {
			b.WriteByte('x')
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteByte(')')
	return b.String()
}
