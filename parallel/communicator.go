package parallel

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrSizeMismatch is returned when ranks contribute buffers of
	// different lengths to one collective
	ErrSizeMismatch = errors.New("buffer length differs between ranks")

	// ErrClosed is returned by collectives on a closed group
	ErrClosed = errors.New("communicator closed")
)

// Op is the element-wise combine of a reduction
type Op uint8

const (
	Sum Op = iota
	Min
	Max
)

func (op Op) String() string {
	switch op {
	case Sum:
		return "Sum"
	case Min:
		return "Min"
	case Max:
		return "Max"
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Combine folds src into dst element by element
func (op Op) Combine(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: %d != %d", ErrSizeMismatch, len(dst), len(src))
	}
	switch op {
	case Sum:
		floats.Add(dst, src)
	case Min:
		for i, v := range src {
			dst[i] = math.Min(dst[i], v)
		}
	case Max:
		for i, v := range src {
			dst[i] = math.Max(dst[i], v)
		}
	default:
		return fmt.Errorf("unknown reduction %s", op)
	}
	return nil
}

// Communicator joins the ranks cooperating on one remap. Collectives must
// be called by every rank in the same order.
type Communicator interface {
	Rank() int
	Size() int

	// AllReduce combines buf across ranks, leaving the result in buf on
	// every rank
	AllReduce(ctx context.Context, buf []float64, op Op) error

	// Reduce combines buf across ranks into buf on root. Buffers of the
	// other ranks are left unchanged.
	Reduce(ctx context.Context, buf []float64, op Op, root int) error
}

// Single is the communicator of a process working alone
type Single struct{}

func (Single) Rank() int { return 0 }
func (Single) Size() int { return 1 }

func (Single) AllReduce(ctx context.Context, buf []float64, op Op) error {
	return nil
}

func (Single) Reduce(ctx context.Context, buf []float64, op Op, root int) error {
	if root != 0 {
		return fmt.Errorf("root %d out of range for a single rank", root)
	}
	return nil
}
