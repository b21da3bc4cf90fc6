package remap

import (
	"context"
	"fmt"
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/notargets/DGRemap/parallel"
)

// Reduce sums field element-wise onto rank 0. Only rank 0 keeps the result;
// keep is false on every other rank. A single rank keeps its field as is.
func Reduce(ctx context.Context, comm parallel.Communicator, field []float64) (keep bool, err error) {
	if comm == nil || comm.Size() <= 1 {
		return true, nil
	}
	if err = comm.Reduce(ctx, field, parallel.Sum, 0); err != nil {
		return false, fmt.Errorf("reducing %d remapped values on rank %d: %w", len(field), comm.Rank(), err)
	}
	return comm.Rank() == 0, nil
}

// unionExtents returns the union of box over all ranks in one collective,
// reducing the minima and the negated maxima together
func unionExtents(ctx context.Context, comm parallel.Communicator, box vec3d.Box) (vec3d.Box, error) {
	if comm == nil || comm.Size() <= 1 {
		return box, nil
	}
	buf := []float64{
		box.Min[0], box.Min[1], box.Min[2],
		-box.Max[0], -box.Max[1], -box.Max[2],
	}
	if err := comm.AllReduce(ctx, buf, parallel.Min); err != nil {
		return vec3d.Box{}, fmt.Errorf("reducing extents on rank %d: %w", comm.Rank(), err)
	}
	return vec3d.Box{
		Min: vec3d.T{buf[0], buf[1], buf[2]},
		Max: vec3d.T{-buf[3], -buf[4], -buf[5]},
	}, nil
}

// names are compared on this many leading bytes
const maxNameBytes = 255

// agreeVariable settles the variable of a remap across ranks in one
// collective. Ranks without a name take the one the others hold; ranks
// holding different names are an error on every rank. The result is empty
// only when no rank has a name.
func agreeVariable(ctx context.Context, comm parallel.Communicator, name string) (string, error) {
	if comm == nil || comm.Size() <= 1 {
		return name, nil
	}
	// [length, bytes...] followed by its negation, so one Min gives both
	// the smallest and the largest encoding
	const n = maxNameBytes + 1
	buf := make([]float64, 2*n)
	if name == "" {
		for i := range buf {
			buf[i] = math.Inf(1)
		}
	} else {
		buf[0] = float64(len(name))
		for i := 0; i < len(name) && i < maxNameBytes; i++ {
			buf[1+i] = float64(name[i])
		}
		for i := 0; i < n; i++ {
			buf[n+i] = -buf[i]
		}
	}
	if err := comm.AllReduce(ctx, buf, parallel.Min); err != nil {
		return "", fmt.Errorf("agreeing on the variable on rank %d: %w", comm.Rank(), err)
	}
	if math.IsInf(buf[0], 1) {
		return "", nil
	}
	for i := 0; i < n; i++ {
		if buf[i] != -buf[n+i] {
			return "", fmt.Errorf("ranks hold different active variables (rank %d has %q)", comm.Rank(), name)
		}
	}
	if name != "" {
		return name, nil
	}
	l := int(buf[0])
	if l > maxNameBytes {
		l = maxNameBytes
	}
	b := make([]byte, l)
	for i := range b {
		b[i] = byte(buf[1+i])
	}
	return string(b), nil
}
