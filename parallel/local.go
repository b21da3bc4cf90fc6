package parallel

import (
	"context"
	"fmt"
	"sync"
)

type msgKind uint8

const (
	contribution msgKind = iota
	result
)

type message struct {
	seq  uint64
	from int
	kind msgKind
	data []float64
	err  error
}

type msgKey struct {
	seq  uint64
	from int
	kind msgKind
}

type group struct {
	inbox     []chan message
	done      chan struct{}
	closeOnce sync.Once
}

// Local is one rank of a group of goroutines in the same process. Each
// Local must be used by a single goroutine.
type Local struct {
	g       *group
	rank    int
	seq     uint64
	pending map[msgKey]message
}

// LocalGroup creates n connected ranks
func LocalGroup(n int) ([]*Local, error) {
	if n < 1 {
		return nil, fmt.Errorf("group size must be positive, got %d", n)
	}
	g := &group{
		inbox: make([]chan message, n),
		done:  make(chan struct{}),
	}
	ranks := make([]*Local, n)
	for r := range ranks {
		g.inbox[r] = make(chan message, 2*n)
		ranks[r] = &Local{g: g, rank: r, pending: make(map[msgKey]message)}
	}
	return ranks, nil
}

func (l *Local) Rank() int { return l.rank }
func (l *Local) Size() int { return len(l.g.inbox) }

// Close releases every rank of the group blocked in a collective
func (l *Local) Close() {
	l.g.closeOnce.Do(func() { close(l.g.done) })
}

func (l *Local) AllReduce(ctx context.Context, buf []float64, op Op) error {
	l.seq++
	if l.rank != 0 {
		if err := l.send(ctx, 0, contribution, buf, nil); err != nil {
			return err
		}
		m, err := l.receive(ctx, msgKey{seq: l.seq, from: 0, kind: result})
		if err != nil {
			return err
		}
		if m.err != nil {
			return m.err
		}
		copy(buf, m.data)
		return nil
	}

	err := l.gather(ctx, buf, op)
	for r := 1; r < l.Size(); r++ {
		if serr := l.send(ctx, r, result, buf, err); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

func (l *Local) Reduce(ctx context.Context, buf []float64, op Op, root int) error {
	if root < 0 || root >= l.Size() {
		return fmt.Errorf("root %d out of range for %d ranks", root, l.Size())
	}
	l.seq++
	if l.rank != root {
		return l.send(ctx, root, contribution, buf, nil)
	}
	return l.gather(ctx, buf, op)
}

// gather combines the contributions of all other ranks into buf in rank
// order
func (l *Local) gather(ctx context.Context, buf []float64, op Op) error {
	parts := make([][]float64, l.Size())
	for r := range parts {
		if r == l.rank {
			continue
		}
		m, err := l.receive(ctx, msgKey{seq: l.seq, from: r, kind: contribution})
		if err != nil {
			return err
		}
		parts[r] = m.data
	}
	acc := append([]float64(nil), buf...)
	if l.rank != 0 {
		acc = append([]float64(nil), parts[0]...)
	}
	for r := range parts {
		if r == 0 {
			continue
		}
		src := parts[r]
		if r == l.rank {
			src = buf
		}
		if len(src) != len(acc) {
			return fmt.Errorf("%w: rank %d sent %d values, want %d", ErrSizeMismatch, r, len(src), len(acc))
		}
		if err := op.Combine(acc, src); err != nil {
			return err
		}
	}
	copy(buf, acc)
	return nil
}

func (l *Local) send(ctx context.Context, to int, kind msgKind, buf []float64, err error) error {
	m := message{
		seq:  l.seq,
		from: l.rank,
		kind: kind,
		data: append([]float64(nil), buf...),
		err:  err,
	}
	select {
	case l.g.inbox[to] <- m:
		return nil
	case <-l.g.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Local) receive(ctx context.Context, key msgKey) (message, error) {
	if m, ok := l.pending[key]; ok {
		delete(l.pending, key)
		return m, nil
	}
	for {
		select {
		case m := <-l.g.inbox[l.rank]:
			k := msgKey{seq: m.seq, from: m.from, kind: m.kind}
			if k == key {
				return m, nil
			}
			l.pending[k] = m
		case <-l.g.done:
			return message{}, ErrClosed
		case <-ctx.Done():
			return message{}, ctx.Err()
		}
	}
}
