package stream

import (
	"context"
	"fmt"
)

// Deferred is an in-flight value. It is started by Go and may be handed to
// another unit that awaits it later.
type Deferred[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go starts fn immediately and returns without waiting for it.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Deferred[T] {
	d := &Deferred[T]{done: make(chan struct{})}
	go func() {
		defer close(d.done)
		defer func() {
			if r := recover(); r != nil {
				d.err = fmt.Errorf("deferred value panicked: %v", r)
			}
		}()
		d.value, d.err = fn(ctx)
	}()
	return d
}

func Resolved[T any](v T) *Deferred[T] {
	d := &Deferred[T]{done: make(chan struct{}), value: v}
	close(d.done)
	return d
}

func Rejected[T any](err error) *Deferred[T] {
	d := &Deferred[T]{done: make(chan struct{}), err: err}
	close(d.done)
	return d
}

func (d *Deferred[T]) Done() <-chan struct{} {
	return d.done
}

// Await blocks until the value settles or ctx ends.
func (d *Deferred[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Settled reports whether the value is available without blocking.
func (d *Deferred[T]) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}
