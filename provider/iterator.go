package provider

import "context"

// Iterator provides pull-based sequential access to a finite stream of values.
// Close must be called when done to release resources.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// ForEach calls fn for every value until the iterator is exhausted, fn
// returns an error, or Next fails. It does not close the iterator.
func ForEach[T any](ctx context.Context, it Iterator[T], fn func(T) error) error {
	for {
		v, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

// FromSlice returns an iterator over values.
func FromSlice[T any](values []T) Iterator[T] {
	return &sliceIterator[T]{values: values}
}

type sliceIterator[T any] struct {
	values []T
	pos    int
}

func (s *sliceIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if s.pos >= len(s.values) {
		return zero, false, nil
	}
	v := s.values[s.pos]
	s.pos++
	return v, true, nil
}

func (s *sliceIterator[T]) Close() error { return nil }
