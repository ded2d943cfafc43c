package seqkmer

// OptionPair holds one value for single-end input or two values for a read pair.
type OptionPair[T any] struct {
	First  T
	Second T
	Paired bool
}

// Single wraps a single-end value.
func Single[T any](v T) OptionPair[T] {
	return OptionPair[T]{First: v}
}

// Pair wraps both mates.
func Pair[T any](first, second T) OptionPair[T] {
	return OptionPair[T]{First: first, Second: second, Paired: true}
}

// Slice returns the held values in mate order.
func (p OptionPair[T]) Slice() []T {
	if p.Paired {
		return []T{p.First, p.Second}
	}
	return []T{p.First}
}

// MapPair applies fn to every held value.
func MapPair[T, U any](p OptionPair[T], fn func(T) U) OptionPair[U] {
	if p.Paired {
		return Pair(fn(p.First), fn(p.Second))
	}
	return Single(fn(p.First))
}

// ReducePair folds the held values in mate order.
func ReducePair[T, A any](p OptionPair[T], init A, fn func(A, T) A) A {
	acc := fn(init, p.First)
	if p.Paired {
		acc = fn(acc, p.Second)
	}
	return acc
}
