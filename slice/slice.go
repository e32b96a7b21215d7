// Maybe use package slices instead

package slice

func Map[T any, U any](input []T, pred func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = pred(v)
	}
	return result
}

// Reduce folds input from left to right, starting with initial.
func Reduce[T any, A any](input []T, initial A, fn func(A, T) A) A {
	acc := initial
	for _, v := range input {
		acc = fn(acc, v)
	}
	return acc
}

func Sum[T any](input []T, value func(T) float64) float64 {
	return Reduce(input, 0.0, func(acc float64, v T) float64 {
		return acc + value(v)
	})
}
