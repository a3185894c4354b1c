package models

// Field is one slot of a partial update. A zero Field leaves the column
// alone; Set changes it to Value; Null clears an optional column.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Value returns a Field that sets v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that clears the column.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}
