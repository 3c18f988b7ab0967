package domain

// Optional carries a patch field that may be absent, explicitly null, or set to
// a value. The zero value is absent.
type Optional[T any] struct {
	set   bool
	null  bool
	value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: v}
}

// Null returns an Optional that was supplied as JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// IsSet reports whether the field was supplied at all, null included.
func (o Optional[T]) IsSet() bool { return o.set }

// IsNull reports whether the field was supplied as null.
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Get returns the value and true when the field was supplied with a non-null value.
func (o Optional[T]) Get() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Ref converts a supplied value to a pointer and null to nil. Callers check IsSet first.
func (o Optional[T]) Ref() *T {
	if v, ok := o.Get(); ok {
		return &v
	}
	return nil
}
