package stdx

// Must0 panics if the provided error is not nil.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns v when err is nil, and panics otherwise. It exists to keep
// package-level declarations that cannot fail at runtime free of error
// plumbing.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Must2 is Must1 for functions returning two values and an error.
func Must2[T any, V any](t T, v V, err error) (T, V) {
	if err != nil {
		panic(err)
	}
	return t, v
}
