package settle

import "context"

// All returns a Predicate that accepts a value only if every predicate does.
// Predicates run in order and evaluation stops at the first rejection or
// error, so list cheap local checks before remote lookups.
//
// Example:
//
//	v := settle.New(settle.All(
//	    settle.Tag[string]("required,alphanum,min=3"),
//	    reserved.Predicate(),
//	))
func All[T any](preds ...Predicate[T]) Predicate[T] {
	return func(ctx context.Context, value T) (bool, error) {
		for _, pred := range preds {
			ok, err := pred(ctx, value)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Any returns a Predicate that accepts a value if at least one predicate
// does. Predicates run in order and evaluation stops at the first acceptance
// or error. Any with no predicates rejects every value.
func Any[T any](preds ...Predicate[T]) Predicate[T] {
	return func(ctx context.Context, value T) (bool, error) {
		for _, pred := range preds {
			ok, err := pred(ctx, value)
			if err != nil || ok {
				return ok && err == nil, err
			}
		}
		return false, nil
	}
}

// Not inverts a Predicate. Errors pass through unchanged.
func Not[T any](pred Predicate[T]) Predicate[T] {
	return func(ctx context.Context, value T) (bool, error) {
		ok, err := pred(ctx, value)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}
