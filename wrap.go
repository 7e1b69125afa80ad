package callthrottle

import "context"

// Waiter admits a synchronous call. *Throttle implements it.
type Waiter interface {
	Wait() error
}

// ContextWaiter admits a cancellable call. *AsyncThrottle implements it.
type ContextWaiter interface {
	Wait(ctx context.Context) error
}

// Result carries the outcome of a call started with Go.
type Result[T any] struct {
	Value T
	Err   error
}

// Do admits one call through w and then runs fn. fn is not called when the
// admission fails; its result and error are returned unchanged otherwise.
func Do[T any](w Waiter, fn func() (T, error)) (T, error) {
	if err := w.Wait(); err != nil {
		var zero T
		return zero, err
	}

	return fn()
}

// Wrap returns fn guarded by w.
func Wrap[T any](w Waiter, fn func() (T, error)) func() (T, error) {
	return func() (T, error) {
		return Do(w, fn)
	}
}

// WrapFunc returns a one-argument fn guarded by w.
func WrapFunc[A, T any](w Waiter, fn func(A) (T, error)) func(A) (T, error) {
	return func(arg A) (T, error) {
		if err := w.Wait(); err != nil {
			var zero T
			return zero, err
		}

		return fn(arg)
	}
}

// DoContext admits one call through w and then runs fn with ctx.
func DoContext[T any](ctx context.Context, w ContextWaiter, fn func(context.Context) (T, error)) (T, error) {
	if err := w.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}

	return fn(ctx)
}

// WrapContext returns a one-argument, context-aware fn guarded by w.
func WrapContext[A, T any](w ContextWaiter, fn func(context.Context, A) (T, error)) func(context.Context, A) (T, error) {
	return func(ctx context.Context, arg A) (T, error) {
		if err := w.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}

		return fn(ctx, arg)
	}
}

// Go runs DoContext in a new goroutine. Exactly one Result is delivered
// before the channel is closed.
func Go[T any](ctx context.Context, w ContextWaiter, fn func(context.Context) (T, error)) <-chan Result[T] {
	resc := make(chan Result[T], 1)

	go func() {
		defer close(resc)
		v, err := DoContext(ctx, w, fn)
		resc <- Result[T]{Value: v, Err: err}
	}()

	return resc
}
