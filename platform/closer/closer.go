package closer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type closeFn struct {
	name string
	fn   func(ctx context.Context) error
}

var (
	mu     sync.Mutex
	fns    []closeFn
	log    Logger
	closed bool
)

func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func Add(fn func(ctx context.Context) error) {
	AddNamed("", fn)
}

func AddNamed(name string, fn func(ctx context.Context) error) {
	mu.Lock()
	defer mu.Unlock()
	fns = append(fns, closeFn{name: name, fn: fn})
}

// CloseAll runs registered hooks in LIFO order. Hooks are run once; repeated
// calls are no-ops.
func CloseAll(ctx context.Context) error {
	mu.Lock()
	if closed {
		mu.Unlock()
		return nil
	}
	closed = true
	toClose := make([]closeFn, len(fns))
	copy(toClose, fns)
	l := log
	mu.Unlock()

	var errs []error
	for i := len(toClose) - 1; i >= 0; i-- {
		c := toClose[i]

		select {
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return errors.Join(errs...)
		default:
		}

		if err := c.fn(ctx); err != nil {
			if l != nil {
				l.Error(ctx, "closer: shutdown hook failed",
					zap.String("name", c.name),
					zap.Error(err),
				)
			}
			errs = append(errs, err)
			continue
		}

		if l != nil && c.name != "" {
			l.Info(ctx, "closer: closed", zap.String("name", c.name))
		}
	}

	return errors.Join(errs...)
}
