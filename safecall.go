package foundation

import (
	"context"

	"github.com/kbukum/foundation/errors"
	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/spi"
)

// safeCall runs fn against the selected manager. An error or panic from fn is
// logged and counted, and fallback is returned in its place.
func safeCall[T any](r *Registry, op string, fallback T, fn func(spi.Manager) (T, error)) (result T) {
	defer func() {
		if v := recover(); v != nil {
			r.fault(context.Background(), op, errors.Panic(op, v))
			result = fallback
		}
	}()

	v, err := fn(r.manager())
	if err != nil {
		r.fault(context.Background(), op, errors.DelegationFailed(op, err))
		return fallback
	}
	return v
}

// fault records a swallowed failure.
func (r *Registry) fault(ctx context.Context, op string, err *errors.AppError) {
	r.report(func() {
		r.metrics.RecordFault(ctx, op, string(err.Code))
		r.log.Error("provider call failed", map[string]interface{}{
			logger.FieldOperation: op,
			logger.FieldCode:      string(err.Code),
			logger.FieldError:     err.Error(),
		})
	})
}

// report runs a logging or metrics call, discarding any panic it raises.
func (r *Registry) report(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
