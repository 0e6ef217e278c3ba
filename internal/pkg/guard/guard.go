// Package guard runs best-effort side effects whose failure must not reach
// the caller of the operation that triggered them.
package guard

import (
	"fmt"

	"go.uber.org/zap"
)

// Run executes fn, logging any returned error or panic under the effect name.
// It reports whether fn completed without error.
func Run(log *zap.Logger, effect string, fn func() error, fields ...zap.Field) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("secondary effect panicked",
				append(fields, zap.String("effect", effect), zap.String("panic", fmt.Sprint(r)))...)
			ok = false
		}
	}()

	if err := fn(); err != nil {
		log.Warn("secondary effect failed",
			append(fields, zap.String("effect", effect), zap.Error(err))...)
		return false
	}
	return true
}
