package targetfeatures

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the logger used by the targetfeatures packages.
// It uses a no-op logger by default.
// Feature lookups and target queries never log.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger configures the logger. It is safe to call concurrently with
// [Logger]; operations already running keep the logger they started with.
// A nil logger restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}
