// Package lslog provides the component-tagged logger used across the
// resolver. It wraps zap.SugaredLogger so call sites can pass loose
// key/value pairs the way the rest of the codebase does, while still
// routing through a single swappable process-wide logger.
package lslog

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var defaultLogger atomic.Pointer[zap.SugaredLogger]

func init() {
	l, _ := zap.NewProduction()
	defaultLogger.Store(l.Sugar())
}

// SetDefault replaces the process-wide logger. Intended for callers that
// want development-mode output or a custom zap.Config.
func SetDefault(l *zap.Logger) {
	defaultLogger.Store(l.Sugar())
}

// Logger returns a handle tagged with component, matching the call sites'
// expectation that each package declares its own "discovery/resolver",
// "config", etc. logger at var-init time.
func Logger(component string) *Handle {
	return &Handle{component: component}
}

// Handle is a lazily-resolved, component-tagged logger. It always reads
// the current default logger so SetDefault takes effect for loggers
// created before the switch.
type Handle struct {
	component string
}

func (h *Handle) with() *zap.SugaredLogger {
	return defaultLogger.Load().With("component", h.component)
}

func (h *Handle) Debug(msg string, kv ...any) { h.with().Debugw(msg, kv...) }
func (h *Handle) Info(msg string, kv ...any)  { h.with().Infow(msg, kv...) }
func (h *Handle) Warn(msg string, kv ...any)  { h.with().Warnw(msg, kv...) }
func (h *Handle) Error(msg string, kv ...any) { h.with().Errorw(msg, kv...) }
