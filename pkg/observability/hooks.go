// Package observability provides hooks for instrumenting import map
// generation without depending on a metrics or tracing backend.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// The pipeline calls the registered hooks around each stage:
//
//	observability.Pipeline().OnGenerateStart(ctx, baseDir)
//	// ... walk node_modules ...
//	observability.Pipeline().OnGenerateComplete(ctx, baseDir, packages, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the import map pipeline.
type PipelineHooks interface {
	// Generate events
	OnGenerateStart(ctx context.Context, baseDir string)
	OnGenerateComplete(ctx context.Context, baseDir string, packages int, duration time.Duration, err error)

	// Write events
	OnWriteStart(ctx context.Context, path string)
	OnWriteComplete(ctx context.Context, path string, size int, duration time.Duration, err error)

	// OnPackageMissing records a declared dependency that is not installed.
	OnPackageMissing(ctx context.Context, name string)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, string) {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnWriteStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnWriteComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnPackageMissing(context.Context, string)                           {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the no-op hooks. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
