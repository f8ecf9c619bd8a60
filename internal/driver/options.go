package driver

import (
	"runtime"

	"macrofront/internal/buildpipeline"
	"macrofront/internal/macros"
)

// Options carries resolved CLI settings into the pipeline.
type Options struct {
	// MaxDiagnostics caps every per-crate bag; 0 means unlimited.
	MaxDiagnostics int
	// Jobs limits crates compiled at once inside one wave; <=0 means GOMAXPROCS.
	Jobs int
	// DiskCache, when set, lets clean leaf crates be skipped on unchanged input.
	DiskCache *DiskCache
	// Processors overrides DefaultProcessors; nil means the defaults.
	Processors []macros.Processor
	// Progress receives per-crate stage events.
	Progress buildpipeline.ProgressSink
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

func (o Options) host() *macros.Host {
	if o.Processors == nil {
		return macros.NewHost(DefaultProcessors()...)
	}
	return macros.NewHost(o.Processors...)
}
