// config.go - Player configuration, the "no ambient
// singletons" home for every knob §5/§7 mentions (optimizer on/off,
// max-execution-duration budget, SWF version, render backend selection),
// generalizing a prior features.go build-tag/CLI-flag gate into a
// plain struct every entry point takes explicitly.
package player

import "time"

// RenderBackend names a backend.Renderer implementation, mirroring a prior
// features.go backend selection between its ebiten/opengl/terminal video
// outputs. NewPlayer does not read it (it takes the renderer as an
// argument); cmd/flashplayer uses it to choose the renderer and audio
// backend it passes in.
type RenderBackend uint8

const (
	RenderBackendEbiten RenderBackend = iota
	RenderBackendVulkan
	RenderBackendHeadless
)

// Config configures one Player instance. DefaultConfig returns the usual
// settings; a zero Config differs from them (Render is
// RenderBackendEbiten, OptimizerEnabled is false, SwfVersion is 0).
type Config struct {
	// SwfVersion records the movie's SWF version. Player does not read it:
	// timeline.Root runs every AVM1 script as SWF version 6.
	SwfVersion uint8

	// OptimizerEnabled records whether the AVM2 optimizer is wanted.
	// Player does not read it, and no AVM2 call path in the module runs
	// the verifier or the optimizer.
	OptimizerEnabled bool

	// MaxExecutionDuration records a per-script time budget. Player does
	// not read it: timeline.Root gives every AVM1 script
	// avm1.DefaultScriptBudget (15s), and AVM2 code runs without a budget.
	MaxExecutionDuration time.Duration

	// FrameRateOverride forces a fixed frame rate instead of the movie
	// header's authored rate; zero means use the authored rate.
	FrameRateOverride float64

	Render RenderBackend
}

// DefaultConfig returns the documented documented defaults.
func DefaultConfig() Config {
	return Config{
 SwfVersion: 6,
 OptimizerEnabled: true,
 MaxExecutionDuration: 15 * time.Second,
 Render: RenderBackendHeadless,
	}
}
