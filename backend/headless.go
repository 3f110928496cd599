// headless.go - No-op Renderer/Audio implementations for tests and for
// running a movie without a window, generalizing a prior
// audio_backend_headless.go/video_backend_headless.go stub pattern (every
// method present, nothing actually drawn or sounded) to this package's
// Renderer/Audio interfaces.
package backend

import "time"

// HeadlessRenderer discards every command; Submit still records a count
// so tests can assert a frame was rendered without needing a window.
type HeadlessRenderer struct {
	Frames int
	LastCount int
}

func NewHeadlessRenderer() *HeadlessRenderer { return &HeadlessRenderer{} }

func (r *HeadlessRenderer) BeginFrame(bgColor [4]float64, vp Viewport) error { return nil }

func (r *HeadlessRenderer) Submit(cmds []Command) error {
	r.LastCount = len(cmds)
	return nil
}

func (r *HeadlessRenderer) EndFrame() error {
	r.Frames++
	return nil
}

// HeadlessAudio implements Audio with in-memory bookkeeping only, no
// actual playback, matching a prior NewOtoPlayer headless stub.
type HeadlessAudio struct {
	nextHandle SoundHandle
	nextInst SoundInstance
	durations map[SoundHandle]time.Duration
	instHandles map[SoundInstance]SoundHandle
}

func NewHeadlessAudio() *HeadlessAudio {
	return &HeadlessAudio{
 durations: make(map[SoundHandle]time.Duration),
 instHandles: make(map[SoundInstance]SoundHandle),
	}
}

func (a *HeadlessAudio) RegisterSound(data []byte) (SoundHandle, error) {
	a.nextHandle++
	a.durations[a.nextHandle] = time.Duration(len(data)) * time.Millisecond
	return a.nextHandle, nil
}

func (a *HeadlessAudio) RegisterMP3Stream(sampleRate int) (SoundHandle, error) {
	a.nextHandle++
	return a.nextHandle, nil
}

func (a *HeadlessAudio) Start(h SoundHandle, startSample uint32, numLoops uint16, env *Envelope) (SoundInstance, error) {
	a.nextInst++
	a.instHandles[a.nextInst] = h
	return a.nextInst, nil
}

func (a *HeadlessAudio) Stop(inst SoundInstance) error {
	delete(a.instHandles, inst)
	return nil
}

func (a *HeadlessAudio) Duration(h SoundHandle) time.Duration { return a.durations[h] }
func (a *HeadlessAudio) Position(inst SoundInstance) time.Duration { return 0 }
