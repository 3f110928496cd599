// audio_oto.go - Audio implementation over github.com/ebitengine/oto/v3,
// generalizing a prior audio_backend_oto.go (OtoPlayer: a single
// chip-synthesized mono stream) into a mixed multi-instance PCM backend
// serving register_sound/start/stop/get_position contract.
package backend

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const otoSampleRate = 44100

// sample is one decoded sound asset's PCM data, mono float32 at
// otoSampleRate, matching a prior sampleBuf convention in
// audio_backend_oto.go.
type sample struct {
	pcm []float32
	duration time.Duration
}

// playing is one active Start()'d instance being mixed into the output
// stream.
type playing struct {
	h SoundHandle
	pos int
	loopsLeft uint16
	env *Envelope
	stopped bool
}

// OtoAudioBackend implements Audio by mixing every active playing
// instance into the buffer oto.Player.Read pulls from, the same
// single-Read-callback shape as a prior OtoPlayer.Read.
type OtoAudioBackend struct {
	mu sync.Mutex
	ctx *oto.Context
	player *oto.Player
	samples map[SoundHandle]*sample
	nextH SoundHandle

	active map[SoundInstance]*playing
	nextI SoundInstance
}

// NewOtoAudioBackend opens an oto context at the standard sample rate and
// starts pulling mixed audio immediately.
func NewOtoAudioBackend() (*OtoAudioBackend, error) {
	opts := &oto.NewContextOptions{
 SampleRate: otoSampleRate,
 ChannelCount: 2,
 Format: oto.FormatFloat32LE,
 BufferSize: 4,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
 return nil, fmt.Errorf("oto audio backend: %w", err)
	}
	<-ready

	b := &OtoAudioBackend{
 ctx: ctx,
 samples: make(map[SoundHandle]*sample),
 active: make(map[SoundInstance]*playing),
	}
	b.player = ctx.NewPlayer(b)
	b.player.Play()
	return b, nil
}

// RegisterSound decodes data into a new handle.
func (b *OtoAudioBackend) RegisterSound(data []byte) (SoundHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pcm := make([]float32, len(data)/4)
	for i := range pcm {
 pcm[i] = bytesToFloat32(data[i*4 : i*4+4])
	}
	b.nextH++
	h := b.nextH
	b.samples[h] = &sample{
 pcm: pcm,
 duration: time.Duration(len(pcm)) * time.Second / otoSampleRate,
	}
	return h, nil
}

// RegisterMP3Stream reserves a handle for a streaming source; actual MP3
// decode is the media decoder collaborator's job. Samples arrive later via FeedStream.
func (b *OtoAudioBackend) RegisterMP3Stream(sampleRate int) (SoundHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextH++
	h := b.nextH
	b.samples[h] = &sample{}
	return h, nil
}

// FeedStream appends decoded PCM to a streaming handle registered via
// RegisterMP3Stream.
func (b *OtoAudioBackend) FeedStream(h SoundHandle, pcm []float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.samples[h]; ok {
 s.pcm = append(s.pcm, pcm...)
	}
}

// Start begins mixing handle h from startSample, looping numLoops times
// (0 means play once). Per open question, a numLoops value
// beyond uint16 range is impossible by type; values are used as-is.
func (b *OtoAudioBackend) Start(h SoundHandle, startSample uint32, numLoops uint16, env *Envelope) (SoundInstance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.samples[h]; !ok {
 return 0, fmt.Errorf("oto audio backend: unknown sound handle %d", h)
	}
	b.nextI++
	inst := b.nextI
	b.active[inst] = &playing{h: h, pos: int(startSample), loopsLeft: numLoops, env: env}
	return inst, nil
}

func (b *OtoAudioBackend) Stop(inst SoundInstance) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.active[inst]; ok {
 p.stopped = true
 delete(b.active, inst)
	}
	return nil
}

func (b *OtoAudioBackend) Duration(h SoundHandle) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.samples[h]; ok {
 return s.duration
	}
	return 0
}

func (b *OtoAudioBackend) Position(inst SoundInstance) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.active[inst]
	if !ok {
 return 0
	}
	return time.Duration(p.pos) * time.Second / otoSampleRate
}

// Read implements io.Reader for oto.NewPlayer: it mixes every active
// instance into p as interleaved stereo float32, the same per-callback
// mixing point as a prior OtoPlayer.Read, generalized from one chip
// source to an arbitrary active set.
func (b *OtoAudioBackend) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	frames := len(p) / 8 // 2 channels * 4 bytes
	for i := 0; i < frames; i++ {
 var left, right float32
 for inst, pl := range b.active {
 s := b.samples[pl.h]
 if pl.stopped || s == nil || pl.pos >= len(s.pcm) {
 if pl.loopsLeft > 0 {
 pl.loopsLeft--
 pl.pos = 0
 } else {
 delete(b.active, inst)
 continue
 }
 }
 if pl.pos >= len(s.pcm) {
 continue
 }
 v := s.pcm[pl.pos]
 lv, rv := v, v
 if pl.env != nil {
 lv, rv = applyEnvelope(pl.env, uint32(pl.pos), v)
 }
 left += lv
 right += rv
 pl.pos++
 }
 putFloat32(p[i*8:], left)
 putFloat32(p[i*8+4:], right)
	}
	return len(p), nil
}

func applyEnvelope(env *Envelope, sample uint32, v float32) (float32, float32) {
	if len(env.Points) == 0 {
 return v, v
	}
	pt := env.Points[0]
	for _, cand := range env.Points {
 if cand.Sample > sample {
 break
 }
 pt = cand
	}
	return v * pt.Left, v * pt.Right
}

func bytesToFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}

func putFloat32(b []byte, v float32) {
	bits := math.Float32bits(v)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}
