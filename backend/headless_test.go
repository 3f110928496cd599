package backend

import "testing"

func TestHeadlessRendererCountsFrames(t *testing.T) {
	r := NewHeadlessRenderer()
	if err := r.BeginFrame([4]float64{}, Viewport{Width: 100, Height: 100}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	cmds := []Command{{Kind: CmdDrawRect}, {Kind: CmdDrawLine}}
	if err := r.Submit(cmds); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
	if r.Frames != 1 {
		t.Fatalf("expected Frames=1, got %d", r.Frames)
	}
	if r.LastCount != 2 {
		t.Fatalf("expected LastCount=2, got %d", r.LastCount)
	}
}

func TestHeadlessAudioStartStop(t *testing.T) {
	a := NewHeadlessAudio()
	h, err := a.RegisterSound(make([]byte, 40))
	if err != nil {
		t.Fatalf("RegisterSound: %v", err)
	}
	inst, err := a.Start(h, 0, 0, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := a.Stop(inst); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if d := a.Duration(h); d <= 0 {
		t.Fatalf("expected positive duration, got %v", d)
	}
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	s := NewMemoryStorage()
	if err := s.Set("example.com", "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := s.Get("example.com", "k")
	if !ok || string(got) != "v" {
		t.Fatalf("expected round-tripped value, got %q ok=%v", got, ok)
	}
	if err := s.Delete("example.com", "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Get("example.com", "k"); ok {
		t.Fatalf("expected key gone after Delete")
	}
}

func TestStdLogThrottlesRepeatedWarning(t *testing.T) {
	var buf countingWriter
	l := NewStdLog("")
	l.l.SetOutput(&buf)
	l.Log(LogWarn, "cat", "msg")
	l.Log(LogWarn, "cat", "msg")
	if buf.n != 1 {
		t.Fatalf("expected exactly one log line for a repeated warning, got %d", buf.n)
	}
}

type countingWriter struct{ n int }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n++
	return len(p), nil
}
