package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"miimaker/config"
	"miimaker/internal/audio"
	"miimaker/internal/maker"
	"miimaker/internal/preview"
)

type nopGen struct{}

func (nopGen) Generate(context.Context, string) (string, error) { return "", nil }

func newRegisteredSession(t *testing.T, r *Registry, id string, store *preview.Store) (*maker.Session, *audio.Soundtrack) {
	t.Helper()
	sound := audio.NewSoundtrack(audio.MakerTrack, nil)
	s := maker.NewSession(id, nopGen{}, store, maker.Options{Sound: sound})
	if err := r.Add(s, sound); err != nil {
		t.Fatalf("add: %v", err)
	}
	return s, sound
}

func TestRegistry_SweepClosesIdleSessions(t *testing.T) {
	r := NewRegistry(config.SessionsConfig{IdleTTL: time.Minute, SweepInterval: time.Second})
	store := preview.NewStore()

	s, sound := newRegisteredSession(t, r, "idle", store)
	if err := s.Select(maker.Upload{Name: "a.jpg", MediaType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}}); err != nil {
		t.Fatalf("select: %v", err)
	}

	if n := r.Sweep(time.Now()); n != 0 {
		t.Fatalf("fresh session swept")
	}
	if n := r.Sweep(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("swept %d want 1", n)
	}

	if _, err := r.Get("idle"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("swept session still registered")
	}
	if store.Len() != 0 {
		t.Fatalf("sweep must release previews")
	}
	if sound.Mounted() {
		t.Fatalf("sweep must unmount the soundtrack")
	}
	if err := s.Reset(); !errors.Is(err, maker.ErrClosed) {
		t.Fatalf("reset after sweep: %v want ErrClosed", err)
	}
}

func TestRegistry_Shutdown(t *testing.T) {
	r := NewRegistry(config.SessionsConfig{})
	store := preview.NewStore()
	newRegisteredSession(t, r, "a", store)
	newRegisteredSession(t, r, "b", store)

	r.Shutdown()

	if r.Len() != 0 {
		t.Fatalf("registry not emptied")
	}
	s := maker.NewSession("late", nopGen{}, store, maker.Options{})
	defer s.Close()
	if err := r.Add(s, nil); !errors.Is(err, ErrRegistryShuttingDown) {
		t.Fatalf("add after shutdown: %v", err)
	}
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	r := NewRegistry(config.SessionsConfig{SweepInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("run did not stop")
	}
}
