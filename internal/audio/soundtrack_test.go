package audio

import "testing"

type recorder struct {
	events []Event
}

func (r *recorder) Emit(e Event) { r.events = append(r.events, e) }

func TestSoundtrack_Lifecycle(t *testing.T) {
	rec := &recorder{}
	s := NewSoundtrack(MakerTrack, rec)

	s.Play(CueSelect)
	if len(rec.events) != 0 {
		t.Fatalf("cue emitted before mount: %+v", rec.events)
	}

	s.Mount()
	s.Mount()
	s.Play(CueSuccess)
	s.Unmount()
	s.Unmount()
	s.Play(CueBack)

	want := []string{EventMusicPlay, EventSound, EventMusicStop}
	if len(rec.events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(rec.events), len(want), rec.events)
	}
	for i, typ := range want {
		if rec.events[i].Type != typ {
			t.Fatalf("event %d = %s want %s", i, rec.events[i].Type, typ)
		}
	}
	if rec.events[0].Track.Src != "/miieditor.mp3" || !rec.events[0].Track.Loop {
		t.Fatalf("unexpected track %+v", rec.events[0].Track)
	}
	if rec.events[1].Cue.Src != "/sounds/success.mp3" || rec.events[1].Cue.Rate != 1.2 {
		t.Fatalf("unexpected cue %+v", rec.events[1].Cue)
	}
	if s.Mounted() {
		t.Fatalf("still mounted after unmount")
	}
}

func TestNewCue_Defaults(t *testing.T) {
	c := NewCue("startup", 0, 0, 0)
	if c.Volume != 0.4 || c.Rate != 1 {
		t.Fatalf("defaults not applied: %+v", c)
	}
}
