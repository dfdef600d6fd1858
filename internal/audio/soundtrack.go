package audio

import (
	"fmt"
	"sync"
)

type Cue struct {
	Sound  string  `json:"sound"`
	Src    string  `json:"src"`
	Volume float64 `json:"volume"`
	Rate   float64 `json:"rate"`
	Pan    float64 `json:"pan"`
}

func NewCue(sound string, volume, rate, pan float64) Cue {
	if volume == 0 {
		volume = 0.4
	}
	if rate == 0 {
		rate = 1
	}
	return Cue{
		Sound:  sound,
		Src:    fmt.Sprintf("/sounds/%s.mp3", sound),
		Volume: volume,
		Rate:   rate,
		Pan:    pan,
	}
}

type Track struct {
	Src    string  `json:"src"`
	Volume float64 `json:"volume"`
	Loop   bool    `json:"loop"`
}

var (
	MenuTrack  = Track{Src: "/wiimenu.mp3", Volume: 0.3, Loop: true}
	MakerTrack = Track{Src: "/miieditor.mp3", Volume: 0.2, Loop: true}
)

var (
	CueSelect        = NewCue("click", 0.5, 1.3, 0)
	CueSave          = NewCue("click", 0.5, 1.4, 0)
	CueSizeError     = NewCue("error", 0.6, 0, -0.5)
	CueTypeError     = NewCue("error", 0.6, 0, 0.5)
	CueDropError     = NewCue("error", 0.7, 0, 0)
	CueNoFile        = NewCue("error", 0.7, 0, 0)
	CueStartup       = NewCue("startup", 0.5, 0, 0)
	CueSuccess       = NewCue("success", 0.6, 1.2, 0)
	CueGenerateError = NewCue("error", 0.8, 0.8, 0)
	CueBack          = NewCue("back", 0.5, 0, -0.3)
)

const (
	EventSound     = "sound"
	EventMusicPlay = "music.play"
	EventMusicStop = "music.stop"
)

type Event struct {
	Type  string `json:"type"`
	Cue   *Cue   `json:"cue,omitempty"`
	Track *Track `json:"track,omitempty"`
}

type Sink interface {
	Emit(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Soundtrack owns the background music of one mounted screen and routes its
// sound effects. Nothing is emitted before Mount or after Unmount.
type Soundtrack struct {
	mu      sync.Mutex
	track   Track
	sink    Sink
	mounted bool
}

func NewSoundtrack(track Track, sink Sink) *Soundtrack {
	if sink == nil {
		sink = SinkFunc(func(Event) {})
	}
	return &Soundtrack{track: track, sink: sink}
}

// Mount starts the background track. Calling it again while mounted does not
// restart playback.
func (s *Soundtrack) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		return
	}
	s.mounted = true
	track := s.track
	s.sink.Emit(Event{Type: EventMusicPlay, Track: &track})
}

func (s *Soundtrack) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted {
		return
	}
	s.mounted = false
	track := s.track
	s.sink.Emit(Event{Type: EventMusicStop, Track: &track})
}

func (s *Soundtrack) Play(c Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted {
		return
	}
	s.sink.Emit(Event{Type: EventSound, Cue: &c})
}

func (s *Soundtrack) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}
