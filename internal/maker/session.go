package maker

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"miimaker/config"
	"miimaker/internal/audio"

	"github.com/charmbracelet/log"
)

// DownloadName is the file name offered when saving a generated avatar.
const DownloadName = "my-mii-avatar.png"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseResult:
		return "result"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type Generator interface {
	Generate(ctx context.Context, imageBase64 string) (string, error)
}

type Previews interface {
	Create(mediaType string, data []byte) string
	Release(handle string) bool
}

type Options struct {
	MaxBytes         int64
	ProgressInterval time.Duration
	RevealDelay      time.Duration
	// Rand returns values in [0,1) used to size progress increments.
	Rand func() float64
	// Sound receives cues; the session unmounts it on Close.
	Sound *audio.Soundtrack
	// OnChange is called with every new snapshot while the session lock is
	// held. It must not call back into the Session.
	OnChange func(Snapshot)
}

func OptionsFromConfig(cfg config.UploadConfig) Options {
	return Options{
		MaxBytes:         cfg.MaxBytes,
		ProgressInterval: cfg.ProgressInterval,
		RevealDelay:      cfg.RevealDelay,
	}
}

type ImageInfo struct {
	Name      string
	MediaType string
	Size      int64
	Preview   string
}

type Snapshot struct {
	ID       string
	Phase    Phase
	Dragging bool
	Progress float64
	Err      *Error
	Image    *ImageInfo
	Result   string
}

type selectedImage struct {
	name      string
	mediaType string
	data      []byte
	preview   string
}

// Session is one mounted avatar-generator screen: the selected photo, its
// preview, and at most one generation request.
type Session struct {
	id       string
	gen      Generator
	previews Previews
	opts     Options
	logger   *log.Logger

	mu         sync.Mutex
	phase      Phase
	dragging   bool
	progress   float64
	err        *Error
	image      *selectedImage
	result     string
	epoch      uint64
	pacing     bool
	pacer      *pacer
	closed     bool
	done       chan struct{}
	lastActive time.Time
}

func NewSession(id string, gen Generator, previews Previews, opts Options) *Session {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = config.DefaultMaxBytes
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = config.DefaultProgressInterval
	}
	if opts.RevealDelay < 0 {
		opts.RevealDelay = 0
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	if opts.Sound == nil {
		opts.Sound = audio.NewSoundtrack(audio.MakerTrack, nil)
	}

	s := &Session{
		id:         id,
		gen:        gen,
		previews:   previews,
		opts:       opts,
		logger:     log.With("component", "maker", "session", id),
		done:       make(chan struct{}),
		lastActive: time.Now(),
	}
	opts.Sound.Mount()
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:       s.id,
		Phase:    s.phase,
		Dragging: s.dragging,
		Progress: s.progress,
		Err:      s.err,
	}
	if s.image != nil {
		snap.Image = &ImageInfo{
			Name:      s.image.name,
			MediaType: s.image.mediaType,
			Size:      int64(len(s.image.data)),
			Preview:   s.image.preview,
		}
	}
	if s.phase == PhaseResult {
		snap.Result = s.result
	}
	return snap
}

func (s *Session) changedLocked() {
	s.lastActive = time.Now()
	if s.opts.OnChange != nil {
		s.opts.OnChange(s.snapshotLocked())
	}
}

func (s *Session) failLocked(e *Error, cue audio.Cue) {
	s.phase = PhaseError
	s.err = e
	s.progress = 0
	s.opts.Sound.Play(cue)
	s.changedLocked()
}

type request struct {
	epoch uint64
	data  []byte
}

// Generate issues one request for the selected image and blocks until it
// settles. The returned error only reports why no request was issued
// (ErrBusy, ErrClosed, or a missing selection); the outcome of the request
// itself is read from Snapshot.
func (s *Session) Generate(ctx context.Context) error {
	req, err := s.begin()
	if err != nil {
		return err
	}
	s.run(ctx, req)
	return nil
}

// Start is Generate without waiting for the request to settle.
func (s *Session) Start(ctx context.Context) error {
	req, err := s.begin()
	if err != nil {
		return err
	}
	go s.run(ctx, req)
	return nil
}

func (s *Session) begin() (request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return request{}, ErrClosed
	}
	if s.phase == PhaseLoading {
		return request{}, ErrBusy
	}
	if s.image == nil {
		e := validationError(MsgNoSelection)
		s.failLocked(e, audio.CueNoFile)
		return request{}, e
	}

	s.epoch++
	epoch := s.epoch

	s.phase = PhaseLoading
	s.progress = 0
	s.err = nil
	s.result = ""
	s.pacing = true
	s.pacer = startPacer(s.opts.ProgressInterval, func() { s.advance(epoch) })

	s.opts.Sound.Play(audio.CueStartup)
	s.changedLocked()
	s.logger.Info("generation started", "file", s.image.name, "bytes", len(s.image.data))

	return request{epoch: epoch, data: s.image.data}, nil
}

func (s *Session) advance(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pacing || s.epoch != epoch {
		return
	}
	next := nextProgress(s.progress, s.opts.Rand())
	if next == s.progress {
		return
	}
	s.progress = next
	s.changedLocked()
}

func (s *Session) run(ctx context.Context, req request) {
	encoded := base64.StdEncoding.EncodeToString(req.data)
	start := time.Now()

	out, err := s.gen.Generate(ctx, encoded)
	if !s.settle(req, out, err, time.Since(start)) {
		return
	}

	if s.opts.RevealDelay > 0 {
		t := time.NewTimer(s.opts.RevealDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-s.done:
			return
		}
	}
	s.reveal(req, out)
}

// settle stops the pacer and records the outcome. It reports whether a
// successful result is waiting to be revealed.
func (s *Session) settle(req request, out string, err error, dur time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.epoch != req.epoch {
		s.logger.Debug("discarding stale response", "epoch", req.epoch, "current", s.epoch)
		return false
	}

	s.pacing = false
	s.pacer.Stop()
	s.pacer = nil

	if err != nil {
		e := classify(err)
		s.logger.Warn("generation failed", "kind", e.Kind, "dur", dur.String(), "err", err)
		s.failLocked(e, audio.CueGenerateError)
		return false
	}

	s.progress = progressFinal
	s.changedLocked()
	s.logger.Info("generation completed", "bytes", len(out), "dur", dur.String())
	return true
}

func (s *Session) reveal(req request, out string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.epoch != req.epoch {
		return
	}
	s.phase = PhaseResult
	s.result = out
	s.opts.Sound.Play(audio.CueSuccess)
	s.changedLocked()
}

// Reset returns the session to Idle, dropping the photo, its preview, any
// result and any error. It is refused while a request is in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.phase == PhaseLoading {
		return ErrBusy
	}

	s.epoch++
	s.clearLocked()
	s.phase = PhaseIdle
	s.progress = 0
	s.err = nil
	s.opts.Sound.Play(audio.CueBack)
	s.changedLocked()
	return nil
}

func (s *Session) clearLocked() {
	if s.image != nil {
		s.previews.Release(s.image.preview)
		s.image = nil
	}
	s.result = ""
}

// Download returns the generated avatar as PNG bytes.
func (s *Session) Download() (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", nil, ErrClosed
	}
	if s.phase != PhaseResult || s.result == "" {
		return "", nil, ErrNoResult
	}

	data, err := base64.StdEncoding.DecodeString(s.result)
	if err != nil {
		return "", nil, fmt.Errorf("error decoding mii image: %w", err)
	}

	s.opts.Sound.Play(audio.CueSave)
	s.lastActive = time.Now()
	return DownloadName, data, nil
}

// Close tears the session down: the pacer stops, the preview is released,
// the soundtrack is unmounted and any pending response is discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.epoch++
	s.pacing = false
	s.pacer.Stop()
	s.pacer = nil
	s.clearLocked()
	close(s.done)
	s.opts.Sound.Unmount()
	s.logger.Debug("session closed")
}
