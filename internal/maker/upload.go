package maker

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"miimaker/internal/audio"
)

type Source int

const (
	SourcePicker Source = iota
	SourceDrop
)

// Upload is a file handed over by the picker or a drop event.
type Upload struct {
	Name      string
	MediaType string
	Data      []byte
}

func mediaTypeOf(u Upload) string {
	mt := strings.TrimSpace(u.MediaType)
	if mt == "" || mt == "application/octet-stream" {
		mt = http.DetectContentType(u.Data)
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	return strings.ToLower(mt)
}

func (s *Session) sizeLimitMessage() string {
	return fmt.Sprintf("File size exceeds %dMB limit", s.opts.MaxBytes/(1024*1024))
}

// Select takes a file from the picker.
func (s *Session) Select(u Upload) error {
	return s.accept(u, SourcePicker)
}

// Drop takes a dropped file. The drag flag is cleared whatever the outcome.
func (s *Session) Drop(u Upload) error {
	return s.accept(u, SourceDrop)
}

func (s *Session) SetDragging(active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.dragging == active {
		return nil
	}
	s.dragging = active
	s.changedLocked()
	return nil
}

func (s *Session) accept(u Upload, src Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if src == SourceDrop {
		s.dragging = false
	}
	if s.phase == PhaseLoading {
		s.changedLocked()
		return ErrBusy
	}

	mt := mediaTypeOf(u)
	if !strings.HasPrefix(mt, "image/") {
		if src == SourceDrop {
			e := validationError(MsgInvalidDrop)
			s.failLocked(e, audio.CueDropError)
			return e
		}
		e := validationError(MsgInvalidFile)
		s.failLocked(e, audio.CueTypeError)
		return e
	}
	if int64(len(u.Data)) > s.opts.MaxBytes {
		e := validationError(s.sizeLimitMessage())
		s.failLocked(e, audio.CueSizeError)
		return e
	}

	if s.image != nil {
		s.previews.Release(s.image.preview)
	}
	s.image = &selectedImage{
		name:      u.Name,
		mediaType: mt,
		data:      u.Data,
		preview:   s.previews.Create(mt, u.Data),
	}
	s.result = ""
	s.err = nil
	s.progress = 0
	s.phase = PhaseIdle

	s.opts.Sound.Play(audio.CueSelect)
	s.changedLocked()
	s.logger.Debug("image selected", "file", u.Name, "type", mt, "bytes", len(u.Data))
	return nil
}
