package services

import (
	"encoding/json"
	"sync"
	"testing"

	"miimaker/internal/audio"
)

func drain(c *WSClient) {
	for range c.send {
	}
}

func TestHub_SendDuringReconnects(t *testing.T) {
	h := NewHub()
	first := newWSClient("session-1", nil)
	h.Add(first)
	go drain(first)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					h.SendTo("session-1", WSEvent{Type: EventProgress})
				}
			}
		}()
	}

	// Each reconnect closes the previous client's queue while senders run.
	for i := 0; i < 500; i++ {
		c := newWSClient("session-1", nil)
		h.Add(c)
		go drain(c)
		if i%2 == 0 {
			h.Remove(c)
		}
	}

	close(stop)
	wg.Wait()
	h.Shutdown()
}

func TestHub_FullQueueDropsClient(t *testing.T) {
	h := NewHub()
	c := newWSClient("slow", nil)
	h.Add(c)

	for i := 0; i < clientSendBuffer; i++ {
		h.SendTo("slow", WSEvent{Type: EventState})
	}
	if _, ok := h.clients["slow"]; !ok {
		t.Fatalf("client dropped before its queue filled")
	}

	h.SendTo("slow", WSEvent{Type: EventState})
	if _, ok := h.clients["slow"]; ok {
		t.Fatalf("client with a full queue still registered")
	}

	n := 0
	for range c.send {
		n++
	}
	if n != clientSendBuffer {
		t.Fatalf("queued %d events want %d", n, clientSendBuffer)
	}
}

func TestHub_ReplacedClientKeepsSuccessor(t *testing.T) {
	h := NewHub()
	old := newWSClient("session-1", nil)
	h.Add(old)

	next := newWSClient("session-1", nil)
	h.Add(next)

	if _, open := <-old.send; open {
		t.Fatalf("replaced client queue still open")
	}

	h.Remove(old)
	if h.clients["session-1"] != next {
		t.Fatalf("removing the replaced client evicted its successor")
	}

	h.SendTo("session-1", WSEvent{Type: EventState})
	select {
	case <-next.send:
	default:
		t.Fatalf("successor did not receive the event")
	}
}

func TestHub_SinkForwardsSoundtrackEvents(t *testing.T) {
	h := NewHub()
	c := newWSClient("menu-1", nil)
	h.Add(c)

	sound := audio.NewSoundtrack(audio.MenuTrack, h.Sink("menu-1"))
	sound.Mount()
	sound.Play(audio.CueSelect)

	var got []WSEvent
	for i := 0; i < 2; i++ {
		var ev WSEvent
		if err := json.Unmarshal(<-c.send, &ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, ev)
	}

	if got[0].Type != audio.EventMusicPlay || got[0].Track == nil || got[0].Track.Src != audio.MenuTrack.Src {
		t.Fatalf("first event = %+v", got[0])
	}
	if got[1].Type != audio.EventSound || got[1].Cue == nil || got[1].Cue.Src != audio.CueSelect.Src {
		t.Fatalf("second event = %+v", got[1])
	}
}
