package server

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bughunt/backend/internal/engine"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()

	a := b.Subscribe("s1")
	c := b.Subscribe("s1")
	other := b.Subscribe("s2")
	defer b.Unsubscribe("s1", a)
	defer b.Unsubscribe("s1", c)
	defer b.Unsubscribe("s2", other)

	b.Publish("s1", GameEvent{Type: "tick", TimeLeft: 59})

	for name, ch := range map[string]chan []byte{"first": a, "second": c} {
		select {
		case data := <-ch:
			if !strings.Contains(string(data), `"tick"`) {
				t.Errorf("%s subscriber got %s", name, data)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s subscriber got nothing", name)
		}
	}

	select {
	case data := <-other:
		t.Fatalf("unrelated session received %s", data)
	default:
	}
}

func TestHandleEventsStreamsTicks(t *testing.T) {
	sessions := NewRegistry(NewBroker())
	sessions.tickEvery = 10 * time.Millisecond

	st := engine.NewState([]engine.Problem{testProblem()}, engine.DefaultConfig())
	token := sessions.Start(st, "en", "go")

	srv := httptest.NewServer(handleEvents(sessions))
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(srv.URL + "?token=" + token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q, want text/event-stream", ct)
	}

	// The session timer publishes a tick every interval; the first
	// data line must arrive promptly.
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			if !strings.Contains(line, `"tick"`) {
				t.Fatalf("first event = %q, want a tick", line)
			}
			return
		}
	}
	t.Fatalf("stream closed without an event: %v", scanner.Err())
}

func TestHandleEventsRequiresToken(t *testing.T) {
	sessions := NewRegistry(NewBroker())

	rec := httptest.NewRecorder()
	handleEvents(sessions)(rec, httptest.NewRequest(http.MethodGet, "/api/game/events", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
