package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"talio/internal/broker"
	"talio/internal/events"
)

func TestUpdatesTimesOutWithNotModified(t *testing.T) {
	const timeout = 50 * time.Millisecond
	ts := newTestServer(t, timeout)

	start := time.Now()
	rec := ts.do(http.MethodGet, "/updates", "")
	elapsed := time.Since(start)

	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	if elapsed < timeout {
		t.Fatalf("answered after %v, before the %v timeout", elapsed, timeout)
	}
	if ts.poller.Pending() != 0 {
		t.Fatalf("expected slot removed, %d pending", ts.poller.Pending())
	}
}

func TestUpdatesDeliversNextEvent(t *testing.T) {
	ts := newTestServer(t, 5*time.Second)
	ts.broker.Subscribe(broker.AnyBoard, ts.poller.Observer())

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- ts.do(http.MethodGet, "/updates", "") }()

	deadline := time.Now().Add(time.Second)
	for ts.poller.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("long-poll never parked")
		}
		time.Sleep(5 * time.Millisecond)
	}
	id := ts.createBoard(t, "polled")

	var rec *httptest.ResponseRecorder
	select {
	case rec = <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("long-poll did not resolve")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	e, err := events.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode event: %v", err)
	}
	added, ok := e.(events.BoardAdded)
	if !ok || added.View.ID != id || added.View.Title != "polled" {
		t.Fatalf("unexpected event %#v", e)
	}
}

func dialBoard(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/board"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) events.Event {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	e, err := events.Decode(data)
	if err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return e
}

func TestSocketPushesBoardEvents(t *testing.T) {
	ts := newTestServer(t, time.Second)
	srv := httptest.NewServer(ts.e)
	defer srv.Close()

	board := ts.createBoard(t, "live")
	conn := dialBoard(t, srv)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("verification")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if e, ok := readEvent(t, conn).(events.MessageProcessed); !ok || e.Message != "verification" {
		t.Fatalf("expected echoed handshake, got %#v", e)
	}

	sub := fmt.Sprintf(`{"type":"subscribeToBoard","board":%d}`, board)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(sub)); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for ts.broker.Count(board) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("socket never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ts.mustDo(t, http.StatusOK, http.MethodPatch, fmt.Sprintf("/api/boards/%d", board), `{"title":"renamed"}`)
	e, ok := readEvent(t, conn).(events.BoardTitleSet)
	if !ok || e.BoardID != board || e.NewTitle != "renamed" {
		t.Fatalf("unexpected event %#v", e)
	}

	ts.mustDo(t, http.StatusNoContent, http.MethodDelete, fmt.Sprintf("/api/boards/%d", board), "")
	if _, ok := readEvent(t, conn).(events.BoardRemoved); !ok {
		t.Fatalf("expected boardRemoved")
	}
	if n := ts.broker.Count(board); n != 0 {
		t.Fatalf("expected subscription dropped after removal, got %d", n)
	}
}
