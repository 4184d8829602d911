package api

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus/hooks/test"

	"talio/internal/broker"
	"talio/internal/domain"
	"talio/internal/events"
	"talio/internal/storage"
	"talio/internal/stream"
)

type testServer struct {
	e      *echo.Echo
	broker *broker.Broker
	poller *stream.Poller
	hook   *test.Hook
}

func newTestServer(t *testing.T, pollTimeout time.Duration) *testServer {
	t.Helper()
	logger, hook := test.NewNullLogger()
	b := broker.New()
	p := stream.NewPoller(pollTimeout)
	svc := domain.NewService(storage.NewMemory(), b, logger)

	e := echo.New()
	e.Use(middleware.Decompress())
	Register(e, svc, b, p, logger, Options{})
	return &testServer{e: e, broker: b, poller: p, hook: hook}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

// mustDo runs a request and fails unless it answers with want.
func (ts *testServer) mustDo(t *testing.T, want int, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := ts.do(method, path, body)
	if rec.Code != want {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, want, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := sonic.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func (ts *testServer) createBoard(t *testing.T, title string) int64 {
	t.Helper()
	rec := ts.mustDo(t, http.StatusCreated, http.MethodPost, "/api/boards", fmt.Sprintf(`{"title":%q}`, title))
	return decodeAs[domain.BoardView](t, rec).ID
}

func (ts *testServer) createList(t *testing.T, board int64, title string) int64 {
	t.Helper()
	rec := ts.mustDo(t, http.StatusCreated, http.MethodPost, fmt.Sprintf("/api/boards/%d/lists", board), fmt.Sprintf(`{"title":%q}`, title))
	return decodeAs[domain.CardListView](t, rec).ID
}

func (ts *testServer) createCard(t *testing.T, list int64, title string) int64 {
	t.Helper()
	rec := ts.mustDo(t, http.StatusCreated, http.MethodPost, fmt.Sprintf("/api/lists/%d/cards", list), fmt.Sprintf(`{"title":%q}`, title))
	return decodeAs[domain.CardView](t, rec).ID
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) Send(e events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type())
	}
	return out
}

func (ts *testServer) watch(board int64) *eventLog {
	l := &eventLog{}
	ts.broker.Subscribe(board, events.NewObserver(l))
	return l
}

func TestBoardLifecycle(t *testing.T) {
	ts := newTestServer(t, time.Second)
	id := ts.createBoard(t, "Roadmap")

	got := decodeAs[domain.BoardView](t, ts.mustDo(t, http.StatusOK, http.MethodGet, fmt.Sprintf("/api/boards/%d", id), ""))
	if got.Title != "Roadmap" || got.FontColor != domain.DefaultFontColor {
		t.Fatalf("unexpected board: %+v", got)
	}

	patched := decodeAs[domain.BoardView](t, ts.mustDo(t, http.StatusOK, http.MethodPatch, fmt.Sprintf("/api/boards/%d", id),
		`{"title":"Q3","backgroundColor":{"red":1,"green":2,"blue":3,"alpha":255}}`))
	if patched.Title != "Q3" || patched.BackgroundColor.Blue != 3 {
		t.Fatalf("unexpected patched board: %+v", patched)
	}

	all := decodeAs[[]domain.BoardView](t, ts.mustDo(t, http.StatusOK, http.MethodGet, "/api/boards", ""))
	if len(all) != 1 || all[0].ID != id {
		t.Fatalf("unexpected board list: %+v", all)
	}

	ts.mustDo(t, http.StatusNoContent, http.MethodDelete, fmt.Sprintf("/api/boards/%d", id), "")
	ts.mustDo(t, http.StatusNotFound, http.MethodGet, fmt.Sprintf("/api/boards/%d", id), "")
}

func TestCardTitlePatchEmitsOneEvent(t *testing.T) {
	ts := newTestServer(t, time.Second)
	board := ts.createBoard(t, "b")
	list := ts.createList(t, board, "todo")
	card := ts.createCard(t, list, "old")
	watched := ts.watch(board)

	ts.mustDo(t, http.StatusOK, http.MethodPatch, fmt.Sprintf("/api/cards/%d", card), `{"title":"new"}`)

	if got := watched.types(); len(got) != 1 || got[0] != "cardTitleSet" {
		t.Fatalf("expected one cardTitleSet, got %v", got)
	}
	e := watched.events[0].(events.CardTitleSet)
	if e.CardID != card || e.NewTitle != "new" || e.BoardID != board {
		t.Fatalf("unexpected event: %+v", e)
	}
	got := decodeAs[domain.CardView](t, ts.mustDo(t, http.StatusOK, http.MethodGet, fmt.Sprintf("/api/cards/%d", card), ""))
	if got.Title != "new" {
		t.Fatalf("expected new title, got %q", got.Title)
	}
}

func TestMoveCardListRoute(t *testing.T) {
	ts := newTestServer(t, time.Second)
	board := ts.createBoard(t, "b")
	l1 := ts.createList(t, board, "L1")
	l2 := ts.createList(t, board, "L2")
	l3 := ts.createList(t, board, "L3")
	watched := ts.watch(board)

	ts.mustDo(t, http.StatusNoContent, http.MethodPost, fmt.Sprintf("/api/lists/%d/move", l1), fmt.Sprintf(`{"after":%d}`, l3))

	view := decodeAs[domain.BoardView](t, ts.mustDo(t, http.StatusOK, http.MethodGet, fmt.Sprintf("/api/boards/%d", board), ""))
	var order []int64
	for _, l := range view.CardLists {
		order = append(order, l.ID)
	}
	if fmt.Sprint(order) != fmt.Sprint([]int64{l2, l3, l1}) {
		t.Fatalf("unexpected order %v", order)
	}
	if len(watched.events) != 1 {
		t.Fatalf("expected one event, got %v", watched.types())
	}
	e := watched.events[0].(events.ListsReordered)
	if e.CardList != l1 || e.PlacedAfter != l3 {
		t.Fatalf("unexpected event: %+v", e)
	}

	ts.mustDo(t, http.StatusNotFound, http.MethodPost, fmt.Sprintf("/api/lists/%d/move", l1), `{"after":999}`)
}

func TestMoveCardRoutes(t *testing.T) {
	ts := newTestServer(t, time.Second)
	board := ts.createBoard(t, "b")
	from := ts.createList(t, board, "from")
	to := ts.createList(t, board, "to")
	c1 := ts.createCard(t, from, "c1")
	c2 := ts.createCard(t, from, "c2")
	watched := ts.watch(board)

	ts.mustDo(t, http.StatusBadRequest, http.MethodPost, fmt.Sprintf("/api/cards/%d/move", c1), fmt.Sprintf(`{"list":%d}`, from))
	if len(watched.events) != 0 {
		t.Fatalf("rejected move emitted %v", watched.types())
	}

	ts.mustDo(t, http.StatusNoContent, http.MethodPost, fmt.Sprintf("/api/cards/%d/move", c1), fmt.Sprintf(`{"after":%d}`, c2))
	ts.mustDo(t, http.StatusNoContent, http.MethodPost, fmt.Sprintf("/api/cards/%d/move", c2), fmt.Sprintf(`{"list":%d}`, to))
	if got := watched.types(); fmt.Sprint(got) != "[cardsReordered cardMoved]" {
		t.Fatalf("unexpected events %v", got)
	}

	moved := decodeAs[domain.CardView](t, ts.mustDo(t, http.StatusOK, http.MethodGet, fmt.Sprintf("/api/cards/%d", c2), ""))
	if moved.CardListID != to {
		t.Fatalf("expected card in list %d, got %d", to, moved.CardListID)
	}
}

func TestTagRemovalCascadesOverRest(t *testing.T) {
	ts := newTestServer(t, time.Second)
	board := ts.createBoard(t, "b")
	list := ts.createList(t, board, "l")
	c1 := ts.createCard(t, list, "c1")
	c2 := ts.createCard(t, list, "c2")
	tag := decodeAs[domain.TagView](t, ts.mustDo(t, http.StatusCreated, http.MethodPost,
		fmt.Sprintf("/api/boards/%d/tags", board), `{"name":"bug"}`)).ID

	ts.mustDo(t, http.StatusNoContent, http.MethodPut, fmt.Sprintf("/api/cards/%d/tags/%d", c1, tag), "")
	ts.mustDo(t, http.StatusNoContent, http.MethodPut, fmt.Sprintf("/api/cards/%d/tags/%d", c2, tag), "")
	ts.mustDo(t, http.StatusBadRequest, http.MethodPut, fmt.Sprintf("/api/cards/%d/tags/%d", c2, tag), "")

	watched := ts.watch(board)
	ts.mustDo(t, http.StatusNoContent, http.MethodDelete, fmt.Sprintf("/api/tags/%d", tag), "")
	if got := watched.types(); fmt.Sprint(got) != "[tagRemoved cardTagRemoved cardTagRemoved]" {
		t.Fatalf("unexpected events %v", got)
	}
	card := decodeAs[domain.CardView](t, ts.mustDo(t, http.StatusOK, http.MethodGet, fmt.Sprintf("/api/cards/%d", c1), ""))
	if len(card.Tags) != 0 {
		t.Fatalf("expected card tags cleared, got %v", card.Tags)
	}
}

func TestSubtaskAndPresetRoutes(t *testing.T) {
	ts := newTestServer(t, time.Second)
	board := ts.createBoard(t, "b")
	list := ts.createList(t, board, "l")
	card := ts.createCard(t, list, "c")

	st := decodeAs[domain.SubtaskView](t, ts.mustDo(t, http.StatusCreated, http.MethodPost,
		fmt.Sprintf("/api/cards/%d/subtasks", card), `{"name":"write tests"}`))
	done := decodeAs[domain.SubtaskView](t, ts.mustDo(t, http.StatusOK, http.MethodPatch,
		fmt.Sprintf("/api/subtasks/%d", st.ID), `{"completed":true}`))
	if !done.Completed || done.Name != "write tests" {
		t.Fatalf("unexpected subtask: %+v", done)
	}

	preset := decodeAs[domain.ColorPresetView](t, ts.mustDo(t, http.StatusCreated, http.MethodPost,
		fmt.Sprintf("/api/boards/%d/presets", board), `{"name":"warm"}`))
	ts.mustDo(t, http.StatusOK, http.MethodPatch, fmt.Sprintf("/api/cards/%d", card), fmt.Sprintf(`{"colorPreset":%d}`, preset.ID))
	ts.mustDo(t, http.StatusOK, http.MethodPatch, fmt.Sprintf("/api/boards/%d", board), fmt.Sprintf(`{"defaultColorPreset":%d}`, preset.ID))

	watched := ts.watch(board)
	ts.mustDo(t, http.StatusNoContent, http.MethodDelete, fmt.Sprintf("/api/presets/%d", preset.ID), "")
	if got := watched.types(); fmt.Sprint(got) != "[colorPresetRemoved defaultColorPresetSet cardColorPresetSet]" {
		t.Fatalf("unexpected events %v", got)
	}

	ts.mustDo(t, http.StatusNoContent, http.MethodDelete, fmt.Sprintf("/api/subtasks/%d", st.ID), "")
	got := decodeAs[domain.CardView](t, ts.mustDo(t, http.StatusOK, http.MethodGet, fmt.Sprintf("/api/cards/%d", card), ""))
	if len(got.Subtasks) != 0 || got.ColorPreset != 0 {
		t.Fatalf("unexpected card after removals: %+v", got)
	}
}

func TestErrorStatuses(t *testing.T) {
	ts := newTestServer(t, time.Second)
	board := ts.createBoard(t, "b")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "bad id", method: http.MethodGet, path: "/api/boards/abc", want: http.StatusBadRequest},
		{name: "missing board", method: http.MethodGet, path: "/api/boards/999", want: http.StatusNotFound},
		{name: "missing card", method: http.MethodPatch, path: "/api/cards/999", body: `{"title":"x"}`, want: http.StatusNotFound},
		{name: "unknown field", method: http.MethodPatch, path: fmt.Sprintf("/api/boards/%d", board), body: `{"nope":1}`, want: http.StatusBadRequest},
		{name: "bad color", method: http.MethodPatch, path: fmt.Sprintf("/api/boards/%d", board), body: `{"fontColor":{"red":300}}`, want: http.StatusBadRequest},
		{name: "create with id", method: http.MethodPost, path: "/api/boards", body: `{"id":5,"title":"x"}`, want: http.StatusBadRequest},
		{name: "bad json", method: http.MethodPost, path: "/api/boards", body: `{`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if resp := decodeAs[errorResponse](t, rec); resp.Error == "" {
				t.Fatalf("expected error message in body")
			}
		})
	}
}

func TestWriteLogsOneMetricsLine(t *testing.T) {
	ts := newTestServer(t, time.Second)
	board := ts.createBoard(t, "b")
	ts.watch(board)
	ts.hook.Reset()

	ts.mustDo(t, http.StatusOK, http.MethodPatch, fmt.Sprintf("/api/boards/%d", board), `{"title":"x"}`)

	var lines int
	for _, entry := range ts.hook.AllEntries() {
		if entry.Message != "board.request.metrics" {
			continue
		}
		lines++
		if entry.Data["route"] != "/api/boards/:board" {
			t.Fatalf("unexpected route: %v", entry.Data["route"])
		}
		if entry.Data["status"] != http.StatusOK {
			t.Fatalf("unexpected status: %v", entry.Data["status"])
		}
		if entry.Data["board"] != board {
			t.Fatalf("unexpected board: %v", entry.Data["board"])
		}
		if entry.Data["observers"] != 1 {
			t.Fatalf("unexpected observers: %v", entry.Data["observers"])
		}
	}
	if lines != 1 {
		t.Fatalf("expected one metrics line, got %d", lines)
	}

	ts.hook.Reset()
	ts.do(http.MethodPatch, "/api/boards/999", `{"title":"x"}`)
	entry := ts.hook.LastEntry()
	if entry == nil || entry.Data["error_stage"] != "not_found" || entry.Data["status"] != http.StatusNotFound {
		t.Fatalf("unexpected failure metrics: %+v", entry)
	}
}

func TestGzipRequestBody(t *testing.T) {
	ts := newTestServer(t, time.Second)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(`{"title":"zipped"}`)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/boards", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderContentEncoding, "gzip")
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeAs[domain.BoardView](t, rec); got.Title != "zipped" {
		t.Fatalf("unexpected title %q", got.Title)
	}

	for _, body := range []string{"not gzip", `{"title":"plain json sent as gzip"}`} {
		req = httptest.NewRequest(http.MethodPost, "/api/boards", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentEncoding, "gzip")
		rec = httptest.NewRecorder()
		ts.e.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid gzip %q, got %d", body, rec.Code)
		}
		if resp := decodeAs[errorResponse](t, rec); resp.Error != "invalid gzip body" {
			t.Fatalf("unexpected error body %q", resp.Error)
		}
	}
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	ts := newTestServer(t, time.Second)
	rec := ts.mustDo(t, http.StatusNotFound, http.MethodGet, "/api/nowhere", "")
	if resp := decodeAs[errorResponse](t, rec); resp.Error == "" {
		t.Fatalf("expected error message in body")
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, time.Second)
	ts.mustDo(t, http.StatusOK, http.MethodGet, "/healthz", "")
}

func TestCheckOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/board", nil)
	req.Header.Set("Origin", "https://evil.example")
	if checkOrigin([]string{"https://talio.example"})(req) {
		t.Fatalf("expected foreign origin rejected")
	}
	if !checkOrigin(nil)(req) {
		t.Fatalf("expected any origin allowed when unset")
	}
	req.Header.Set("Origin", "https://talio.example")
	if !checkOrigin([]string{"https://talio.example"})(req) {
		t.Fatalf("expected listed origin allowed")
	}
}
