package api

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"talio/internal/broker"
	"talio/internal/domain"
	"talio/internal/stream"
)

// Options configure the HTTP surface.
type Options struct {
	// AllowedOrigins limits websocket upgrades; "*" or empty allows any.
	AllowedOrigins []string
}

type handlers struct {
	svc      *domain.Service
	broker   *broker.Broker
	poller   *stream.Poller
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// Register wires up all routes on the provided Echo instance.
func Register(e *echo.Echo, svc *domain.Service, b *broker.Broker, p *stream.Poller, logger *log.Logger, opts Options) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	h := &handlers{svc: svc, broker: b, poller: p, logger: logger}
	h.upgrader = websocket.Upgrader{CheckOrigin: checkOrigin(opts.AllowedOrigins)}
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = h.handleError

	e.GET("/healthz", healthz)
	e.GET("/board", h.socket)
	e.GET("/updates", h.updates)

	g := e.Group("/api")
	g.GET("/boards", h.listBoards)
	g.POST("/boards", h.createBoard)
	g.GET("/boards/:board", h.getBoard)
	g.PATCH("/boards/:board", h.patchBoard)
	g.DELETE("/boards/:board", h.deleteBoard)
	g.POST("/boards/:board/lists", h.createCardList)
	g.POST("/boards/:board/tags", h.createTag)
	g.POST("/boards/:board/presets", h.createColorPreset)

	g.GET("/lists/:list", h.getCardList)
	g.PATCH("/lists/:list", h.patchCardList)
	g.DELETE("/lists/:list", h.deleteCardList)
	g.POST("/lists/:list/move", h.moveCardList)
	g.POST("/lists/:list/cards", h.createCard)

	g.GET("/cards/:card", h.getCard)
	g.PATCH("/cards/:card", h.patchCard)
	g.DELETE("/cards/:card", h.deleteCard)
	g.POST("/cards/:card/move", h.moveCard)
	g.PUT("/cards/:card/tags/:tag", h.tagCard)
	g.DELETE("/cards/:card/tags/:tag", h.untagCard)
	g.POST("/cards/:card/subtasks", h.createSubtask)

	g.PATCH("/subtasks/:subtask", h.patchSubtask)
	g.DELETE("/subtasks/:subtask", h.deleteSubtask)
	g.POST("/subtasks/:subtask/move", h.moveSubtask)

	g.PATCH("/tags/:tag", h.patchTag)
	g.DELETE("/tags/:tag", h.deleteTag)

	g.PATCH("/presets/:preset", h.patchColorPreset)
	g.DELETE("/presets/:preset", h.deleteColorPreset)
}

func healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func checkOrigin(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// patchFunc runs inside one observed session; a nil result means no body.
type patchFunc func(s *domain.Session, m *boardRequestMetrics) (any, error)

// write runs fn in an observed session and answers with status and its
// result, logging one metrics line for the request.
func (h *handlers) write(c echo.Context, route string, status int, fn patchFunc) error {
	m, ctx := newBoardRequestMetrics(c.Request().Context(), h.logger, route)
	c.SetRequest(c.Request().WithContext(ctx))

	var out any
	stats, err := h.svc.Update(ctx, route, func(s *domain.Session) error {
		var err error
		out, err = fn(s, m)
		return err
	})
	m.ObserveStats(stats)
	if err != nil {
		m.SetErrorStage(stageFor(err))
		werr := writeError(c, err)
		m.Log(c.Response().Status, err)
		return werr
	}
	var werr error
	if out == nil {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, out)
	}
	if werr != nil {
		m.SetErrorStage("encode_response")
	}
	m.Log(c.Response().Status, werr)
	return werr
}

// read runs fn in an unobserved session.
func (h *handlers) read(c echo.Context, fn func(s *domain.Session) (any, error)) error {
	var out any
	_, err := h.svc.View(c.Request().Context(), c.Path(), func(s *domain.Session) error {
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.WithError(err).WithField("route", c.Path()).Error("read failed")
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func stageFor(err error) string {
	switch statusFor(err) {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	default:
		return "patch"
	}
}
