package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"talio/internal/events"
	"talio/internal/stream"
)

// socket upgrades to a websocket and serves it until the client leaves.
func (h *handlers) socket(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already answered the client.
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return nil
	}
	defer conn.Close()

	s := stream.NewSocket(conn, h.broker, h.logger)
	entry := h.logger.WithField("socket", s.ID())
	entry.Debug("socket connected")
	if err := s.Serve(c.Request().Context()); err != nil {
		entry.WithError(err).Warn("socket closed with error")
		return nil
	}
	entry.Debug("socket disconnected")
	return nil
}

// updates answers one long-poll: the next event on any board, or 304.
func (h *handlers) updates(c echo.Context) error {
	e, ok := h.poller.Wait(c.Request().Context())
	if !ok {
		return c.NoContent(http.StatusNotModified)
	}
	data, err := events.Marshal(e)
	if err != nil {
		h.logger.WithError(err).WithField("type", e.Type()).Error("encode long-poll event")
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}
