package api

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"talio/internal/domain"
)

var errConflictingDueDate = errors.New("dueDate and clearDueDate are mutually exclusive")

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	return c.JSON(status, errorResponse{Error: msg})
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(fmt.Errorf("invalid %s id %q", name, c.Param(name)))
	}
	return id, nil
}

// handleError answers errors that escape the handlers: unknown routes,
// recovered panics and bodies the decompress middleware cannot inflate.
func (h *handlers) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		err = c.JSON(he.Code, errorResponse{Error: msg})
	case isGzipError(err):
		err = c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid gzip body"})
	default:
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.WithError(err).WithField("route", c.Path()).Error("request failed")
		}
		err = writeError(c, err)
	}
	if err != nil {
		h.logger.WithError(err).Warn("write error response")
	}
}

func isGzipError(err error) bool {
	return errors.Is(err, gzip.ErrHeader) || errors.Is(err, gzip.ErrChecksum) || errors.Is(err, io.ErrUnexpectedEOF)
}
