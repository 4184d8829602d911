package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"talio/internal/domain"
)

type cardListPatch struct {
	Title           *string       `json:"title"`
	FontColor       *domain.Color `json:"fontColor"`
	BackgroundColor *domain.Color `json:"backgroundColor"`
}

// moveRequest places an entity after a sibling; After 0 moves it to the front.
type moveRequest struct {
	After int64 `json:"after"`
}

// loadCardList resolves the :list parameter within s.
func loadCardList(c echo.Context, s *domain.Session, m *boardRequestMetrics) (*domain.CardList, error) {
	id, err := pathID(c, "list")
	if err != nil {
		return nil, err
	}
	l, err := s.CardList(id)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.SetBoard(l.BoardID())
	}
	return l, nil
}

func (h *handlers) getCardList(c echo.Context) error {
	return h.read(c, func(s *domain.Session) (any, error) {
		l, err := loadCardList(c, s, nil)
		if err != nil {
			return nil, err
		}
		return l.Snapshot(), nil
	})
}

func (h *handlers) patchCardList(c echo.Context) error {
	return h.write(c, "/api/lists/:list", http.StatusOK, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in cardListPatch
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		l, err := loadCardList(c, s, m)
		if err != nil {
			return nil, err
		}
		err = s.PatchCardList(l, func(p *domain.CardListPatcher) error {
			if in.Title != nil {
				if err := p.SetTitle(*in.Title); err != nil {
					return err
				}
			}
			if in.FontColor != nil {
				if err := p.SetFontColor(*in.FontColor); err != nil {
					return err
				}
			}
			if in.BackgroundColor != nil {
				return p.SetBackgroundColor(*in.BackgroundColor)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return l.Snapshot(), nil
	})
}

func (h *handlers) deleteCardList(c echo.Context) error {
	return h.write(c, "/api/lists/:list", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		l, err := loadCardList(c, s, m)
		if err != nil {
			return nil, err
		}
		b, err := s.Board(l.BoardID())
		if err != nil {
			return nil, err
		}
		return nil, s.PatchBoard(b, func(p *domain.BoardPatcher) error { return p.RemoveCardList(l.ID()) })
	})
}

func (h *handlers) moveCardList(c echo.Context) error {
	return h.write(c, "/api/lists/:list/move", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in moveRequest
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		l, err := loadCardList(c, s, m)
		if err != nil {
			return nil, err
		}
		b, err := s.Board(l.BoardID())
		if err != nil {
			return nil, err
		}
		return nil, s.PatchBoard(b, func(p *domain.BoardPatcher) error { return p.MoveCardList(l.ID(), in.After) })
	})
}

func (h *handlers) createCard(c echo.Context) error {
	return h.write(c, "/api/lists/:list/cards", http.StatusCreated, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in domain.CardInput
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		l, err := loadCardList(c, s, m)
		if err != nil {
			return nil, err
		}
		var out domain.CardView
		err = s.PatchCardList(l, func(p *domain.CardListPatcher) error {
			card, err := p.AddCard(in)
			if err == nil {
				out = card.Snapshot()
			}
			return err
		})
		return out, err
	})
}
