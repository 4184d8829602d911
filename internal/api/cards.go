package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"talio/internal/domain"
)

// cardPatch fields are applied in declaration order. ColorPreset 0 clears
// the card's preset.
type cardPatch struct {
	Title        *string    `json:"title"`
	Text         *string    `json:"text"`
	Category     *string    `json:"category"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
	ColorPreset  *int64     `json:"colorPreset"`
}

// cardMove moves a card after After. List 0 reorders within the current list.
type cardMove struct {
	List  int64 `json:"list"`
	After int64 `json:"after"`
}

func loadCard(c echo.Context, s *domain.Session, m *boardRequestMetrics) (*domain.Card, error) {
	id, err := pathID(c, "card")
	if err != nil {
		return nil, err
	}
	card, err := s.Card(id)
	if err != nil {
		return nil, err
	}
	if m != nil {
		l, err := s.CardList(card.CardListID())
		if err != nil {
			return nil, err
		}
		m.SetBoard(l.BoardID())
	}
	return card, nil
}

func (h *handlers) getCard(c echo.Context) error {
	return h.read(c, func(s *domain.Session) (any, error) {
		card, err := loadCard(c, s, nil)
		if err != nil {
			return nil, err
		}
		return card.Snapshot(), nil
	})
}

func (h *handlers) patchCard(c echo.Context) error {
	return h.write(c, "/api/cards/:card", http.StatusOK, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in cardPatch
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		if in.ClearDueDate && in.DueDate != nil {
			return nil, badRequest(errConflictingDueDate)
		}
		card, err := loadCard(c, s, m)
		if err != nil {
			return nil, err
		}
		err = s.PatchCard(card, func(p *domain.CardPatcher) error {
			if in.Title != nil {
				if err := p.SetTitle(*in.Title); err != nil {
					return err
				}
			}
			if in.Text != nil {
				if err := p.SetText(*in.Text); err != nil {
					return err
				}
			}
			if in.Category != nil {
				if err := p.SetCategory(*in.Category); err != nil {
					return err
				}
			}
			if in.DueDate != nil || in.ClearDueDate {
				if err := p.SetDueDate(in.DueDate); err != nil {
					return err
				}
			}
			if in.ColorPreset != nil {
				return p.SetColorPreset(*in.ColorPreset)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return card.Snapshot(), nil
	})
}

func (h *handlers) deleteCard(c echo.Context) error {
	return h.write(c, "/api/cards/:card", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		card, err := loadCard(c, s, m)
		if err != nil {
			return nil, err
		}
		l, err := s.CardList(card.CardListID())
		if err != nil {
			return nil, err
		}
		return nil, s.PatchCardList(l, func(p *domain.CardListPatcher) error { return p.RemoveCard(card.ID()) })
	})
}

func (h *handlers) moveCard(c echo.Context) error {
	return h.write(c, "/api/cards/:card/move", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in cardMove
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		card, err := loadCard(c, s, m)
		if err != nil {
			return nil, err
		}
		l, err := s.CardList(card.CardListID())
		if err != nil {
			return nil, err
		}
		if in.List == 0 {
			return nil, s.PatchCardList(l, func(p *domain.CardListPatcher) error { return p.MoveCard(card.ID(), in.After) })
		}
		b, err := s.Board(l.BoardID())
		if err != nil {
			return nil, err
		}
		return nil, s.PatchBoard(b, func(p *domain.BoardPatcher) error { return p.MoveCard(card.ID(), in.List, in.After) })
	})
}

func (h *handlers) tagCard(c echo.Context) error {
	return h.write(c, "/api/cards/:card/tags/:tag", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		return nil, h.onCardTag(c, s, m, (*domain.CardPatcher).AddTag)
	})
}

func (h *handlers) untagCard(c echo.Context) error {
	return h.write(c, "/api/cards/:card/tags/:tag", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		return nil, h.onCardTag(c, s, m, (*domain.CardPatcher).RemoveTag)
	})
}

func (h *handlers) onCardTag(c echo.Context, s *domain.Session, m *boardRequestMetrics, op func(*domain.CardPatcher, int64) error) error {
	tagID, err := pathID(c, "tag")
	if err != nil {
		return err
	}
	card, err := loadCard(c, s, m)
	if err != nil {
		return err
	}
	return s.PatchCard(card, func(p *domain.CardPatcher) error { return op(p, tagID) })
}

func (h *handlers) createSubtask(c echo.Context) error {
	return h.write(c, "/api/cards/:card/subtasks", http.StatusCreated, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in domain.SubtaskInput
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		card, err := loadCard(c, s, m)
		if err != nil {
			return nil, err
		}
		var out domain.SubtaskView
		err = s.PatchCard(card, func(p *domain.CardPatcher) error {
			st, err := p.AddSubtask(in)
			if err == nil {
				out = st.Snapshot()
			}
			return err
		})
		return out, err
	})
}
