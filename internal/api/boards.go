package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"talio/internal/domain"
)

type boardPatch struct {
	Title              *string       `json:"title"`
	FontColor          *domain.Color `json:"fontColor"`
	BackgroundColor    *domain.Color `json:"backgroundColor"`
	DefaultColorPreset *int64        `json:"defaultColorPreset"`
}

func (h *handlers) listBoards(c echo.Context) error {
	return h.read(c, func(s *domain.Session) (any, error) {
		cat, err := s.Catalog()
		if err != nil {
			return nil, err
		}
		out := make([]domain.BoardView, 0, len(cat.BoardIDs()))
		for _, id := range cat.BoardIDs() {
			b, err := s.Board(id)
			if err != nil {
				return nil, err
			}
			out = append(out, b.Snapshot())
		}
		return out, nil
	})
}

func (h *handlers) getBoard(c echo.Context) error {
	return h.read(c, func(s *domain.Session) (any, error) {
		id, err := pathID(c, "board")
		if err != nil {
			return nil, err
		}
		b, err := s.Board(id)
		if err != nil {
			return nil, err
		}
		return b.Snapshot(), nil
	})
}

func (h *handlers) createBoard(c echo.Context) error {
	return h.write(c, "/api/boards", http.StatusCreated, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in domain.BoardInput
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		cat, err := s.Catalog()
		if err != nil {
			return nil, err
		}
		var out domain.BoardView
		err = s.PatchCatalog(cat, func(p *domain.CatalogPatcher) error {
			b, err := p.AddBoard(in)
			if err != nil {
				return err
			}
			m.SetBoard(b.ID())
			out = b.Snapshot()
			return nil
		})
		return out, err
	})
}

func (h *handlers) patchBoard(c echo.Context) error {
	return h.write(c, "/api/boards/:board", http.StatusOK, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		id, err := pathID(c, "board")
		if err != nil {
			return nil, err
		}
		m.SetBoard(id)
		var in boardPatch
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		b, err := s.Board(id)
		if err != nil {
			return nil, err
		}
		err = s.PatchBoard(b, func(p *domain.BoardPatcher) error {
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
				if err := p.SetBackgroundColor(*in.BackgroundColor); err != nil {
					return err
				}
			}
			if in.DefaultColorPreset != nil {
				return p.SetDefaultColorPreset(*in.DefaultColorPreset)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return b.Snapshot(), nil
	})
}

func (h *handlers) deleteBoard(c echo.Context) error {
	return h.write(c, "/api/boards/:board", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		id, err := pathID(c, "board")
		if err != nil {
			return nil, err
		}
		m.SetBoard(id)
		cat, err := s.Catalog()
		if err != nil {
			return nil, err
		}
		return nil, s.PatchCatalog(cat, func(p *domain.CatalogPatcher) error { return p.RemoveBoard(id) })
	})
}

// onBoard loads the board named by the :board parameter and patches it.
func (h *handlers) onBoard(c echo.Context, s *domain.Session, m *boardRequestMetrics, fn func(*domain.BoardPatcher) error) error {
	id, err := pathID(c, "board")
	if err != nil {
		return err
	}
	m.SetBoard(id)
	b, err := s.Board(id)
	if err != nil {
		return err
	}
	return s.PatchBoard(b, fn)
}

func (h *handlers) createCardList(c echo.Context) error {
	return h.write(c, "/api/boards/:board/lists", http.StatusCreated, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in domain.CardListInput
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		var out domain.CardListView
		err := h.onBoard(c, s, m, func(p *domain.BoardPatcher) error {
			l, err := p.AddCardList(in)
			if err == nil {
				out = l.Snapshot()
			}
			return err
		})
		return out, err
	})
}

func (h *handlers) createTag(c echo.Context) error {
	return h.write(c, "/api/boards/:board/tags", http.StatusCreated, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in domain.TagInput
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		var out domain.TagView
		err := h.onBoard(c, s, m, func(p *domain.BoardPatcher) error {
			t, err := p.AddTag(in)
			if err == nil {
				out = t.Snapshot()
			}
			return err
		})
		return out, err
	})
}

func (h *handlers) createColorPreset(c echo.Context) error {
	return h.write(c, "/api/boards/:board/presets", http.StatusCreated, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in domain.ColorPresetInput
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		var out domain.ColorPresetView
		err := h.onBoard(c, s, m, func(p *domain.BoardPatcher) error {
			cp, err := p.AddColorPreset(in)
			if err == nil {
				out = cp.Snapshot()
			}
			return err
		})
		return out, err
	})
}
