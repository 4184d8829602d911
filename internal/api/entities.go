package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"talio/internal/domain"
)

type subtaskPatch struct {
	Name      *string `json:"name"`
	Completed *bool   `json:"completed"`
}

type tagPatch struct {
	Name            *string       `json:"name"`
	FontColor       *domain.Color `json:"fontColor"`
	BackgroundColor *domain.Color `json:"backgroundColor"`
}

type colorPresetPatch struct {
	Name       *string       `json:"name"`
	Foreground *domain.Color `json:"foreground"`
	Background *domain.Color `json:"background"`
}

// loadSubtask resolves the :subtask parameter along with its card.
func loadSubtask(c echo.Context, s *domain.Session, m *boardRequestMetrics) (*domain.CardSubtask, *domain.Card, error) {
	id, err := pathID(c, "subtask")
	if err != nil {
		return nil, nil, err
	}
	st, err := s.Subtask(id)
	if err != nil {
		return nil, nil, err
	}
	card, err := s.Card(st.CardID())
	if err != nil {
		return nil, nil, err
	}
	l, err := s.CardList(card.CardListID())
	if err != nil {
		return nil, nil, err
	}
	m.SetBoard(l.BoardID())
	return st, card, nil
}

func (h *handlers) patchSubtask(c echo.Context) error {
	return h.write(c, "/api/subtasks/:subtask", http.StatusOK, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in subtaskPatch
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		st, _, err := loadSubtask(c, s, m)
		if err != nil {
			return nil, err
		}
		err = s.PatchSubtask(st, func(p *domain.SubtaskPatcher) error {
			if in.Name != nil {
				if err := p.SetName(*in.Name); err != nil {
					return err
				}
			}
			if in.Completed != nil {
				return p.SetCompleted(*in.Completed)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return st.Snapshot(), nil
	})
}

func (h *handlers) deleteSubtask(c echo.Context) error {
	return h.write(c, "/api/subtasks/:subtask", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		st, card, err := loadSubtask(c, s, m)
		if err != nil {
			return nil, err
		}
		return nil, s.PatchCard(card, func(p *domain.CardPatcher) error { return p.RemoveSubtask(st.ID()) })
	})
}

func (h *handlers) moveSubtask(c echo.Context) error {
	return h.write(c, "/api/subtasks/:subtask/move", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in moveRequest
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		st, card, err := loadSubtask(c, s, m)
		if err != nil {
			return nil, err
		}
		return nil, s.PatchCard(card, func(p *domain.CardPatcher) error { return p.MoveSubtask(st.ID(), in.After) })
	})
}

func loadTag(c echo.Context, s *domain.Session, m *boardRequestMetrics) (*domain.Tag, error) {
	id, err := pathID(c, "tag")
	if err != nil {
		return nil, err
	}
	t, err := s.Tag(id)
	if err != nil {
		return nil, err
	}
	m.SetBoard(t.BoardID())
	return t, nil
}

func (h *handlers) patchTag(c echo.Context) error {
	return h.write(c, "/api/tags/:tag", http.StatusOK, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in tagPatch
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		t, err := loadTag(c, s, m)
		if err != nil {
			return nil, err
		}
		err = s.PatchTag(t, func(p *domain.TagPatcher) error {
			if in.Name != nil {
				if err := p.SetName(*in.Name); err != nil {
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
		return t.Snapshot(), nil
	})
}

func (h *handlers) deleteTag(c echo.Context) error {
	return h.write(c, "/api/tags/:tag", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		t, err := loadTag(c, s, m)
		if err != nil {
			return nil, err
		}
		b, err := s.Board(t.BoardID())
		if err != nil {
			return nil, err
		}
		return nil, s.PatchBoard(b, func(p *domain.BoardPatcher) error { return p.RemoveTag(t.ID()) })
	})
}

func loadColorPreset(c echo.Context, s *domain.Session, m *boardRequestMetrics) (*domain.ColorPreset, error) {
	id, err := pathID(c, "preset")
	if err != nil {
		return nil, err
	}
	cp, err := s.ColorPreset(id)
	if err != nil {
		return nil, err
	}
	m.SetBoard(cp.BoardID())
	return cp, nil
}

func (h *handlers) patchColorPreset(c echo.Context) error {
	return h.write(c, "/api/presets/:preset", http.StatusOK, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		var in colorPresetPatch
		if err := decodeBody(c, &in); err != nil {
			return nil, err
		}
		cp, err := loadColorPreset(c, s, m)
		if err != nil {
			return nil, err
		}
		err = s.PatchColorPreset(cp, func(p *domain.ColorPresetPatcher) error {
			if in.Name != nil {
				if err := p.SetName(*in.Name); err != nil {
					return err
				}
			}
			if in.Foreground != nil {
				if err := p.SetForeground(*in.Foreground); err != nil {
					return err
				}
			}
			if in.Background != nil {
				return p.SetBackground(*in.Background)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return cp.Snapshot(), nil
	})
}

func (h *handlers) deleteColorPreset(c echo.Context) error {
	return h.write(c, "/api/presets/:preset", http.StatusNoContent, func(s *domain.Session, m *boardRequestMetrics) (any, error) {
		cp, err := loadColorPreset(c, s, m)
		if err != nil {
			return nil, err
		}
		b, err := s.Board(cp.BoardID())
		if err != nil {
			return nil, err
		}
		return nil, s.PatchBoard(b, func(p *domain.BoardPatcher) error { return p.RemoveColorPreset(cp.ID()) })
	})
}
