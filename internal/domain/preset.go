package domain

// ColorPreset is a named foreground/background pair owned by a board.
type ColorPreset struct {
	id         int64
	boardID    int64
	name       string
	foreground Color
	background Color
}

func (p *ColorPreset) ID() int64         { return p.id }
func (p *ColorPreset) BoardID() int64    { return p.boardID }
func (p *ColorPreset) Name() string      { return p.name }
func (p *ColorPreset) Foreground() Color { return p.foreground }
func (p *ColorPreset) Background() Color { return p.background }

type ColorPresetView struct {
	ID         int64  `json:"id"`
	BoardID    int64  `json:"boardId"`
	Name       string `json:"name"`
	Foreground Color  `json:"foreground"`
	Background Color  `json:"background"`
}

func (p *ColorPreset) Snapshot() ColorPresetView {
	return ColorPresetView{ID: p.id, BoardID: p.boardID, Name: p.name, Foreground: p.foreground, Background: p.background}
}

type ColorPresetInput struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Foreground *Color `json:"foreground,omitempty"`
	Background *Color `json:"background,omitempty"`
}

type ColorPresetPatcher struct {
	s *Session
	p *ColorPreset
}

func (p *ColorPresetPatcher) ColorPreset() *ColorPreset { return p.p }

func (p *ColorPresetPatcher) SetName(name string) error {
	p.p.name = name
	if err := p.s.repo.saveColorPreset(p.s.ctx, p.p); err != nil {
		return err
	}
	return notify(p.s, p.s.presets[p.p], func(o ColorPresetObserver) error { return o.NameSet(p.p, name) })
}

func (p *ColorPresetPatcher) SetForeground(c Color) error {
	if err := checkColor(c); err != nil {
		return err
	}
	p.p.foreground = c
	if err := p.s.repo.saveColorPreset(p.s.ctx, p.p); err != nil {
		return err
	}
	return notify(p.s, p.s.presets[p.p], func(o ColorPresetObserver) error { return o.ForegroundSet(p.p, c) })
}

func (p *ColorPresetPatcher) SetBackground(c Color) error {
	if err := checkColor(c); err != nil {
		return err
	}
	p.p.background = c
	if err := p.s.repo.saveColorPreset(p.s.ctx, p.p); err != nil {
		return err
	}
	return notify(p.s, p.s.presets[p.p], func(o ColorPresetObserver) error { return o.BackgroundSet(p.p, c) })
}
