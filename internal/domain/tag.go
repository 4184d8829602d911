package domain

// Tag is a board-owned label that cards reference by id.
type Tag struct {
	id              int64
	boardID         int64
	name            string
	fontColor       Color
	backgroundColor Color
}

func (t *Tag) ID() int64              { return t.id }
func (t *Tag) BoardID() int64         { return t.boardID }
func (t *Tag) Name() string           { return t.name }
func (t *Tag) FontColor() Color       { return t.fontColor }
func (t *Tag) BackgroundColor() Color { return t.backgroundColor }

type TagView struct {
	ID              int64  `json:"id"`
	BoardID         int64  `json:"boardId"`
	Name            string `json:"name"`
	FontColor       Color  `json:"fontColor"`
	BackgroundColor Color  `json:"backgroundColor"`
}

func (t *Tag) Snapshot() TagView {
	return TagView{ID: t.id, BoardID: t.boardID, Name: t.name, FontColor: t.fontColor, BackgroundColor: t.backgroundColor}
}

type TagInput struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	FontColor       *Color `json:"fontColor,omitempty"`
	BackgroundColor *Color `json:"backgroundColor,omitempty"`
}

type TagPatcher struct {
	s *Session
	t *Tag
}

func (p *TagPatcher) Tag() *Tag { return p.t }

func (p *TagPatcher) SetName(name string) error {
	p.t.name = name
	if err := p.s.repo.saveTag(p.s.ctx, p.t); err != nil {
		return err
	}
	return notify(p.s, p.s.tags[p.t], func(o TagObserver) error { return o.NameSet(p.t, name) })
}

func (p *TagPatcher) SetFontColor(c Color) error {
	if err := checkColor(c); err != nil {
		return err
	}
	p.t.fontColor = c
	if err := p.s.repo.saveTag(p.s.ctx, p.t); err != nil {
		return err
	}
	return notify(p.s, p.s.tags[p.t], func(o TagObserver) error { return o.FontColorSet(p.t, c) })
}

func (p *TagPatcher) SetBackgroundColor(c Color) error {
	if err := checkColor(c); err != nil {
		return err
	}
	p.t.backgroundColor = c
	if err := p.s.repo.saveTag(p.s.ctx, p.t); err != nil {
		return err
	}
	return notify(p.s, p.s.tags[p.t], func(o TagObserver) error { return o.BackgroundColorSet(p.t, c) })
}
