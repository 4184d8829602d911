package domain

import (
	"slices"
	"time"

	"talio/internal/storage"
)

// Card is one task on a card list.
type Card struct {
	id       int64
	listID   int64
	title    string
	text     string
	category string
	dueDate  *time.Time
	tags     []int64
	preset   int64
	subtasks []*CardSubtask
}

func (c *Card) ID() int64                     { return c.id }
func (c *Card) CardListID() int64             { return c.listID }
func (c *Card) Title() string                 { return c.title }
func (c *Card) Text() string                  { return c.text }
func (c *Card) Category() string              { return c.category }
func (c *Card) DueDate() *time.Time           { return cloneTime(c.dueDate) }
func (c *Card) TagIDs() []int64               { return append([]int64(nil), c.tags...) }
func (c *Card) ColorPreset() int64            { return c.preset }
func (c *Card) Subtasks() []*CardSubtask      { return append([]*CardSubtask(nil), c.subtasks...) }
func (c *Card) hasTag(id int64) bool          { return slices.Contains(c.tags, id) }
func (c *Card) subtask(id int64) (*CardSubtask, bool) {
	if i := indexOf(c.subtasks, id); i >= 0 {
		return c.subtasks[i], true
	}
	return nil, false
}

type CardView struct {
	ID          int64         `json:"id"`
	CardListID  int64         `json:"cardListId"`
	Title       string        `json:"title"`
	Text        string        `json:"text"`
	Category    string        `json:"category"`
	DueDate     *time.Time    `json:"dueDate"`
	Tags        []int64       `json:"tags"`
	ColorPreset int64         `json:"colorPreset"`
	Subtasks    []SubtaskView `json:"subtasks"`
}

func (c *Card) Snapshot() CardView {
	v := CardView{
		ID:          c.id,
		CardListID:  c.listID,
		Title:       c.title,
		Text:        c.text,
		Category:    c.category,
		DueDate:     cloneTime(c.dueDate),
		Tags:        c.TagIDs(),
		ColorPreset: c.preset,
		Subtasks:    make([]SubtaskView, 0, len(c.subtasks)),
	}
	if v.Tags == nil {
		v.Tags = []int64{}
	}
	for _, st := range c.subtasks {
		v.Subtasks = append(v.Subtasks, st.Snapshot())
	}
	return v
}

type CardInput struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []int64    `json:"tags,omitempty"`
	ColorPreset int64      `json:"colorPreset"`
}

// CardPatcher mutates one card. Obtain it from Session.PatchCard.
type CardPatcher struct {
	s *Session
	c *Card
}

func (p *CardPatcher) Card() *Card { return p.c }

func (p *CardPatcher) SetTitle(title string) error {
	p.c.title = title
	if err := p.s.repo.saveCard(p.s.ctx, p.c); err != nil {
		return err
	}
	return notify(p.s, p.s.cards[p.c], func(o CardObserver) error { return o.TitleSet(p.c, title) })
}

func (p *CardPatcher) SetText(text string) error {
	p.c.text = text
	if err := p.s.repo.saveCard(p.s.ctx, p.c); err != nil {
		return err
	}
	return notify(p.s, p.s.cards[p.c], func(o CardObserver) error { return o.TextSet(p.c, text) })
}

func (p *CardPatcher) SetCategory(category string) error {
	p.c.category = category
	if err := p.s.repo.saveCard(p.s.ctx, p.c); err != nil {
		return err
	}
	return notify(p.s, p.s.cards[p.c], func(o CardObserver) error { return o.CategorySet(p.c, category) })
}

// SetDueDate sets or, with nil, clears the due date.
func (p *CardPatcher) SetDueDate(due *time.Time) error {
	p.c.dueDate = cloneTime(due)
	if err := p.s.repo.saveCard(p.s.ctx, p.c); err != nil {
		return err
	}
	return notify(p.s, p.s.cards[p.c], func(o CardObserver) error { return o.DueDateSet(p.c, cloneTime(due)) })
}

// AddTag attaches a board tag. Attaching a tag twice is rejected.
func (p *CardPatcher) AddTag(tagID int64) error {
	t, err := p.boardTag(tagID)
	if err != nil {
		return err
	}
	if p.c.hasTag(tagID) {
		return invalid("card %d already has tag %d", p.c.id, tagID)
	}
	p.c.tags = append(p.c.tags, tagID)
	if err := p.s.repo.saveCard(p.s.ctx, p.c); err != nil {
		return err
	}
	return notify(p.s, p.s.cards[p.c], func(o CardObserver) error { return o.TagAdded(p.c, t) })
}

func (p *CardPatcher) RemoveTag(tagID int64) error {
	t, err := p.boardTag(tagID)
	if err != nil {
		return err
	}
	if !p.c.hasTag(tagID) {
		return notFound("card tag", tagID)
	}
	return p.s.untagCard(p.c, t)
}

// SetColorPreset picks a board preset for the card; 0 clears it.
func (p *CardPatcher) SetColorPreset(id int64) error {
	if id != 0 {
		b := p.s.boardOf(p.s.listOf(p.c))
		if _, ok := b.ColorPreset(id); !ok {
			return notFound("color preset", id)
		}
	}
	return p.s.setCardPreset(p.c, id)
}

func (p *CardPatcher) AddSubtask(in SubtaskInput) (*CardSubtask, error) {
	if in.ID != 0 {
		return nil, invalid("subtask id must not be set on create")
	}
	id, err := p.s.repo.nextID(p.s.ctx, storage.KindSubtask)
	if err != nil {
		return nil, err
	}
	st := &CardSubtask{id: id, cardID: p.c.id, name: in.Name, completed: in.Completed}
	p.c.subtasks = append(p.c.subtasks, st)
	if err := p.s.repo.saveSubtask(p.s.ctx, st); err != nil {
		return nil, err
	}
	if err := p.s.repo.saveCard(p.s.ctx, p.c); err != nil {
		return nil, err
	}
	p.s.bindSubtask(p.c, st)
	return st, notify(p.s, p.s.cards[p.c], func(o CardObserver) error { return o.SubtaskAdded(p.c, st) })
}

func (p *CardPatcher) RemoveSubtask(id int64) error {
	st, ok := p.c.subtask(id)
	if !ok {
		return notFound("subtask", id)
	}
	p.c.subtasks = without(p.c.subtasks, st)
	if err := p.s.repo.saveCard(p.s.ctx, p.c); err != nil {
		return err
	}
	if err := notify(p.s, p.s.cards[p.c], func(o CardObserver) error { return o.SubtaskRemoved(p.c, st) }); err != nil {
		return err
	}
	return p.s.repo.deleteRecord(p.s.ctx, storage.KindSubtask, id)
}

func (p *CardPatcher) MoveSubtask(id, after int64) error {
	st, ok := p.c.subtask(id)
	if !ok {
		return notFound("subtask", id)
	}
	if err := checkHook(p.c.subtasks, id, after, "subtask"); err != nil {
		return err
	}
	p.c.subtasks = placeAfter(p.c.subtasks, st, after)
	if err := p.s.repo.saveCard(p.s.ctx, p.c); err != nil {
		return err
	}
	return notify(p.s, p.s.cards[p.c], func(o CardObserver) error { return o.SubtasksReordered(p.c, st, after) })
}

func (p *CardPatcher) boardTag(id int64) (*Tag, error) {
	b := p.s.boardOf(p.s.listOf(p.c))
	t, ok := b.Tag(id)
	if !ok {
		return nil, notFound("tag", id)
	}
	return t, nil
}

func (s *Session) untagCard(c *Card, t *Tag) error {
	c.tags = slices.DeleteFunc(slices.Clone(c.tags), func(id int64) bool { return id == t.id })
	if err := s.repo.saveCard(s.ctx, c); err != nil {
		return err
	}
	return notify(s, s.cards[c], func(o CardObserver) error { return o.TagRemoved(c, t) })
}

func (s *Session) setCardPreset(c *Card, id int64) error {
	c.preset = id
	if err := s.repo.saveCard(s.ctx, c); err != nil {
		return err
	}
	return notify(s, s.cards[c], func(o CardObserver) error { return o.ColorPresetSet(c, id) })
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
