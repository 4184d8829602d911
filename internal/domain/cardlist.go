package domain

import (
	"slices"

	"talio/internal/storage"
)

// CardList is an ordered column of cards on a board.
type CardList struct {
	id              int64
	boardID         int64
	title           string
	fontColor       Color
	backgroundColor Color
	cards           []*Card
}

func (l *CardList) ID() int64              { return l.id }
func (l *CardList) BoardID() int64         { return l.boardID }
func (l *CardList) Title() string          { return l.title }
func (l *CardList) FontColor() Color       { return l.fontColor }
func (l *CardList) BackgroundColor() Color { return l.backgroundColor }
func (l *CardList) Cards() []*Card         { return append([]*Card(nil), l.cards...) }

func (l *CardList) Card(id int64) (*Card, bool) {
	if i := indexOf(l.cards, id); i >= 0 {
		return l.cards[i], true
	}
	return nil, false
}

type CardListView struct {
	ID              int64      `json:"id"`
	BoardID         int64      `json:"boardId"`
	Title           string     `json:"title"`
	FontColor       Color      `json:"fontColor"`
	BackgroundColor Color      `json:"backgroundColor"`
	Cards           []CardView `json:"cards"`
}

func (l *CardList) Snapshot() CardListView {
	v := CardListView{
		ID:              l.id,
		BoardID:         l.boardID,
		Title:           l.title,
		FontColor:       l.fontColor,
		BackgroundColor: l.backgroundColor,
		Cards:           make([]CardView, 0, len(l.cards)),
	}
	for _, c := range l.cards {
		v.Cards = append(v.Cards, c.Snapshot())
	}
	return v
}

type CardListInput struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	FontColor       *Color `json:"fontColor,omitempty"`
	BackgroundColor *Color `json:"backgroundColor,omitempty"`
}

// CardListPatcher mutates one card list. Obtain it from Session.PatchCardList.
type CardListPatcher struct {
	s *Session
	l *CardList
}

func (p *CardListPatcher) CardList() *CardList { return p.l }

func (p *CardListPatcher) SetTitle(title string) error {
	p.l.title = title
	if err := p.s.repo.saveCardList(p.s.ctx, p.l); err != nil {
		return err
	}
	return notify(p.s, p.s.lists[p.l], func(o CardListObserver) error { return o.TitleSet(p.l, title) })
}

func (p *CardListPatcher) SetFontColor(c Color) error {
	if err := checkColor(c); err != nil {
		return err
	}
	p.l.fontColor = c
	if err := p.s.repo.saveCardList(p.s.ctx, p.l); err != nil {
		return err
	}
	return notify(p.s, p.s.lists[p.l], func(o CardListObserver) error { return o.FontColorSet(p.l, c) })
}

func (p *CardListPatcher) SetBackgroundColor(c Color) error {
	if err := checkColor(c); err != nil {
		return err
	}
	p.l.backgroundColor = c
	if err := p.s.repo.saveCardList(p.s.ctx, p.l); err != nil {
		return err
	}
	return notify(p.s, p.s.lists[p.l], func(o CardListObserver) error { return o.BackgroundColorSet(p.l, c) })
}

// AddCard appends a new card. Tags and the color preset must belong to the
// list's board.
func (p *CardListPatcher) AddCard(in CardInput) (*Card, error) {
	if in.ID != 0 {
		return nil, invalid("card id must not be set on create")
	}
	b := p.s.boardOf(p.l)
	tags := make([]int64, 0, len(in.Tags))
	for _, tagID := range in.Tags {
		if _, ok := b.Tag(tagID); !ok {
			return nil, notFound("tag", tagID)
		}
		if !slices.Contains(tags, tagID) {
			tags = append(tags, tagID)
		}
	}
	if in.ColorPreset != 0 {
		if _, ok := b.ColorPreset(in.ColorPreset); !ok {
			return nil, notFound("color preset", in.ColorPreset)
		}
	}
	id, err := p.s.repo.nextID(p.s.ctx, storage.KindCard)
	if err != nil {
		return nil, err
	}
	c := &Card{
		id:       id,
		listID:   p.l.id,
		title:    in.Title,
		text:     in.Text,
		category: in.Category,
		dueDate:  cloneTime(in.DueDate),
		tags:     tags,
		preset:   in.ColorPreset,
	}
	p.l.cards = append(p.l.cards, c)
	if err := p.s.repo.saveCard(p.s.ctx, c); err != nil {
		return nil, err
	}
	if err := p.s.repo.saveCardList(p.s.ctx, p.l); err != nil {
		return nil, err
	}
	p.s.bindCard(p.l, c)
	return c, notify(p.s, p.s.lists[p.l], func(o CardListObserver) error { return o.CardAdded(p.l, c) })
}

// RemoveCard removes a card with its subtasks.
func (p *CardListPatcher) RemoveCard(id int64) error {
	c, ok := p.l.Card(id)
	if !ok {
		return notFound("card", id)
	}
	p.l.cards = without(p.l.cards, c)
	if err := p.s.repo.saveCardList(p.s.ctx, p.l); err != nil {
		return err
	}
	if err := notify(p.s, p.s.lists[p.l], func(o CardListObserver) error { return o.CardRemoved(p.l, c) }); err != nil {
		return err
	}
	return p.s.repo.deleteCard(p.s.ctx, c)
}

// MoveCard reorders a card within this list.
func (p *CardListPatcher) MoveCard(id, after int64) error {
	c, ok := p.l.Card(id)
	if !ok {
		return notFound("card", id)
	}
	if err := checkHook(p.l.cards, id, after, "card"); err != nil {
		return err
	}
	p.l.cards = placeAfter(p.l.cards, c, after)
	if err := p.s.repo.saveCardList(p.s.ctx, p.l); err != nil {
		return err
	}
	return notify(p.s, p.s.lists[p.l], func(o CardListObserver) error { return o.CardsReordered(p.l, c, after) })
}
