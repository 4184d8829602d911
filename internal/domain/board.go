package domain

import "talio/internal/storage"

// Board is the root of one board tree.
type Board struct {
	id              int64
	title           string
	fontColor       Color
	backgroundColor Color
	lists           []*CardList
	tags            []*Tag
	presets         []*ColorPreset
	defaultPreset   int64
}

func (b *Board) ID() int64                 { return b.id }
func (b *Board) Title() string             { return b.title }
func (b *Board) FontColor() Color          { return b.fontColor }
func (b *Board) BackgroundColor() Color    { return b.backgroundColor }
func (b *Board) DefaultColorPreset() int64 { return b.defaultPreset }

// CardLists returns the lists in display order.
func (b *Board) CardLists() []*CardList { return append([]*CardList(nil), b.lists...) }

// Tags returns the tags in creation order.
func (b *Board) Tags() []*Tag { return append([]*Tag(nil), b.tags...) }

// ColorPresets returns the presets in creation order.
func (b *Board) ColorPresets() []*ColorPreset { return append([]*ColorPreset(nil), b.presets...) }

func (b *Board) CardList(id int64) (*CardList, bool) {
	if i := indexOf(b.lists, id); i >= 0 {
		return b.lists[i], true
	}
	return nil, false
}

func (b *Board) Tag(id int64) (*Tag, bool) {
	if i := indexOf(b.tags, id); i >= 0 {
		return b.tags[i], true
	}
	return nil, false
}

func (b *Board) ColorPreset(id int64) (*ColorPreset, bool) {
	if i := indexOf(b.presets, id); i >= 0 {
		return b.presets[i], true
	}
	return nil, false
}

// Card finds a card anywhere on the board along with its list.
func (b *Board) Card(id int64) (*Card, *CardList, bool) {
	for _, l := range b.lists {
		if i := indexOf(l.cards, id); i >= 0 {
			return l.cards[i], l, true
		}
	}
	return nil, nil, false
}

// Subtask finds a subtask anywhere on the board along with its card.
func (b *Board) Subtask(id int64) (*CardSubtask, *Card, bool) {
	for _, l := range b.lists {
		for _, c := range l.cards {
			if i := indexOf(c.subtasks, id); i >= 0 {
				return c.subtasks[i], c, true
			}
		}
	}
	return nil, nil, false
}

// BoardView is the serialized form of a whole board tree.
type BoardView struct {
	ID                 int64             `json:"id"`
	Title              string            `json:"title"`
	FontColor          Color             `json:"fontColor"`
	BackgroundColor    Color             `json:"backgroundColor"`
	CardLists          []CardListView    `json:"cardLists"`
	Tags               []TagView         `json:"tags"`
	ColorPresets       []ColorPresetView `json:"colorPresets"`
	DefaultColorPreset int64             `json:"defaultColorPreset"`
}

func (b *Board) Snapshot() BoardView {
	v := BoardView{
		ID:                 b.id,
		Title:              b.title,
		FontColor:          b.fontColor,
		BackgroundColor:    b.backgroundColor,
		CardLists:          make([]CardListView, 0, len(b.lists)),
		Tags:               make([]TagView, 0, len(b.tags)),
		ColorPresets:       make([]ColorPresetView, 0, len(b.presets)),
		DefaultColorPreset: b.defaultPreset,
	}
	for _, l := range b.lists {
		v.CardLists = append(v.CardLists, l.Snapshot())
	}
	for _, t := range b.tags {
		v.Tags = append(v.Tags, t.Snapshot())
	}
	for _, p := range b.presets {
		v.ColorPresets = append(v.ColorPresets, p.Snapshot())
	}
	return v
}

// BoardInput describes a board to create. Unset colors take the defaults.
type BoardInput struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	FontColor       *Color `json:"fontColor,omitempty"`
	BackgroundColor *Color `json:"backgroundColor,omitempty"`
}

// BoardPatcher mutates one board. Obtain it from Session.PatchBoard.
type BoardPatcher struct {
	s *Session
	b *Board
}

func (p *BoardPatcher) Board() *Board { return p.b }

func (p *BoardPatcher) SetTitle(title string) error {
	p.b.title = title
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return err
	}
	return notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.TitleSet(p.b, title) })
}

func (p *BoardPatcher) SetFontColor(c Color) error {
	if err := checkColor(c); err != nil {
		return err
	}
	p.b.fontColor = c
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return err
	}
	return notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.FontColorSet(p.b, c) })
}

func (p *BoardPatcher) SetBackgroundColor(c Color) error {
	if err := checkColor(c); err != nil {
		return err
	}
	p.b.backgroundColor = c
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return err
	}
	return notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.BackgroundColorSet(p.b, c) })
}

// AddCardList appends a new, empty list.
func (p *BoardPatcher) AddCardList(in CardListInput) (*CardList, error) {
	if in.ID != 0 {
		return nil, invalid("card list id must not be set on create")
	}
	font, err := colorOr(in.FontColor, DefaultFontColor)
	if err != nil {
		return nil, err
	}
	bg, err := colorOr(in.BackgroundColor, DefaultBackgroundColor)
	if err != nil {
		return nil, err
	}
	id, err := p.s.repo.nextID(p.s.ctx, storage.KindCardList)
	if err != nil {
		return nil, err
	}
	l := &CardList{id: id, boardID: p.b.id, title: in.Title, fontColor: font, backgroundColor: bg}
	p.b.lists = append(p.b.lists, l)
	if err := p.s.repo.saveCardList(p.s.ctx, l); err != nil {
		return nil, err
	}
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return nil, err
	}
	p.s.bindCardList(p.b, l)
	return l, notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.CardListAdded(p.b, l) })
}

// RemoveCardList removes a list with all its cards.
func (p *BoardPatcher) RemoveCardList(id int64) error {
	l, ok := p.b.CardList(id)
	if !ok {
		return notFound("card list", id)
	}
	p.b.lists = without(p.b.lists, l)
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return err
	}
	if err := notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.CardListRemoved(p.b, l) }); err != nil {
		return err
	}
	return p.s.repo.deleteCardList(p.s.ctx, l)
}

// MoveCardList places a list right after the list with id after, or first
// for the zero hook.
func (p *BoardPatcher) MoveCardList(id, after int64) error {
	l, ok := p.b.CardList(id)
	if !ok {
		return notFound("card list", id)
	}
	if err := checkHook(p.b.lists, id, after, "card list"); err != nil {
		return err
	}
	p.b.lists = placeAfter(p.b.lists, l, after)
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return err
	}
	return notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.CardListsReordered(p.b, l, after) })
}

func (p *BoardPatcher) AddTag(in TagInput) (*Tag, error) {
	if in.ID != 0 {
		return nil, invalid("tag id must not be set on create")
	}
	font, err := colorOr(in.FontColor, DefaultFontColor)
	if err != nil {
		return nil, err
	}
	bg, err := colorOr(in.BackgroundColor, DefaultBackgroundColor)
	if err != nil {
		return nil, err
	}
	id, err := p.s.repo.nextID(p.s.ctx, storage.KindTag)
	if err != nil {
		return nil, err
	}
	t := &Tag{id: id, boardID: p.b.id, name: in.Name, fontColor: font, backgroundColor: bg}
	p.b.tags = append(p.b.tags, t)
	if err := p.s.repo.saveTag(p.s.ctx, t); err != nil {
		return nil, err
	}
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return nil, err
	}
	p.s.bindTag(p.b, t)
	return t, notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.TagAdded(p.b, t) })
}

// RemoveTag removes a tag from the board and then from every card that
// references it, in board, list, card order.
func (p *BoardPatcher) RemoveTag(id int64) error {
	t, ok := p.b.Tag(id)
	if !ok {
		return notFound("tag", id)
	}
	p.b.tags = without(p.b.tags, t)
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return err
	}
	if err := notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.TagRemoved(p.b, t) }); err != nil {
		return err
	}
	for _, l := range p.b.lists {
		for _, c := range l.cards {
			if !c.hasTag(id) {
				continue
			}
			if err := p.s.untagCard(c, t); err != nil {
				return err
			}
		}
	}
	return p.s.repo.deleteRecord(p.s.ctx, storage.KindTag, id)
}

func (p *BoardPatcher) AddColorPreset(in ColorPresetInput) (*ColorPreset, error) {
	if in.ID != 0 {
		return nil, invalid("color preset id must not be set on create")
	}
	fg, err := colorOr(in.Foreground, DefaultFontColor)
	if err != nil {
		return nil, err
	}
	bg, err := colorOr(in.Background, DefaultBackgroundColor)
	if err != nil {
		return nil, err
	}
	id, err := p.s.repo.nextID(p.s.ctx, storage.KindColorPreset)
	if err != nil {
		return nil, err
	}
	cp := &ColorPreset{id: id, boardID: p.b.id, name: in.Name, foreground: fg, background: bg}
	p.b.presets = append(p.b.presets, cp)
	if err := p.s.repo.saveColorPreset(p.s.ctx, cp); err != nil {
		return nil, err
	}
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return nil, err
	}
	p.s.bindColorPreset(p.b, cp)
	return cp, notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.ColorPresetAdded(p.b, cp) })
}

// RemoveColorPreset removes a preset, clears it as the board default and
// clears it on every card using it.
func (p *BoardPatcher) RemoveColorPreset(id int64) error {
	cp, ok := p.b.ColorPreset(id)
	if !ok {
		return notFound("color preset", id)
	}
	p.b.presets = without(p.b.presets, cp)
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return err
	}
	if err := notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.ColorPresetRemoved(p.b, cp) }); err != nil {
		return err
	}
	if p.b.defaultPreset == id {
		if err := p.setDefault(0); err != nil {
			return err
		}
	}
	for _, l := range p.b.lists {
		for _, c := range l.cards {
			if c.preset != id {
				continue
			}
			if err := p.s.setCardPreset(c, 0); err != nil {
				return err
			}
		}
	}
	return p.s.repo.deleteRecord(p.s.ctx, storage.KindColorPreset, id)
}

// SetDefaultColorPreset makes a board preset the default; 0 clears it.
func (p *BoardPatcher) SetDefaultColorPreset(id int64) error {
	if id != 0 {
		if _, ok := p.b.ColorPreset(id); !ok {
			return notFound("color preset", id)
		}
	}
	return p.setDefault(id)
}

func (p *BoardPatcher) setDefault(id int64) error {
	p.b.defaultPreset = id
	if err := p.s.repo.saveBoard(p.s.ctx, p.b); err != nil {
		return err
	}
	return notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.DefaultColorPresetSet(p.b, id) })
}

// MoveCard moves a card into another list of the board, right after the card
// with id after there, or first for the zero hook.
func (p *BoardPatcher) MoveCard(cardID, toListID, after int64) error {
	c, from, ok := p.b.Card(cardID)
	if !ok {
		return notFound("card", cardID)
	}
	to, ok := p.b.CardList(toListID)
	if !ok {
		return notFound("card list", toListID)
	}
	if from == to {
		return invalid("card %d is already in list %d", cardID, toListID)
	}
	if err := checkHook(to.cards, cardID, after, "card"); err != nil {
		return err
	}
	from.cards = without(from.cards, c)
	if err := p.s.repo.saveCardList(p.s.ctx, from); err != nil {
		return err
	}
	c.listID = to.id
	if err := p.s.repo.saveCard(p.s.ctx, c); err != nil {
		return err
	}
	to.cards = placeAfter(to.cards, c, after)
	if err := p.s.repo.saveCardList(p.s.ctx, to); err != nil {
		return err
	}
	p.s.bindCard(to, c)
	return notify(p.s, p.s.boardObs[p.b], func(o BoardObserver) error { return o.CardMoved(p.b, c, from, to, after) })
}
