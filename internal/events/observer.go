package events

import (
	"time"

	"talio/internal/domain"
)

// Sink receives the events produced by an Observer.
type Sink interface {
	Send(e Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event) error

func (f SinkFunc) Send(e Event) error { return f(e) }

// Observer translates domain callbacks into events for one sink. It observes
// boards as well as the catalog, and binds child observers that carry the
// owning board id.
type Observer struct {
	sink Sink
}

// NewObserver returns an observer; use the pointer as its identity with the broker.
func NewObserver(sink Sink) *Observer {
	return &Observer{sink: sink}
}

var (
	_ domain.BoardObserver   = (*Observer)(nil)
	_ domain.CatalogObserver = (*Observer)(nil)
)

func (o *Observer) BoardAdded(b *domain.Board) error {
	return o.sink.Send(BoardAdded{Scope: Scope{b.ID()}, View: b.Snapshot()})
}

func (o *Observer) BindCardList(l *domain.CardList) domain.CardListObserver {
	return &listObserver{sink: o.sink, board: l.BoardID()}
}

func (o *Observer) BindTag(t *domain.Tag) domain.TagObserver {
	return &tagObserver{sink: o.sink, board: t.BoardID()}
}

func (o *Observer) BindColorPreset(p *domain.ColorPreset) domain.ColorPresetObserver {
	return &presetObserver{sink: o.sink, board: p.BoardID()}
}

func (o *Observer) TitleSet(b *domain.Board, title string) error {
	return o.sink.Send(BoardTitleSet{Scope: Scope{b.ID()}, NewTitle: title})
}

func (o *Observer) FontColorSet(b *domain.Board, c domain.Color) error {
	return o.sink.Send(BoardFontColorSet{Scope: Scope{b.ID()}, Color: c})
}

func (o *Observer) BackgroundColorSet(b *domain.Board, c domain.Color) error {
	return o.sink.Send(BoardBackgroundColorSet{Scope: Scope{b.ID()}, Color: c})
}

func (o *Observer) CardListAdded(b *domain.Board, l *domain.CardList) error {
	return o.sink.Send(ListAdded{Scope: Scope{b.ID()}, CardList: l.Snapshot()})
}

func (o *Observer) CardListRemoved(b *domain.Board, l *domain.CardList) error {
	return o.sink.Send(ListRemoved{Scope: Scope{b.ID()}, CardListID: l.ID()})
}

func (o *Observer) CardListsReordered(b *domain.Board, l *domain.CardList, after int64) error {
	return o.sink.Send(ListsReordered{Scope: Scope{b.ID()}, CardList: l.ID(), PlacedAfter: after})
}

func (o *Observer) TagAdded(b *domain.Board, t *domain.Tag) error {
	return o.sink.Send(TagAdded{Scope: Scope{b.ID()}, Tag: t.Snapshot()})
}

func (o *Observer) TagRemoved(b *domain.Board, t *domain.Tag) error {
	return o.sink.Send(TagRemoved{Scope: Scope{b.ID()}, TagID: t.ID()})
}

func (o *Observer) ColorPresetAdded(b *domain.Board, p *domain.ColorPreset) error {
	return o.sink.Send(ColorPresetAdded{Scope: Scope{b.ID()}, Preset: p.Snapshot()})
}

func (o *Observer) ColorPresetRemoved(b *domain.Board, p *domain.ColorPreset) error {
	return o.sink.Send(ColorPresetRemoved{Scope: Scope{b.ID()}, PresetID: p.ID()})
}

func (o *Observer) DefaultColorPresetSet(b *domain.Board, presetID int64) error {
	return o.sink.Send(DefaultColorPresetSet{Scope: Scope{b.ID()}, PresetID: presetID})
}

func (o *Observer) CardMoved(b *domain.Board, c *domain.Card, from, to *domain.CardList, after int64) error {
	return o.sink.Send(CardMoved{Scope: Scope{b.ID()}, Card: c.ID(), FromList: from.ID(), ToList: to.ID(), PlacedAfter: after})
}

func (o *Observer) Removed(b *domain.Board) error {
	return o.sink.Send(BoardRemoved{Scope: Scope{b.ID()}})
}

type listObserver struct {
	sink  Sink
	board int64
}

func (o *listObserver) BindCard(c *domain.Card) domain.CardObserver {
	return &cardObserver{sink: o.sink, board: o.board}
}

func (o *listObserver) TitleSet(l *domain.CardList, title string) error {
	return o.sink.Send(ListTitleSet{Scope: Scope{o.board}, CardListID: l.ID(), NewTitle: title})
}

func (o *listObserver) FontColorSet(l *domain.CardList, c domain.Color) error {
	return o.sink.Send(ListFontColorSet{Scope: Scope{o.board}, CardListID: l.ID(), Color: c})
}

func (o *listObserver) BackgroundColorSet(l *domain.CardList, c domain.Color) error {
	return o.sink.Send(ListBackgroundColorSet{Scope: Scope{o.board}, CardListID: l.ID(), Color: c})
}

func (o *listObserver) CardAdded(l *domain.CardList, c *domain.Card) error {
	return o.sink.Send(CardAdded{Scope: Scope{o.board}, CardListID: l.ID(), Card: c.Snapshot()})
}

func (o *listObserver) CardRemoved(l *domain.CardList, c *domain.Card) error {
	return o.sink.Send(CardRemoved{Scope: Scope{o.board}, CardListID: l.ID(), CardID: c.ID()})
}

func (o *listObserver) CardsReordered(l *domain.CardList, c *domain.Card, after int64) error {
	return o.sink.Send(CardsReordered{Scope: Scope{o.board}, CardListID: l.ID(), Card: c.ID(), PlacedAfter: after})
}

type cardObserver struct {
	sink  Sink
	board int64
}

func (o *cardObserver) BindSubtask(*domain.CardSubtask) domain.SubtaskObserver {
	return &subtaskObserver{sink: o.sink, board: o.board}
}

func (o *cardObserver) TitleSet(c *domain.Card, title string) error {
	return o.sink.Send(CardTitleSet{Scope: Scope{o.board}, CardID: c.ID(), NewTitle: title})
}

func (o *cardObserver) TextSet(c *domain.Card, text string) error {
	return o.sink.Send(CardTextSet{Scope: Scope{o.board}, CardID: c.ID(), NewText: text})
}

func (o *cardObserver) CategorySet(c *domain.Card, category string) error {
	return o.sink.Send(CardCategorySet{Scope: Scope{o.board}, CardID: c.ID(), NewCategory: category})
}

func (o *cardObserver) DueDateSet(c *domain.Card, due *time.Time) error {
	return o.sink.Send(CardDueDateSet{Scope: Scope{o.board}, CardID: c.ID(), DueDate: due})
}

func (o *cardObserver) TagAdded(c *domain.Card, t *domain.Tag) error {
	return o.sink.Send(CardTagAdded{Scope: Scope{o.board}, CardID: c.ID(), TagID: t.ID()})
}

func (o *cardObserver) TagRemoved(c *domain.Card, t *domain.Tag) error {
	return o.sink.Send(CardTagRemoved{Scope: Scope{o.board}, CardID: c.ID(), TagID: t.ID()})
}

func (o *cardObserver) ColorPresetSet(c *domain.Card, presetID int64) error {
	return o.sink.Send(CardColorPresetSet{Scope: Scope{o.board}, CardID: c.ID(), PresetID: presetID})
}

func (o *cardObserver) SubtaskAdded(c *domain.Card, s *domain.CardSubtask) error {
	return o.sink.Send(SubtaskAdded{Scope: Scope{o.board}, CardID: c.ID(), Subtask: s.Snapshot()})
}

func (o *cardObserver) SubtaskRemoved(c *domain.Card, s *domain.CardSubtask) error {
	return o.sink.Send(SubtaskRemoved{Scope: Scope{o.board}, CardID: c.ID(), SubtaskID: s.ID()})
}

func (o *cardObserver) SubtasksReordered(c *domain.Card, s *domain.CardSubtask, after int64) error {
	return o.sink.Send(SubtasksReordered{Scope: Scope{o.board}, CardID: c.ID(), Subtask: s.ID(), PlacedAfter: after})
}

type tagObserver struct {
	sink  Sink
	board int64
}

func (o *tagObserver) NameSet(t *domain.Tag, name string) error {
	return o.sink.Send(TagNameSet{Scope: Scope{o.board}, TagID: t.ID(), NewName: name})
}

func (o *tagObserver) FontColorSet(t *domain.Tag, c domain.Color) error {
	return o.sink.Send(TagFontColorSet{Scope: Scope{o.board}, TagID: t.ID(), Color: c})
}

func (o *tagObserver) BackgroundColorSet(t *domain.Tag, c domain.Color) error {
	return o.sink.Send(TagBackgroundColorSet{Scope: Scope{o.board}, TagID: t.ID(), Color: c})
}

type subtaskObserver struct {
	sink  Sink
	board int64
}

func (o *subtaskObserver) NameSet(s *domain.CardSubtask, name string) error {
	return o.sink.Send(SubtaskNameSet{Scope: Scope{o.board}, SubtaskID: s.ID(), NewName: name})
}

func (o *subtaskObserver) CompletedSet(s *domain.CardSubtask, completed bool) error {
	return o.sink.Send(SubtaskCompletedSet{Scope: Scope{o.board}, SubtaskID: s.ID(), Completed: completed})
}

type presetObserver struct {
	sink  Sink
	board int64
}

func (o *presetObserver) NameSet(p *domain.ColorPreset, name string) error {
	return o.sink.Send(ColorPresetNameSet{Scope: Scope{o.board}, PresetID: p.ID(), NewName: name})
}

func (o *presetObserver) ForegroundSet(p *domain.ColorPreset, c domain.Color) error {
	return o.sink.Send(ColorPresetForegroundSet{Scope: Scope{o.board}, PresetID: p.ID(), Color: c})
}

func (o *presetObserver) BackgroundSet(p *domain.ColorPreset, c domain.Color) error {
	return o.sink.Send(ColorPresetBackgroundSet{Scope: Scope{o.board}, PresetID: p.ID(), Color: c})
}
