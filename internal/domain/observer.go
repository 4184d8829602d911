package domain

import "time"

// Observers are attached to a freshly loaded tree for one patch session and
// are called synchronously after every persisted mutation. An error returned
// from a callback is a transport failure of that observer.
//
// Each parent observer binds the observer of its children; a session binds
// the whole tree once when a board is loaded and binds new children as they
// are created.

// CatalogObserver observes the set of boards.
type CatalogObserver interface {
	BoardAdded(b *Board) error
}

// BoardObserver observes one board.
type BoardObserver interface {
	BindCardList(l *CardList) CardListObserver
	BindTag(t *Tag) TagObserver
	BindColorPreset(p *ColorPreset) ColorPresetObserver

	TitleSet(b *Board, title string) error
	FontColorSet(b *Board, c Color) error
	BackgroundColorSet(b *Board, c Color) error
	CardListAdded(b *Board, l *CardList) error
	CardListRemoved(b *Board, l *CardList) error
	CardListsReordered(b *Board, l *CardList, after int64) error
	TagAdded(b *Board, t *Tag) error
	TagRemoved(b *Board, t *Tag) error
	ColorPresetAdded(b *Board, p *ColorPreset) error
	ColorPresetRemoved(b *Board, p *ColorPreset) error
	DefaultColorPresetSet(b *Board, presetID int64) error
	CardMoved(b *Board, c *Card, from, to *CardList, after int64) error
	Removed(b *Board) error
}

// CardListObserver observes one card list.
type CardListObserver interface {
	BindCard(c *Card) CardObserver

	TitleSet(l *CardList, title string) error
	FontColorSet(l *CardList, c Color) error
	BackgroundColorSet(l *CardList, c Color) error
	CardAdded(l *CardList, c *Card) error
	CardRemoved(l *CardList, c *Card) error
	CardsReordered(l *CardList, c *Card, after int64) error
}

// CardObserver observes one card.
type CardObserver interface {
	BindSubtask(s *CardSubtask) SubtaskObserver

	TitleSet(c *Card, title string) error
	TextSet(c *Card, text string) error
	CategorySet(c *Card, category string) error
	DueDateSet(c *Card, due *time.Time) error
	TagAdded(c *Card, t *Tag) error
	TagRemoved(c *Card, t *Tag) error
	ColorPresetSet(c *Card, presetID int64) error
	SubtaskAdded(c *Card, s *CardSubtask) error
	SubtaskRemoved(c *Card, s *CardSubtask) error
	SubtasksReordered(c *Card, s *CardSubtask, after int64) error
}

// TagObserver observes one tag.
type TagObserver interface {
	NameSet(t *Tag, name string) error
	FontColorSet(t *Tag, c Color) error
	BackgroundColorSet(t *Tag, c Color) error
}

// SubtaskObserver observes one subtask.
type SubtaskObserver interface {
	NameSet(s *CardSubtask, name string) error
	CompletedSet(s *CardSubtask, completed bool) error
}

// ColorPresetObserver observes one color preset.
type ColorPresetObserver interface {
	NameSet(p *ColorPreset, name string) error
	ForegroundSet(p *ColorPreset, c Color) error
	BackgroundSet(p *ColorPreset, c Color) error
}

// ObserverSource hands out the observers currently subscribed to a board.
// Board id 0 asks for the observers interested in every board; those that
// also implement CatalogObserver receive catalog notifications.
type ObserverSource interface {
	BoardObservers(boardID int64) []BoardObserver
}
