package domain

import (
	"fmt"
	"strings"
	"time"
)

// journal collects every callback as "name(args)" across a bound tree.
type journal struct {
	events []string
	fail   map[string]error
}

func (j *journal) add(name string, args ...any) error {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	j.events = append(j.events, name+"("+strings.Join(parts, ",")+")")
	return j.fail[name]
}

func (j *journal) reset() { j.events = nil }

type recBoard struct{ j *journal }

func newRecorder() *recBoard { return &recBoard{j: &journal{fail: map[string]error{}}} }

func (r *recBoard) BoardAdded(b *Board) error { return r.j.add("boardAdded", b.ID()) }

func (r *recBoard) BindCardList(*CardList) CardListObserver          { return recList{r.j} }
func (r *recBoard) BindTag(*Tag) TagObserver                         { return recTag{r.j} }
func (r *recBoard) BindColorPreset(*ColorPreset) ColorPresetObserver { return recPreset{r.j} }

func (r *recBoard) TitleSet(b *Board, title string) error {
	return r.j.add("boardTitleSet", b.ID(), title)
}
func (r *recBoard) FontColorSet(b *Board, c Color) error {
	return r.j.add("boardFontColorSet", b.ID(), c.Red)
}
func (r *recBoard) BackgroundColorSet(b *Board, c Color) error {
	return r.j.add("boardBackgroundColorSet", b.ID(), c.Red)
}
func (r *recBoard) CardListAdded(b *Board, l *CardList) error {
	return r.j.add("listAdded", b.ID(), l.ID())
}
func (r *recBoard) CardListRemoved(b *Board, l *CardList) error {
	return r.j.add("listRemoved", b.ID(), l.ID())
}
func (r *recBoard) CardListsReordered(b *Board, l *CardList, after int64) error {
	return r.j.add("listsReordered", b.ID(), l.ID(), after)
}
func (r *recBoard) TagAdded(b *Board, t *Tag) error { return r.j.add("tagAdded", b.ID(), t.ID()) }
func (r *recBoard) TagRemoved(b *Board, t *Tag) error {
	return r.j.add("tagRemoved", b.ID(), t.ID())
}
func (r *recBoard) ColorPresetAdded(b *Board, p *ColorPreset) error {
	return r.j.add("colorPresetAdded", b.ID(), p.ID())
}
func (r *recBoard) ColorPresetRemoved(b *Board, p *ColorPreset) error {
	return r.j.add("colorPresetRemoved", b.ID(), p.ID())
}
func (r *recBoard) DefaultColorPresetSet(b *Board, id int64) error {
	return r.j.add("defaultColorPresetSet", b.ID(), id)
}
func (r *recBoard) CardMoved(b *Board, c *Card, from, to *CardList, after int64) error {
	return r.j.add("cardMoved", c.ID(), from.ID(), to.ID(), after)
}
func (r *recBoard) Removed(b *Board) error { return r.j.add("boardRemoved", b.ID()) }

type recList struct{ j *journal }

func (r recList) BindCard(*Card) CardObserver { return recCard{r.j} }
func (r recList) TitleSet(l *CardList, title string) error {
	return r.j.add("listTitleSet", l.ID(), title)
}
func (r recList) FontColorSet(l *CardList, c Color) error {
	return r.j.add("listFontColorSet", l.ID(), c.Red)
}
func (r recList) BackgroundColorSet(l *CardList, c Color) error {
	return r.j.add("listBackgroundColorSet", l.ID(), c.Red)
}
func (r recList) CardAdded(l *CardList, c *Card) error {
	return r.j.add("cardAdded", l.ID(), c.ID())
}
func (r recList) CardRemoved(l *CardList, c *Card) error {
	return r.j.add("cardRemoved", l.ID(), c.ID())
}
func (r recList) CardsReordered(l *CardList, c *Card, after int64) error {
	return r.j.add("cardsReordered", l.ID(), c.ID(), after)
}

type recCard struct{ j *journal }

func (r recCard) BindSubtask(*CardSubtask) SubtaskObserver { return recSubtask{r.j} }
func (r recCard) TitleSet(c *Card, title string) error {
	return r.j.add("cardTitleSet", c.ID(), title)
}
func (r recCard) TextSet(c *Card, text string) error { return r.j.add("cardTextSet", c.ID(), text) }
func (r recCard) CategorySet(c *Card, category string) error {
	return r.j.add("cardCategorySet", c.ID(), category)
}
func (r recCard) DueDateSet(c *Card, due *time.Time) error {
	if due == nil {
		return r.j.add("cardDueDateSet", c.ID(), "nil")
	}
	return r.j.add("cardDueDateSet", c.ID(), due.UTC().Format(time.DateOnly))
}
func (r recCard) TagAdded(c *Card, t *Tag) error { return r.j.add("cardTagAdded", c.ID(), t.ID()) }
func (r recCard) TagRemoved(c *Card, t *Tag) error {
	return r.j.add("cardTagRemoved", c.ID(), t.ID())
}
func (r recCard) ColorPresetSet(c *Card, id int64) error {
	return r.j.add("cardColorPresetSet", c.ID(), id)
}
func (r recCard) SubtaskAdded(c *Card, s *CardSubtask) error {
	return r.j.add("subtaskAdded", c.ID(), s.ID())
}
func (r recCard) SubtaskRemoved(c *Card, s *CardSubtask) error {
	return r.j.add("subtaskRemoved", c.ID(), s.ID())
}
func (r recCard) SubtasksReordered(c *Card, s *CardSubtask, after int64) error {
	return r.j.add("subtasksReordered", c.ID(), s.ID(), after)
}

type recTag struct{ j *journal }

func (r recTag) NameSet(t *Tag, name string) error { return r.j.add("tagNameSet", t.ID(), name) }
func (r recTag) FontColorSet(t *Tag, c Color) error {
	return r.j.add("tagFontColorSet", t.ID(), c.Red)
}
func (r recTag) BackgroundColorSet(t *Tag, c Color) error {
	return r.j.add("tagBackgroundColorSet", t.ID(), c.Red)
}

type recSubtask struct{ j *journal }

func (r recSubtask) NameSet(s *CardSubtask, name string) error {
	return r.j.add("subtaskNameSet", s.ID(), name)
}
func (r recSubtask) CompletedSet(s *CardSubtask, completed bool) error {
	return r.j.add("subtaskCompletedSet", s.ID(), completed)
}

type recPreset struct{ j *journal }

func (r recPreset) NameSet(p *ColorPreset, name string) error {
	return r.j.add("colorPresetNameSet", p.ID(), name)
}
func (r recPreset) ForegroundSet(p *ColorPreset, c Color) error {
	return r.j.add("colorPresetForegroundSet", p.ID(), c.Red)
}
func (r recPreset) BackgroundSet(p *ColorPreset, c Color) error {
	return r.j.add("colorPresetBackgroundSet", p.ID(), c.Red)
}

// staticSource subscribes fixed observers per board; key 0 is every board.
type staticSource map[int64][]BoardObserver

func (s staticSource) BoardObservers(boardID int64) []BoardObserver {
	out := append([]BoardObserver(nil), s[boardID]...)
	if boardID != 0 {
		out = append(out, s[0]...)
	}
	return out
}
