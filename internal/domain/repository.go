package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"talio/internal/storage"
)

type catalogRecord struct {
	Boards []int64 `json:"boards"`
}

type boardRecord struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	FontColor       Color   `json:"fontColor"`
	BackgroundColor Color   `json:"backgroundColor"`
	DefaultPreset   int64   `json:"defaultPreset"`
	Lists           []int64 `json:"lists"`
	Tags            []int64 `json:"tags"`
	Presets         []int64 `json:"presets"`
}

type cardListRecord struct {
	ID              int64   `json:"id"`
	Board           int64   `json:"board"`
	Title           string  `json:"title"`
	FontColor       Color   `json:"fontColor"`
	BackgroundColor Color   `json:"backgroundColor"`
	Cards           []int64 `json:"cards"`
}

type cardRecord struct {
	ID       int64      `json:"id"`
	List     int64      `json:"list"`
	Title    string     `json:"title"`
	Text     string     `json:"text"`
	Category string     `json:"category"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Tags     []int64    `json:"tags"`
	Preset   int64      `json:"preset"`
	Subtasks []int64    `json:"subtasks"`
}

type tagRecord struct {
	ID              int64  `json:"id"`
	Board           int64  `json:"board"`
	Name            string `json:"name"`
	FontColor       Color  `json:"fontColor"`
	BackgroundColor Color  `json:"backgroundColor"`
}

type subtaskRecord struct {
	ID        int64  `json:"id"`
	Card      int64  `json:"card"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type presetRecord struct {
	ID         int64  `json:"id"`
	Board      int64  `json:"board"`
	Name       string `json:"name"`
	Foreground Color  `json:"foreground"`
	Background Color  `json:"background"`
}

// catalogID is the single catalog record.
const catalogID = 1

// Repository maps entity trees onto the record store.
type Repository struct {
	store storage.Store
}

func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) nextID(ctx context.Context, kind storage.Kind) (int64, error) {
	id, err := r.store.NextID(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", kind, err)
	}
	return id, nil
}

func (r *Repository) get(ctx context.Context, kind storage.Kind, id int64, v any) error {
	data, err := r.store.Get(ctx, kind, id)
	if errors.Is(err, storage.ErrNotFound) {
		return notFound(string(kind), id)
	}
	if err != nil {
		return fmt.Errorf("get %s %d: %w", kind, id, err)
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s %d: %w", kind, id, err)
	}
	return nil
}

func (r *Repository) put(ctx context.Context, kind storage.Kind, id int64, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", kind, id, err)
	}
	if err := r.store.Put(ctx, kind, id, data); err != nil {
		return fmt.Errorf("put %s %d: %w", kind, id, err)
	}
	return nil
}

func (r *Repository) deleteRecord(ctx context.Context, kind storage.Kind, id int64) error {
	if err := r.store.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	return nil
}

// child loads a record referenced by its parent. A dangling reference is
// corruption, not a missing entity.
func (r *Repository) child(ctx context.Context, kind storage.Kind, id int64, v any) error {
	err := r.get(ctx, kind, id, v)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("dangling %s reference %d", kind, id)
	}
	return err
}

// LoadCatalog reads the catalog. A store without one has no boards.
func (r *Repository) LoadCatalog(ctx context.Context) (*Catalog, error) {
	var rec catalogRecord
	err := r.get(ctx, storage.KindCatalog, catalogID, &rec)
	if errors.Is(err, ErrNotFound) {
		return &Catalog{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Catalog{boards: rec.Boards}, nil
}

// LoadBoard reads a whole board tree.
func (r *Repository) LoadBoard(ctx context.Context, id int64) (*Board, error) {
	var rec boardRecord
	if err := r.get(ctx, storage.KindBoard, id, &rec); err != nil {
		return nil, err
	}
	b := &Board{
		id:              rec.ID,
		title:           rec.Title,
		fontColor:       rec.FontColor,
		backgroundColor: rec.BackgroundColor,
		defaultPreset:   rec.DefaultPreset,
	}
	for _, listID := range rec.Lists {
		l, err := r.loadCardList(ctx, listID)
		if err != nil {
			return nil, err
		}
		b.lists = append(b.lists, l)
	}
	for _, tagID := range rec.Tags {
		var tr tagRecord
		if err := r.child(ctx, storage.KindTag, tagID, &tr); err != nil {
			return nil, err
		}
		b.tags = append(b.tags, &Tag{
			id:              tr.ID,
			boardID:         tr.Board,
			name:            tr.Name,
			fontColor:       tr.FontColor,
			backgroundColor: tr.BackgroundColor,
		})
	}
	for _, presetID := range rec.Presets {
		var pr presetRecord
		if err := r.child(ctx, storage.KindColorPreset, presetID, &pr); err != nil {
			return nil, err
		}
		b.presets = append(b.presets, &ColorPreset{
			id:         pr.ID,
			boardID:    pr.Board,
			name:       pr.Name,
			foreground: pr.Foreground,
			background: pr.Background,
		})
	}
	return b, nil
}

func (r *Repository) loadCardList(ctx context.Context, id int64) (*CardList, error) {
	var rec cardListRecord
	if err := r.child(ctx, storage.KindCardList, id, &rec); err != nil {
		return nil, err
	}
	l := &CardList{
		id:              rec.ID,
		boardID:         rec.Board,
		title:           rec.Title,
		fontColor:       rec.FontColor,
		backgroundColor: rec.BackgroundColor,
	}
	for _, cardID := range rec.Cards {
		var cr cardRecord
		if err := r.child(ctx, storage.KindCard, cardID, &cr); err != nil {
			return nil, err
		}
		c := &Card{
			id:       cr.ID,
			listID:   cr.List,
			title:    cr.Title,
			text:     cr.Text,
			category: cr.Category,
			dueDate:  cr.DueDate,
			tags:     cr.Tags,
			preset:   cr.Preset,
		}
		for _, stID := range cr.Subtasks {
			var sr subtaskRecord
			if err := r.child(ctx, storage.KindSubtask, stID, &sr); err != nil {
				return nil, err
			}
			c.subtasks = append(c.subtasks, &CardSubtask{id: sr.ID, cardID: sr.Card, name: sr.Name, completed: sr.Completed})
		}
		l.cards = append(l.cards, c)
	}
	return l, nil
}

// BoardOf resolves the board that owns an entity through its parent links.
func (r *Repository) BoardOf(ctx context.Context, kind storage.Kind, id int64) (int64, error) {
	switch kind {
	case storage.KindBoard:
		return id, nil
	case storage.KindCardList:
		var rec cardListRecord
		if err := r.get(ctx, kind, id, &rec); err != nil {
			return 0, err
		}
		return rec.Board, nil
	case storage.KindCard:
		var rec cardRecord
		if err := r.get(ctx, kind, id, &rec); err != nil {
			return 0, err
		}
		return r.BoardOf(ctx, storage.KindCardList, rec.List)
	case storage.KindSubtask:
		var rec subtaskRecord
		if err := r.get(ctx, kind, id, &rec); err != nil {
			return 0, err
		}
		return r.BoardOf(ctx, storage.KindCard, rec.Card)
	case storage.KindTag:
		var rec tagRecord
		if err := r.get(ctx, kind, id, &rec); err != nil {
			return 0, err
		}
		return rec.Board, nil
	case storage.KindColorPreset:
		var rec presetRecord
		if err := r.get(ctx, kind, id, &rec); err != nil {
			return 0, err
		}
		return rec.Board, nil
	}
	return 0, fmt.Errorf("no owning board for kind %q", kind)
}

func (r *Repository) saveCatalog(ctx context.Context, c *Catalog) error {
	return r.put(ctx, storage.KindCatalog, catalogID, catalogRecord{Boards: orEmpty(c.boards)})
}

func (r *Repository) saveBoard(ctx context.Context, b *Board) error {
	return r.put(ctx, storage.KindBoard, b.id, boardRecord{
		ID:              b.id,
		Title:           b.title,
		FontColor:       b.fontColor,
		BackgroundColor: b.backgroundColor,
		DefaultPreset:   b.defaultPreset,
		Lists:           ids(b.lists),
		Tags:            ids(b.tags),
		Presets:         ids(b.presets),
	})
}

func (r *Repository) saveCardList(ctx context.Context, l *CardList) error {
	return r.put(ctx, storage.KindCardList, l.id, cardListRecord{
		ID:              l.id,
		Board:           l.boardID,
		Title:           l.title,
		FontColor:       l.fontColor,
		BackgroundColor: l.backgroundColor,
		Cards:           ids(l.cards),
	})
}

func (r *Repository) saveCard(ctx context.Context, c *Card) error {
	return r.put(ctx, storage.KindCard, c.id, cardRecord{
		ID:       c.id,
		List:     c.listID,
		Title:    c.title,
		Text:     c.text,
		Category: c.category,
		DueDate:  c.dueDate,
		Tags:     orEmpty(c.tags),
		Preset:   c.preset,
		Subtasks: ids(c.subtasks),
	})
}

func (r *Repository) saveTag(ctx context.Context, t *Tag) error {
	return r.put(ctx, storage.KindTag, t.id, tagRecord{
		ID:              t.id,
		Board:           t.boardID,
		Name:            t.name,
		FontColor:       t.fontColor,
		BackgroundColor: t.backgroundColor,
	})
}

func (r *Repository) saveSubtask(ctx context.Context, s *CardSubtask) error {
	return r.put(ctx, storage.KindSubtask, s.id, subtaskRecord{ID: s.id, Card: s.cardID, Name: s.name, Completed: s.completed})
}

func (r *Repository) saveColorPreset(ctx context.Context, p *ColorPreset) error {
	return r.put(ctx, storage.KindColorPreset, p.id, presetRecord{
		ID:         p.id,
		Board:      p.boardID,
		Name:       p.name,
		Foreground: p.foreground,
		Background: p.background,
	})
}

func (r *Repository) deleteCard(ctx context.Context, c *Card) error {
	for _, st := range c.subtasks {
		if err := r.deleteRecord(ctx, storage.KindSubtask, st.id); err != nil {
			return err
		}
	}
	return r.deleteRecord(ctx, storage.KindCard, c.id)
}

func (r *Repository) deleteCardList(ctx context.Context, l *CardList) error {
	for _, c := range l.cards {
		if err := r.deleteCard(ctx, c); err != nil {
			return err
		}
	}
	return r.deleteRecord(ctx, storage.KindCardList, l.id)
}

func (r *Repository) deleteBoard(ctx context.Context, b *Board) error {
	for _, l := range b.lists {
		if err := r.deleteCardList(ctx, l); err != nil {
			return err
		}
	}
	for _, t := range b.tags {
		if err := r.deleteRecord(ctx, storage.KindTag, t.id); err != nil {
			return err
		}
	}
	for _, p := range b.presets {
		if err := r.deleteRecord(ctx, storage.KindColorPreset, p.id); err != nil {
			return err
		}
	}
	return r.deleteRecord(ctx, storage.KindBoard, b.id)
}

func orEmpty(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}
