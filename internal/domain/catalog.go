package domain

import (
	"slices"

	"talio/internal/storage"
)

// Catalog is the ordered set of boards known to the server.
type Catalog struct {
	boards []int64
}

func (c *Catalog) BoardIDs() []int64 { return append([]int64(nil), c.boards...) }

func (c *Catalog) Contains(id int64) bool { return slices.Contains(c.boards, id) }

type CatalogPatcher struct {
	s *Session
	c *Catalog
}

// AddBoard creates an empty board and appends it to the catalog.
func (p *CatalogPatcher) AddBoard(in BoardInput) (*Board, error) {
	if in.ID != 0 {
		return nil, invalid("board id must not be set on create")
	}
	font, err := colorOr(in.FontColor, DefaultFontColor)
	if err != nil {
		return nil, err
	}
	bg, err := colorOr(in.BackgroundColor, DefaultBackgroundColor)
	if err != nil {
		return nil, err
	}
	id, err := p.s.repo.nextID(p.s.ctx, storage.KindBoard)
	if err != nil {
		return nil, err
	}
	b := &Board{id: id, title: in.Title, fontColor: font, backgroundColor: bg}
	p.c.boards = append(p.c.boards, id)
	if err := p.s.repo.saveBoard(p.s.ctx, b); err != nil {
		return nil, err
	}
	if err := p.s.repo.saveCatalog(p.s.ctx, p.c); err != nil {
		return nil, err
	}
	p.s.adoptBoard(b)
	return b, notify(p.s, p.s.catalogObs, func(o CatalogObserver) error { return o.BoardAdded(b) })
}

// RemoveBoard drops a board from the catalog and deletes its whole tree.
func (p *CatalogPatcher) RemoveBoard(id int64) error {
	if !p.c.Contains(id) {
		return notFound("board", id)
	}
	b, err := p.s.Board(id)
	if err != nil {
		return err
	}
	p.c.boards = slices.DeleteFunc(p.c.boards, func(v int64) bool { return v == id })
	if err := p.s.repo.saveCatalog(p.s.ctx, p.c); err != nil {
		return err
	}
	if err := notify(p.s, p.s.boardObs[b], func(o BoardObserver) error { return o.Removed(b) }); err != nil {
		return err
	}
	return p.s.repo.deleteBoard(p.s.ctx, b)
}
