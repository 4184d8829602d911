package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talio/internal/storage"
)

// SessionOptions tune how a Session notifies and serializes.
type SessionOptions struct {
	// IsolateFailures keeps notifying the remaining observers when one
	// fails. By default the first failure aborts the patch.
	IsolateFailures bool
	// OnObserverFailure is called once per failed root observer in isolate mode.
	OnObserverFailure func(o BoardObserver, err error)
	// Lock is taken for every board the session loads and released by Close.
	Lock func(boardID int64) (unlock func())
}

type bound[O any] struct {
	root BoardObserver
	obs  O
}

// Session is one request-scoped patch sequence. It loads entities fresh from
// the repository, attaches the observers present at load time exactly once,
// and runs patch callbacks against them. A Session is not safe for
// concurrent use.
type Session struct {
	ctx    context.Context
	repo   *Repository
	source ObserverSource
	opts   SessionOptions

	catalog    *Catalog
	catalogObs []bound[CatalogObserver]
	boards     map[int64]*Board
	locked     map[int64]struct{}
	unlocks    []func()

	boardObs map[*Board][]bound[BoardObserver]
	lists    map[*CardList][]bound[CardListObserver]
	cards    map[*Card][]bound[CardObserver]
	tags     map[*Tag][]bound[TagObserver]
	subtasks map[*CardSubtask][]bound[SubtaskObserver]
	presets  map[*ColorPreset][]bound[ColorPresetObserver]
	failed   map[BoardObserver]struct{}

	notified int
	loading  time.Duration
}

// NewSession opens a session. source may be nil when nobody observes.
func NewSession(ctx context.Context, repo *Repository, source ObserverSource, opts SessionOptions) *Session {
	return &Session{
		ctx:      ctx,
		repo:     repo,
		source:   source,
		opts:     opts,
		boards:   make(map[int64]*Board),
		locked:   make(map[int64]struct{}),
		boardObs: make(map[*Board][]bound[BoardObserver]),
		lists:    make(map[*CardList][]bound[CardListObserver]),
		cards:    make(map[*Card][]bound[CardObserver]),
		tags:     make(map[*Tag][]bound[TagObserver]),
		subtasks: make(map[*CardSubtask][]bound[SubtaskObserver]),
		presets:  make(map[*ColorPreset][]bound[ColorPresetObserver]),
		failed:   make(map[BoardObserver]struct{}),
	}
}

// Close releases the board locks taken by the session.
func (s *Session) Close() {
	for i := len(s.unlocks) - 1; i >= 0; i-- {
		s.unlocks[i]()
	}
	s.unlocks = nil
}

// Notified reports how many observer callbacks ran.
func (s *Session) Notified() int { return s.notified }

// Loading reports the time spent loading entities from the store.
func (s *Session) Loading() time.Duration { return s.loading }

// catalogLock is the lock key of the catalog. Board ids start at 1.
const catalogLock = 0

func (s *Session) lock(id int64) {
	if s.opts.Lock == nil {
		return
	}
	if _, ok := s.locked[id]; ok {
		return
	}
	s.unlocks = append(s.unlocks, s.opts.Lock(id))
	s.locked[id] = struct{}{}
}

// Catalog loads the board catalog and binds the catalog observers. A
// session that needs the catalog must load it before any board.
func (s *Session) Catalog() (*Catalog, error) {
	if s.catalog != nil {
		return s.catalog, nil
	}
	s.lock(catalogLock)
	defer s.track(time.Now())
	cat, err := s.repo.LoadCatalog(s.ctx)
	if err != nil {
		return nil, err
	}
	s.catalog = cat
	for _, root := range s.roots(0) {
		if co, ok := root.(CatalogObserver); ok {
			s.catalogObs = append(s.catalogObs, bound[CatalogObserver]{root: root, obs: co})
		}
	}
	return cat, nil
}

// Board loads a board tree and binds every observer of that board to it.
func (s *Session) Board(id int64) (*Board, error) {
	if b, ok := s.boards[id]; ok {
		return b, nil
	}
	s.lock(id)
	defer s.track(time.Now())
	b, err := s.repo.LoadBoard(s.ctx, id)
	if err != nil {
		return nil, err
	}
	s.adoptBoard(b)
	return b, nil
}

// CardList resolves the board owning a list and returns the loaded list.
func (s *Session) CardList(id int64) (*CardList, error) {
	boardID, err := s.repo.BoardOf(s.ctx, storage.KindCardList, id)
	if err != nil {
		return nil, err
	}
	b, err := s.Board(boardID)
	if err != nil {
		return nil, err
	}
	l, ok := b.CardList(id)
	if !ok {
		return nil, notFound("card list", id)
	}
	return l, nil
}

// Card resolves the board owning a card and returns the loaded card.
func (s *Session) Card(id int64) (*Card, error) {
	boardID, err := s.repo.BoardOf(s.ctx, storage.KindCard, id)
	if err != nil {
		return nil, err
	}
	b, err := s.Board(boardID)
	if err != nil {
		return nil, err
	}
	c, _, ok := b.Card(id)
	if !ok {
		return nil, notFound("card", id)
	}
	return c, nil
}

// Tag resolves the board owning a tag and returns the loaded tag.
func (s *Session) Tag(id int64) (*Tag, error) {
	boardID, err := s.repo.BoardOf(s.ctx, storage.KindTag, id)
	if err != nil {
		return nil, err
	}
	b, err := s.Board(boardID)
	if err != nil {
		return nil, err
	}
	t, ok := b.Tag(id)
	if !ok {
		return nil, notFound("tag", id)
	}
	return t, nil
}

// Subtask resolves the board owning a subtask and returns the loaded subtask.
func (s *Session) Subtask(id int64) (*CardSubtask, error) {
	boardID, err := s.repo.BoardOf(s.ctx, storage.KindSubtask, id)
	if err != nil {
		return nil, err
	}
	b, err := s.Board(boardID)
	if err != nil {
		return nil, err
	}
	st, _, ok := b.Subtask(id)
	if !ok {
		return nil, notFound("subtask", id)
	}
	return st, nil
}

// ColorPreset resolves the board owning a preset and returns the loaded preset.
func (s *Session) ColorPreset(id int64) (*ColorPreset, error) {
	boardID, err := s.repo.BoardOf(s.ctx, storage.KindColorPreset, id)
	if err != nil {
		return nil, err
	}
	b, err := s.Board(boardID)
	if err != nil {
		return nil, err
	}
	p, ok := b.ColorPreset(id)
	if !ok {
		return nil, notFound("color preset", id)
	}
	return p, nil
}

var errNotLoaded = errors.New("domain: entity was not loaded by this session")

// PatchCatalog invokes fn once with a patcher bound to the catalog.
func (s *Session) PatchCatalog(c *Catalog, fn func(p *CatalogPatcher) error) error {
	if c == nil || c != s.catalog {
		return errNotLoaded
	}
	return fn(&CatalogPatcher{s: s, c: c})
}

// PatchBoard invokes fn once with a patcher bound to b.
func (s *Session) PatchBoard(b *Board, fn func(p *BoardPatcher) error) error {
	if _, ok := s.boardObs[b]; !ok {
		return errNotLoaded
	}
	return fn(&BoardPatcher{s: s, b: b})
}

// PatchCardList invokes fn once with a patcher bound to l.
func (s *Session) PatchCardList(l *CardList, fn func(p *CardListPatcher) error) error {
	if _, ok := s.lists[l]; !ok {
		return errNotLoaded
	}
	return fn(&CardListPatcher{s: s, l: l})
}

// PatchCard invokes fn once with a patcher bound to c.
func (s *Session) PatchCard(c *Card, fn func(p *CardPatcher) error) error {
	if _, ok := s.cards[c]; !ok {
		return errNotLoaded
	}
	return fn(&CardPatcher{s: s, c: c})
}

// PatchTag invokes fn once with a patcher bound to t.
func (s *Session) PatchTag(t *Tag, fn func(p *TagPatcher) error) error {
	if _, ok := s.tags[t]; !ok {
		return errNotLoaded
	}
	return fn(&TagPatcher{s: s, t: t})
}

// PatchSubtask invokes fn once with a patcher bound to st.
func (s *Session) PatchSubtask(st *CardSubtask, fn func(p *SubtaskPatcher) error) error {
	if _, ok := s.subtasks[st]; !ok {
		return errNotLoaded
	}
	return fn(&SubtaskPatcher{s: s, st: st})
}

// PatchColorPreset invokes fn once with a patcher bound to p.
func (s *Session) PatchColorPreset(cp *ColorPreset, fn func(p *ColorPresetPatcher) error) error {
	if _, ok := s.presets[cp]; !ok {
		return errNotLoaded
	}
	return fn(&ColorPresetPatcher{s: s, p: cp})
}

func (s *Session) track(start time.Time) {
	s.loading += time.Since(start)
}

func (s *Session) roots(boardID int64) []BoardObserver {
	if s.source == nil {
		return nil
	}
	return s.source.BoardObservers(boardID)
}

func (s *Session) adoptBoard(b *Board) {
	s.boards[b.id] = b
	roots := s.roots(b.id)
	obs := make([]bound[BoardObserver], 0, len(roots))
	for _, root := range roots {
		obs = append(obs, bound[BoardObserver]{root: root, obs: root})
	}
	s.boardObs[b] = obs
	for _, l := range b.lists {
		s.bindCardList(b, l)
	}
	for _, t := range b.tags {
		s.bindTag(b, t)
	}
	for _, p := range b.presets {
		s.bindColorPreset(b, p)
	}
}

func (s *Session) bindCardList(b *Board, l *CardList) {
	parents := s.boardObs[b]
	obs := make([]bound[CardListObserver], 0, len(parents))
	for _, parent := range parents {
		obs = append(obs, bound[CardListObserver]{root: parent.root, obs: parent.obs.BindCardList(l)})
	}
	s.lists[l] = obs
	for _, c := range l.cards {
		s.bindCard(l, c)
	}
}

func (s *Session) bindCard(l *CardList, c *Card) {
	parents := s.lists[l]
	obs := make([]bound[CardObserver], 0, len(parents))
	for _, parent := range parents {
		obs = append(obs, bound[CardObserver]{root: parent.root, obs: parent.obs.BindCard(c)})
	}
	s.cards[c] = obs
	for _, st := range c.subtasks {
		s.bindSubtask(c, st)
	}
}

func (s *Session) bindSubtask(c *Card, st *CardSubtask) {
	parents := s.cards[c]
	obs := make([]bound[SubtaskObserver], 0, len(parents))
	for _, parent := range parents {
		obs = append(obs, bound[SubtaskObserver]{root: parent.root, obs: parent.obs.BindSubtask(st)})
	}
	s.subtasks[st] = obs
}

func (s *Session) bindTag(b *Board, t *Tag) {
	parents := s.boardObs[b]
	obs := make([]bound[TagObserver], 0, len(parents))
	for _, parent := range parents {
		obs = append(obs, bound[TagObserver]{root: parent.root, obs: parent.obs.BindTag(t)})
	}
	s.tags[t] = obs
}

func (s *Session) bindColorPreset(b *Board, p *ColorPreset) {
	parents := s.boardObs[b]
	obs := make([]bound[ColorPresetObserver], 0, len(parents))
	for _, parent := range parents {
		obs = append(obs, bound[ColorPresetObserver]{root: parent.root, obs: parent.obs.BindColorPreset(p)})
	}
	s.presets[p] = obs
}

func (s *Session) boardOf(l *CardList) *Board {
	return s.boards[l.boardID]
}

func (s *Session) listOf(c *Card) *CardList {
	for _, b := range s.boards {
		if l, ok := b.CardList(c.listID); ok {
			return l
		}
	}
	return nil
}

func notify[O any](s *Session, targets []bound[O], call func(O) error) error {
	for _, t := range targets {
		if _, skip := s.failed[t.root]; skip {
			continue
		}
		s.notified++
		if err := call(t.obs); err != nil {
			if !s.opts.IsolateFailures {
				return fmt.Errorf("notify observer: %w", err)
			}
			s.failed[t.root] = struct{}{}
			if s.opts.OnObserverFailure != nil {
				s.opts.OnObserverFailure(t.root, err)
			}
		}
	}
	return nil
}
