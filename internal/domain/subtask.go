package domain

// CardSubtask is one checklist item of a card.
type CardSubtask struct {
	id        int64
	cardID    int64
	name      string
	completed bool
}

func (s *CardSubtask) ID() int64       { return s.id }
func (s *CardSubtask) CardID() int64   { return s.cardID }
func (s *CardSubtask) Name() string    { return s.name }
func (s *CardSubtask) Completed() bool { return s.completed }

type SubtaskView struct {
	ID        int64  `json:"id"`
	CardID    int64  `json:"cardId"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

func (s *CardSubtask) Snapshot() SubtaskView {
	return SubtaskView{ID: s.id, CardID: s.cardID, Name: s.name, Completed: s.completed}
}

type SubtaskInput struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type SubtaskPatcher struct {
	s  *Session
	st *CardSubtask
}

func (p *SubtaskPatcher) Subtask() *CardSubtask { return p.st }

func (p *SubtaskPatcher) SetName(name string) error {
	p.st.name = name
	if err := p.s.repo.saveSubtask(p.s.ctx, p.st); err != nil {
		return err
	}
	return notify(p.s, p.s.subtasks[p.st], func(o SubtaskObserver) error { return o.NameSet(p.st, name) })
}

func (p *SubtaskPatcher) SetCompleted(completed bool) error {
	p.st.completed = completed
	if err := p.s.repo.saveSubtask(p.s.ctx, p.st); err != nil {
		return err
	}
	return notify(p.s, p.s.subtasks[p.st], func(o SubtaskObserver) error { return o.CompletedSet(p.st, completed) })
}
