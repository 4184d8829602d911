package events

import "fmt"

// Subject names the entity an event is about, e.g. ("card", 7). Handshake
// events have no subject.
func Subject(e Event) (kind string, id int64, err error) {
	var s subject
	if err := Visit(e, &s); err != nil {
		return "", 0, fmt.Errorf("subject of %s: %w", e.Type(), err)
	}
	return s.kind, s.id, nil
}

type subject struct {
	kind string
	id   int64
}

func (s *subject) set(kind string, id int64) error {
	s.kind, s.id = kind, id
	return nil
}

func (s *subject) VisitBoardAdded(e BoardAdded) error { return s.set("board", e.BoardID) }

func (s *subject) VisitBoardTitleSet(e BoardTitleSet) error { return s.set("board", e.BoardID) }

func (s *subject) VisitBoardFontColorSet(e BoardFontColorSet) error { return s.set("board", e.BoardID) }

func (s *subject) VisitBoardBackgroundColorSet(e BoardBackgroundColorSet) error { return s.set("board", e.BoardID) }

func (s *subject) VisitBoardRemoved(e BoardRemoved) error { return s.set("board", e.BoardID) }

func (s *subject) VisitListAdded(e ListAdded) error { return s.set("list", e.CardList.ID) }

func (s *subject) VisitListRemoved(e ListRemoved) error { return s.set("list", e.CardListID) }

func (s *subject) VisitListsReordered(e ListsReordered) error { return s.set("list", e.CardList) }

func (s *subject) VisitTagAdded(e TagAdded) error { return s.set("tag", e.Tag.ID) }

func (s *subject) VisitTagRemoved(e TagRemoved) error { return s.set("tag", e.TagID) }

func (s *subject) VisitColorPresetAdded(e ColorPresetAdded) error { return s.set("preset", e.Preset.ID) }

func (s *subject) VisitColorPresetRemoved(e ColorPresetRemoved) error { return s.set("preset", e.PresetID) }

func (s *subject) VisitDefaultColorPresetSet(e DefaultColorPresetSet) error { return s.set("board", e.BoardID) }

func (s *subject) VisitCardMoved(e CardMoved) error { return s.set("card", e.Card) }

func (s *subject) VisitListTitleSet(e ListTitleSet) error { return s.set("list", e.CardListID) }

func (s *subject) VisitListFontColorSet(e ListFontColorSet) error { return s.set("list", e.CardListID) }

func (s *subject) VisitListBackgroundColorSet(e ListBackgroundColorSet) error { return s.set("list", e.CardListID) }

func (s *subject) VisitCardAdded(e CardAdded) error { return s.set("card", e.Card.ID) }

func (s *subject) VisitCardRemoved(e CardRemoved) error { return s.set("card", e.CardID) }

func (s *subject) VisitCardsReordered(e CardsReordered) error { return s.set("card", e.Card) }

func (s *subject) VisitCardTitleSet(e CardTitleSet) error { return s.set("card", e.CardID) }

func (s *subject) VisitCardTextSet(e CardTextSet) error { return s.set("card", e.CardID) }

func (s *subject) VisitCardCategorySet(e CardCategorySet) error { return s.set("card", e.CardID) }

func (s *subject) VisitCardDueDateSet(e CardDueDateSet) error { return s.set("card", e.CardID) }

func (s *subject) VisitCardTagAdded(e CardTagAdded) error { return s.set("card", e.CardID) }

func (s *subject) VisitCardTagRemoved(e CardTagRemoved) error { return s.set("card", e.CardID) }

func (s *subject) VisitCardColorPresetSet(e CardColorPresetSet) error { return s.set("card", e.CardID) }

func (s *subject) VisitSubtaskAdded(e SubtaskAdded) error { return s.set("subtask", e.Subtask.ID) }

func (s *subject) VisitSubtaskRemoved(e SubtaskRemoved) error { return s.set("subtask", e.SubtaskID) }

func (s *subject) VisitSubtasksReordered(e SubtasksReordered) error { return s.set("subtask", e.Subtask) }

func (s *subject) VisitTagNameSet(e TagNameSet) error { return s.set("tag", e.TagID) }

func (s *subject) VisitTagFontColorSet(e TagFontColorSet) error { return s.set("tag", e.TagID) }

func (s *subject) VisitTagBackgroundColorSet(e TagBackgroundColorSet) error { return s.set("tag", e.TagID) }

func (s *subject) VisitSubtaskNameSet(e SubtaskNameSet) error { return s.set("subtask", e.SubtaskID) }

func (s *subject) VisitSubtaskCompletedSet(e SubtaskCompletedSet) error { return s.set("subtask", e.SubtaskID) }

func (s *subject) VisitColorPresetNameSet(e ColorPresetNameSet) error { return s.set("preset", e.PresetID) }

func (s *subject) VisitColorPresetForegroundSet(e ColorPresetForegroundSet) error { return s.set("preset", e.PresetID) }

func (s *subject) VisitColorPresetBackgroundSet(e ColorPresetBackgroundSet) error { return s.set("preset", e.PresetID) }

func (s *subject) VisitMessageProcessed(MessageProcessed) error { return nil }
