package events

import (
	"time"

	"talio/internal/domain"
)

// Scope routes an event to the board it happened on.
type Scope struct {
	BoardID int64 `json:"boardId,omitempty"`
}

func (s Scope) Board() int64 { return s.BoardID }

// Event is a server to client message. The set of variants is closed: every
// variant has a method on Visitor.
type Event interface {
	Type() string
	Board() int64
	accept(v Visitor) error
}

// Catalog events

type BoardAdded struct {
	Scope

	View domain.BoardView `json:"board"`
}

// Board events

type BoardTitleSet struct {
	Scope

	NewTitle string `json:"newTitle"`
}

type BoardFontColorSet struct {
	Scope

	Color domain.Color `json:"color"`
}

type BoardBackgroundColorSet struct {
	Scope

	Color domain.Color `json:"color"`
}

type BoardRemoved struct {
	Scope
}

type ListAdded struct {
	Scope

	CardList domain.CardListView `json:"cardList"`
}

type ListRemoved struct {
	Scope

	CardListID int64 `json:"cardListId"`
}

type ListsReordered struct {
	Scope

	CardList    int64 `json:"cardList"`
	PlacedAfter int64 `json:"placedAfter"`
}

type TagAdded struct {
	Scope

	Tag domain.TagView `json:"tag"`
}

type TagRemoved struct {
	Scope

	TagID int64 `json:"tagId"`
}

type ColorPresetAdded struct {
	Scope

	Preset domain.ColorPresetView `json:"preset"`
}

type ColorPresetRemoved struct {
	Scope

	PresetID int64 `json:"presetId"`
}

type DefaultColorPresetSet struct {
	Scope

	PresetID int64 `json:"presetId"`
}

type CardMoved struct {
	Scope

	Card        int64 `json:"card"`
	FromList    int64 `json:"fromList"`
	ToList      int64 `json:"toList"`
	PlacedAfter int64 `json:"placedAfter"`
}

// Card list events

type ListTitleSet struct {
	Scope

	CardListID int64  `json:"cardListId"`
	NewTitle   string `json:"newTitle"`
}

type ListFontColorSet struct {
	Scope

	CardListID int64        `json:"cardListId"`
	Color      domain.Color `json:"color"`
}

type ListBackgroundColorSet struct {
	Scope

	CardListID int64        `json:"cardListId"`
	Color      domain.Color `json:"color"`
}

type CardAdded struct {
	Scope

	CardListID int64           `json:"cardListId"`
	Card       domain.CardView `json:"card"`
}

type CardRemoved struct {
	Scope

	CardListID int64 `json:"cardListId"`
	CardID     int64 `json:"cardId"`
}

type CardsReordered struct {
	Scope

	CardListID  int64 `json:"cardListId"`
	Card        int64 `json:"card"`
	PlacedAfter int64 `json:"placedAfter"`
}

// Card events

type CardTitleSet struct {
	Scope

	CardID   int64  `json:"cardId"`
	NewTitle string `json:"newTitle"`
}

type CardTextSet struct {
	Scope

	CardID  int64  `json:"cardId"`
	NewText string `json:"newText"`
}

type CardCategorySet struct {
	Scope

	CardID      int64  `json:"cardId"`
	NewCategory string `json:"newCategory"`
}

type CardDueDateSet struct {
	Scope

	CardID  int64      `json:"cardId"`
	DueDate *time.Time `json:"dueDate"`
}

type CardTagAdded struct {
	Scope

	CardID int64 `json:"cardId"`
	TagID  int64 `json:"tagId"`
}

type CardTagRemoved struct {
	Scope

	CardID int64 `json:"cardId"`
	TagID  int64 `json:"tagId"`
}

type CardColorPresetSet struct {
	Scope

	CardID   int64 `json:"cardId"`
	PresetID int64 `json:"presetId"`
}

type SubtaskAdded struct {
	Scope

	CardID  int64              `json:"cardId"`
	Subtask domain.SubtaskView `json:"subtask"`
}

type SubtaskRemoved struct {
	Scope

	CardID    int64 `json:"cardId"`
	SubtaskID int64 `json:"subtaskId"`
}

type SubtasksReordered struct {
	Scope

	CardID      int64 `json:"cardId"`
	Subtask     int64 `json:"subtask"`
	PlacedAfter int64 `json:"placedAfter"`
}

// Tag events

type TagNameSet struct {
	Scope

	TagID   int64  `json:"tagId"`
	NewName string `json:"newName"`
}

type TagFontColorSet struct {
	Scope

	TagID int64        `json:"tagId"`
	Color domain.Color `json:"color"`
}

type TagBackgroundColorSet struct {
	Scope

	TagID int64        `json:"tagId"`
	Color domain.Color `json:"color"`
}

// Subtask events

type SubtaskNameSet struct {
	Scope

	SubtaskID int64  `json:"subtaskId"`
	NewName   string `json:"newName"`
}

type SubtaskCompletedSet struct {
	Scope

	SubtaskID int64 `json:"subtaskId"`
	Completed bool  `json:"completed"`
}

// Color preset events

type ColorPresetNameSet struct {
	Scope

	PresetID int64  `json:"presetId"`
	NewName  string `json:"newName"`
}

type ColorPresetForegroundSet struct {
	Scope

	PresetID int64        `json:"presetId"`
	Color    domain.Color `json:"color"`
}

type ColorPresetBackgroundSet struct {
	Scope

	PresetID int64        `json:"presetId"`
	Color    domain.Color `json:"color"`
}

// Handshake events

type MessageProcessed struct {
	Scope

	Message string `json:"message"`
}

func (BoardAdded) Type() string               { return "boardAdded" }
func (BoardTitleSet) Type() string            { return "boardTitleSet" }
func (BoardFontColorSet) Type() string        { return "boardFontColorSet" }
func (BoardBackgroundColorSet) Type() string  { return "boardBackgroundColorSet" }
func (BoardRemoved) Type() string             { return "boardRemoved" }
func (ListAdded) Type() string                { return "listAdded" }
func (ListRemoved) Type() string              { return "listRemoved" }
func (ListsReordered) Type() string           { return "listsReordered" }
func (TagAdded) Type() string                 { return "tagAdded" }
func (TagRemoved) Type() string               { return "tagRemoved" }
func (ColorPresetAdded) Type() string         { return "colorPresetAdded" }
func (ColorPresetRemoved) Type() string       { return "colorPresetRemoved" }
func (DefaultColorPresetSet) Type() string    { return "defaultColorPresetSet" }
func (CardMoved) Type() string                { return "cardMoved" }
func (ListTitleSet) Type() string             { return "listTitleSet" }
func (ListFontColorSet) Type() string         { return "listFontColorSet" }
func (ListBackgroundColorSet) Type() string   { return "listBackgroundColorSet" }
func (CardAdded) Type() string                { return "cardAdded" }
func (CardRemoved) Type() string              { return "cardRemoved" }
func (CardsReordered) Type() string           { return "cardsReordered" }
func (CardTitleSet) Type() string             { return "cardTitleSet" }
func (CardTextSet) Type() string              { return "cardTextSet" }
func (CardCategorySet) Type() string          { return "cardCategorySet" }
func (CardDueDateSet) Type() string           { return "cardDueDateSet" }
func (CardTagAdded) Type() string             { return "cardTagAdded" }
func (CardTagRemoved) Type() string           { return "cardTagRemoved" }
func (CardColorPresetSet) Type() string       { return "cardColorPresetSet" }
func (SubtaskAdded) Type() string             { return "subtaskAdded" }
func (SubtaskRemoved) Type() string           { return "subtaskRemoved" }
func (SubtasksReordered) Type() string        { return "subtasksReordered" }
func (TagNameSet) Type() string               { return "tagNameSet" }
func (TagFontColorSet) Type() string          { return "tagFontColorSet" }
func (TagBackgroundColorSet) Type() string    { return "tagBackgroundColorSet" }
func (SubtaskNameSet) Type() string           { return "subtaskNameSet" }
func (SubtaskCompletedSet) Type() string      { return "subtaskCompletedSet" }
func (ColorPresetNameSet) Type() string       { return "colorPresetNameSet" }
func (ColorPresetForegroundSet) Type() string { return "colorPresetForegroundSet" }
func (ColorPresetBackgroundSet) Type() string { return "colorPresetBackgroundSet" }
func (MessageProcessed) Type() string         { return "messageProcessed" }

func (e BoardAdded) accept(v Visitor) error               { return v.VisitBoardAdded(e) }
func (e BoardTitleSet) accept(v Visitor) error            { return v.VisitBoardTitleSet(e) }
func (e BoardFontColorSet) accept(v Visitor) error        { return v.VisitBoardFontColorSet(e) }
func (e BoardBackgroundColorSet) accept(v Visitor) error  { return v.VisitBoardBackgroundColorSet(e) }
func (e BoardRemoved) accept(v Visitor) error             { return v.VisitBoardRemoved(e) }
func (e ListAdded) accept(v Visitor) error                { return v.VisitListAdded(e) }
func (e ListRemoved) accept(v Visitor) error              { return v.VisitListRemoved(e) }
func (e ListsReordered) accept(v Visitor) error           { return v.VisitListsReordered(e) }
func (e TagAdded) accept(v Visitor) error                 { return v.VisitTagAdded(e) }
func (e TagRemoved) accept(v Visitor) error               { return v.VisitTagRemoved(e) }
func (e ColorPresetAdded) accept(v Visitor) error         { return v.VisitColorPresetAdded(e) }
func (e ColorPresetRemoved) accept(v Visitor) error       { return v.VisitColorPresetRemoved(e) }
func (e DefaultColorPresetSet) accept(v Visitor) error    { return v.VisitDefaultColorPresetSet(e) }
func (e CardMoved) accept(v Visitor) error                { return v.VisitCardMoved(e) }
func (e ListTitleSet) accept(v Visitor) error             { return v.VisitListTitleSet(e) }
func (e ListFontColorSet) accept(v Visitor) error         { return v.VisitListFontColorSet(e) }
func (e ListBackgroundColorSet) accept(v Visitor) error   { return v.VisitListBackgroundColorSet(e) }
func (e CardAdded) accept(v Visitor) error                { return v.VisitCardAdded(e) }
func (e CardRemoved) accept(v Visitor) error              { return v.VisitCardRemoved(e) }
func (e CardsReordered) accept(v Visitor) error           { return v.VisitCardsReordered(e) }
func (e CardTitleSet) accept(v Visitor) error             { return v.VisitCardTitleSet(e) }
func (e CardTextSet) accept(v Visitor) error              { return v.VisitCardTextSet(e) }
func (e CardCategorySet) accept(v Visitor) error          { return v.VisitCardCategorySet(e) }
func (e CardDueDateSet) accept(v Visitor) error           { return v.VisitCardDueDateSet(e) }
func (e CardTagAdded) accept(v Visitor) error             { return v.VisitCardTagAdded(e) }
func (e CardTagRemoved) accept(v Visitor) error           { return v.VisitCardTagRemoved(e) }
func (e CardColorPresetSet) accept(v Visitor) error       { return v.VisitCardColorPresetSet(e) }
func (e SubtaskAdded) accept(v Visitor) error             { return v.VisitSubtaskAdded(e) }
func (e SubtaskRemoved) accept(v Visitor) error           { return v.VisitSubtaskRemoved(e) }
func (e SubtasksReordered) accept(v Visitor) error        { return v.VisitSubtasksReordered(e) }
func (e TagNameSet) accept(v Visitor) error               { return v.VisitTagNameSet(e) }
func (e TagFontColorSet) accept(v Visitor) error          { return v.VisitTagFontColorSet(e) }
func (e TagBackgroundColorSet) accept(v Visitor) error    { return v.VisitTagBackgroundColorSet(e) }
func (e SubtaskNameSet) accept(v Visitor) error           { return v.VisitSubtaskNameSet(e) }
func (e SubtaskCompletedSet) accept(v Visitor) error      { return v.VisitSubtaskCompletedSet(e) }
func (e ColorPresetNameSet) accept(v Visitor) error       { return v.VisitColorPresetNameSet(e) }
func (e ColorPresetForegroundSet) accept(v Visitor) error { return v.VisitColorPresetForegroundSet(e) }
func (e ColorPresetBackgroundSet) accept(v Visitor) error { return v.VisitColorPresetBackgroundSet(e) }
func (e MessageProcessed) accept(v Visitor) error         { return v.VisitMessageProcessed(e) }

// Visitor handles every event variant.
type Visitor interface {
	VisitBoardAdded(e BoardAdded) error
	VisitBoardTitleSet(e BoardTitleSet) error
	VisitBoardFontColorSet(e BoardFontColorSet) error
	VisitBoardBackgroundColorSet(e BoardBackgroundColorSet) error
	VisitBoardRemoved(e BoardRemoved) error
	VisitListAdded(e ListAdded) error
	VisitListRemoved(e ListRemoved) error
	VisitListsReordered(e ListsReordered) error
	VisitTagAdded(e TagAdded) error
	VisitTagRemoved(e TagRemoved) error
	VisitColorPresetAdded(e ColorPresetAdded) error
	VisitColorPresetRemoved(e ColorPresetRemoved) error
	VisitDefaultColorPresetSet(e DefaultColorPresetSet) error
	VisitCardMoved(e CardMoved) error
	VisitListTitleSet(e ListTitleSet) error
	VisitListFontColorSet(e ListFontColorSet) error
	VisitListBackgroundColorSet(e ListBackgroundColorSet) error
	VisitCardAdded(e CardAdded) error
	VisitCardRemoved(e CardRemoved) error
	VisitCardsReordered(e CardsReordered) error
	VisitCardTitleSet(e CardTitleSet) error
	VisitCardTextSet(e CardTextSet) error
	VisitCardCategorySet(e CardCategorySet) error
	VisitCardDueDateSet(e CardDueDateSet) error
	VisitCardTagAdded(e CardTagAdded) error
	VisitCardTagRemoved(e CardTagRemoved) error
	VisitCardColorPresetSet(e CardColorPresetSet) error
	VisitSubtaskAdded(e SubtaskAdded) error
	VisitSubtaskRemoved(e SubtaskRemoved) error
	VisitSubtasksReordered(e SubtasksReordered) error
	VisitTagNameSet(e TagNameSet) error
	VisitTagFontColorSet(e TagFontColorSet) error
	VisitTagBackgroundColorSet(e TagBackgroundColorSet) error
	VisitSubtaskNameSet(e SubtaskNameSet) error
	VisitSubtaskCompletedSet(e SubtaskCompletedSet) error
	VisitColorPresetNameSet(e ColorPresetNameSet) error
	VisitColorPresetForegroundSet(e ColorPresetForegroundSet) error
	VisitColorPresetBackgroundSet(e ColorPresetBackgroundSet) error
	VisitMessageProcessed(e MessageProcessed) error
}

// Visit dispatches e to the matching Visitor method.
func Visit(e Event, v Visitor) error {
	return e.accept(v)
}
