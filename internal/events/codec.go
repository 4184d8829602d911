package events

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
)

var decoders = map[string]func([]byte) (Event, error){
	"boardAdded":               decodeAs[BoardAdded],
	"boardTitleSet":            decodeAs[BoardTitleSet],
	"boardFontColorSet":        decodeAs[BoardFontColorSet],
	"boardBackgroundColorSet":  decodeAs[BoardBackgroundColorSet],
	"boardRemoved":             decodeAs[BoardRemoved],
	"listAdded":                decodeAs[ListAdded],
	"listRemoved":              decodeAs[ListRemoved],
	"listsReordered":           decodeAs[ListsReordered],
	"tagAdded":                 decodeAs[TagAdded],
	"tagRemoved":               decodeAs[TagRemoved],
	"colorPresetAdded":         decodeAs[ColorPresetAdded],
	"colorPresetRemoved":       decodeAs[ColorPresetRemoved],
	"defaultColorPresetSet":    decodeAs[DefaultColorPresetSet],
	"cardMoved":                decodeAs[CardMoved],
	"listTitleSet":             decodeAs[ListTitleSet],
	"listFontColorSet":         decodeAs[ListFontColorSet],
	"listBackgroundColorSet":   decodeAs[ListBackgroundColorSet],
	"cardAdded":                decodeAs[CardAdded],
	"cardRemoved":              decodeAs[CardRemoved],
	"cardsReordered":           decodeAs[CardsReordered],
	"cardTitleSet":             decodeAs[CardTitleSet],
	"cardTextSet":              decodeAs[CardTextSet],
	"cardCategorySet":          decodeAs[CardCategorySet],
	"cardDueDateSet":           decodeAs[CardDueDateSet],
	"cardTagAdded":             decodeAs[CardTagAdded],
	"cardTagRemoved":           decodeAs[CardTagRemoved],
	"cardColorPresetSet":       decodeAs[CardColorPresetSet],
	"subtaskAdded":             decodeAs[SubtaskAdded],
	"subtaskRemoved":           decodeAs[SubtaskRemoved],
	"subtasksReordered":        decodeAs[SubtasksReordered],
	"tagNameSet":               decodeAs[TagNameSet],
	"tagFontColorSet":          decodeAs[TagFontColorSet],
	"tagBackgroundColorSet":    decodeAs[TagBackgroundColorSet],
	"subtaskNameSet":           decodeAs[SubtaskNameSet],
	"subtaskCompletedSet":      decodeAs[SubtaskCompletedSet],
	"colorPresetNameSet":       decodeAs[ColorPresetNameSet],
	"colorPresetForegroundSet": decodeAs[ColorPresetForegroundSet],
	"colorPresetBackgroundSet": decodeAs[ColorPresetBackgroundSet],
	"messageProcessed":         decodeAs[MessageProcessed],
}

func decodeAs[E Event](data []byte) (Event, error) {
	var e E
	if err := sonic.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return e, nil
}

// Marshal encodes e as a JSON object with a "type" discriminator.
func Marshal(e Event) ([]byte, error) {
	body, err := sonic.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type(), err)
	}
	var buf bytes.Buffer
	buf.Grow(len(body) + len(e.Type()) + 12)
	buf.WriteString(`{"type":`)
	typ, _ := sonic.Marshal(e.Type())
	buf.Write(typ)
	if rest := bytes.TrimSpace(body[1:]); len(rest) > 1 {
		buf.WriteByte(',')
		buf.Write(rest)
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// Decode maps a payload produced by Marshal back to its variant.
func Decode(data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := sonic.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	dec, ok := decoders[head.Type]
	if !ok {
		return nil, fmt.Errorf("decode event: unknown type %q", head.Type)
	}
	e, err := dec(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return e, nil
}
