package editor

import (
	"fmt"
	"strings"
)

// Mode is the interaction mode of the controller.
type Mode int

const (
	ModeNone Mode = iota
	ModeSelection
	ModeInsert
	ModePan
	ModeMove
	ModeLine
	ModeRectangle
	ModeEllipse
	ModeText
	ModeImage
	ModePoint
	ModeEdit
	ModeTextEditor
)

var modeNames = [...]string{
	ModeNone:       "None",
	ModeSelection:  "Selection",
	ModeInsert:     "Insert",
	ModePan:        "Pan",
	ModeMove:       "Move",
	ModeLine:       "Line",
	ModeRectangle:  "Rectangle",
	ModeEllipse:    "Ellipse",
	ModeText:       "Text",
	ModeImage:      "Image",
	ModePoint:      "Point",
	ModeEdit:       "Edit",
	ModeTextEditor: "TextEditor",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode maps a case-insensitive mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(name, s) {
			return Mode(i), nil
		}
	}
	return ModeNone, fmt.Errorf("unknown mode: %s", s)
}

// modeState holds the active mode and at most one suspended mode. Storing
// again overwrites the suspended slot; there is no deeper stack.
type modeState struct {
	current   Mode
	suspended Mode
}

func (s *modeState) store() { s.suspended = s.current }

func (s *modeState) restore() { s.current = s.suspended }
