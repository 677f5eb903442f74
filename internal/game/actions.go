// internal/game/actions.go
//
// The closed set of intents the engine accepts, and their JSON envelope.
//
// Every variant implements Action through the unexported isAction marker, so
// no package outside game can add one. Kinds lists every kind; the engine
// tests walk it to prove each variant has a branch in the reducers.
//
// Wire shape: {"type":"KEYPRESS","key":"A","shift":false},
// {"type":"CHEAT","unit":"entry","isReveal":true}, and so on. An unknown
// type decodes to Unrecognized, which the reducers treat as a no-op.

package game

import (
	"encoding/json"
	"fmt"

	"github.com/robalobadob/crossword/internal/grid"
)

// ActionKind is the wire name of an action variant.
type ActionKind string

const (
	KindKeypress          ActionKind = "KEYPRESS"
	KindSetActive         ActionKind = "SETACTIVE"
	KindSetActivePosition ActionKind = "SETACTIVEPOSITION"
	KindClickedEntry      ActionKind = "CLICKEDENTRY"
	KindCheat             ActionKind = "CHEAT"
	KindChangeDirection   ActionKind = "CHANGEDIRECTION"
	KindToggleKeyboard    ActionKind = "TOGGLEKEYBOARD"
	KindToggleTablet      ActionKind = "TOGGLETABLET"
	KindToggleAutocheck   ActionKind = "TOGGLEAUTOCHECK"
	KindDismissKeepTrying ActionKind = "DISMISSKEEPTRYING"
	KindDismissSuccess    ActionKind = "DISMISSSUCCESS"
)

// Kinds returns every recognized action kind.
func Kinds() []ActionKind {
	return []ActionKind{
		KindKeypress,
		KindSetActive,
		KindSetActivePosition,
		KindClickedEntry,
		KindCheat,
		KindChangeDirection,
		KindToggleKeyboard,
		KindToggleTablet,
		KindToggleAutocheck,
		KindDismissKeepTrying,
		KindDismissSuccess,
	}
}

// Action is one user intent.
type Action interface {
	Kind() ActionKind
	isAction()
}

// Keypress is a named key with the shift modifier. Key names follow the
// browser convention ("A", "Backspace", "ArrowLeft", "Tab", " ") plus the
// on-screen keyboard names in braces ("{bksp}", "{rebus}", "{dir}", ...).
type Keypress struct {
	Key   string
	Shift bool
}

// SetActive places the cursor and sets its direction.
type SetActive struct {
	Active grid.PosAndDir
}

// SetActivePosition places the cursor, keeping its direction.
type SetActivePosition struct {
	Position grid.Position
}

// ClickedEntry selects an entry by index.
type ClickedEntry struct {
	EntryIndex int
}

// Cheat checks (or reveals) the cells selected by Unit.
type Cheat struct {
	Unit     CheatUnit
	IsReveal bool
}

type ChangeDirection struct{}
type ToggleKeyboard struct{}
type ToggleTablet struct{}
type ToggleAutocheck struct{}
type DismissKeepTrying struct{}
type DismissSuccess struct{}

// Unrecognized carries an action type the engine does not know.
type Unrecognized struct {
	Type string
}

func (Keypress) Kind() ActionKind          { return KindKeypress }
func (SetActive) Kind() ActionKind         { return KindSetActive }
func (SetActivePosition) Kind() ActionKind { return KindSetActivePosition }
func (ClickedEntry) Kind() ActionKind      { return KindClickedEntry }
func (Cheat) Kind() ActionKind             { return KindCheat }
func (ChangeDirection) Kind() ActionKind   { return KindChangeDirection }
func (ToggleKeyboard) Kind() ActionKind    { return KindToggleKeyboard }
func (ToggleTablet) Kind() ActionKind      { return KindToggleTablet }
func (ToggleAutocheck) Kind() ActionKind   { return KindToggleAutocheck }
func (DismissKeepTrying) Kind() ActionKind { return KindDismissKeepTrying }
func (DismissSuccess) Kind() ActionKind    { return KindDismissSuccess }
func (u Unrecognized) Kind() ActionKind    { return ActionKind(u.Type) }

func (Keypress) isAction()          {}
func (SetActive) isAction()         {}
func (SetActivePosition) isAction() {}
func (ClickedEntry) isAction()      {}
func (Cheat) isAction()             {}
func (ChangeDirection) isAction()   {}
func (ToggleKeyboard) isAction()    {}
func (ToggleTablet) isAction()      {}
func (ToggleAutocheck) isAction()   {}
func (DismissKeepTrying) isAction() {}
func (DismissSuccess) isAction()    {}
func (Unrecognized) isAction()      {}

// envelope is the JSON form of every action.
type envelope struct {
	Type       ActionKind      `json:"type"`
	Key        string          `json:"key,omitempty"`
	Shift      bool            `json:"shift,omitempty"`
	Active     *grid.PosAndDir `json:"active,omitempty"`
	Position   *grid.Position  `json:"position,omitempty"`
	EntryIndex *int            `json:"entryIndex,omitempty"`
	Unit       string          `json:"unit,omitempty"`
	IsReveal   bool            `json:"isReveal,omitempty"`
}

// DecodeAction parses a JSON action envelope.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAction, err)
	}
	switch env.Type {
	case KindKeypress:
		if env.Key == "" {
			return nil, fmt.Errorf("%w: KEYPRESS without key", ErrMalformedAction)
		}
		return Keypress{Key: env.Key, Shift: env.Shift}, nil
	case KindSetActive:
		if env.Active == nil {
			return nil, fmt.Errorf("%w: SETACTIVE without active", ErrMalformedAction)
		}
		return SetActive{Active: *env.Active}, nil
	case KindSetActivePosition:
		if env.Position == nil {
			return nil, fmt.Errorf("%w: SETACTIVEPOSITION without position", ErrMalformedAction)
		}
		return SetActivePosition{Position: *env.Position}, nil
	case KindClickedEntry:
		if env.EntryIndex == nil {
			return nil, fmt.Errorf("%w: CLICKEDENTRY without entryIndex", ErrMalformedAction)
		}
		return ClickedEntry{EntryIndex: *env.EntryIndex}, nil
	case KindCheat:
		unit, err := ParseCheatUnit(env.Unit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedAction, err)
		}
		return Cheat{Unit: unit, IsReveal: env.IsReveal}, nil
	case KindChangeDirection:
		return ChangeDirection{}, nil
	case KindToggleKeyboard:
		return ToggleKeyboard{}, nil
	case KindToggleTablet:
		return ToggleTablet{}, nil
	case KindToggleAutocheck:
		return ToggleAutocheck{}, nil
	case KindDismissKeepTrying:
		return DismissKeepTrying{}, nil
	case KindDismissSuccess:
		return DismissSuccess{}, nil
	default:
		return Unrecognized{Type: string(env.Type)}, nil
	}
}

// EncodeAction renders an action as its JSON envelope.
func EncodeAction(a Action) ([]byte, error) {
	env := envelope{Type: a.Kind()}
	switch act := a.(type) {
	case Keypress:
		env.Key, env.Shift = act.Key, act.Shift
	case SetActive:
		env.Active = &act.Active
	case SetActivePosition:
		env.Position = &act.Position
	case ClickedEntry:
		env.EntryIndex = &act.EntryIndex
	case Cheat:
		env.Unit, env.IsReveal = act.Unit.String(), act.IsReveal
	}
	return json.Marshal(env)
}
