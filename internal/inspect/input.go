package inspect

import "github.com/gdamore/tcell/v2"

// Action is one inspector command.
type Action uint8

const (
	ActionNone Action = iota
	ActionMoveN
	ActionMoveS
	ActionMoveE
	ActionMoveW
	ActionDragN
	ActionDragS
	ActionDragE
	ActionDragW
	ActionSliceUp
	ActionSliceDown
	ActionSpawn
	ActionDespawn
	ActionMark
	ActionMove
	ActionSwap
	ActionFill
	ActionClear
	ActionDespawnChunk
	ActionPrune
	ActionGenerate
	ActionCenter
	ActionSight
	ActionHelp
	ActionQuit
)

// keyToAction maps a tcell key event to an inspector action.
func keyToAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyUp:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return ActionDragN
		}
		return ActionMoveN
	case tcell.KeyDown:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return ActionDragS
		}
		return ActionMoveS
	case tcell.KeyRight:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return ActionDragE
		}
		return ActionMoveE
	case tcell.KeyLeft:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return ActionDragW
		}
		return ActionMoveW
	case tcell.KeyEscape:
		return ActionQuit
	}
	switch ev.Rune() {
	case 'k':
		return ActionMoveN
	case 'j':
		return ActionMoveS
	case 'l':
		return ActionMoveE
	case 'h':
		return ActionMoveW
	case 'K':
		return ActionDragN
	case 'J':
		return ActionDragS
	case 'L':
		return ActionDragE
	case 'H':
		return ActionDragW
	case '>':
		return ActionSliceUp
	case '<':
		return ActionSliceDown
	case ' ':
		return ActionSpawn
	case 'x':
		return ActionDespawn
	case 'm':
		return ActionMark
	case 'v':
		return ActionMove
	case 's':
		return ActionSwap
	case 'f':
		return ActionFill
	case 'd':
		return ActionClear
	case 'c':
		return ActionDespawnChunk
	case 'p':
		return ActionPrune
	case 'g':
		return ActionGenerate
	case '.':
		return ActionCenter
	case 'o':
		return ActionSight
	case '?':
		return ActionHelp
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// actionToDelta converts a move or drag action to (dx, dy).
func actionToDelta(a Action) (int, int) {
	switch a {
	case ActionMoveN, ActionDragN:
		return 0, -1
	case ActionMoveS, ActionDragS:
		return 0, 1
	case ActionMoveE, ActionDragE:
		return 1, 0
	case ActionMoveW, ActionDragW:
		return -1, 0
	}
	return 0, 0
}
