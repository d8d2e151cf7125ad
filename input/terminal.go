package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/sandfall/vmath"
)

// CellMapper maps a screen position to a lattice cell.
type CellMapper func(x, y int) (vmath.Cell, bool)

// Terminal reads tcell events on a background goroutine and folds them into
// signals on Poll. Only Poll touches the signal state, so the tick loop
// stays single-threaded.
type Terminal struct {
	events chan tcell.Event
	quit   chan struct{}
	toCell CellMapper

	// Mouse state persists between polls; terminals report presses and
	// motion but the release only arrives as a button-less event.
	buttons tcell.ButtonMask
	pointer vmath.Cell
	inside  bool
}

// NewTerminal starts reading events from screen. toCell may be nil when the
// pointer is not needed.
func NewTerminal(screen tcell.Screen, toCell CellMapper) *Terminal {
	t := &Terminal{
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
		toCell: toCell,
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	go screen.ChannelEvents(t.events, t.quit)
	return t
}

// newTerminalFromChannel builds a source over an existing event channel.
func newTerminalFromChannel(events chan tcell.Event, toCell CellMapper) *Terminal {
	return &Terminal{events: events, quit: make(chan struct{}), toCell: toCell}
}

// Poll implements Source. It drains every pending event without blocking.
func (t *Terminal) Poll() Signals {
	var s Signals
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				s.Active |= SignalQuit
				return t.withMouse(s)
			}
			s.Active |= t.handle(ev)
		default:
			return t.withMouse(s)
		}
	}
}

// Close stops the event goroutine.
func (t *Terminal) Close() {
	select {
	case <-t.quit:
	default:
		close(t.quit)
	}
}

func (t *Terminal) withMouse(s Signals) Signals {
	if !t.inside {
		return s
	}
	s.Pointer = t.pointer
	s.HasPointer = true
	if t.buttons&tcell.Button1 != 0 {
		s.Active |= SignalSpawn
	}
	if t.buttons&tcell.Button2 != 0 {
		s.Active |= SignalErase
	}
	return s
}

func (t *Terminal) handle(ev tcell.Event) Signal {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return keySignal(ev)
	case *tcell.EventMouse:
		t.buttons = ev.Buttons()
		if t.toCell != nil {
			t.pointer, t.inside = t.toCell(ev.Position())
		}
	case *tcell.EventResize:
		return SignalResize
	}
	return 0
}

func keySignal(ev *tcell.EventKey) Signal {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return SignalQuit
	case tcell.KeyLeft:
		return SignalLeft
	case tcell.KeyRight:
		return SignalRight
	case tcell.KeyUp:
		return SignalUp
	case tcell.KeyDown:
		return SignalDown
	case tcell.KeyTab:
		return SignalNextMaterial
	case tcell.KeyBacktab:
		return SignalPrevMaterial
	case tcell.KeyEnter:
		return SignalSpawn
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		return SignalErase
	case tcell.KeyRune:
		return runeSignal(ev.Rune())
	}
	return 0
}

func runeSignal(r rune) Signal {
	switch r {
	case ' ':
		return SignalSpawn
	case 'x':
		return SignalErase
	case ']':
		return SignalNextMaterial
	case '[':
		return SignalPrevMaterial
	case '+', '=':
		return SignalBrushUp
	case '-':
		return SignalBrushDown
	case 'p':
		return SignalPause
	case 'n':
		return SignalStep
	case 'q':
		return SignalQuit
	case 'h':
		return SignalLeft
	case 'l':
		return SignalRight
	case 'k':
		return SignalUp
	case 'j':
		return SignalDown
	}
	return 0
}
