package input

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pthm-cable/sandfall/vmath"
)

// Script replays a fixed sequence of signal sets, one per Poll, and then
// reports nothing.
type Script struct {
	frames []Signals
	next   int
}

// NewScript creates a script from frames.
func NewScript(frames ...Signals) *Script {
	return &Script{frames: frames}
}

// Poll implements Source.
func (s *Script) Poll() Signals {
	if s.next >= len(s.frames) {
		return Signals{}
	}
	f := s.frames[s.next]
	s.next++
	return f
}

// Done reports whether every frame has been replayed.
func (s *Script) Done() bool {
	return s.next >= len(s.frames)
}

// Len returns the number of frames.
func (s *Script) Len() int {
	return len(s.frames)
}

// ParseScript reads a script, one frame per line:
//
//	[N x] signal... [@col,row]
//
// N repeats the frame, signals are names like spawn, erase, next or pause,
// and @col,row sets the pointer. An empty frame is written as "idle".
// Blank lines and lines starting with # are skipped.
func ParseScript(r io.Reader) (*Script, error) {
	var frames []Signals
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		repeat := 1
		if len(fields) >= 2 && fields[1] == "x" {
			n, err := strconv.Atoi(fields[0])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("script line %d: bad repeat %q", line, fields[0])
			}
			repeat = n
			fields = fields[2:]
		}

		var f Signals
		for _, tok := range fields {
			switch {
			case tok == "idle":
			case strings.HasPrefix(tok, "@"):
				cell, err := parseCell(tok[1:])
				if err != nil {
					return nil, fmt.Errorf("script line %d: %w", line, err)
				}
				f.Pointer = cell
				f.HasPointer = true
			default:
				sig, ok := SignalByName(tok)
				if !ok {
					return nil, fmt.Errorf("script line %d: unknown signal %q", line, tok)
				}
				f.Active |= sig
			}
		}
		for i := 0; i < repeat; i++ {
			frames = append(frames, f)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return NewScript(frames...), nil
}

func parseCell(s string) (vmath.Cell, error) {
	col, row, ok := strings.Cut(s, ",")
	if !ok {
		return vmath.Cell{}, fmt.Errorf("bad pointer %q", s)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return vmath.Cell{}, fmt.Errorf("bad pointer column %q", col)
	}
	r, err := strconv.Atoi(row)
	if err != nil {
		return vmath.Cell{}, fmt.Errorf("bad pointer row %q", row)
	}
	return vmath.C(c, r), nil
}
