package parser

import (
	"fmt"

	"github.com/CerenB/miss-hit/compiler/errors"
)

// ContextKind is the kind of construct the parser is currently inside
type ContextKind int

const (
	ContextFunction ContextKind = iota
	ContextClassdef
	ContextLoop
	ContextIf
	ContextSwitch
	ContextBlock // try and spmd
)

func (k ContextKind) String() string {
	switch k {
	case ContextFunction:
		return "function"
	case ContextClassdef:
		return "classdef"
	case ContextLoop:
		return "loop"
	case ContextIf:
		return "if"
	case ContextSwitch:
		return "switch"
	case ContextBlock:
		return "block"
	default:
		return fmt.Sprintf("ContextKind(%d)", int(k))
	}
}

// ContextStack tracks enclosing constructs while parsing
type ContextStack struct {
	frames []ContextKind
}

// Push enters a construct
func (s *ContextStack) Push(kind ContextKind) {
	s.frames = append(s.frames, kind)
}

// Pop leaves the innermost construct. Popping an empty stack means the
// parser itself is broken and raises an internal compiler error.
func (s *ContextStack) Pop() ContextKind {
	if len(s.frames) == 0 {
		panic(errors.NewICE("context stack underflow"))
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Top returns the innermost construct
func (s *ContextStack) Top() (ContextKind, bool) {
	if len(s.frames) == 0 {
		return 0, false
	}
	return s.frames[len(s.frames)-1], true
}

// InContext reports whether kind encloses the current position. The
// search stops at the nearest function or classdef, so a loop around a
// nested function does not count inside it.
func (s *ContextStack) InContext(kind ContextKind) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]
		if frame == kind {
			return true
		}
		if frame == ContextFunction || frame == ContextClassdef {
			return false
		}
	}
	return false
}

// Depth returns the number of open constructs
func (s *ContextStack) Depth() int {
	return len(s.frames)
}
