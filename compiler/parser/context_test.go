package parser

import (
	"testing"

	"github.com/CerenB/miss-hit/compiler/errors"
)

func TestContextStack_PushPop(t *testing.T) {
	var s ContextStack

	if _, ok := s.Top(); ok {
		t.Error("Expected an empty stack to have no top")
	}

	s.Push(ContextFunction)
	s.Push(ContextLoop)
	if s.Depth() != 2 {
		t.Fatalf("Expected depth 2, got %d", s.Depth())
	}
	if top, _ := s.Top(); top != ContextLoop {
		t.Errorf("Expected loop on top, got %s", top)
	}
	if got := s.Pop(); got != ContextLoop {
		t.Errorf("Expected to pop loop, got %s", got)
	}
	if got := s.Pop(); got != ContextFunction {
		t.Errorf("Expected to pop function, got %s", got)
	}
	if s.Depth() != 0 {
		t.Errorf("Expected an empty stack, got depth %d", s.Depth())
	}
}

func TestContextStack_InContext(t *testing.T) {
	tests := []struct {
		name   string
		frames []ContextKind
		kind   ContextKind
		want   bool
	}{
		{"empty", nil, ContextLoop, false},
		{"direct", []ContextKind{ContextLoop}, ContextLoop, true},
		{"through if", []ContextKind{ContextLoop, ContextIf, ContextSwitch}, ContextLoop, true},
		{"through try", []ContextKind{ContextLoop, ContextBlock}, ContextLoop, true},
		{"stops at function", []ContextKind{ContextLoop, ContextFunction}, ContextLoop, false},
		{"stops at classdef", []ContextKind{ContextLoop, ContextClassdef, ContextIf}, ContextLoop, false},
		{"function itself", []ContextKind{ContextFunction}, ContextFunction, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ContextStack
			for _, f := range tt.frames {
				s.Push(f)
			}
			if got := s.InContext(tt.kind); got != tt.want {
				t.Errorf("InContext(%s) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestContextStack_UnderflowIsInternalError(t *testing.T) {
	defer func() {
		if _, ok := recover().(*errors.ICE); !ok {
			t.Error("Expected popping an empty stack to panic with *errors.ICE")
		}
	}()
	var s ContextStack
	s.Pop()
}

func TestContextKind_String(t *testing.T) {
	if ContextSwitch.String() != "switch" || ContextBlock.String() != "block" {
		t.Errorf("Unexpected names %s, %s", ContextSwitch, ContextBlock)
	}
	if got := ContextKind(42).String(); got != "ContextKind(42)" {
		t.Errorf("Expected ContextKind(42), got %s", got)
	}
}
