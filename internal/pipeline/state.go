package pipeline

import (
	"fmt"
	"strings"
)

// State is a pipeline run state
type State int

const (
	StateIdle State = iota
	StateResolving
	StateClassifying
	StateInProcess
	StateOutOfProcess
	StateAssembling
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:         "idle",
	StateResolving:    "resolving",
	StateClassifying:  "classifying",
	StateInProcess:    "in_process",
	StateOutOfProcess: "out_of_process",
	StateAssembling:   "assembling",
	StateDone:         "done",
	StateFailed:       "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no transition leaves the state
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// OutOfProcess → InProcess is the only retry edge.
var transitions = map[State][]State{
	StateIdle:         {StateResolving, StateFailed},
	StateResolving:    {StateClassifying, StateFailed},
	StateClassifying:  {StateInProcess, StateOutOfProcess},
	StateOutOfProcess: {StateAssembling, StateInProcess},
	StateInProcess:    {StateAssembling, StateFailed},
	StateAssembling:   {StateDone},
}

// CanTransition reports whether from → to is a legal edge
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Machine tracks one run's states. It is local to a single Compile call.
type Machine struct {
	current State
	trace   []State
}

// NewMachine starts a machine in Idle
func NewMachine() *Machine {
	return &Machine{current: StateIdle, trace: []State{StateIdle}}
}

// Current returns the current state
func (m *Machine) Current() State {
	return m.current
}

// Transition moves to the next state, rejecting illegal edges
func (m *Machine) Transition(to State) error {
	if !CanTransition(m.current, to) {
		return fmt.Errorf("illegal transition %s -> %s", m.current, to)
	}
	m.current = to
	m.trace = append(m.trace, to)
	return nil
}

// Trace returns a copy of the visited states
func (m *Machine) Trace() []State {
	out := make([]State, len(m.trace))
	copy(out, m.trace)
	return out
}

// FellBack reports whether the run took the remote → in-process edge
func (m *Machine) FellBack() bool {
	for i := 1; i < len(m.trace); i++ {
		if m.trace[i-1] == StateOutOfProcess && m.trace[i] == StateInProcess {
			return true
		}
	}
	return false
}

// Path names the compile path taken, for logs and metrics
func (m *Machine) Path() string {
	switch {
	case m.FellBack():
		return "fallback"
	case m.visited(StateOutOfProcess):
		return "out_of_process"
	case m.visited(StateInProcess):
		return "in_process"
	default:
		return "none"
	}
}

func (m *Machine) visited(s State) bool {
	for _, v := range m.trace {
		if v == s {
			return true
		}
	}
	return false
}

// String renders the trace as a → b → c
func (m *Machine) String() string {
	parts := make([]string, len(m.trace))
	for i, s := range m.trace {
		parts[i] = s.String()
	}
	return strings.Join(parts, " -> ")
}
