package operation

import (
	"sync"

	sw "github.com/filanov/stateswitch"
	"github.com/pkg/errors"
)

const (
	// outcome states
	//
	// a settled operation returns to idle, success and failure
	// differ only in the error slot.
	StateIdle    sw.State = "idle"
	StateLoading sw.State = "loading"

	Begin   sw.TransitionType = "begin"
	Succeed sw.TransitionType = "succeed"
	Fail    sw.TransitionType = "fail"
)

var (
	ErrTransitionArgs = errors.New("expected a valid settle{} transition argument")
	ErrTransition     = errors.New("error in outcome transition")

	machine = newMachine()
)

// settle is passed to the succeed and fail transitions.
type settle struct {
	message    string
	clearError bool
}

// Outcome tracks the loading flag and the last error message of one
// data access instance.
//
// An operation invoked again before the previous call settles is not
// refused, the first call to settle clears the loading flag.
type Outcome struct {
	mu     sync.RWMutex
	state  sw.State
	errMsg string
}

// NewOutcome returns an Outcome, loading sets the initial loading flag.
func NewOutcome(loading bool) *Outcome {
	o := &Outcome{state: StateIdle}
	if loading {
		o.state = StateLoading
	}

	return o
}

// Loading returns true while an operation is in flight.
func (o *Outcome) Loading() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.state == StateLoading
}

// ErrMessage returns the last error message recorded, an empty string when none.
func (o *Outcome) ErrMessage() string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.errMsg
}

// Begin sets the loading flag.
func (o *Outcome) Begin() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.run(Begin, nil)
}

// TryBegin sets the loading flag and returns true, unless an operation is already in flight.
func (o *Outcome) TryBegin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateLoading {
		return false
	}

	o.run(Begin, nil)

	return true
}

// Succeed clears the loading flag, the error slot is reset only when clearError is set.
func (o *Outcome) Succeed(clearError bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.run(Succeed, &settle{clearError: clearError})
}

// Fail clears the loading flag and records the error message.
func (o *Outcome) Fail(message string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.run(Fail, &settle{message: message})
}

// run is invoked with mu held, the transition rules accept every source state
// so an error here is a programming error.
func (o *Outcome) run(t sw.TransitionType, args sw.TransitionArgs) {
	if err := machine.Run(t, slot{o}, args); err != nil {
		panic(errors.Wrap(ErrTransition, string(t)+": "+err.Error()))
	}
}

// slot is the stateswitch view of an Outcome, it is only used with mu held.
type slot struct {
	o *Outcome
}

func (s slot) State() sw.State {
	return s.o.state
}

func (s slot) SetState(state sw.State) error {
	s.o.state = state
	return nil
}

func newMachine() sw.StateMachine {
	m := sw.NewStateMachine()

	m.AddTransition(sw.TransitionRule{
		TransitionType:   Begin,
		SourceStates:     sw.States{StateIdle, StateLoading},
		DestinationState: StateLoading,
		Documentation: sw.TransitionRuleDoc{
			Name:        "Operation started",
			Description: "The loading flag is set before the request is sent.",
		},
	})

	m.AddTransition(sw.TransitionRule{
		TransitionType:   Succeed,
		SourceStates:     sw.States{StateIdle, StateLoading},
		DestinationState: StateIdle,
		Documentation: sw.TransitionRuleDoc{
			Name:        "Operation succeeded",
			Description: "The loading flag is cleared, the error slot is cleared only when the operation asks for it.",
		},
		Transition: func(s sw.StateSwitch, args sw.TransitionArgs) error {
			a, ok := args.(*settle)
			if !ok {
				return ErrTransitionArgs
			}

			if a.clearError {
				s.(slot).o.errMsg = ""
			}

			return nil
		},
	})

	m.AddTransition(sw.TransitionRule{
		TransitionType:   Fail,
		SourceStates:     sw.States{StateIdle, StateLoading},
		DestinationState: StateIdle,
		Documentation: sw.TransitionRuleDoc{
			Name:        "Operation failed",
			Description: "The loading flag is cleared and the error message is recorded.",
		},
		Transition: func(s sw.StateSwitch, args sw.TransitionArgs) error {
			a, ok := args.(*settle)
			if !ok {
				return ErrTransitionArgs
			}

			s.(slot).o.errMsg = a.message

			return nil
		},
	})

	m.DescribeState(StateIdle, sw.StateDoc{Name: "Idle", Description: "No request is in flight."})
	m.DescribeState(StateLoading, sw.StateDoc{Name: "Loading", Description: "A request is in flight."})

	return m
}

// DescribeAsJSON returns a JSON output describing the outcome statemachine.
func DescribeAsJSON() ([]byte, error) {
	return machine.AsJSON()
}
