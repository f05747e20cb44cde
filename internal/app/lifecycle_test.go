package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/calcpad/internal/domain"
	"github.com/bft-labs/calcpad/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockLogger) Debug(msg string, fields ...ports.Field) { m.record(msg) }
func (m *mockLogger) Info(msg string, fields ...ports.Field)  { m.record(msg) }
func (m *mockLogger) Warn(msg string, fields ...ports.Field)  { m.record(msg) }
func (m *mockLogger) Error(msg string, fields ...ports.Field) { m.record(msg) }

func (m *mockLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.messages...)
}

type transition struct {
	previous, current State
	reason            string
}

func TestNewLifecycle(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	if l.State() != StateStopped {
		t.Errorf("initial state = %v, want StateStopped", l.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{StateCrashed, "Crashed"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr error
	}{
		{"stopped to starting", StateStopped, StateStarting, nil},
		{"starting to running", StateStarting, StateRunning, nil},
		{"starting to stopping", StateStarting, StateStopping, nil},
		{"starting to crashed", StateStarting, StateCrashed, nil},
		{"running to stopping", StateRunning, StateStopping, nil},
		{"running to crashed", StateRunning, StateCrashed, nil},
		{"stopping to stopped", StateStopping, StateStopped, nil},
		{"crashed to starting", StateCrashed, StateStarting, nil},
		{"stopped to running", StateStopped, StateRunning, domain.ErrNotRunning},
		{"stopped to stopping", StateStopped, StateStopping, domain.ErrNotRunning},
		{"crashed to stopped", StateCrashed, StateStopped, domain.ErrNotRunning},
		{"running to starting", StateRunning, StateStarting, domain.ErrAlreadyRunning},
		{"starting to stopped", StateStarting, StateStopped, domain.ErrAlreadyRunning},
		{"stopping to running", StateStopping, StateRunning, domain.ErrAlreadyRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}

			want := tt.to
			if tt.wantErr != nil {
				want = tt.from
			}
			if l.State() != want {
				t.Errorf("state = %v, want %v", l.State(), want)
			}
		})
	}
}

func TestLifecycle_ObserverAndLogging(t *testing.T) {
	var got []transition
	logger := &mockLogger{}
	l := NewLifecycle(logger, func(previous, current State, reason string) {
		got = append(got, transition{previous, current, reason})
	})

	_ = l.TransitionTo(StateStarting, "start")
	_ = l.TransitionTo(StateRunning, "listening")
	_ = l.TransitionTo(StateStarting, "invalid")

	want := []transition{
		{StateStopped, StateStarting, "start"},
		{StateStarting, StateRunning, "listening"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d transitions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if n := len(logger.Messages()); n != 2 {
		t.Errorf("logged %d messages, want 2", n)
	}
}

func TestLifecycle_CanStartCanStop(t *testing.T) {
	tests := []struct {
		state     State
		wantStart bool
		wantStop  bool
	}{
		{StateStopped, true, false},
		{StateStarting, false, true},
		{StateRunning, false, true},
		{StateStopping, false, false},
		{StateCrashed, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.state

			if got := l.CanStart(); got != tt.wantStart {
				t.Errorf("CanStart() = %v, want %v", got, tt.wantStart)
			}
			if got := l.CanStop(); got != tt.wantStop {
				t.Errorf("CanStop() = %v, want %v", got, tt.wantStop)
			}
		})
	}
}

func TestLifecycle_Cancel(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	// No cancel func set yet.
	l.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	l.SetCancel(cancel)
	l.Cancel()

	select {
	case <-ctx.Done():
	default:
		t.Error("context should be canceled after Cancel()")
	}
}

func TestLifecycle_WaitWithTimeout(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	l.Go(func() { time.Sleep(10 * time.Millisecond) })
	if err := l.WaitWithTimeout(time.Second); err != nil {
		t.Errorf("WaitWithTimeout() = %v, want nil", err)
	}

	release := make(chan struct{})
	l.Go(func() { <-release })
	if err := l.WaitWithTimeout(10 * time.Millisecond); !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Errorf("WaitWithTimeout() = %v, want ErrShutdownTimeout", err)
	}
	close(release)
}

func TestLifecycle_Concurrency(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = l.State()
				_ = l.CanStart()
				_ = l.CanStop()
			}
		}()
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.TransitionTo(StateStarting, "test")
			_ = l.TransitionTo(StateRunning, "test")
		}()
	}
	wg.Wait()

	if l.State() != StateRunning {
		t.Errorf("state = %v, want Running", l.State())
	}
}
