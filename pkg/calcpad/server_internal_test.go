package calcpad

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"
)

// failingListener fails every Accept, which makes Serve return at once.
type failingListener struct {
	net.Listener
}

func (failingListener) Accept() (net.Conn, error) {
	return nil, errors.New("accept failed")
}

type shutdownCounter struct {
	BasePlugin
	mu    sync.Mutex
	count int
}

func (p *shutdownCounter) Shutdown(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return nil
}

func (p *shutdownCounter) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func TestServer_ListenerFailureAfterStart(t *testing.T) {
	plugin := &shutdownCounter{}
	var mu sync.Mutex
	var states []State
	observer := func(_, current State, _ string) {
		mu.Lock()
		states = append(states, current)
		mu.Unlock()
	}

	srv, err := NewServer(Config{Listen: "127.0.0.1:0"},
		WithPlugin(plugin),
		WithStateObserver(observer),
	)
	if err != nil {
		t.Fatal(err)
	}
	srv.listen = func(network, address string) (net.Listener, error) {
		ln, err := net.Listen(network, address)
		if err != nil {
			return nil, err
		}
		t.Cleanup(func() { ln.Close() })
		return failingListener{Listener: ln}, nil
	}

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v, want nil", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.Status() != StateCrashed && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.Status() != StateCrashed {
		t.Fatalf("Status = %v, want Crashed", srv.Status())
	}
	for plugin.Count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if plugin.Count() != 1 {
		t.Errorf("plugin shut down %d times, want 1", plugin.Count())
	}

	mu.Lock()
	got := append([]State(nil), states...)
	mu.Unlock()
	want := []State{StateStarting, StateRunning, StateCrashed}
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if err := srv.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop() after crash error = %v, want ErrNotRunning", err)
	}
}
