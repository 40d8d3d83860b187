package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/mvalens/leadkeeper/internal/logging"
)

// Reachability qualifies whether the network actually reaches the
// internet, independent of having a link up.
type Reachability int

const (
	ReachabilityUnknown Reachability = iota
	ReachabilityReachable
	ReachabilityUnreachable
)

// State is one connectivity observation.
type State struct {
	Connected         bool
	ConnectionType    string
	InternetReachable Reachability
}

// Online treats unknown reachability as online: only a confirmed
// unreachable verdict overrides a connected link.
func (s State) Online() bool {
	return s.Connected && s.InternetReachable != ReachabilityUnreachable
}

// Prober checks whether the remote service answers.
type Prober interface {
	Ping(ctx context.Context) error
}

// Listener receives connectivity state changes.
type Listener func(State)

// Monitor tracks connectivity and fans state changes out to listeners.
// The offline-to-online transition additionally fires registered hooks,
// which is where queue draining and auto-sync attach.
type Monitor struct {
	log logging.Logger

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	onOnline  []func(ctx context.Context)
}

func NewMonitor(log logging.Logger) *Monitor {
	return &Monitor{
		log:       log,
		listeners: make(map[int]Listener),
		state:     State{InternetReachable: ReachabilityUnknown},
	}
}

// Current returns the latest observed state.
func (m *Monitor) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Online reports the latest online verdict.
func (m *Monitor) Online() bool {
	return m.Current().Online()
}

// AddListener registers a listener and immediately invokes it with the
// current state, so subscribers never start with a stale view. The
// returned function removes the listener.
func (m *Monitor) AddListener(l Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	state := m.state
	m.mu.Unlock()

	l(state)
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// OnOnline registers a hook fired on every offline-to-online transition.
func (m *Monitor) OnOnline(hook func(ctx context.Context)) {
	m.mu.Lock()
	m.onOnline = append(m.onOnline, hook)
	m.mu.Unlock()
}

// Apply records a new observation. Listeners run on every change;
// online hooks run only when the online verdict flips from false to
// true.
func (m *Monitor) Apply(ctx context.Context, next State) {
	m.mu.Lock()
	prev := m.state
	if prev == next {
		m.mu.Unlock()
		return
	}
	m.state = next

	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	var hooks []func(ctx context.Context)
	cameOnline := !prev.Online() && next.Online()
	if cameOnline {
		hooks = append(hooks, m.onOnline...)
	}
	m.mu.Unlock()

	if cameOnline {
		m.log.Info(ctx, "connectivity restored", "type", next.ConnectionType)
	} else if !next.Online() {
		m.log.Info(ctx, "connectivity lost")
	}

	for _, l := range listeners {
		l(next)
	}
	for _, h := range hooks {
		h(ctx)
	}
}

// Watch polls the prober until the context is cancelled, translating
// probe results into state observations. Each probe gets a short
// deadline so a hung connection reads as offline.
func (m *Monitor) Watch(ctx context.Context, prober Prober, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := prober.Ping(probeCtx)
			cancel()

			if err != nil {
				m.Apply(ctx, State{Connected: false, InternetReachable: ReachabilityUnreachable})
			} else {
				m.Apply(ctx, State{Connected: true, ConnectionType: "network", InternetReachable: ReachabilityReachable})
			}

		case <-ctx.Done():
			return
		}
	}
}
