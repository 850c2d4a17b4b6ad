package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/harbor/internal/presentation/tui"
	"github.com/aretw0/harbor/pkg/harbor"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// PrintPorts writes one line per port: name, ships taken and capacity.
func PrintPorts(w io.Writer, m *harbor.Manager) {
	for _, name := range m.Names() {
		view, err := m.Port(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%d/%d\n", name, len(view.Ships), view.Capacity)
	}
}

// PrintShips writes one "index Kind:payload" line per ship of the port.
func PrintShips(w io.Writer, m *harbor.Manager, port string) error {
	view, err := m.Port(port)
	if err != nil {
		return err
	}
	for i, ship := range view.Ships {
		fmt.Fprintf(w, "%d\t%s:%s\n", i, ship.Kind(), ship.Describe())
	}
	return nil
}

// ShowPort renders the port grid, styled when out is a terminal.
func ShowPort(out *os.File, m *harbor.Manager, port string) error {
	view, err := m.Port(port)
	if err != nil {
		return err
	}
	rendered, err := tui.NewRenderer(out)(tui.Grid(view))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}
