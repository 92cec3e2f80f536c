package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/lumen/pkg/bridge"
	"gitlab.com/tinyland/lab/lumen/pkg/engine"
	"gitlab.com/tinyland/lab/lumen/pkg/panel"
)

// TestEngineStartsBeforeProgramRuns wires the adapter the way main does:
// the status hook forwards to prog.Send and Start is called before Run.
func TestEngineStartsBeforeProgramRuns(t *testing.T) {
	b := bridge.New(nil)
	var prog *tea.Program
	adapter := engine.NewAdapter(
		engine.LoaderFunc(func(context.Context) (engine.Engine, error) {
			return nil, errors.New("no engine")
		}),
		engine.WithStatusHook(StatusHook(func(msg tea.Msg) { prog.Send(msg) })),
	)

	m, err := NewAppModel(Options{Panel: panel.New(b), Engine: adapter})
	if err != nil {
		t.Fatal(err)
	}
	prog = tea.NewProgram(m,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	started := make(chan error, 1)
	go func() { started <- adapter.Start(context.Background(), b.Pull()) }()
	select {
	case err := <-started:
		if err != nil {
			t.Fatalf("expected Start to succeed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start blocked before the program was running")
	}

	runDone := make(chan error, 1)
	go func() {
		_, err := prog.Run()
		runDone <- err
	}()

	select {
	case <-adapter.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected engine goroutine to finish once the program runs")
	}
	if adapter.Status() != engine.StatusFailed {
		t.Errorf("expected status failed, got %s", adapter.Status())
	}

	prog.Quit()
	select {
	case err := <-runDone:
		if err != nil {
			t.Errorf("expected clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("program did not quit")
	}
}
