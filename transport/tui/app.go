package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/memory-match/game/engine"
)

const helpText = "arrows move | enter/space select | e/m/h new easy/medium/hard game | r restart | q quit"

// App is a local terminal front-end: it renders one engine and feeds it keyboard input
type App struct {
	app      *tview.Application
	engine   engine.Engine
	renderer *TableRenderer

	// dispatch runs engine calls off the UI goroutine, because engine
	// commands queue draws that the UI goroutine must be free to apply.
	// Calls keep key-press order.
	dispatch func(func())
	stop     func()
	inputs   *dispatcher
}

// NewApp builds the terminal UI and starts a game with config
func NewApp(config *engine.GameConfig) (*App, error) {
	app := tview.NewApplication()
	renderer := NewTableRenderer(func(f func()) { app.QueueUpdateDraw(f) })

	eng, err := engine.NewEngine(config, renderer, engine.RealScheduler{})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	a := newApp(eng, renderer)
	a.app = app
	a.stop = app.Stop
	a.inputs = newDispatcher(dispatchQueueSize)
	a.dispatch = a.inputs.Dispatch

	app.SetRoot(a.layout(), true).SetFocus(renderer.table)
	return a, nil
}

func newApp(eng engine.Engine, renderer *TableRenderer) *App {
	a := &App{
		engine:   eng,
		renderer: renderer,
		dispatch: func(f func()) { f() },
		stop:     func() {},
	}
	renderer.table.SetInputCapture(a.handleKey)
	return a
}

func (a *App) layout() tview.Primitive {
	help := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText(helpText)

	board := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(a.renderer.table, 0, 3, true).
		AddItem(nil, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.renderer.status, 1, 0, false).
		AddItem(board, 0, 1, true).
		AddItem(a.renderer.message, 1, 0, false).
		AddItem(help, 1, 0, false)
	root.SetBorder(true).SetTitle(" Memory Match ")

	return root
}

// Run blocks until the user quits or ctx is cancelled, then closes the engine
func (a *App) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()

	log.Info().Str("difficulty", string(a.engine.GetDifficulty())).Msg("terminal UI started")
	defer a.engine.Close()
	if a.inputs != nil {
		defer a.inputs.Close()
	}

	return a.app.Run()
}

// handleKey turns key presses into engine calls. Arrow keys fall through to
// the table so it can move the cursor.
func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter:
		a.selectCurrent()
		return nil
	case tcell.KeyEscape:
		a.stop()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case ' ':
			a.selectCurrent()
		case 'e', 'E':
			a.newGame(engine.Easy)
		case 'm', 'M':
			a.newGame(engine.Medium)
		case 'h', 'H':
			a.newGame(engine.Hard)
		case 'r', 'R':
			a.dispatch(func() { a.engine.Reset() })
		case 'q', 'Q':
			a.stop()
		default:
			return event
		}
		return nil
	}
	return event
}

func (a *App) selectCurrent() {
	index := a.renderer.Selected()
	if index < 0 {
		return
	}
	a.dispatch(func() { a.engine.SelectTile(index) })
}

func (a *App) newGame(difficulty engine.Difficulty) {
	a.dispatch(func() { a.engine.Initialize(difficulty) })
}
