package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/wricardo/memory-match/game/engine"
)

const hiddenLabel = " ?? "

// TableRenderer draws engine commands into a tview table and two status lines.
// Commands are applied through queue, which must run them on the UI goroutine.
type TableRenderer struct {
	table   *tview.Table
	status  *tview.TextView
	message *tview.TextView
	queue   func(func())

	// owned by the UI goroutine
	layout  engine.Layout
	symbols []string
	states  []engine.TileState
	moves   int
	seconds int
}

// NewTableRenderer creates a renderer. A nil queue applies commands immediately.
func NewTableRenderer(queue func(func())) *TableRenderer {
	if queue == nil {
		queue = func(f func()) { f() }
	}

	table := tview.NewTable().
		SetBorders(true).
		SetSelectable(true, true)

	status := tview.NewTextView().
		SetTextAlign(tview.AlignCenter)

	message := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	return &TableRenderer{
		table:   table,
		status:  status,
		message: message,
		queue:   queue,
	}
}

func (r *TableRenderer) DrawBoard(layout engine.Layout, symbols []string) {
	deck := make([]string, len(symbols))
	copy(deck, symbols)

	r.queue(func() {
		r.layout = layout
		r.symbols = deck
		r.states = make([]engine.TileState, layout.BoardSize)
		r.moves = 0
		r.seconds = 0

		r.table.Clear()
		for i := range r.states {
			r.states[i] = engine.Hidden
			r.renderCell(i)
		}
		r.table.Select(0, 0)
		r.updateStatus()
	})
}

func (r *TableRenderer) SetTileState(index int, state engine.TileState) {
	r.queue(func() {
		if index < 0 || index >= len(r.states) {
			return
		}
		r.states[index] = state
		r.renderCell(index)
	})
}

func (r *TableRenderer) ShowMoves(moves int) {
	r.queue(func() {
		r.moves = moves
		r.updateStatus()
	})
}

func (r *TableRenderer) ShowTime(seconds int) {
	r.queue(func() {
		r.seconds = seconds
		r.updateStatus()
	})
}

func (r *TableRenderer) ShowMessage(text string) {
	r.queue(func() {
		if text == "" {
			r.message.SetText("")
			return
		}
		r.message.SetText("[green::b]" + tview.Escape(text))
	})
}

// IndexAt maps a table cell to a tile index, or -1 when the cell is off the board.
// Call it from the UI goroutine.
func (r *TableRenderer) IndexAt(row, col int) int {
	if r.layout.Columns == 0 || row < 0 || col < 0 || col >= r.layout.Columns {
		return -1
	}
	index := row*r.layout.Columns + col
	if index >= len(r.states) {
		return -1
	}
	return index
}

// Selected returns the tile index under the cursor, or -1
func (r *TableRenderer) Selected() int {
	return r.IndexAt(r.table.GetSelection())
}

func (r *TableRenderer) renderCell(index int) {
	label := hiddenLabel
	color := tcell.ColorGray

	switch r.states[index] {
	case engine.Revealed:
		label = " " + r.symbols[index] + " "
		color = tcell.ColorYellow
	case engine.Matched:
		label = " " + r.symbols[index] + " "
		color = tcell.ColorGreen
	}

	cell := tview.NewTableCell(label).
		SetAlign(tview.AlignCenter).
		SetTextColor(color).
		SetExpansion(1)
	r.table.SetCell(index/r.layout.Columns, index%r.layout.Columns, cell)
}

func (r *TableRenderer) updateStatus() {
	r.status.SetText(fmt.Sprintf("Difficulty: %s | Moves: %d | Time: %ds",
		r.layout.Difficulty, r.moves, r.seconds))
}
