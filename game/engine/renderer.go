package engine

// Renderer receives display commands from the engine.
// Implementations must not call back into the engine synchronously.
type Renderer interface {
	// DrawBoard draws a fresh board with every tile hidden
	DrawBoard(layout Layout, symbols []string)
	SetTileState(index int, state TileState)
	ShowMoves(moves int)
	ShowTime(seconds int)
	// ShowMessage displays the terminal message; an empty string clears it
	ShowMessage(text string)
}

// NopRenderer discards every command
type NopRenderer struct{}

func (NopRenderer) DrawBoard(Layout, []string)  {}
func (NopRenderer) SetTileState(int, TileState) {}
func (NopRenderer) ShowMoves(int)               {}
func (NopRenderer) ShowTime(int)                {}
func (NopRenderer) ShowMessage(string)          {}

// MultiRenderer fans commands out to several renderers in order
type MultiRenderer []Renderer

func (m MultiRenderer) DrawBoard(layout Layout, symbols []string) {
	for _, r := range m {
		r.DrawBoard(layout, symbols)
	}
}

func (m MultiRenderer) SetTileState(index int, state TileState) {
	for _, r := range m {
		r.SetTileState(index, state)
	}
}

func (m MultiRenderer) ShowMoves(moves int) {
	for _, r := range m {
		r.ShowMoves(moves)
	}
}

func (m MultiRenderer) ShowTime(seconds int) {
	for _, r := range m {
		r.ShowTime(seconds)
	}
}

func (m MultiRenderer) ShowMessage(text string) {
	for _, r := range m {
		r.ShowMessage(text)
	}
}
