// Package tui is a local terminal front-end for a single game.
//
// TableRenderer implements engine.Renderer on top of a tview table; App wires
// keyboard input to the engine. Engine calls are dispatched off the UI
// goroutine and draws are queued back onto it with QueueUpdateDraw.
package tui
