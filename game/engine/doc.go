// Package engine provides the core game logic for the Memory Match Game.
//
// The engine package implements the game mechanics including:
//   - Deck generation and shuffling with a seedable generator
//   - Tile selection, pair matching and the mismatch flip-back delay
//   - The move counter and the per-second game clock
//   - Victory detection with a single win message
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is a read-only snapshot; symbols of
// hidden tiles are never part of it. GameConfig holds the tunables.
//
// Output goes through a Renderer, which receives draw-board, tile-state,
// moves, timer and message commands. Delayed work goes through a Scheduler:
// RealScheduler uses the wall clock, ManualScheduler is a virtual clock for
// tests and simulations.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultGameConfig(), renderer, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Initialize(engine.Hard)
//	accepted := gameEngine.SelectTile(5)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Two selections make a move. A matching pair stays face up; a mismatched
// pair flips back after the mismatch delay, and selections are ignored until
// it does. The clock starts on the first selection and stops on the win.
//
// Concurrency:
//
// Every method and every scheduled callback runs under the engine's mutex.
// Callbacks carry the id of the game that armed them and do nothing once a
// new game has started or the engine was closed.
package engine
