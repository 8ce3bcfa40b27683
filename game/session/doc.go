// Package session provides session management for the memory match game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Concurrent access control
//   - Session cleanup and expiration
//   - Engine shutdown when a session goes away
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Session represents an individual game session with its own engine instance
// and metadata like creation time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. The manager
// ensures IDs are unique and provides collision-resistant generation using
// cryptographic randomness.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously. Internal locking ensures data consistency.
//
// Usage:
//
//	manager := session.NewManager(engine.DefaultGameConfig(), hub.Renderer)
//
//	// Create a new session
//	sess, err := manager.Create("", engine.Hard)
//	if err != nil {
//		return err
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//	if err != nil {
//		return err
//	}
//
//	// List all active sessions
//	sessions := manager.List()
//
// Cleanup:
//
// Sessions can be explicitly deleted or may expire based on inactivity.
// Either way the session's engine is closed, so no mismatch or clock
// callback outlives its session. StartCleanup runs expiry periodically.
package session
