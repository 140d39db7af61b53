// Package types holds the wire messages of the overlay feed.
package types

import "github.com/mixoverlays/roster/internal/roster"

// Client -> Server
//
// Refresh: {}            force a roster rebuild
// Hello:   {}            no-op, kept for future client identification

type ClientMessage struct {
	Type string `json:"type"` // "Refresh" | "Hello"
}

// Server -> Client
//
// RosterSnapshot: generation + allies/enemies
// Phase:          phase transition ("Disconnected" | "Connected" | "InChampSelect" | "InGame")
// Error:          human-readable error string

type ServerMessage struct {
	Type   string           `json:"type"` // "RosterSnapshot" | "Phase" | "Error"
	Roster *roster.Snapshot `json:"roster,omitempty"`
	Phase  string           `json:"phase,omitempty"`
	Error  string           `json:"error,omitempty"`
}
