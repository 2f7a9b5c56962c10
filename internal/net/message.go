// Package net publishes a read-only mirror of the board to viewers on the
// local network. The host is the only writer; viewers receive rendered
// frames and never send drawing operations back.
package net

import "time"

const (
	// CustomURLScheme prefixes share links handed to viewers.
	CustomURLScheme = "sketchboard://"
	DefaultPort     = 8888
	MirrorPath      = "/mirror"

	frameType = "frame"
)

// Frame is one rendered revision of the board.
type Frame struct {
	Type     string    `json:"type"`
	Session  string    `json:"session"`
	Revision uint64    `json:"revision"`
	Snapshot string    `json:"snapshot,omitempty"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	PNG      []byte    `json:"png"`
	Time     time.Time `json:"time"`
}
