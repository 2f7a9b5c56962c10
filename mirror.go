package main

import (
	"log"

	"SketchBoard/internal/engine"
	boardnet "SketchBoard/internal/net"
)

// publishFrames sends the current surface to the hub now and after every
// revision change. Style-only changes do not produce frames.
func publishFrames(e *engine.Engine, hub *boardnet.Hub) (cancel func()) {
	var last uint64
	publish := func(s engine.State) {
		data, err := e.ExportSurfaceAsImage()
		if err != nil {
			log.Printf("[MIRROR] Could not encode revision %d: %v", s.Revision, err)
			return
		}
		last = s.Revision
		hub.Publish(boardnet.Frame{
			Revision: s.Revision,
			Width:    s.Width,
			Height:   s.Height,
			PNG:      data,
		})
	}
	publish(e.State())
	return e.Subscribe(func(s engine.State) {
		if s.Revision != last {
			publish(s)
		}
	})
}
