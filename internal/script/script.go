// Package script replays drawing operations against an engine without a
// window. A script is JSON lines, one operation per line:
//
//	{"op":"tool","value":"rect"}
//	{"op":"color","value":"#e53935"}
//	{"op":"width","width":4}
//	{"op":"down","x":10,"y":10}
//	{"op":"move","x":30,"y":20}
//	{"op":"up","x":50,"y":30,"shift":true}
//
// Blank lines and lines starting with '#' are skipped.
package script

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/state"
)

var ErrUnknownOp = errors.New("unknown operation")

// Op is one scripted operation.
type Op struct {
	Op     string  `json:"op"`
	Value  string  `json:"value,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Shift  bool    `json:"shift,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Result summarizes a replay.
type Result struct {
	Ops     int
	Commits int
}

// Run replays every operation in r. The first failing line stops the replay
// and its line number is part of the error.
func Run(r io.Reader, e *engine.Engine) (Result, error) {
	var res Result
	c := engine.NewController(e)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var op Op
		if err := json.Unmarshal([]byte(text), &op); err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		committed, err := apply(e, c, op)
		if err != nil {
			return res, fmt.Errorf("line %d: %s: %w", line, op.Op, err)
		}
		res.Ops++
		if committed {
			res.Commits++
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read script: %w", err)
	}
	return res, nil
}

func apply(e *engine.Engine, c *engine.Controller, op Op) (bool, error) {
	switch op.Op {
	case "tool":
		kind, err := state.ParseTool(op.Value)
		if err != nil {
			return false, err
		}
		return false, e.SelectTool(kind)
	case "color":
		return false, e.SetHexColor(op.Value)
	case "width":
		return false, e.SetStrokeWidth(op.Width)
	case "cap":
		lc, err := state.ParseLineCap(op.Value)
		if err != nil {
			return false, err
		}
		return false, e.SetLineCap(lc)
	case "join":
		lj, err := state.ParseLineJoin(op.Value)
		if err != nil {
			return false, err
		}
		return false, e.SetLineJoin(lj)
	case "background":
		b, err := engine.ParseBackground(op.Value)
		if err != nil {
			return false, err
		}
		e.SetBackgroundMode(b)
		return false, nil
	case "down":
		_, err := c.Handle(engine.PointerEvent{Kind: engine.PointerDown, X: op.X, Y: op.Y, Shift: op.Shift})
		return false, err
	case "move":
		_, err := c.Handle(engine.PointerEvent{Kind: engine.PointerMove, X: op.X, Y: op.Y, Shift: op.Shift})
		return false, err
	case "up":
		commit, err := c.Handle(engine.PointerEvent{Kind: engine.PointerUp, X: op.X, Y: op.Y, Shift: op.Shift})
		return commit.Revision != 0, err
	case "undo":
		_, err := e.Undo()
		return false, err
	case "redo":
		_, err := e.Redo()
		return false, err
	case "clear":
		commit, err := e.ClearBoard()
		return commit.Revision != 0, err
	case "resize":
		return false, e.Resize(int(op.Width), int(op.Height))
	}
	return false, fmt.Errorf("%w %q", ErrUnknownOp, op.Op)
}
