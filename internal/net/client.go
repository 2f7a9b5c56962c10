package net

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// MirrorURL turns a host:port or share link into the websocket URL of the
// mirror endpoint.
func MirrorURL(addr string) (string, error) {
	addr = strings.TrimSuffix(strings.TrimPrefix(addr, CustomURLScheme), "/")
	if addr == "" {
		return "", fmt.Errorf("empty mirror address")
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: MirrorPath}
	return u.String(), nil
}

// Watch connects to a host mirror and calls onFrame for every frame until
// ctx is cancelled or the host goes away.
func Watch(ctx context.Context, addr string, onFrame func(Frame)) error {
	u, err := MirrorURL(addr)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", u, err)
	}
	defer conn.Close()
	log.Printf("[MIRROR] Watching %s", u)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		if f.Type != frameType {
			log.Printf("[MIRROR] Ignoring message of type %q", f.Type)
			continue
		}
		onFrame(f)
	}
}
