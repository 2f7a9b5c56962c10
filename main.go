package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"SketchBoard/internal/engine"
	boardnet "SketchBoard/internal/net"
	"SketchBoard/internal/ui"
)

var (
	boardWidth   int
	boardHeight  int
	historyLimit int
	mirrorAddr   string
	advertise    bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "sketchboard [share-link]",
	Short: "A raster whiteboard with shapes, eraser and undo",
	Long: `sketchboard opens a drawing board with pen, rectangle, ellipse and eraser tools.
Every finished stroke is committed to a pixel surface with full undo/redo.
The board can be mirrored read-only to viewers on the local network.

Passing a sketchboard:// link opens a viewer for that board instead.`,
	Version: "1.0.0",
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
	RunE: runHost,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")
	rootCmd.Flags().IntVar(&boardWidth, "width", 1024, "initial board width")
	rootCmd.Flags().IntVar(&boardHeight, "height", 688, "initial board height")
	rootCmd.Flags().IntVar(&historyLimit, "history-limit", 0, "maximum undo snapshots to keep (0 keeps all)")
	rootCmd.Flags().StringVar(&mirrorAddr, "mirror", fmt.Sprintf(":%d", boardnet.DefaultPort), "address serving the read-only mirror (empty disables it)")
	rootCmd.Flags().BoolVar(&advertise, "advertise", true, "announce the mirror over mDNS")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runHost(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if !strings.HasPrefix(args[0], boardnet.CustomURLScheme) {
			return fmt.Errorf("expected a %s link, got %q", boardnet.CustomURLScheme, args[0])
		}
		log.Println("Starting as VIEWER")
		ui.RunViewer(args[0])
		return nil
	}

	log.Println("Starting as HOST")
	e, err := engine.New(boardWidth, boardHeight, engine.WithHistoryLimit(historyLimit))
	if err != nil {
		return err
	}
	defer e.Close()

	var shareLink string
	if mirrorAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		link, stop, err := startMirror(ctx, e)
		if err != nil {
			// drawing works without the mirror
			log.Printf("[MIRROR] Disabled: %v", err)
		} else {
			defer stop()
			shareLink = link
		}
	}

	ui.RunApp(e, ui.Options{
		ShareLink: shareLink,
		Width:     float32(boardWidth),
		Height:    float32(boardHeight),
	})
	return nil
}

// startMirror serves the mirror, publishes a frame on every revision and
// optionally advertises the board. It returns the share link and a stop
// function for the mDNS announcement.
func startMirror(ctx context.Context, e *engine.Engine) (string, func(), error) {
	ln, err := net.Listen("tcp", mirrorAddr)
	if err != nil {
		return "", nil, fmt.Errorf("listen on %s: %w", mirrorAddr, err)
	}
	hub := boardnet.NewHub(e.Session())
	go func() {
		if err := hub.Serve(ctx, ln); err != nil {
			log.Printf("[MIRROR] Server stopped: %v", err)
		}
	}()
	publishFrames(e, hub)

	port := ln.Addr().(*net.TCPAddr).Port
	ip, err := boardnet.GetOutgoingIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	link := boardnet.ShareLink(ip, port)
	log.Printf("[MIRROR] Share link: %s", link)

	stop := func() {}
	if advertise {
		srv, err := boardnet.Advertise(port, e.Session())
		if err != nil {
			log.Printf("[MDNS] Advertise failed: %v", err)
		} else {
			log.Printf("[MDNS] Advertising board on port %d", port)
			stop = func() { _ = srv.Shutdown() }
		}
	}
	return link, stop, nil
}
