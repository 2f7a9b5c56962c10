package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	boardnet "SketchBoard/internal/net"
	"SketchBoard/internal/ui"
)

var browseTimeout time.Duration

var viewCmd = &cobra.Command{
	Use:   "view [addr]",
	Short: "Watch a board mirrored by another host",
	Long: `Open a read-only viewer for a board. addr is host:port or a sketchboard:// link.
Without addr the local network is browsed over mDNS and the first board found is opened.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().DurationVar(&browseTimeout, "browse-timeout", 3*time.Second, "how long to look for boards over mDNS")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	addr := ""
	if len(args) == 1 {
		addr = args[0]
	} else {
		found, err := discover(browseTimeout)
		if err != nil {
			return err
		}
		addr = found
	}
	log.Printf("[MIRROR] Opening viewer for %s", addr)
	ui.RunViewer(addr)
	return nil
}

func discover(timeout time.Duration) (string, error) {
	var boards []string
	err := boardnet.Browse(timeout, func(addr string) {
		log.Printf("[MDNS] Found board at %s", addr)
		boards = append(boards, addr)
	})
	if err != nil {
		return "", err
	}
	if len(boards) == 0 {
		return "", fmt.Errorf("no boards found on the local network within %s", timeout)
	}
	return boards[0], nil
}
