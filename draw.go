package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/export"
	"SketchBoard/internal/script"
)

var (
	drawScript string
	drawOut    string
	drawWidth  int
	drawHeight int
	drawLimit  int
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Replay a gesture script headlessly and export the result",
	Long: `Replay a JSON-lines gesture script against a fresh board and write the
surface to --out. The output format follows the extension (.png or .pdf).`,
	Example: `  sketchboard draw --script shapes.jsonl --out shapes.png
  cat shapes.jsonl | sketchboard draw --out shapes.pdf`,
	Args: cobra.NoArgs,
	RunE: runDraw,
}

func init() {
	drawCmd.Flags().StringVarP(&drawScript, "script", "s", "-", "script file ('-' reads stdin)")
	drawCmd.Flags().StringVarP(&drawOut, "out", "o", "", "output file (.png or .pdf)")
	drawCmd.Flags().IntVar(&drawWidth, "width", 800, "surface width")
	drawCmd.Flags().IntVar(&drawHeight, "height", 600, "surface height")
	drawCmd.Flags().IntVar(&drawLimit, "history-limit", 0, "maximum undo snapshots to keep (0 keeps all)")
	_ = drawCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(drawCmd)
}

func runDraw(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if drawScript != "-" {
		f, err := os.Open(drawScript)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	e, err := engine.New(drawWidth, drawHeight, engine.WithHistoryLimit(drawLimit))
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := script.Run(in, e)
	if err != nil {
		return err
	}
	data, err := e.ExportSurfaceAsImage()
	if err != nil {
		return err
	}
	st := e.State()
	if err := export.WriteFile(drawOut, data, st.Width, st.Height); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Replayed %d operations (%d commits) into %s (%dx%d)\n",
		res.Ops, res.Commits, drawOut, st.Width, st.Height)
	return nil
}
