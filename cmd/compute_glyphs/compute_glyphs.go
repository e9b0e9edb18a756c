package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/wbrown/img2ascii"
)

func main() {
	app := cli.NewApp()

	app.Name = "compute_glyphs"
	app.Usage = "Pre-render printable ASCII glyph bitmaps for a TrueType font"
	app.ArgsUsage = "FONT"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "path to save the glyph data (default: FONT with a .glyphs extension)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.NArg() < 1 {
			cli.ShowAppHelpAndExit(c, 1)
		}

		logger := log.New(io.Discard, "", 0)
		if c.Bool("verbose") {
			logger.SetOutput(os.Stderr)
		}

		fontPath := c.Args().First()
		outputFile := c.String("output")
		if outputFile == "" {
			baseName := strings.TrimSuffix(filepath.Base(fontPath), filepath.Ext(fontPath))
			outputFile = strings.ToLower(strings.ReplaceAll(baseName, " ", "_")) + ".glyphs"
		}

		logger.Printf("Computing glyphs for font: %s", fontPath)
		fonts, err := img2ascii.LoadFontBitmapsFromTTF(fontPath)
		if err != nil {
			return cli.Exit(err, 1)
		}
		logger.Printf("Computed %d glyphs", fonts.Len())

		if err := fonts.SaveGlyphs(outputFile); err != nil {
			return cli.Exit(err, 1)
		}

		if fileInfo, err := os.Stat(outputFile); err == nil {
			logger.Printf("Saved glyph data to %s (%.2f KB)", outputFile, float64(fileInfo.Size())/1024)
		}

		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
