package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/output"
	"github.com/wbrown/img2ascii/shell"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "img2ascii"
	app.Usage = "Convert images to ASCII art"
	app.Version = "1.0.0"
	app.ArgsUsage = "IMAGE"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "font",
			EnvVars: []string{"IMG2ASCII_FONT"},
			Usage:   "TrueType font to measure glyphs with (default: Go Mono)",
		},
		&cli.StringFlag{
			Name:    "glyphs",
			EnvVars: []string{"IMG2ASCII_GLYPHS"},
			Usage:   "precomputed .glyphs file, overrides --font",
		},
		&cli.IntFlag{
			Name:    "resolution",
			Aliases: []string{"r"},
			EnvVars: []string{"IMG2ASCII_RESOLUTION"},
			Value:   img2ascii.DefaultResolution,
			Usage:   "characters per row",
		},
		&cli.StringFlag{
			Name:    "round",
			EnvVars: []string{"IMG2ASCII_ROUND"},
			Value:   img2ascii.Nearest.String(),
			Usage:   "rounding method: abs, up or down",
		},
		&cli.StringSliceFlag{
			Name:    "charset",
			Aliases: []string{"c"},
			EnvVars: []string{"IMG2ASCII_CHARSET"},
			Value:   cli.NewStringSlice("0-9"),
			Usage:   "glyphs to use: a character, a range X-Y, space or all (repeatable)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			EnvVars: []string{"IMG2ASCII_OUTPUT"},
			Value:   "console",
			Usage:   "output method: console, html or png",
		},
		&cli.StringFlag{
			Name:  "out-file",
			Usage: "file written by html or png output",
		},
		&cli.StringFlag{
			Name:    "html-font",
			EnvVars: []string{"IMG2ASCII_HTML_FONT"},
			Value:   output.DefaultHTMLFont,
			Usage:   "font family requested by html output",
		},
		&cli.IntFlag{
			Name:  "png-scale",
			Value: 1,
			Usage: "pixels per glyph cell in png output",
		},
		&cli.IntFlag{
			Name:  "max-width",
			Usage: "downscale images wider than this before padding (0 disables)",
		},
		&cli.StringFlag{
			Name:    "resize",
			EnvVars: []string{"IMG2ASCII_RESIZE"},
			Value:   imageutil.InterpolationArea.String(),
			Usage:   "interpolation used by --max-width: area, linear or nearest",
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

		logger := newLogger(c)

		renderer, tiles, err := setup(c, logger)
		if err != nil {
			return cli.Exit(err, 1)
		}

		opts := append(shellOptions(c), shell.WithLogger(logger))
		sh, err := shell.New(renderer, tiles, opts...)
		if err != nil {
			return cli.Exit(err, 1)
		}

		if err := sh.Run(os.Stdin); err != nil {
			return cli.Exit(err, 1)
		}

		return nil
	}

	app.Commands = []*cli.Command{
		{
			Name:        "render",
			Usage:       "Render an image once and exit",
			Description: "",
			ArgsUsage:   "IMAGE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				renderer, tiles, err := setup(c, logger)
				if err != nil {
					return cli.Exit(err, 1)
				}

				opts := append(shellOptions(c), shell.WithLogger(logger))
				sh, err := shell.New(renderer, tiles, opts...)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := sh.Execute("asciiArt"); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadFonts(c *cli.Context) (*img2ascii.FontBitmaps, error) {
	switch {
	case c.String("glyphs") != "":
		return img2ascii.LoadGlyphs(c.String("glyphs"))
	case c.String("font") != "":
		return img2ascii.LoadFontBitmaps(c.String("font"))
	}
	return img2ascii.DefaultFontBitmaps()
}

func parseCharsets(specs []string) ([]rune, error) {
	var charset []rune
	for _, spec := range specs {
		rs, ok, err := shell.ParseCharset(spec)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: charset %q", shell.ErrIncorrectFormat, spec)
		}
		charset = append(charset, rs...)
	}
	return charset, nil
}

func setup(c *cli.Context, logger *log.Logger) (*img2ascii.Renderer, *img2ascii.TileCache, error) {
	fonts, err := loadFonts(c)
	if err != nil {
		return nil, nil, err
	}

	charset, err := parseCharsets(c.StringSlice("charset"))
	if err != nil {
		return nil, nil, err
	}

	policy, err := img2ascii.ParsePolicy(c.String("round"))
	if err != nil {
		return nil, nil, err
	}

	renderer, err := img2ascii.NewRenderer(
		img2ascii.WithFontBitmaps(fonts),
		img2ascii.WithCharset(charset),
		img2ascii.WithPolicy(policy),
		img2ascii.WithResolution(c.Int("resolution")),
		img2ascii.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	interp, err := imageutil.ParseInterpolation(c.String("resize"))
	if err != nil {
		return nil, nil, err
	}

	tiles, err := img2ascii.NewTileCacheFromFile(c.Args().First(), c.Int("max-width"), interp)
	if err != nil {
		return nil, nil, err
	}
	logger.Printf("loaded %s, padded to %dx%d", c.Args().First(), tiles.Width(), tiles.Height())

	return renderer, tiles, nil
}

func shellOptions(c *cli.Context) []shell.Option {
	htmlFile, pngFile := output.DefaultHTMLFile, output.DefaultPNGFile
	if f := c.String("out-file"); f != "" {
		htmlFile, pngFile = f, f
	}
	return []shell.Option{
		shell.WithHTMLFile(htmlFile, c.String("html-font")),
		shell.WithPNGFile(pngFile, c.Int("png-scale")),
		shell.WithOutput(c.String("output")),
	}
}
