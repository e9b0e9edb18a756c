// Package shell implements the interactive command loop that adjusts a
// renderer's glyph set, resolution, rounding and output, and renders on
// request.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/output"
)

// Prompt is printed before each command is read.
const Prompt = ">>> "

const (

	cmdExit     = "exit"
	cmdChars    = "chars"
	cmdAdd      = "add"
	cmdRemove   = "remove"
	cmdRes      = "res"
	cmdRound    = "round"
	cmdOutput   = "output"
	cmdAsciiArt = "asciiArt"

	argAll   = "all"
	argSpace = "space"
	argUp    = "up"
	argDown  = "down"
)

var (
	// ErrIncorrectFormat is returned for unknown commands and malformed
	// arguments.
	ErrIncorrectFormat = errors.New("incorrect format")

	// ErrCharsetRange is returned for characters outside printable ASCII.
	ErrCharsetRange = errors.New("character out of range")
)

// CommandError carries the message shown to the user and the underlying
// error kind.
type CommandError struct {
	Msg string
	Err error
}

func (e *CommandError) Error() string { return e.Msg }
func (e *CommandError) Unwrap() error { return e.Err }

func commandError(err error, format string, args ...interface{}) error {
	return &CommandError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// Shell reads commands and applies them to one renderer and one image.
type Shell struct {
	renderer *img2ascii.Renderer
	tiles    *img2ascii.TileCache
	output   output.AsciiOutput

	out      io.Writer
	logger   *log.Logger
	htmlPath string
	htmlFont string
	pngPath  string
	pngScale int

	outputName string
}

// Option configures a Shell.
type Option func(*Shell)

// WithWriter sets where prompts, messages and console art are written.
func WithWriter(w io.Writer) Option {
	return func(s *Shell) {
		s.out = w
	}
}

// WithLogger sets the logger used for diagnostic messages.
func WithLogger(logger *log.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

// WithHTMLFile sets the file and font used by "output html".
func WithHTMLFile(path, font string) Option {
	return func(s *Shell) {
		s.htmlPath = path
		s.htmlFont = font
	}
}

// WithPNGFile sets the file and scale used by "output png".
func WithPNGFile(path string, scale int) Option {
	return func(s *Shell) {
		s.pngPath = path
		s.pngScale = scale
	}
}

// WithOutput sets the initial output by name: console, html or png.
func WithOutput(name string) Option {
	return func(s *Shell) {
		s.outputName = name
	}
}

// New creates a shell over renderer and the tiles of one image. A renderer
// left at DefaultResolution that does not fit the image starts at the
// image's smallest valid resolution instead; any other resolution that does
// not fit is rejected with ErrInvalidResolution.
func New(renderer *img2ascii.Renderer, tiles *img2ascii.TileCache, opts ...Option) (*Shell, error) {
	s := &Shell{
		renderer: renderer,
		tiles:    tiles,
		out:      os.Stdout,
		logger:   log.New(io.Discard, "", 0),
		htmlPath: output.DefaultHTMLFile,
		htmlFont: output.DefaultHTMLFont,
		pngPath:  output.DefaultPNGFile,
		pngScale: 1,

		outputName: "console",
	}
	for _, opt := range opts {
		opt(s)
	}
	o, err := s.newOutput(s.outputName)
	if err != nil {
		s.logger.Printf("unknown output %q, using console", s.outputName)
		o = output.NewConsoleOutput(s.out)
	}
	s.output = o

	if err := renderer.SetResolution(tiles, renderer.Resolution()); err != nil {
		if renderer.Resolution() != img2ascii.DefaultResolution {
			return nil, err
		}
		s.logger.Printf("resolution %d does not fit %dx%d, using %d",
			renderer.Resolution(), tiles.Width(), tiles.Height(), tiles.MinResolution())
		// MinResolution always divides the power-of-two width.
		if err := renderer.SetResolution(tiles, tiles.MinResolution()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Run reads commands from in until "exit" or end of input. Command errors
// are printed and the loop continues; only read errors are returned.
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == cmdExit {
			return nil
		}
		if line == "" {
			continue
		}
		if err := s.Execute(line); err != nil {
			s.logger.Printf("command %q: %v", line, errors.Unwrap(err))
			fmt.Fprintln(s.out, err)
		}
	}
}

// Execute runs a single command line.
func (s *Shell) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return commandError(ErrIncorrectFormat, "Did not execute due to incorrect command.")
	}
	var arg string
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case cmdChars:
		s.printChars()
		return nil
	case cmdAdd:
		return s.handleAdd(arg)
	case cmdRemove:
		return s.handleRemove(arg)
	case cmdRes:
		return s.handleResolution(arg)
	case cmdRound:
		return s.handleRounding(arg)
	case cmdOutput:
		return s.handleOutput(arg)
	case cmdAsciiArt:
		return s.handleAsciiArt()
	}
	return commandError(ErrIncorrectFormat, "Did not execute due to incorrect command.")
}

func (s *Shell) printChars() {
	var b strings.Builder
	for _, r := range s.renderer.Index().Glyphs() {
		b.WriteRune(r)
		b.WriteByte(' ')
	}
	fmt.Fprintln(s.out, b.String())
}

// ParseCharset expands "all", "space", a single printable character or an
// inclusive range "X-Y" in either direction. ok is false for anything
// else.
func ParseCharset(arg string) (rs []rune, ok bool, err error) {
	switch arg {
	case argAll:
		for r := img2ascii.MinPrintable; r <= img2ascii.MaxPrintable; r++ {
			rs = append(rs, r)
		}
		return rs, true, nil
	case argSpace:
		return []rune{' '}, true, nil
	}

	runes := []rune(arg)
	switch {
	case len(runes) == 1:
		if !printable(runes[0]) {
			return nil, true, commandError(ErrCharsetRange, "Character out of valid ASCII range.")
		}
		return runes, true, nil
	case len(runes) == 3 && runes[1] == '-':
		start, end := runes[0], runes[2]
		if !printable(start) || !printable(end) {
			return nil, true, commandError(ErrCharsetRange, "Character range out of valid ASCII range.")
		}
		step := rune(1)
		if start > end {
			step = -1
		}
		for r := start; r != end+step; r += step {
			rs = append(rs, r)
		}
		return rs, true, nil
	}
	return nil, false, nil
}

func printable(r rune) bool {
	return r >= img2ascii.MinPrintable && r <= img2ascii.MaxPrintable
}

func (s *Shell) handleAdd(arg string) error {
	rs, ok, err := ParseCharset(arg)
	if err != nil {
		return err
	}
	if !ok {
		return commandError(ErrIncorrectFormat, "Did not add due to incorrect format.")
	}
	if err := s.renderer.Index().AddGlyphs(rs...); err != nil {
		return commandError(err, "Did not add: %v.", err)
	}
	return nil
}

func (s *Shell) handleRemove(arg string) error {
	if arg == argAll {
		s.renderer.Index().Clear()
		return nil
	}
	rs, ok, err := ParseCharset(arg)
	if err != nil {
		return err
	}
	if !ok {
		return commandError(ErrIncorrectFormat, "Did not remove due to incorrect format.")
	}
	s.renderer.Index().RemoveGlyphs(rs...)
	return nil
}

func (s *Shell) handleResolution(arg string) error {
	current := s.renderer.Resolution()
	next := current

	switch arg {
	case "":
	case argUp:
		next = current * 2
	case argDown:
		next = current / 2
	default:
		n, err := strconv.Atoi(arg)
		if err != nil {
			return commandError(ErrIncorrectFormat, "Did not change resolution due to incorrect format.")
		}
		next = n
	}

	if next != current {
		if err := s.renderer.SetResolution(s.tiles, next); err != nil {
			return commandError(err, "Did not change resolution due to exceeding boundaries.")
		}
	}
	fmt.Fprintf(s.out, "Resolution set to %d.\n", s.renderer.Resolution())
	return nil
}

func (s *Shell) handleRounding(arg string) error {
	p, err := img2ascii.ParsePolicy(arg)
	if err != nil {
		return commandError(err, "Did not change rounding method due to incorrect format.")
	}
	if err := s.renderer.Index().SetPolicy(p); err != nil {
		return commandError(err, "Did not change rounding method due to incorrect format.")
	}
	fmt.Fprintf(s.out, "Rounding method set to %s.\n", arg)
	return nil
}

func (s *Shell) newOutput(name string) (output.AsciiOutput, error) {
	switch name {
	case "console":
		return output.NewConsoleOutput(s.out), nil
	case "html":
		return output.NewHTMLOutput(s.htmlPath, s.htmlFont), nil
	case "png":
		return output.NewPNGOutput(s.pngPath, s.renderer.Fonts(), s.pngScale), nil
	}
	return nil, ErrIncorrectFormat
}

func (s *Shell) handleOutput(arg string) error {
	o, err := s.newOutput(arg)
	if err != nil {
		return commandError(err, "Did not change output method due to incorrect format.")
	}
	s.output = o
	fmt.Fprintf(s.out, "Output set to %s.\n", arg)
	return nil
}

func (s *Shell) handleAsciiArt() error {
	if s.renderer.Index().Len() < 2 {
		return commandError(img2ascii.ErrInsufficientCharset, "Did not execute. Charset is too small.")
	}
	grid, err := s.renderer.Render(s.tiles)
	if err != nil {
		return commandError(err, "Did not execute: %v.", err)
	}
	if err := s.output.Out(grid); err != nil {
		return commandError(err, "Did not write output: %v.", err)
	}
	return nil
}
