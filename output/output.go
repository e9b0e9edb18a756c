// Package output writes character grids to a terminal, an HTML page or
// a PNG image.
package output

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/wbrown/img2ascii"
)

const (
	// DefaultHTMLFile is where HTML output goes unless configured.
	DefaultHTMLFile = "out.html"
	// DefaultHTMLFont is the font family the HTML page asks for.
	DefaultHTMLFont = "Courier New"
	// DefaultPNGFile is where PNG output goes unless configured.
	DefaultPNGFile = "out.png"
)

// AsciiOutput consumes a finished character grid.
type AsciiOutput interface {
	Out(grid [][]rune) error
}

// ConsoleOutput writes each row of the grid followed by a newline.
type ConsoleOutput struct {
	w io.Writer
}

// NewConsoleOutput writes to w, or to stdout if w is nil.
func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w}
}

// Out writes grid to the console writer.
func (o *ConsoleOutput) Out(grid [][]rune) error {
	bw := bufio.NewWriter(o.w)
	for _, row := range grid {
		if _, err := bw.WriteString(string(row)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>ASCII art</title>
</head>
<body style="background:#fff;color:#000">
<pre style="font-family:'{{.Font}}',monospace;font-size:8px;line-height:8px;letter-spacing:0">
{{range .Rows}}{{.}}
{{end}}</pre>
</body>
</html>
`))

// HTMLOutput writes the grid as a monospaced HTML page.
type HTMLOutput struct {
	path string
	font string
}

// NewHTMLOutput writes to path using the given font family.
func NewHTMLOutput(path, font string) *HTMLOutput {
	return &HTMLOutput{path: path, font: font}
}

// Path returns the file the page is written to.
func (o *HTMLOutput) Path() string {
	return o.path
}

// Out replaces the HTML file with a page showing grid.
func (o *HTMLOutput) Out(grid [][]rune) error {
	f, err := os.Create(o.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := WriteHTML(f, grid, o.font); err != nil {
		return err
	}
	return f.Close()
}

// WriteHTML renders grid as an HTML page to w.
func WriteHTML(w io.Writer, grid [][]rune, font string) error {
	rows := make([]string, len(grid))
	for i, row := range grid {
		rows[i] = string(row)
	}
	return htmlPage.Execute(w, struct {
		Font string
		Rows []string
	}{Font: font, Rows: rows})
}

// PNGOutput draws the grid with glyph bitmaps and saves it as a PNG.
type PNGOutput struct {
	path  string
	fonts *img2ascii.FontBitmaps
	scale int
}

// NewPNGOutput draws with fonts at the given scale and writes to path.
func NewPNGOutput(path string, fonts *img2ascii.FontBitmaps, scale int) *PNGOutput {
	return &PNGOutput{path: path, fonts: fonts, scale: scale}
}

// Path returns the file the image is written to.
func (o *PNGOutput) Path() string {
	return o.path
}

// Out replaces the PNG file with grid drawn in glyph bitmaps.
func (o *PNGOutput) Out(grid [][]rune) error {
	return img2ascii.SaveGridToPNG(grid, o.fonts, o.path, o.scale)
}
