package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"text/template"

	"blockfall/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos   = "\033[H"    // Reset cursor position to 0,0
	clearLine  = "\033[K"    // Clear from the cursor to the end of the line
	hideCursor = "\033[?25l" // Hide the cursor
	showCursor = "\033[?25h" // Show the cursor

	emptyCell = " ."
	ghostCell = "[]"
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Shape]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

type templateData struct {
	Local   *tetris.Tetris
	NoGhost bool
	Sound   bool
	Cols    int
	Rows    int
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	*templateData

	mu sync.Mutex
}

func newRender(w io.Writer, l *slog.Logger, o *Options) *render {
	td := &templateData{Cols: 10, Rows: 20}
	if o != nil {
		td.NoGhost = o.NoGhost
		if o.Cols > 0 && o.Rows > 0 {
			td.Cols, td.Rows = o.Cols, o.Rows
		}
	}
	return &render{
		writer:       w,
		logger:       l,
		template:     loadTemplate(),
		templateData: td,
	}
}

// lobby draws an empty board with the welcome box on top of it.
func (r *render) lobby() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.writer, "\033[2J"+hideCursor)
	r.draw()
	fmt.Fprint(r.writer, "\033[9;3H+----------------------+")
	fmt.Fprint(r.writer, "\033[10;3H|      BLOCKFALL       |")
	fmt.Fprint(r.writer, "\033[11;3H|                      |")
	fmt.Fprint(r.writer, "\033[12;3H|   (p)lay   (q)uit    |")
	fmt.Fprint(r.writer, "\033[13;3H+----------------------+")
}

func (r *render) game(t *tetris.Tetris) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templateData.Local = t
	r.draw()
}

func (r *render) sound(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templateData.Sound = on
	if r.templateData.Local != nil {
		r.draw()
	}
}

// close moves the cursor below the board and shows it again.
func (r *render) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.writer, "\033[%d;1H\r\n%s", r.templateData.Rows+4, showCursor)
}

func (r *render) draw() {
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template", slog.String("error", err.Error()))
	}
}

func loadTemplate() *template.Template {
	funcMap := template.FuncMap{
		"stack": stack,
		"floor": floor,
		"panel": panel,
		"line":  line,
		"help":  help,
	}

	// the console is in raw mode so new lines don't return the carriage,
	// every new line in the layout gets one.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	l = strings.ReplaceAll(l, "Blockfall", "\033[1mBlockfall\033[0m")
	return template.Must(template.New("layout").Funcs(funcMap).Parse(l))
}

func block(s tetris.Shape) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[s])
}

func dimensions(td *templateData) (cols, rows int) {
	switch {
	case td == nil:
		return 10, 20
	case td.Local != nil:
		return td.Local.Stack.Cols(), td.Local.Stack.Rows()
	}
	return td.Cols, td.Rows
}

// cells renders every cell of the board: the stack, the ghost and the
// falling tetromino on top.
func cells(td *templateData) [][]string {
	cols, rows := dimensions(td)
	rendered := make([][]string, rows)
	for y := range rendered {
		rendered[y] = make([]string, cols)
		for x := range rendered[y] {
			rendered[y][x] = emptyCell
		}
	}
	if td == nil || td.Local == nil {
		return rendered
	}

	put := func(x, y int, s string) {
		if y >= 0 && y < rows && x >= 0 && x < cols {
			rendered[y][x] = s
		}
	}
	for y, row := range td.Local.Stack {
		for x, s := range row {
			if s != tetris.Empty {
				put(x, y, block(s))
			}
		}
	}

	tm := td.Local.Tetromino
	if tm == nil {
		return rendered
	}
	if !td.NoGhost {
		for iy, row := range tm.Grid {
			for ix, s := range row {
				if s != tetris.Empty {
					put(tm.X+ix, tm.GhostY+iy, ghostCell)
				}
			}
		}
	}
	for iy, row := range tm.Grid {
		for ix, s := range row {
			if s != tetris.Empty {
				put(tm.X+ix, tm.Y+iy, block(s))
			}
		}
	}
	return rendered
}

func stack(td *templateData) []string {
	c := cells(td)
	rows := make([]string, len(c))
	for y := range c {
		rows[y] = strings.Join(c[y], "")
	}
	return rows
}

func floor(td *templateData) string {
	cols, _ := dimensions(td)
	return strings.Repeat("==", cols)
}

// piece renders a tetromino preview in a 4x4 box.
func piece(tm *tetris.Tetromino) []string {
	rendered := make([]string, 4)
	for y := range rendered {
		row := []string{"  ", "  ", "  ", "  "}
		if tm != nil && y < len(tm.Grid) {
			for x, s := range tm.Grid[y] {
				if s != tetris.Empty && x < len(row) {
					row[x] = block(s)
				}
			}
		}
		rendered[y] = strings.Join(row, "")
	}
	return rendered
}

// panel renders the side panel next to the board, one entry per board row.
func panel(td *templateData) []string {
	var t *tetris.Tetris
	if td != nil {
		t = td.Local
	}
	if t == nil {
		t = &tetris.Tetris{}
	}
	lines := []string{
		fmt.Sprintf("Score %8d", t.Score),
		fmt.Sprintf("Best  %8d", t.Best),
		fmt.Sprintf("Lines %8d", t.LinesClear),
		fmt.Sprintf("Level %8d", t.Level),
		"",
		"Next",
	}
	lines = append(lines, piece(t.NexTetromino)...)
	lines = append(lines, "Hold")
	lines = append(lines, piece(t.Hold)...)
	lines = append(lines, "")

	switch {
	case t.Paused:
		lines = append(lines, "\033[1mPAUSED\033[0m")
	case t.LastScore > 0:
		lines = append(lines, fmt.Sprintf("Last  %8d", t.LastScore))
	default:
		lines = append(lines, "")
	}

	sound := "on"
	if td == nil || !td.Sound {
		sound = "off"
	}
	return append(lines, "Sound "+sound)
}

// line returns the i-th panel entry, or nothing past the end of the panel.
func line(panel []string, i int) string {
	if i < 0 || i >= len(panel) {
		return clearLine
	}
	return panel[i] + clearLine
}

func help() string {
	return "arrows move  space drop  c hold  p pause  r restart  m sound  esc quit"
}
