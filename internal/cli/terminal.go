package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/event"
)

// terminalView draws the board as text. It only learns about the game through
// render events, the same way a graphical front end would.
type terminalView struct {
	out   io.Writer
	size  int
	marks []entity.Mark

	banner string
	menu   []board.MenuRegion
	dirty  bool
}

func newTerminalView(out io.Writer, size int) *terminalView {
	return &terminalView{
		out:   out,
		size:  size,
		marks: make([]entity.Mark, size*size),
		dirty: true,
	}
}

func (that *terminalView) Render(ev event.Event) {
	switch ev.Kind {
	case event.KindMarkPlaced:
		if ev.Cell >= 0 && ev.Cell < len(that.marks) {
			that.marks[ev.Cell] = ev.Mark
		}
	case event.KindBanner:
		that.banner = ev.Text
	case event.KindMenu:
		that.menu = ev.Menu
	case event.KindBoardCleared:
		that.marks = make([]entity.Mark, that.size*that.size)
		that.banner = ""
		that.menu = nil
	}

	that.dirty = true
}

// Flush - prints the board when something changed since the last flush.
func (that *terminalView) Flush() {
	if !that.dirty {
		return
	}

	that.dirty = false

	width := len(strconv.Itoa(len(that.marks) - 1))
	separator := strings.Repeat("-", width+2)

	for row := 0; row < that.size; row++ {
		if row > 0 {
			fmt.Fprintln(that.out, strings.TrimSuffix(strings.Repeat(separator+"+", that.size), "+"))
		}

		cells := make([]string, that.size)
		for col := 0; col < that.size; col++ {
			index := row*that.size + col

			label := string(that.marks[index])
			if label == "" {
				label = strconv.Itoa(index)
			}

			cells[col] = fmt.Sprintf(" %*s ", width, label)
		}

		fmt.Fprintln(that.out, strings.Join(cells, "|"))
	}

	if that.banner != "" {
		fmt.Fprintln(that.out, that.banner)
	}

	if len(that.menu) > 0 {
		items := make([]string, 0, len(that.menu))
		for _, region := range that.menu {
			name := string(region.Item)
			items = append(items, "["+name[:1]+"] "+name)
		}

		fmt.Fprintln(that.out, strings.Join(items, "  "))
	}
}

// bell plays every cue as the terminal bell.
type bell struct {
	out io.Writer
}

func (that bell) Play(event.Cue) {
	fmt.Fprint(that.out, "\a")
}
