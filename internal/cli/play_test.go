package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playLines(t *testing.T, options playOptions, lines ...string) string {
	t.Helper()

	var out bytes.Buffer
	err := runPlay(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, options)
	require.NoError(t, err)

	return out.String()
}

func defaultOptions() playOptions {
	return playOptions{size: 3, geometry: board.DefaultGeometry(), mute: true}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    input
		wantErr bool
	}{
		{name: "cell number", line: "7", want: input{cell: 7}},
		{name: "row and column", line: "2 1", want: input{cell: 7}},
		{name: "click", line: "click 120 340.5", want: input{click: true, x: 120, y: 340.5}},
		{name: "row out of range", line: "3 0", wantErr: true},
		{name: "not a number", line: "centre", wantErr: true},
		{name: "too many words", line: "1 2 3 4", wantErr: true},
		{name: "bad click", line: "click a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInput(tt.line, 3)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunPlay(t *testing.T) {
	t.Run("First player wins on column 0", func(t *testing.T) {
		// Given / When: a game played to a win, then quit from the menu
		out := playLines(t, defaultOptions(), "0", "1", "3", "4", "6", "q")

		// Then: the final board, the banner and the menu are shown
		assert.Contains(t, out, " X | O | 2 \n")
		assert.Contains(t, out, " X | O | 5 \n")
		assert.Contains(t, out, " X | 7 | 8 \n")
		assert.Contains(t, out, "Player 1 won!\n[r] replay  [q] quit\n")
		assert.True(t, strings.HasSuffix(out, "Bye!\n"))
		assert.NotContains(t, out, "\a")
	})

	t.Run("Draw then replay", func(t *testing.T) {
		out := playLines(t, defaultOptions(), "0", "1", "2", "4", "3", "5", "7", "6", "8", "r", "4", "q")

		assert.Contains(t, out, "Draw!\n")

		// after the replay the board starts empty with the centre taken by X
		assert.Contains(t, out, " 3 | X | 5 \n")
	})

	t.Run("Rejected input keeps the turn", func(t *testing.T) {
		out := playLines(t, defaultOptions(), "4", "4", "hello", "click 222 100", "q")

		assert.Contains(t, out, "cell is already occupied")
		assert.Contains(t, out, "expected a cell number")
		assert.Contains(t, out, "point is outside of every cell")
		assert.Equal(t, 4, strings.Count(out, "Player 2 (O) > "))
	})

	t.Run("Clicks play the cell under the pointer", func(t *testing.T) {
		out := playLines(t, defaultOptions(), "click 325 325", "q")

		assert.Contains(t, out, " 3 | X | 5 \n")
	})

	t.Run("Game over accepts only replay or quit", func(t *testing.T) {
		out := playLines(t, defaultOptions(), "0", "1", "3", "4", "6", "2", "q")

		assert.Contains(t, out, "Game over: enter r to replay or q to quit")
	})

	t.Run("Cues ring the bell unless muted", func(t *testing.T) {
		options := defaultOptions()
		options.mute = false

		out := playLines(t, options, "0", "1", "3", "4", "6", "q")

		// one per move plus the victory cue
		assert.Equal(t, 6, strings.Count(out, "\a"))
	})

	t.Run("End of input ends the game", func(t *testing.T) {
		var out bytes.Buffer

		err := runPlay(strings.NewReader("4\n"), &out, defaultOptions())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Player 2 (O) > ")
	})

	t.Run("Invalid size", func(t *testing.T) {
		options := defaultOptions()
		options.size = 0

		err := runPlay(strings.NewReader(""), &bytes.Buffer{}, options)

		require.ErrorIs(t, err, board.ErrInvalidGridSize)
	})

	t.Run("Bigger boards", func(t *testing.T) {
		options := defaultOptions()
		options.size = 4

		out := playLines(t, options, "15", "q")

		assert.Contains(t, out, " 12 | 13 | 14 |  X \n")
	})
}

func TestPlayCommand(t *testing.T) {
	// Given: the play command with stdin and stdout replaced and no config file
	cmd := NewRootCmd()

	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("0 0\nq\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"play", "--mute", "--size", "3", "--config", filepath.Join(t.TempDir(), "missing.yml")})

	// When: it runs
	err := cmd.Execute()

	// Then: a game was played
	require.NoError(t, err)
	assert.Contains(t, out.String(), " X | 1 | 2 \n")
	assert.Contains(t, out.String(), "Bye!")
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer

	logger := NewLogger("warn", &out)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}
