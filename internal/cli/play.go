package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/config"
	"github.com/rocketscienceinc/tictactoe-board/internal/event"
	"github.com/rocketscienceinc/tictactoe-board/internal/game"
)

var ErrBadInput = errors.New("expected a cell number, \"row col\" or \"click x y\"")

type playOptions struct {
	size     int
	geometry board.Geometry
	mute     bool
}

func newPlayCmd(configPath *string) *cobra.Command {
	var (
		size int
		mute bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat game in the terminal",
		Long: `Play a two-player game on one terminal. Players take turns entering a cell number,
a "row col" pair or "click x y" pixel coordinates. Enter "q" to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			options := playOptions{
				size:     conf.Board.GridSize,
				geometry: conf.Board.Geometry(),
				mute:     mute,
			}

			if cmd.Flags().Changed("size") {
				options.size = size
			}

			return runPlay(cmd.InOrStdin(), cmd.OutOrStdout(), options)
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", board.DefaultGridSize, "cells on one side of the board")
	cmd.Flags().BoolVar(&mute, "mute", false, "do not ring the terminal bell")

	return cmd
}

// input is either a cell or a pixel click.
type input struct {
	cell  int
	click bool
	x, y  float64
}

func parseInput(line string, size int) (input, error) {
	fields := strings.Fields(line)

	switch {
	case len(fields) == 3 && strings.EqualFold(fields[0], "click"):
		x, errX := strconv.ParseFloat(fields[1], 64)
		y, errY := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil {
			return input{}, ErrBadInput
		}

		return input{click: true, x: x, y: y}, nil

	case len(fields) == 2:
		row, errRow := strconv.Atoi(fields[0])
		col, errCol := strconv.Atoi(fields[1])
		if errRow != nil || errCol != nil {
			return input{}, ErrBadInput
		}

		if row < 0 || row >= size || col < 0 || col >= size {
			return input{}, fmt.Errorf("row and column must be between 0 and %d", size-1)
		}

		return input{cell: row*size + col}, nil

	case len(fields) == 1:
		cell, err := strconv.Atoi(fields[0])
		if err != nil {
			return input{}, ErrBadInput
		}

		return input{cell: cell}, nil
	}

	return input{}, ErrBadInput
}

// runPlay - runs a terminal game until the players quit or the input ends.
func runPlay(in io.Reader, out io.Writer, options playOptions) error {
	grid, err := board.New(options.size, options.geometry)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	var audio event.Audio = bell{out: out}
	if options.mute {
		audio = event.Discard
	}

	view := newTerminalView(out, options.size)
	g := game.New(grid, game.WithRenderer(view), game.WithAudio(audio))

	prompt := func() {
		view.Flush()

		if g.IsOver() {
			fmt.Fprint(out, "> ")
			return
		}

		fmt.Fprintf(out, "Player %d (%s) > ", g.Turn(), g.Turn().Mark())
	}

	prompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
		case strings.EqualFold(line, "q"), strings.EqualFold(line, "quit"):
			fmt.Fprintln(out, "Bye!")
			return nil

		case g.IsOver():
			if strings.EqualFold(line, "r") || strings.EqualFold(line, "replay") {
				g.Reset()
			} else {
				fmt.Fprintln(out, "Game over: enter r to replay or q to quit")
			}

		default:
			if err = play(g, line, options.size); err != nil {
				fmt.Fprintln(out, err)
			}
		}

		prompt()
	}

	if err = scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprintln(out)

	return nil
}

// play applies one line of input to a running game. Rejections come back as errors.
func play(g *game.Game, line string, size int) error {
	parsed, err := parseInput(line, size)
	if err != nil {
		return err
	}

	var result game.MoveResult
	if parsed.click {
		result = g.Click(parsed.x, parsed.y).MoveResult
	} else {
		result = g.ApplyMove(parsed.cell)
	}

	if !result.Accepted {
		return result.Reason
	}

	return nil
}
