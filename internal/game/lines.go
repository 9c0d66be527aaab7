package game

// WinningLines - returns the index tuples that win the game on a size×size grid:
// every row, every column, then the main and the anti diagonal. Indices in a line
// advance by a constant stride (1, size, size+1 and size-1 respectively).
func WinningLines(size int) [][]int {
	if size < 1 {
		return nil
	}

	lines := make([][]int, 0, 2*size+2)

	for row := 0; row < size; row++ {
		lines = append(lines, stride(row*size, 1, size))
	}

	for col := 0; col < size; col++ {
		lines = append(lines, stride(col, size, size))
	}

	lines = append(lines, stride(0, size+1, size))
	lines = append(lines, stride(size-1, size-1, size))

	return lines
}

func stride(start, step, count int) []int {
	line := make([]int, count)
	for i := range line {
		line[i] = start + i*step
	}

	return line
}
