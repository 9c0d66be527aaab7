package apperror

import "errors"

var (
	ErrGameFinished       = errors.New("game is already finished")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrInvalidCell        = errors.New("invalid cell index")
	ErrOutsideBoard       = errors.New("point is outside of every cell")
	ErrOutsideMenu        = errors.New("point is outside of the menu")
	ErrConflictingWinners = errors.New("both players hold a winning line")
	ErrInvalidSnapshot    = errors.New("invalid game snapshot")
)
