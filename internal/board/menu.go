package board

// MenuItem is one of the choices offered once a game is over.
type MenuItem string

const (
	MenuReplay MenuItem = "replay"
	MenuQuit   MenuItem = "quit"
)

// MenuRegion is a clickable menu entry.
type MenuRegion struct {
	Item MenuItem `json:"item"`
	Rect Rect     `json:"rect"`
}

// Menu - returns the end of game menu: replay on the left, quit on the right,
// both resting on the bottom border.
func (that *Grid) Menu() []MenuRegion {
	surface := that.SurfaceSize()
	inner := surface - 2*that.geometry.Border

	height := that.geometry.BoxSize / 2
	if height < 1 {
		height = 1
	}

	width := (inner - that.geometry.LineWidth) / 2
	if width < 0 {
		width = 0
	}

	top := surface - that.geometry.Border - height

	return []MenuRegion{
		{
			Item: MenuReplay,
			Rect: Rect{X: that.geometry.Border, Y: top, W: width, H: height},
		},
		{
			Item: MenuQuit,
			Rect: Rect{X: that.geometry.Border + width + that.geometry.LineWidth, Y: top, W: width, H: height},
		},
	}
}

// MenuItemAt - returns the menu entry under the point, if any.
func (that *Grid) MenuItemAt(x, y float64) (MenuItem, bool) {
	for _, region := range that.Menu() {
		if region.Rect.Contains(x, y) {
			return region.Item, true
		}
	}

	return "", false
}
