package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// DefaultMinColors is the palette needed to show the hue sweep.
const DefaultMinColors = 256

// CheckColors reports whether screen can show the particle colours.
func CheckColors(screen tcell.Screen, minColors int) error {
	if screen == nil {
		return fmt.Errorf("no terminal screen")
	}
	if minColors <= 0 {
		minColors = DefaultMinColors
	}
	if n := screen.Colors(); n < minColors {
		return fmt.Errorf("terminal offers %d colours, need %d", n, minColors)
	}
	return nil
}
