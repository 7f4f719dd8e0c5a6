package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// DrawOverlay clears the screen and draws a titled, centered box around
// lines.
func DrawOverlay(screen tcell.Screen, title string, lines []string) {
	width := runewidth.StringWidth(title) + 4
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l)+4)
	}
	height := len(lines) + 2

	screen.Clear()
	sw, sh := screen.Size()
	x0, y0 := max((sw-width)/2, 0), max((sh-height)/2, 0)
	x1, y1 := x0+width-1, y0+height-1

	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for x := x0 + 1; x < x1; x++ {
		screen.SetContent(x, y0, '─', nil, border)
		screen.SetContent(x, y1, '─', nil, border)
	}
	for y := y0 + 1; y < y1; y++ {
		screen.SetContent(x0, y, '│', nil, border)
		screen.SetContent(x1, y, '│', nil, border)
	}
	screen.SetContent(x0, y0, '┌', nil, border)
	screen.SetContent(x1, y0, '┐', nil, border)
	screen.SetContent(x0, y1, '└', nil, border)
	screen.SetContent(x1, y1, '┘', nil, border)

	label := " " + title + " "
	writeAt(screen, x0+(width-runewidth.StringWidth(label))/2, y0, label,
		tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	body := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	for i, l := range lines {
		writeAt(screen, x0+2, y0+1+i, l, body)
	}
	screen.Show()
}

func writeAt(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x += max(runewidth.RuneWidth(ch), 1)
	}
}
