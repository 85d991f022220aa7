package models

// Color is an index into Palette.
type Color uint8

// Palette holds the tile colors handed to renderers.
var Palette = [...]string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080", "#e6beff",
	"#9a6324", "#fffac8", "#800000", "#aaffc3", "#808000", "#ffd8b1",
	"#000075", "#808080",
}

// ColorAt maps a sequence number onto the palette.
func ColorAt(seq uint64) Color {
	return Color(seq % uint64(len(Palette)))
}

// Hex returns the palette entry for c.
func (c Color) Hex() string {
	return Palette[int(c)%len(Palette)]
}
