package ast

import (
	"sort"
	"strings"
)

// RGB is an opaque pen color.
type RGB struct {
	R, G, B uint8
}

// DefaultColor is the initial pen color and the fallback for unknown names.
var DefaultColor = RGB{255, 0, 0}

// ColorTable maps color names to RGB values. Lookups are case-insensitive.
// Create one with [NewColorTable]; the zero value is not usable.
type ColorTable struct {
	colors map[string]RGB
}

// NewColorTable returns a table holding the built-in color names.
func NewColorTable() *ColorTable {
	t := &ColorTable{colors: make(map[string]RGB, 16)}
	for name, c := range map[string]RGB{
		"RED":     {255, 0, 0},
		"GREEN":   {0, 255, 0},
		"BLUE":    {0, 0, 255},
		"BLACK":   {0, 0, 0},
		"WHITE":   {255, 255, 255},
		"YELLOW":  {255, 255, 0},
		"CYAN":    {0, 255, 255},
		"MAGENTA": {255, 0, 255},
		"GRAY":    {128, 128, 128},
		"GREY":    {128, 128, 128},
		"ORANGE":  {255, 165, 0},
		"PINK":    {255, 192, 203},
		"PURPLE":  {128, 0, 128},
		"BROWN":   {139, 69, 19},
	} {
		t.colors[name] = c
	}
	return t
}

// Lookup returns the color called name and whether it exists.
func (t *ColorTable) Lookup(name string) (RGB, bool) {
	c, ok := t.colors[strings.ToUpper(name)]
	return c, ok
}

// Define adds or replaces a named color.
func (t *ColorTable) Define(name string, c RGB) {
	t.colors[strings.ToUpper(name)] = c
}

// Names returns every color name in sorted order.
func (t *ColorTable) Names() []string {
	names := make([]string, 0, len(t.colors))
	for n := range t.colors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
