package sheets

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// RGB is a color with channels normalized to [0,1].
type RGB struct {
	R, G, B float64
}

// White is the blend target for row tints.
var White = RGB{1, 1, 1}

// TintRatio is how much of a doctor's color is mixed into white for the
// row background.
const TintRatio = 0.15

// ParseHex parses "#rrggbb", "rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q", s)
	}
	return RGB{
		R: float64(n>>16&0xff) / 255,
		G: float64(n>>8&0xff) / 255,
		B: float64(n&0xff) / 255,
	}, nil
}

// MustHex is ParseHex for package-level palette constants.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Blend mixes ratio of c into base: ratio 0 yields base, 1 yields c.
func Blend(c, base RGB, ratio float64) RGB {
	ratio = math.Max(0, math.Min(1, ratio))
	mix := func(a, b float64) float64 { return b + (a-b)*ratio }
	return RGB{
		R: mix(c.R, base.R),
		G: mix(c.G, base.G),
		B: mix(c.B, base.B),
	}
}

// Tint is the row background for a doctor color.
func Tint(c RGB) RGB {
	return Blend(c, White, TintRatio)
}

// Hex renders c as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

// API converts c to the Sheets API color type.
func (c RGB) API() *sheets.Color {
	return &sheets.Color{Red: c.R, Green: c.G, Blue: c.B, Alpha: 1}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ColorPair is a background/foreground combination.
type ColorPair struct {
	Background RGB
	Foreground RGB
}

var (
	headerColors = ColorPair{Background: MustHex("#37474F"), Foreground: White}
	borderColor  = MustHex("#B0BEC5")
)

// AcuityColors maps each acuity score to its cell colors, 1 (lowest) to
// 5 (highest).
var AcuityColors = map[int]ColorPair{
	1: {Background: MustHex("#D9EAD3"), Foreground: MustHex("#274E13")},
	2: {Background: MustHex("#E2F0CB"), Foreground: MustHex("#38571A")},
	3: {Background: MustHex("#FFF2CC"), Foreground: MustHex("#7F6000")},
	4: {Background: MustHex("#FCE5CD"), Foreground: MustHex("#783F04")},
	5: {Background: MustHex("#F4CCCC"), Foreground: MustHex("#660000")},
}

// StatusColors maps known patient states to their cell colors.
var StatusColors = map[string]ColorPair{
	"active":     {Background: MustHex("#CFE2F3"), Foreground: MustHex("#073763")},
	"stable":     {Background: MustHex("#D9EAD3"), Foreground: MustHex("#274E13")},
	"chronic":    {Background: MustHex("#EAD1DC"), Foreground: MustHex("#4C1130")},
	"critical":   {Background: MustHex("#F4CCCC"), Foreground: MustHex("#660000")},
	"discharged": {Background: MustHex("#EFEFEF"), Foreground: MustHex("#434343")},
}

// DoctorColors maps physician names to colors; lookups ignore case and
// surrounding whitespace.
type DoctorColors map[string]RGB

// ParseDoctorColors builds DoctorColors from name -> hex pairs. Entries with
// an invalid color are skipped and reported in the returned slice.
func ParseDoctorColors(m map[string]string) (DoctorColors, []string) {
	out := make(DoctorColors, len(m))
	var bad []string
	for name, hex := range m {
		c, err := ParseHex(hex)
		if err != nil {
			bad = append(bad, name)
			continue
		}
		out[doctorKey(name)] = c
	}
	return out, bad
}

// Lookup returns the color assigned to physician.
func (d DoctorColors) Lookup(physician string) (RGB, bool) {
	if physician == "" {
		return RGB{}, false
	}
	c, ok := d[doctorKey(physician)]
	return c, ok
}

func doctorKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
