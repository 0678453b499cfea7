package piechart

import (
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"bmidash/domain/stats"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Widget limits and defaults for the chart controls
const (
	DefaultTitle         = "Distribution of Overweight Individuals by Gender"
	DefaultTitleFontSize = 20
	MinTitleFontSize     = 10
	MaxTitleFontSize     = 30
	DefaultLabelFontSize = 14
	MinLabelFontSize     = 10
	MaxLabelFontSize     = 20
	DefaultColor         = "#1f77b4"

	defaultWidth  = 640
	defaultHeight = 480
)

// ErrNoSlices is returned when there is nothing to draw
var ErrNoSlices = errors.New("pie chart needs at least one non-empty slice")

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Options are the user-editable styling parameters. They only affect drawing.
type Options struct {
	Title         string
	TitleFontSize int
	LabelFontSize int
	Color         string
	Width         int
	Height        int
}

// DefaultOptions returns the initial control values
func DefaultOptions() Options {
	return Options{
		Title:         DefaultTitle,
		TitleFontSize: DefaultTitleFontSize,
		LabelFontSize: DefaultLabelFontSize,
		Color:         DefaultColor,
		Width:         defaultWidth,
		Height:        defaultHeight,
	}
}

// Normalize clamps font sizes to their slider ranges, replaces an unusable color with
// the default and writes the color as lowercase #rrggbb. Zero sizes take defaults.
func (o Options) Normalize() Options {
	if o.TitleFontSize == 0 {
		o.TitleFontSize = DefaultTitleFontSize
	}
	o.TitleFontSize = clamp(o.TitleFontSize, MinTitleFontSize, MaxTitleFontSize)

	if o.LabelFontSize == 0 {
		o.LabelFontSize = DefaultLabelFontSize
	}
	o.LabelFontSize = clamp(o.LabelFontSize, MinLabelFontSize, MaxLabelFontSize)

	if hex, ok := normalizeHex(o.Color); ok {
		o.Color = hex
	} else {
		o.Color = DefaultColor
	}

	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	return o
}

// ParseColor accepts #rgb or #rrggbb, with or without the leading #
func ParseColor(s string) (drawing.Color, bool) {
	hex, ok := normalizeHex(s)
	if !ok {
		return drawing.Color{}, false
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#")), true
}

func normalizeHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	m := hexColor.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	digits := strings.ToLower(m[1])
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	return "#" + digits, true
}

// Render draws the slices as an SVG pie chart. Every slice uses the chosen color,
// separated by white borders; labels show category and share of the total.
// go-chart writes text nodes verbatim, so the title and labels are escaped here.
func Render(w io.Writer, slices []stats.Slice, opts Options) error {
	opts = opts.Normalize()
	fill, _ := ParseColor(opts.Color)

	total := 0
	for _, s := range slices {
		if s.Count > 0 {
			total += s.Count
		}
	}
	if total == 0 {
		return ErrNoSlices
	}

	labelStyle := chart.Style{
		FillColor:   fill,
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: 2,
		FontSize:    float64(opts.LabelFontSize),
		FontColor:   contrastColor(fill),
	}

	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(s.Count),
			Label: html.EscapeString(fmt.Sprintf("%s (%.1f%%)", s.Category, 100*float64(s.Count)/float64(total))),
			Style: labelStyle,
		})
	}

	pc := chart.PieChart{
		Title:      html.EscapeString(opts.Title),
		TitleStyle: chart.Style{FontSize: float64(opts.TitleFontSize)},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: opts.TitleFontSize * 3, Left: 20, Right: 20, Bottom: 20},
		},
		Values: values,
	}

	if err := pc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	return nil
}

// contrastColor picks black or white text for legibility on c
func contrastColor(c drawing.Color) drawing.Color {
	luminance := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luminance > 150 {
		return drawing.ColorBlack
	}
	return drawing.ColorWhite
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
