// Package chart renders the console's line, bar and pie widgets as inline
// SVG. Inputs are already aggregated; the widgets only lay them out.
package chart

import (
	"fmt"
	"html/template"
	"math"
	"sort"
	"strings"
)

// DefaultPalette is applied when Options.Palette is empty.
var DefaultPalette = []string{"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de", "#3ba272", "#fc8452", "#9a60b4"}

type NamedSeries struct {
	Name string
	Data []float64
}

// Series is the shape shared by line and bar charts: one label per category
// and one value per category in every series.
type Series struct {
	Categories []string
	Series     []NamedSeries
}

type Slice struct {
	Name  string
	Value float64
}

type Options struct {
	Title      string
	Width      int
	Height     int
	Palette    []string
	Horizontal bool
	Donut      bool
	HideLegend bool
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 600
	}
	if o.Height <= 0 {
		o.Height = 320
	}
	if len(o.Palette) == 0 {
		o.Palette = DefaultPalette
	}
	return o
}

func (o Options) color(i int) string {
	return o.Palette[i%len(o.Palette)]
}

// FromMap turns a name→value map into a single-series chart with the
// categories in key order.
func FromMap(name string, m map[string]float64) Series {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	data := make([]float64, len(keys))
	for i, k := range keys {
		data[i] = m[k]
	}
	return Series{Categories: keys, Series: []NamedSeries{{Name: name, Data: data}}}
}

// SlicesFromMap is FromMap for pie charts.
func SlicesFromMap(m map[string]float64) []Slice {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Slice, len(keys))
	for i, k := range keys {
		out[i] = Slice{Name: k, Value: m[k]}
	}
	return out
}

const (
	titleHeight  = 28
	legendHeight = 22
	padLeft      = 48
	padRight     = 16
	padBottom    = 36
)

type canvas struct {
	b    strings.Builder
	opts Options
}

func newCanvas(opts Options, kind string) *canvas {
	c := &canvas{opts: opts}
	fmt.Fprintf(&c.b, `<svg class="chart chart-%s" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="100%%" height="%d" role="img">`,
		kind, opts.Width, opts.Height, opts.Height)
	if opts.Title != "" {
		fmt.Fprintf(&c.b, `<title>%s</title>`, esc(opts.Title))
		fmt.Fprintf(&c.b, `<text class="chart-title" x="%d" y="20" text-anchor="middle">%s</text>`, opts.Width/2, esc(opts.Title))
	}
	return c
}

func (c *canvas) top() int {
	t := 8
	if c.opts.Title != "" {
		t += titleHeight
	}
	if !c.opts.HideLegend {
		t += legendHeight
	}
	return t
}

func (c *canvas) legend(names []string) {
	if c.opts.HideLegend || len(names) == 0 {
		return
	}
	y := 12
	if c.opts.Title != "" {
		y += titleHeight
	}
	x := padLeft
	for i, n := range names {
		fmt.Fprintf(&c.b, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, x, y-10, c.opts.color(i))
		fmt.Fprintf(&c.b, `<text class="chart-legend" x="%d" y="%d">%s</text>`, x+16, y, esc(n))
		x += 24 + 13*len([]rune(n))
	}
}

func (c *canvas) empty() template.HTML {
	fmt.Fprintf(&c.b, `<text class="chart-empty" x="%d" y="%d" text-anchor="middle">暂无数据</text>`, c.opts.Width/2, c.opts.Height/2)
	return c.done()
}

func (c *canvas) done() template.HTML {
	c.b.WriteString(`</svg>`)
	return template.HTML(c.b.String())
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

func num(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// axisMax rounds the largest value up to a readable tick boundary.
func axisMax(s Series) float64 {
	maxV := 0.0
	for _, ns := range s.Series {
		for _, v := range ns.Data {
			if v > maxV {
				maxV = v
			}
		}
	}
	if maxV <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(maxV)))
	for _, step := range []float64{1, 2, 2.5, 5, 10} {
		if step*mag >= maxV {
			return step * mag
		}
	}
	return 10 * mag
}

func seriesNames(s Series) []string {
	names := make([]string, len(s.Series))
	for i, ns := range s.Series {
		names[i] = ns.Name
	}
	return names
}

func isEmpty(s Series) bool {
	if len(s.Categories) == 0 {
		return true
	}
	for _, ns := range s.Series {
		if len(ns.Data) > 0 {
			return false
		}
	}
	return true
}
