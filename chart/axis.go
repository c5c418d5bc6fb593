package chart

import (
	"fmt"
	"html/template"
)

const ticks = 4

type plot struct {
	x0, y0, x1, y1 float64
	max            float64
}

func (p plot) width() float64  { return p.x1 - p.x0 }
func (p plot) height() float64 { return p.y1 - p.y0 }

func (c *canvas) plotArea(s Series) plot {
	return plot{
		x0:  padLeft,
		y0:  float64(c.top()),
		x1:  float64(c.opts.Width - padRight),
		y1:  float64(c.opts.Height - padBottom),
		max: axisMax(s),
	}
}

// valueGrid draws the value axis lines and labels, vertical when horizontal
// is set.
func (c *canvas) valueGrid(p plot, horizontal bool) {
	for i := 0; i <= ticks; i++ {
		v := p.max * float64(i) / ticks
		if horizontal {
			x := p.x0 + p.width()*float64(i)/ticks
			fmt.Fprintf(&c.b, `<line class="chart-grid" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`, x, p.y0, x, p.y1)
			fmt.Fprintf(&c.b, `<text class="chart-axis" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`, x, p.y1+16, num(v))
			continue
		}
		y := p.y1 - p.height()*float64(i)/ticks
		fmt.Fprintf(&c.b, `<line class="chart-grid" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`, p.x0, y, p.x1, y)
		fmt.Fprintf(&c.b, `<text class="chart-axis" x="%.1f" y="%.1f" text-anchor="end">%s</text>`, p.x0-6, y+4, num(v))
	}
}

func (c *canvas) categoryLabels(p plot, cats []string, horizontal bool) {
	n := float64(len(cats))
	for i, cat := range cats {
		if horizontal {
			y := p.y0 + p.height()*(float64(i)+0.5)/n
			fmt.Fprintf(&c.b, `<text class="chart-axis" x="%.1f" y="%.1f" text-anchor="end">%s</text>`, p.x0-6, y+4, esc(cat))
			continue
		}
		x := p.x0 + p.width()*(float64(i)+0.5)/n
		fmt.Fprintf(&c.b, `<text class="chart-axis" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`, x, p.y1+16, esc(cat))
	}
}

// Line draws one polyline per series with a marker at each point.
func Line(s Series, opts Options) template.HTML {
	opts = opts.withDefaults()
	c := newCanvas(opts, "line")
	if isEmpty(s) {
		return c.empty()
	}
	c.legend(seriesNames(s))
	p := c.plotArea(s)
	c.valueGrid(p, false)
	c.categoryLabels(p, s.Categories, false)

	n := float64(len(s.Categories))
	for si, ns := range s.Series {
		color := opts.color(si)
		fmt.Fprintf(&c.b, `<polyline class="chart-line" fill="none" stroke="%s" stroke-width="2" points="`, color)
		for i, v := range ns.Data {
			if i >= len(s.Categories) {
				break
			}
			x := p.x0 + p.width()*(float64(i)+0.5)/n
			y := p.y1 - p.height()*v/p.max
			fmt.Fprintf(&c.b, "%.1f,%.1f ", x, y)
		}
		c.b.WriteString(`"/>`)
		for i, v := range ns.Data {
			if i >= len(s.Categories) {
				break
			}
			x := p.x0 + p.width()*(float64(i)+0.5)/n
			y := p.y1 - p.height()*v/p.max
			fmt.Fprintf(&c.b, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"><title>%s %s: %s</title></circle>`,
				x, y, color, esc(ns.Name), esc(s.Categories[i]), num(v))
		}
	}
	return c.done()
}

// Bar draws grouped bars, one group per category.
func Bar(s Series, opts Options) template.HTML {
	opts = opts.withDefaults()
	c := newCanvas(opts, "bar")
	if isEmpty(s) {
		return c.empty()
	}
	c.legend(seriesNames(s))
	p := c.plotArea(s)
	if opts.Horizontal {
		p.x0 += 40
	}
	c.valueGrid(p, opts.Horizontal)
	c.categoryLabels(p, s.Categories, opts.Horizontal)

	n := float64(len(s.Categories))
	groups := float64(len(s.Series))
	for si, ns := range s.Series {
		color := opts.color(si)
		for i, v := range ns.Data {
			if i >= len(s.Categories) {
				break
			}
			title := fmt.Sprintf("<title>%s %s: %s</title>", esc(ns.Name), esc(s.Categories[i]), num(v))
			if opts.Horizontal {
				band := p.height() / n
				bh := band * 0.7 / groups
				y := p.y0 + band*float64(i) + band*0.15 + bh*float64(si)
				w := p.width() * v / p.max
				fmt.Fprintf(&c.b, `<rect class="chart-bar" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s">%s</rect>`, p.x0, y, w, bh, color, title)
				continue
			}
			band := p.width() / n
			bw := band * 0.7 / groups
			x := p.x0 + band*float64(i) + band*0.15 + bw*float64(si)
			h := p.height() * v / p.max
			fmt.Fprintf(&c.b, `<rect class="chart-bar" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s">%s</rect>`, x, p.y1-h, bw, h, color, title)
		}
	}
	return c.done()
}
