package chart

import (
	"fmt"
	"html/template"
	"math"
)

// Pie draws one wedge per slice; Donut cuts out the center. Non-positive
// values are skipped.
func Pie(slices []Slice, opts Options) template.HTML {
	opts = opts.withDefaults()
	c := newCanvas(opts, "pie")
	total := 0.0
	names := make([]string, 0, len(slices))
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
		names = append(names, s.Name)
	}
	if total == 0 {
		return c.empty()
	}
	c.legend(names)

	top := float64(c.top())
	cx := float64(opts.Width) / 2
	cy := top + (float64(opts.Height)-top)/2
	r := math.Min(float64(opts.Width)/2, (float64(opts.Height)-top)/2) - 8
	inner := 0.0
	if opts.Donut {
		inner = r * 0.55
	}

	angle := -math.Pi / 2
	for i, s := range slices {
		if s.Value <= 0 {
			continue
		}
		frac := s.Value / total
		sweep := frac * 2 * math.Pi
		title := fmt.Sprintf("<title>%s: %s (%.1f%%)</title>", esc(s.Name), num(s.Value), frac*100)
		color := opts.color(i)
		if frac >= 0.9999 {
			fmt.Fprintf(&c.b, `<circle class="chart-slice" cx="%.1f" cy="%.1f" r="%.1f" fill="%s">%s</circle>`, cx, cy, r, color, title)
			if inner > 0 {
				fmt.Fprintf(&c.b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#fff"/>`, cx, cy, inner)
			}
			break
		}
		fmt.Fprintf(&c.b, `<path class="chart-slice" d="%s" fill="%s">%s</path>`, wedge(cx, cy, r, inner, angle, angle+sweep), color, title)
		angle += sweep
	}
	return c.done()
}

func wedge(cx, cy, r, inner, a0, a1 float64) string {
	large := 0
	if a1-a0 > math.Pi {
		large = 1
	}
	x0, y0 := cx+r*math.Cos(a0), cy+r*math.Sin(a0)
	x1, y1 := cx+r*math.Cos(a1), cy+r*math.Sin(a1)
	if inner <= 0 {
		return fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f Z", cx, cy, x0, y0, r, r, large, x1, y1)
	}
	ix0, iy0 := cx+inner*math.Cos(a1), cy+inner*math.Sin(a1)
	ix1, iy1 := cx+inner*math.Cos(a0), cy+inner*math.Sin(a0)
	return fmt.Sprintf("M%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d 0 %.1f,%.1f Z",
		x0, y0, r, r, large, x1, y1, ix0, iy0, inner, inner, large, ix1, iy1)
}
