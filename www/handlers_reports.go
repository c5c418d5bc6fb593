package www

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"ckmconsole/api"
	"ckmconsole/chart"
	"ckmconsole/domain"
)

var trendPeriods = []string{"week", "month", "quarter", "year"}

// reportSection is one fetched report with the charts derived from its
// numeric maps.
type reportSection struct {
	Title   string
	Scalars map[string]float64
	Charts  []template.HTML
	Error   string
}

func newReportSection(title string, rep domain.Report, err error) reportSection {
	s := reportSection{Title: title}
	if err != nil {
		log.Printf("www: report %s: %v", title, err)
		s.Error = api.ErrorMessage(err)
		return s
	}
	s.Scalars = rep.Scalars()
	keys := make([]string, 0, len(rep))
	for k := range rep {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		nums := rep.Numbers(k)
		if len(nums) == 0 {
			continue
		}
		s.Charts = append(s.Charts, chart.Bar(chart.FromMap(k, nums), chart.Options{Title: k, HideLegend: true, Height: 260}))
	}
	return s
}

// reportParams reads year, month and period from the query, falling back
// to the current month and a monthly trend.
func reportParams(r *http.Request, now time.Time) (year, month int, period string) {
	year, month = now.Year(), int(now.Month())
	if v, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && v >= 2000 && v <= 2100 {
		year = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && v >= 1 && v <= 12 {
		month = v
	}
	period = "month"
	for _, p := range trendPeriods {
		if r.URL.Query().Get("period") == p {
			period = p
		}
	}
	return year, month, period
}

func (h *Handlers) handleReports(w http.ResponseWriter, r *http.Request) {
	year, month, period := reportParams(r, time.Now())
	c := h.client(r)
	ctx := r.Context()

	sections := make([]reportSection, 4)
	var g errgroup.Group
	fetch := func(i int, title string, call func(context.Context) (domain.Report, error)) {
		g.Go(func() error {
			rep, err := call(ctx)
			sections[i] = newReportSection(title, rep, err)
			return nil
		})
	}
	fetch(0, "月度报表", func(ctx context.Context) (domain.Report, error) { return c.MonthlyReport(ctx, year, month) })
	fetch(1, "趋势分析", func(ctx context.Context) (domain.Report, error) { return c.Trends(ctx, period) })
	fetch(2, "预测分析", c.PredictiveAnalytics)
	fetch(3, "供应商绩效", c.SupplierPerformanceReport)
	_ = g.Wait()

	data := h.pageData(r, "reports")
	data["Domain"] = "reports"
	data["Year"] = year
	data["Month"] = month
	data["Period"] = period
	data["Periods"] = trendPeriods
	data["Sections"] = sections
	h.render(w, "reports.html", data)
}
