package www

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"

	"ckmconsole/api"
	"ckmconsole/chart"
	"ckmconsole/domain"
	"ckmconsole/rbac"
	"ckmconsole/view"
)

// dashboardSections is what the dashboard fetches on every render. Each
// section fails independently so a broken analytics endpoint leaves the
// rest of the page usable.
type dashboardSections struct {
	Data      *domain.DashboardData
	KPI       *domain.KPI
	Alerts    *domain.AlertReport
	DataErr   string
	KPIErr    string
	AlertsErr string
}

func fetchDashboard(ctx context.Context, c *api.Client) dashboardSections {
	var s dashboardSections
	var g errgroup.Group
	g.Go(func() error {
		d, err := c.Dashboard(ctx)
		if err != nil {
			log.Printf("www: dashboard data: %v", err)
			s.DataErr = api.ErrorMessage(err)
			return nil
		}
		s.Data = d
		return nil
	})
	g.Go(func() error {
		k, err := c.KPIs(ctx)
		if err != nil {
			log.Printf("www: dashboard kpis: %v", err)
			s.KPIErr = api.ErrorMessage(err)
			return nil
		}
		s.KPI = k
		return nil
	})
	g.Go(func() error {
		a, err := c.Alerts(ctx)
		if err != nil {
			log.Printf("www: dashboard alerts: %v", err)
			s.AlertsErr = api.ErrorMessage(err)
			return nil
		}
		s.Alerts = a
		return nil
	})
	_ = g.Wait()
	return s
}

func dashboardCharts(d *domain.DashboardData) map[string]any {
	if d == nil {
		return nil
	}
	ranking := chart.Series{Series: []chart.NamedSeries{{Name: "销售额"}}}
	for _, s := range d.StorePerformance.StoreRanking {
		ranking.Categories = append(ranking.Categories, s.StoreName)
		ranking.Series[0].Data = append(ranking.Series[0].Data, s.Sales)
	}
	return map[string]any{
		"ProductionStatus": chart.Pie(chart.SlicesFromMap(d.ProductionEfficiency.ProductionStatusStats),
			chart.Options{Title: "生产状态分布", Donut: true, Height: 280}),
		"CostByCategory": chart.Pie(chart.SlicesFromMap(d.CostAnalysis.CostByCategory),
			chart.Options{Title: "成本构成", Height: 280}),
		"CostTrend": chart.Line(chart.FromMap("成本", d.CostAnalysis.CostTrend),
			chart.Options{Title: "成本趋势", HideLegend: true}),
		"QualityIssues": chart.Bar(chart.FromMap("问题数", d.QualityMetrics.QualityIssues),
			chart.Options{Title: "质量问题分布", HideLegend: true}),
		"SupplierScores": chart.Bar(chart.FromMap("评分", d.QualityMetrics.SupplierQualityScores),
			chart.Options{Title: "供应商质量评分", Horizontal: true, HideLegend: true}),
		"StoreRanking": chart.Bar(ranking, chart.Options{Title: "门店销售排名", HideLegend: true}),
	}
}

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, nil)
}

func (h *Handlers) renderDashboard(w http.ResponseWriter, r *http.Request, notice *view.Notice) {
	s := sessionFrom(r)
	sections := fetchDashboard(r.Context(), h.client(r))
	data := h.pageData(r, "dashboard")
	data["Domain"] = "dashboard"
	data["Sections"] = sections
	data["Charts"] = dashboardCharts(sections.Data)
	data["TotalAlerts"] = sections.Alerts.TotalAlerts()
	data["Health"] = h.engine.Health()
	data["Notice"] = notice
	data["CanInventoryCheck"] = s.HasPermission(rbac.ResourceInventory, domain.ActionUpdate)
	data["CanQualityCheck"] = s.HasPermission(rbac.ResourceQuality, domain.ActionUpdate)
	h.render(w, "dashboard.html", data)
}

func (h *Handlers) handleInventoryCheck(w http.ResponseWriter, r *http.Request) {
	h.triggerCheck(w, r, "inventory", "库存检查", h.client(r).TriggerInventoryCheck)
}

func (h *Handlers) handleQualityCheck(w http.ResponseWriter, r *http.Request) {
	h.triggerCheck(w, r, "quality", "质量检查", h.client(r).TriggerQualityCheck)
}

func (h *Handlers) triggerCheck(w http.ResponseWriter, r *http.Request, dom, label string, call func(context.Context) (string, error)) {
	msg, err := call(r.Context())
	if err != nil {
		log.Printf("www: %s check: %v", dom, err)
		h.renderDashboard(w, r, &view.Notice{Kind: view.NoticeError, Text: label + "失败: " + api.ErrorMessage(err)})
		return
	}
	if msg == "" {
		msg = label + "已触发"
	}
	h.engine.RecordChanged(dom, 0, "checked", h.getUsername(r), msg)
	h.renderDashboard(w, r, &view.Notice{Kind: view.NoticeSuccess, Text: msg})
}
