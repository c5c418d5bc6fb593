package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ckmconsole/domain"
)

const analyticsPath = "/api/analytics"

func (c *Client) Dashboard(ctx context.Context) (*domain.DashboardData, error) {
	return getJSON[*domain.DashboardData](ctx, c, analyticsPath+"/dashboard", nil)
}

func (c *Client) KPIs(ctx context.Context) (*domain.KPI, error) {
	return getJSON[*domain.KPI](ctx, c, analyticsPath+"/kpis", nil)
}

func (c *Client) Alerts(ctx context.Context) (*domain.AlertReport, error) {
	return getJSON[*domain.AlertReport](ctx, c, analyticsPath+"/comprehensive-alert-report", nil)
}

func (c *Client) ProductionEfficiency(ctx context.Context) (*domain.ProductionEfficiency, error) {
	return getJSON[*domain.ProductionEfficiency](ctx, c, analyticsPath+"/production-efficiency", nil)
}

func (c *Client) CostAnalysis(ctx context.Context) (*domain.CostAnalysis, error) {
	return getJSON[*domain.CostAnalysis](ctx, c, analyticsPath+"/cost-analysis", nil)
}

func (c *Client) QualityMetrics(ctx context.Context) (*domain.QualityMetrics, error) {
	return getJSON[*domain.QualityMetrics](ctx, c, analyticsPath+"/quality-metrics", nil)
}

func (c *Client) StorePerformance(ctx context.Context) (*domain.StorePerformance, error) {
	return getJSON[*domain.StorePerformance](ctx, c, analyticsPath+"/store-performance", nil)
}

func (c *Client) PredictiveAnalytics(ctx context.Context) (domain.Report, error) {
	return getJSON[domain.Report](ctx, c, analyticsPath+"/predictive-analytics", nil)
}

func (c *Client) MonthlyReport(ctx context.Context, year, month int) (domain.Report, error) {
	return getJSON[domain.Report](ctx, c, fmt.Sprintf("%s/monthly-report/%d/%d", analyticsPath, year, month), nil)
}

// Trends fetches the trend report for a period such as "week" or "month".
func (c *Client) Trends(ctx context.Context, period string) (domain.Report, error) {
	return getJSON[domain.Report](ctx, c, analyticsPath+"/trends/"+url.PathEscape(period), nil)
}

// TriggerInventoryCheck asks the backend to run its inventory alert scan and
// returns the backend's acknowledgement text.
func (c *Client) TriggerInventoryCheck(ctx context.Context) (string, error) {
	return sendJSON[string](ctx, c, http.MethodPost, analyticsPath+"/inventory-check", nil, nil)
}

func (c *Client) TriggerQualityCheck(ctx context.Context) (string, error) {
	return sendJSON[string](ctx, c, http.MethodPost, analyticsPath+"/quality-check", nil, nil)
}
