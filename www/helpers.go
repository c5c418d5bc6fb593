package www

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ckmconsole/domain"
	"ckmconsole/view"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"timeAgo": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			d := time.Since(t)
			switch {
			case d < time.Minute:
				return "刚刚"
			case d < time.Hour:
				return fmt.Sprintf("%d 分钟前", int(d.Minutes()))
			case d < 24*time.Hour:
				return fmt.Sprintf("%d 小时前", int(d.Hours()))
			default:
				return fmt.Sprintf("%d 天前", int(d.Hours()/24))
			}
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02 15:04:05")
		},
		"money": func(d *decimal.Decimal) string {
			if d == nil {
				return "-"
			}
			return "¥" + d.StringFixed(2)
		},
		"rating": func(r *float64) string {
			if r == nil {
				return "-"
			}
			return fmt.Sprintf("%.1f", *r)
		},
		"pct": func(f float64) string {
			return fmt.Sprintf("%.0f", f)
		},
		"f1": func(f float64) string {
			return fmt.Sprintf("%.1f", f)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"upper": strings.ToUpper,
		// dict builds the argument map for partials that need more than dot.
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, fmt.Errorf("dict: odd argument count")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				k, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[k] = kv[i+1]
			}
			return m, nil
		},
		"initials": domain.Initials,
		// fieldError takes any so pages rendered without a failed form
		// (no Errors key at all) still execute.
		"fieldError": func(errs any, name string) string {
			fe, _ := errs.(*view.FormError)
			return fe.Field(name)
		},
		// stockPct is the fill of the stock bar, capped at 100.
		"stockPct": func(it domain.InventoryItem) int {
			if it.MaxStock <= 0 {
				return 0
			}
			p := int(it.CurrentStock / it.MaxStock * 100)
			if p > 100 {
				p = 100
			}
			return p
		},

		"orderStatus":    domain.OrderStatuses.Label,
		"orderColor":     domain.OrderStatuses.Color,
		"priorityLabel":  domain.Priorities.Label,
		"priorityColor":  domain.Priorities.Color,
		"priorities":     func() []domain.Priority { return domain.PriorityOrder },
		"scheduleStatus": domain.ScheduleStatuses.Label,
		"scheduleColor":  domain.ScheduleStatuses.Color,
		"standardStatus": domain.StandardStatuses.Label,
		"standardColor":  domain.StandardStatuses.Color,
		"stockStatus":    domain.StockStatuses.Label,
		"stockColor":     domain.StockStatuses.Color,
		"qualityStatus":  domain.QualityStatuses.Label,
		"qualityColor":   domain.QualityStatuses.Color,
		"supplierStatus": domain.SupplierStatuses.Label,
		"supplierColor":  domain.SupplierStatuses.Color,
		"gradeColor":     domain.QualityGrades.Color,

		"orderActions":    domain.OrderTransitions.Allowed,
		"scheduleActions": domain.ScheduleTransitions.Allowed,
		"qualityActions":  domain.QualityTransitions.Allowed,
		"supplierActions": domain.SupplierTransitions.Allowed,
	}
}
