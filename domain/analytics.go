package domain

type DashboardData struct {
	ProductionEfficiency ProductionEfficiency `json:"productionEfficiency"`
	CostAnalysis         CostAnalysis         `json:"costAnalysis"`
	QualityMetrics       QualityMetrics       `json:"qualityMetrics"`
	StorePerformance     StorePerformance     `json:"storePerformance"`
	OverallScore         float64              `json:"overallScore"`
	LastUpdated          string               `json:"lastUpdated"`
}

type ProductionEfficiency struct {
	ProductionStatusStats map[string]float64 `json:"productionStatusStats"`
	ProductionCycle       struct {
		AverageCycleTime float64 `json:"averageCycleTime"`
		TargetCycleTime  float64 `json:"targetCycleTime"`
		Efficiency       float64 `json:"efficiency"`
	} `json:"productionCycle"`
	CapacityUtilization struct {
		DailyTarget     float64 `json:"dailyTarget"`
		DailyActual     float64 `json:"dailyActual"`
		UtilizationRate float64 `json:"utilizationRate"`
	} `json:"capacityUtilization"`
}

type CostAnalysis struct {
	TotalCost      float64            `json:"totalCost"`
	CostByCategory map[string]float64 `json:"costByCategory"`
	CostTrend      map[string]float64 `json:"costTrend"`
	CostMetrics    struct {
		CostPerUnit       float64 `json:"costPerUnit"`
		TargetCostPerUnit float64 `json:"targetCostPerUnit"`
		CostVariance      float64 `json:"costVariance"`
	} `json:"costMetrics"`
}

type QualityMetrics struct {
	PassRate              float64            `json:"passRate"`
	QualityIssues         map[string]float64 `json:"qualityIssues"`
	SupplierQualityScores map[string]float64 `json:"supplierQualityScores"`
	QualityTrend          struct {
		ThisMonth   float64 `json:"thisMonth"`
		LastMonth   float64 `json:"lastMonth"`
		Improvement float64 `json:"improvement"`
	} `json:"qualityTrend"`
}

type StoreRank struct {
	StoreName string  `json:"storeName"`
	Sales     float64 `json:"sales"`
	Rank      int     `json:"rank"`
}

type StorePerformance struct {
	SalesData struct {
		TotalSales           float64 `json:"totalSales"`
		AverageOrderValue    float64 `json:"averageOrderValue"`
		CustomerSatisfaction float64 `json:"customerSatisfaction"`
	} `json:"salesData"`
	EfficiencyMetrics struct {
		AverageServiceTime   float64 `json:"averageServiceTime"`
		OrderFulfillmentRate float64 `json:"orderFulfillmentRate"`
		InventoryTurnover    float64 `json:"inventoryTurnover"`
	} `json:"efficiencyMetrics"`
	StoreRanking []StoreRank `json:"storeRanking"`
}

type KPI struct {
	ProductionEfficiency float64 `json:"productionEfficiency"`
	QualityPassRate      float64 `json:"qualityPassRate"`
	CostPerUnit          float64 `json:"costPerUnit"`
	CustomerSatisfaction float64 `json:"customerSatisfaction"`
	OnTimeDelivery       float64 `json:"onTimeDelivery"`
	InventoryTurnover    float64 `json:"inventoryTurnover"`
}

type AlertReport struct {
	InventoryAlerts struct {
		ExpiredItems      []map[string]any `json:"expiredItems"`
		ExpiringSoonItems []map[string]any `json:"expiringSoonItems"`
		LowStockItems     []string         `json:"lowStockItems"`
		TotalAlerts       int              `json:"totalAlerts"`
	} `json:"inventoryAlerts"`
	DemandPrediction struct {
		PredictedDemand map[string]float64 `json:"predictedDemand"`
		NextWeekTotal   float64            `json:"nextWeekTotal"`
	} `json:"demandPrediction"`
	ReorderAlerts struct {
		ReorderItems       map[string]any `json:"reorderItems"`
		TotalReorderAlerts int            `json:"totalReorderAlerts"`
	} `json:"reorderAlerts"`
	QualityAlerts struct {
		FailedInspections  []map[string]any `json:"failedInspections"`
		QuarantinedItems   []map[string]any `json:"quarantinedItems"`
		TotalQualityAlerts int              `json:"totalQualityAlerts"`
	} `json:"qualityAlerts"`
}

// TotalAlerts sums every alert family for the dashboard badge.
func (a *AlertReport) TotalAlerts() int {
	if a == nil {
		return 0
	}
	return a.InventoryAlerts.TotalAlerts + a.ReorderAlerts.TotalReorderAlerts + a.QualityAlerts.TotalQualityAlerts
}

// Report is the loosely typed body of the monthly report, trend and
// predictive endpoints; the console renders known numeric maps as charts.
type Report map[string]any

// Numbers extracts a string→number map stored under key, skipping values
// that are not numeric.
func (r Report) Numbers(key string) map[string]float64 {
	raw, ok := r[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out
}

// Scalars returns the top-level numeric fields of the report.
func (r Report) Scalars() map[string]float64 {
	out := make(map[string]float64)
	for k, v := range r {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out
}

// SystemConfig is the backend-held configuration edited on the settings page.
type SystemConfig struct {
	AutoBackup     bool `json:"autoBackup"`
	DataRetention  int  `json:"dataRetention"`
	MaxFileSize    int  `json:"maxFileSize"`
	TwoFactorAuth  bool `json:"twoFactorAuth"`
	SessionTimeout int  `json:"sessionTimeout"`
	PasswordExpiry int  `json:"passwordExpiry"`
}

// DefaultSystemConfig mirrors the values the settings page starts from.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		AutoBackup:     true,
		DataRetention:  365,
		MaxFileSize:    10,
		SessionTimeout: 30,
		PasswordExpiry: 90,
	}
}
