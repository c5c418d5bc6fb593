package domain

import "math"

type QualityStatus string

const (
	QualityPending     QualityStatus = "PENDING"
	QualityPassed      QualityStatus = "PASSED"
	QualityFailed      QualityStatus = "FAILED"
	QualityQuarantined QualityStatus = "QUARANTINED"
)

type QualityTrace struct {
	ID             int64         `json:"id,omitempty"`
	BatchNumber    string        `json:"batchNumber"`
	IngredientID   string        `json:"ingredientId"`
	IngredientName string        `json:"ingredientName"`
	ProductionDate Date          `json:"productionDate"`
	ExpiryDate     Date          `json:"expiryDate"`
	SupplierInfo   string        `json:"supplierInfo"`
	QualityCheck   string        `json:"qualityCheck,omitempty"`
	Status         QualityStatus `json:"status,omitempty"`
	Inspector      string        `json:"inspector,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      DateTime      `json:"createdAt"`
	UpdatedAt      DateTime      `json:"updatedAt"`
}

func (q QualityTrace) RecordID() int64 { return q.ID }

var QualityStatuses = StatusTable[QualityStatus]{
	QualityPassed:      {Label: "合格", Color: ColorSuccess},
	QualityFailed:      {Label: "不合格", Color: ColorError},
	QualityPending:     {Label: "待检查", Color: ColorWarning},
	QualityQuarantined: {Label: "隔离", Color: ColorSecondary},
}

const (
	QualityActionPass       = "pass"
	QualityActionFail       = "fail"
	QualityActionQuarantine = "quarantine"
)

// QualityTransitions are all issued through the inspect endpoint; Next is
// sent as the inspection result.
var QualityTransitions = TransitionTable[QualityStatus]{
	QualityPending: {
		{Action: QualityActionPass, Label: "合格", Color: ColorSuccess, Next: QualityPassed},
		{Action: QualityActionFail, Label: "不合格", Color: ColorError, Next: QualityFailed},
		{Action: QualityActionQuarantine, Label: "隔离", Color: ColorSecondary, Next: QualityQuarantined},
	},
	QualityFailed: {
		{Action: QualityActionQuarantine, Label: "隔离", Color: ColorSecondary, Next: QualityQuarantined},
	},
}

type QualitySummary struct {
	Passed   int
	Failed   int
	Pending  int
	PassRate float64
}

// SummarizeQuality counts traces by status; PassRate is a percentage rounded
// to one decimal.
func SummarizeQuality(traces []QualityTrace) QualitySummary {
	var s QualitySummary
	for _, t := range traces {
		switch t.Status {
		case QualityPassed:
			s.Passed++
		case QualityFailed:
			s.Failed++
		case QualityPending:
			s.Pending++
		}
	}
	if len(traces) > 0 {
		s.PassRate = math.Round(float64(s.Passed)/float64(len(traces))*1000) / 10
	}
	return s
}
