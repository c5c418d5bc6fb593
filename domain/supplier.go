package domain

import "github.com/shopspring/decimal"

type SupplierStatus string

const (
	SupplierActive      SupplierStatus = "ACTIVE"
	SupplierInactive    SupplierStatus = "INACTIVE"
	SupplierBlacklisted SupplierStatus = "BLACKLISTED"
	SupplierPending     SupplierStatus = "PENDING"
)

type Supplier struct {
	ID               int64            `json:"id,omitempty"`
	Name             string           `json:"name"`
	Category         string           `json:"category"`
	QualityGrade     string           `json:"qualityGrade"`
	ContractPrice    *decimal.Decimal `json:"contractPrice,omitempty"`
	DeliveryCycle    int              `json:"deliveryCycle"`
	ContactPerson    string           `json:"contactPerson,omitempty"`
	ContactPhone     string           `json:"contactPhone,omitempty"`
	Address          string           `json:"address,omitempty"`
	Certificates     string           `json:"certificates,omitempty"`
	Status           SupplierStatus   `json:"status,omitempty"`
	Rating           *float64         `json:"rating,omitempty"`
	LastDeliveryDate Date             `json:"lastDeliveryDate"`
	CreatedAt        DateTime         `json:"createdAt"`
	UpdatedAt        DateTime         `json:"updatedAt"`
}

func (s Supplier) RecordID() int64 { return s.ID }

var SupplierStatuses = StatusTable[SupplierStatus]{
	SupplierActive:      {Label: "正常", Color: ColorSuccess},
	SupplierInactive:    {Label: "停用", Color: ColorDefault},
	SupplierBlacklisted: {Label: "黑名单", Color: ColorError},
	SupplierPending:     {Label: "待审核", Color: ColorWarning},
}

var QualityGrades = StatusTable[string]{
	"A级": {Label: "A级", Color: ColorSuccess},
	"B级": {Label: "B级", Color: ColorWarning},
	"C级": {Label: "C级", Color: ColorError},
}

const (
	SupplierActionApprove    = "approve"
	SupplierActionBlacklist  = "blacklist"
	SupplierActionDeactivate = "deactivate"
	SupplierActionActivate   = "activate"
)

// SupplierTransitions are issued through the status endpoint with Next as
// the target status.
var SupplierTransitions = TransitionTable[SupplierStatus]{
	SupplierPending: {
		{Action: SupplierActionApprove, Label: "审核通过", Color: ColorSuccess, Next: SupplierActive},
		{Action: SupplierActionBlacklist, Label: "拉黑", Color: ColorError, Next: SupplierBlacklisted},
	},
	SupplierActive: {
		{Action: SupplierActionDeactivate, Label: "停用", Color: ColorDefault, Next: SupplierInactive},
		{Action: SupplierActionBlacklist, Label: "拉黑", Color: ColorError, Next: SupplierBlacklisted},
	},
	SupplierInactive: {
		{Action: SupplierActionActivate, Label: "启用", Color: ColorPrimary, Next: SupplierActive},
	},
}

// Initials is the two-rune avatar text shown next to a supplier name.
func Initials(name string) string {
	r := []rune(name)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}
