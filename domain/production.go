package domain

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderPending      OrderStatus = "PENDING"
	OrderApproved     OrderStatus = "APPROVED"
	OrderScheduled    OrderStatus = "SCHEDULED"
	OrderInProduction OrderStatus = "IN_PRODUCTION"
	OrderCompleted    OrderStatus = "COMPLETED"
	OrderCancelled    OrderStatus = "CANCELLED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Ref is the {id, name} stub the backend nests for associations.
type Ref struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	DishName string `json:"dishName,omitempty"`
}

type ProductionOrder struct {
	ID                  int64            `json:"id,omitempty"`
	OrderNumber         string           `json:"orderNumber,omitempty"`
	Franchise           *Ref             `json:"franchise,omitempty"`
	ProductionStandard  *Ref             `json:"productionStandard,omitempty"`
	Quantity            int              `json:"quantity"`
	UnitPrice           *decimal.Decimal `json:"unitPrice,omitempty"`
	TotalAmount         *decimal.Decimal `json:"totalAmount,omitempty"`
	Priority            Priority         `json:"priority,omitempty"`
	Status              OrderStatus      `json:"status,omitempty"`
	OrderDate           DateTime         `json:"orderDate"`
	RequiredDate        DateTime         `json:"requiredDate"`
	ScheduledDate       DateTime         `json:"scheduledDate"`
	CompletedDate       DateTime         `json:"completedDate"`
	SpecialInstructions string           `json:"specialInstructions,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	CreatedAt           DateTime         `json:"createdAt"`
	UpdatedAt           DateTime         `json:"updatedAt"`
}

func (o ProductionOrder) RecordID() int64 { return o.ID }

var OrderStatuses = StatusTable[OrderStatus]{
	OrderPending:      {Label: "待处理", Color: ColorWarning},
	OrderApproved:     {Label: "已批准", Color: ColorInfo},
	OrderScheduled:    {Label: "已排程", Color: ColorPrimary},
	OrderInProduction: {Label: "生产中", Color: ColorSecondary},
	OrderCompleted:    {Label: "已完成", Color: ColorSuccess},
	OrderCancelled:    {Label: "已取消", Color: ColorError},
}

var Priorities = StatusTable[Priority]{
	PriorityUrgent: {Label: "紧急", Color: ColorError},
	PriorityHigh:   {Label: "高", Color: ColorWarning},
	PriorityNormal: {Label: "正常", Color: ColorInfo},
	PriorityLow:    {Label: "低", Color: ColorSuccess},
}

// PriorityOrder is the order priorities appear in the order dialog.
var PriorityOrder = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

const (
	OrderActionApprove  = "approve"
	OrderActionSchedule = "schedule"
	OrderActionComplete = "complete"
)

var OrderTransitions = TransitionTable[OrderStatus]{
	OrderPending:      {{Action: OrderActionApprove, Label: "批准", Color: ColorPrimary, Next: OrderApproved}},
	OrderApproved:     {{Action: OrderActionSchedule, Label: "排程", Color: ColorSecondary, Next: OrderScheduled}},
	OrderScheduled:    {{Action: OrderActionComplete, Label: "完成", Color: ColorSuccess, Next: OrderCompleted}},
	OrderInProduction: {{Action: OrderActionComplete, Label: "完成", Color: ColorSuccess, Next: OrderCompleted}},
}

type ScheduleStatus string

const (
	SchedulePlanned    ScheduleStatus = "PLANNED"
	ScheduleConfirmed  ScheduleStatus = "CONFIRMED"
	ScheduleInProgress ScheduleStatus = "IN_PROGRESS"
	ScheduleCompleted  ScheduleStatus = "COMPLETED"
	ScheduleCancelled  ScheduleStatus = "CANCELLED"
)

type ProductionSchedule struct {
	ID                  int64          `json:"id,omitempty"`
	ScheduleNumber      string         `json:"scheduleNumber,omitempty"`
	ScheduledDate       DateTime       `json:"scheduledDate"`
	StartTime           DateTime       `json:"startTime"`
	EndTime             DateTime       `json:"endTime"`
	ProductionLine      string         `json:"productionLine"`
	Equipment           string         `json:"equipment,omitempty"`
	AssignedStaff       string         `json:"assignedStaff,omitempty"`
	Status              ScheduleStatus `json:"status,omitempty"`
	CapacityUtilization float64        `json:"capacityUtilization"`
	Notes               string         `json:"notes,omitempty"`
	CreatedAt           DateTime       `json:"createdAt"`
	UpdatedAt           DateTime       `json:"updatedAt"`
}

func (s ProductionSchedule) RecordID() int64 { return s.ID }

var ScheduleStatuses = StatusTable[ScheduleStatus]{
	SchedulePlanned:    {Label: "已规划", Color: ColorDefault},
	ScheduleConfirmed:  {Label: "已确认", Color: ColorDefault},
	ScheduleInProgress: {Label: "进行中", Color: ColorPrimary},
	ScheduleCompleted:  {Label: "已完成", Color: ColorSuccess},
	ScheduleCancelled:  {Label: "已取消", Color: ColorDefault},
}

const (
	ScheduleActionConfirm  = "confirm"
	ScheduleActionStart    = "start"
	ScheduleActionComplete = "complete"
)

var ScheduleTransitions = TransitionTable[ScheduleStatus]{
	SchedulePlanned:    {{Action: ScheduleActionConfirm, Label: "确认", Color: ColorPrimary, Next: ScheduleConfirmed}},
	ScheduleConfirmed:  {{Action: ScheduleActionStart, Label: "开始", Color: ColorSecondary, Next: ScheduleInProgress}},
	ScheduleInProgress: {{Action: ScheduleActionComplete, Label: "完成", Color: ColorSuccess, Next: ScheduleCompleted}},
}

type StandardStatus string

const (
	StandardActive   StandardStatus = "ACTIVE"
	StandardInactive StandardStatus = "INACTIVE"
	StandardDraft    StandardStatus = "DRAFT"
)

// ProductionStandard is a dish recipe and its preparation standard.
type ProductionStandard struct {
	ID                int64          `json:"id,omitempty"`
	DishName          string         `json:"dishName"`
	Recipe            string         `json:"recipe"`
	StandardWeight    float64        `json:"standardWeight"`
	CookingTime       int            `json:"cookingTime"`
	QualityStandards  string         `json:"qualityStandards"`
	PreparationSteps  string         `json:"preparationSteps,omitempty"`
	EquipmentRequired string         `json:"equipmentRequired,omitempty"`
	Status            StandardStatus `json:"status,omitempty"`
	CreatedAt         DateTime       `json:"createdAt"`
	UpdatedAt         DateTime       `json:"updatedAt"`
}

func (s ProductionStandard) RecordID() int64 { return s.ID }

var StandardStatuses = StatusTable[StandardStatus]{
	StandardActive:   {Label: "启用", Color: ColorSuccess},
	StandardInactive: {Label: "停用", Color: ColorDefault},
	StandardDraft:    {Label: "草稿", Color: ColorWarning},
}

// OrderCounts tallies orders by status for the production monitor cards.
type OrderCounts struct {
	Total          int
	Pending        int
	InProduction   int
	Completed      int
	ByStatus       map[OrderStatus]int
	CompletionRate int
}

func CountOrders(orders []ProductionOrder) OrderCounts {
	c := OrderCounts{Total: len(orders), ByStatus: make(map[OrderStatus]int)}
	for _, o := range orders {
		c.ByStatus[o.Status]++
	}
	c.Pending = c.ByStatus[OrderPending]
	c.InProduction = c.ByStatus[OrderInProduction]
	c.Completed = c.ByStatus[OrderCompleted]
	if c.Total > 0 {
		c.CompletionRate = (c.Completed*100 + c.Total/2) / c.Total
	}
	return c
}
