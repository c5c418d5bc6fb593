package view

import (
	"ckmconsole/domain"
)

type OrderForm struct {
	FranchiseID          string `form:"franchiseId" validate:"required"`
	ProductionStandardID string `form:"productionStandardId" validate:"required"`
	Quantity             string `form:"quantity" validate:"required"`
	UnitPrice            string `form:"unitPrice"`
	Priority             string `form:"priority" validate:"required"`
	RequiredDate         string `form:"requiredDate" validate:"required"`
	SpecialInstructions  string `form:"specialInstructions"`
	Notes                string `form:"notes"`
}

// NewOrderForm is the blank create dialog.
func NewOrderForm() OrderForm {
	return OrderForm{Priority: string(domain.PriorityNormal)}
}

func FromOrder(o domain.ProductionOrder) OrderForm {
	f := OrderForm{
		Quantity:            formatInt(int64(o.Quantity)),
		UnitPrice:           formatDecimal(o.UnitPrice),
		Priority:            string(o.Priority),
		RequiredDate:        o.RequiredDate.Input(),
		SpecialInstructions: o.SpecialInstructions,
		Notes:               o.Notes,
	}
	if o.Franchise != nil {
		f.FranchiseID = formatInt(o.Franchise.ID)
	}
	if o.ProductionStandard != nil {
		f.ProductionStandardID = formatInt(o.ProductionStandard.ID)
	}
	return f
}

// Entity coerces the form into the request body; ids and quantity become
// integers.
func (f OrderForm) Entity() (*domain.ProductionOrder, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	var c coercer
	o := &domain.ProductionOrder{
		Franchise:           &domain.Ref{ID: c.int64("franchiseId", f.FranchiseID)},
		ProductionStandard:  &domain.Ref{ID: c.int64("productionStandardId", f.ProductionStandardID)},
		Quantity:            c.int("quantity", f.Quantity),
		UnitPrice:           c.decimal("unitPrice", f.UnitPrice),
		Priority:            domain.Priority(f.Priority),
		RequiredDate:        domain.NewDateTime(c.time("requiredDate", f.RequiredDate)),
		SpecialInstructions: f.SpecialInstructions,
		Notes:               f.Notes,
	}
	if !domain.Priorities.Known(o.Priority) {
		c.fail("priority", "未知优先级")
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return o, nil
}

type ScheduleForm struct {
	ScheduledDate       string `form:"scheduledDate" validate:"required"`
	StartTime           string `form:"startTime"`
	EndTime             string `form:"endTime"`
	ProductionLine      string `form:"productionLine" validate:"required"`
	Equipment           string `form:"equipment"`
	AssignedStaff       string `form:"assignedStaff"`
	CapacityUtilization string `form:"capacityUtilization"`
	Notes               string `form:"notes"`
}

func FromSchedule(s domain.ProductionSchedule) ScheduleForm {
	return ScheduleForm{
		ScheduledDate:       s.ScheduledDate.Input(),
		StartTime:           s.StartTime.Input(),
		EndTime:             s.EndTime.Input(),
		ProductionLine:      s.ProductionLine,
		Equipment:           s.Equipment,
		AssignedStaff:       s.AssignedStaff,
		CapacityUtilization: formatFloat(s.CapacityUtilization),
		Notes:               s.Notes,
	}
}

func (f ScheduleForm) Entity() (*domain.ProductionSchedule, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	var c coercer
	s := &domain.ProductionSchedule{
		ScheduledDate:       domain.NewDateTime(c.time("scheduledDate", f.ScheduledDate)),
		StartTime:           domain.NewDateTime(c.time("startTime", f.StartTime)),
		EndTime:             domain.NewDateTime(c.time("endTime", f.EndTime)),
		ProductionLine:      f.ProductionLine,
		Equipment:           f.Equipment,
		AssignedStaff:       f.AssignedStaff,
		CapacityUtilization: c.float("capacityUtilization", f.CapacityUtilization),
		Notes:               f.Notes,
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return s, nil
}

type StandardForm struct {
	DishName          string `form:"dishName" validate:"required"`
	Recipe            string `form:"recipe" validate:"required"`
	StandardWeight    string `form:"standardWeight" validate:"required"`
	CookingTime       string `form:"cookingTime" validate:"required"`
	QualityStandards  string `form:"qualityStandards" validate:"required"`
	PreparationSteps  string `form:"preparationSteps"`
	EquipmentRequired string `form:"equipmentRequired"`
	Status            string `form:"status"`
}

func FromStandard(s domain.ProductionStandard) StandardForm {
	return StandardForm{
		DishName:          s.DishName,
		Recipe:            s.Recipe,
		StandardWeight:    formatFloat(s.StandardWeight),
		CookingTime:       formatInt(int64(s.CookingTime)),
		QualityStandards:  s.QualityStandards,
		PreparationSteps:  s.PreparationSteps,
		EquipmentRequired: s.EquipmentRequired,
		Status:            string(s.Status),
	}
}

func (f StandardForm) Entity() (*domain.ProductionStandard, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	var c coercer
	s := &domain.ProductionStandard{
		DishName:          f.DishName,
		Recipe:            f.Recipe,
		StandardWeight:    c.float("standardWeight", f.StandardWeight),
		CookingTime:       c.int("cookingTime", f.CookingTime),
		QualityStandards:  f.QualityStandards,
		PreparationSteps:  f.PreparationSteps,
		EquipmentRequired: f.EquipmentRequired,
		Status:            domain.StandardStatus(f.Status),
	}
	if s.Status != "" && !domain.StandardStatuses.Known(s.Status) {
		c.fail("status", "未知状态")
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return s, nil
}

type InventoryForm struct {
	Name         string `form:"name" validate:"required"`
	Category     string `form:"category" validate:"required"`
	CurrentStock string `form:"currentStock" validate:"required"`
	MinStock     string `form:"minStock" validate:"required"`
	MaxStock     string `form:"maxStock" validate:"required"`
	Unit         string `form:"unit" validate:"required"`
}

func FromInventoryItem(it domain.InventoryItem) InventoryForm {
	return InventoryForm{
		Name:         it.Name,
		Category:     it.Category,
		CurrentStock: formatFloat(it.CurrentStock),
		MinStock:     formatFloat(it.MinStock),
		MaxStock:     formatFloat(it.MaxStock),
		Unit:         it.Unit,
	}
}

func (f InventoryForm) Entity() (*domain.InventoryItem, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	var c coercer
	it := &domain.InventoryItem{
		Name:         f.Name,
		Category:     f.Category,
		CurrentStock: c.float("currentStock", f.CurrentStock),
		MinStock:     c.float("minStock", f.MinStock),
		MaxStock:     c.float("maxStock", f.MaxStock),
		Unit:         f.Unit,
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return it, nil
}

type QualityForm struct {
	BatchNumber    string `form:"batchNumber" validate:"required"`
	IngredientID   string `form:"ingredientId" validate:"required"`
	IngredientName string `form:"ingredientName" validate:"required"`
	ProductionDate string `form:"productionDate" validate:"required"`
	ExpiryDate     string `form:"expiryDate" validate:"required"`
	SupplierInfo   string `form:"supplierInfo" validate:"required"`
	QualityCheck   string `form:"qualityCheck"`
	Notes          string `form:"notes"`
}

func FromQualityTrace(q domain.QualityTrace) QualityForm {
	return QualityForm{
		BatchNumber:    q.BatchNumber,
		IngredientID:   q.IngredientID,
		IngredientName: q.IngredientName,
		ProductionDate: q.ProductionDate.Input(),
		ExpiryDate:     q.ExpiryDate.Input(),
		SupplierInfo:   q.SupplierInfo,
		QualityCheck:   q.QualityCheck,
		Notes:          q.Notes,
	}
}

func (f QualityForm) Entity() (*domain.QualityTrace, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	var c coercer
	q := &domain.QualityTrace{
		BatchNumber:    f.BatchNumber,
		IngredientID:   f.IngredientID,
		IngredientName: f.IngredientName,
		ProductionDate: domain.NewDate(c.time("productionDate", f.ProductionDate)),
		ExpiryDate:     domain.NewDate(c.time("expiryDate", f.ExpiryDate)),
		SupplierInfo:   f.SupplierInfo,
		QualityCheck:   f.QualityCheck,
		Notes:          f.Notes,
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return q, nil
}

type SupplierForm struct {
	Name          string `form:"name" validate:"required"`
	Category      string `form:"category" validate:"required"`
	QualityGrade  string `form:"qualityGrade" validate:"required"`
	ContractPrice string `form:"contractPrice"`
	DeliveryCycle string `form:"deliveryCycle"`
	ContactPerson string `form:"contactPerson"`
	ContactPhone  string `form:"contactPhone"`
	Address       string `form:"address"`
	Certificates  string `form:"certificates"`
}

func FromSupplier(s domain.Supplier) SupplierForm {
	return SupplierForm{
		Name:          s.Name,
		Category:      s.Category,
		QualityGrade:  s.QualityGrade,
		ContractPrice: formatDecimal(s.ContractPrice),
		DeliveryCycle: formatInt(int64(s.DeliveryCycle)),
		ContactPerson: s.ContactPerson,
		ContactPhone:  s.ContactPhone,
		Address:       s.Address,
		Certificates:  s.Certificates,
	}
}

func (f SupplierForm) Entity() (*domain.Supplier, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	var c coercer
	s := &domain.Supplier{
		Name:          f.Name,
		Category:      f.Category,
		QualityGrade:  f.QualityGrade,
		ContractPrice: c.decimal("contractPrice", f.ContractPrice),
		DeliveryCycle: c.int("deliveryCycle", f.DeliveryCycle),
		ContactPerson: f.ContactPerson,
		ContactPhone:  f.ContactPhone,
		Address:       f.Address,
		Certificates:  f.Certificates,
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return s, nil
}
