package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stefanobartoli/filiera-backend/pkg/db"
	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
	"github.com/stefanobartoli/filiera-backend/pkg/outbox"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
)

// Service exposes purchase order lifecycle operations.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResult, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*OrderDTO, error)
	GradeItem(ctx context.Context, orderID, itemID uuid.UUID, input GradeInput) (*ItemDTO, error)
	AddMilestone(ctx context.Context, orderID uuid.UUID, input MilestoneInput) (*MilestoneDTO, error)
	UpdateMilestone(ctx context.Context, orderID, milestoneID uuid.UUID, input UpdateMilestoneInput) (*MilestoneDTO, error)
	CreateReturn(ctx context.Context, orderID uuid.UUID, input ReturnInput) (*ReturnDTO, error)
	UpdateReturnStatus(ctx context.Context, orderID, returnID uuid.UUID, input ReturnStatusInput) (*ReturnDTO, error)
	ListReturns(ctx context.Context, orderID uuid.UUID) ([]ReturnDTO, error)
}

// ItemInput is one requested order line. Totals are never accepted from
// the client; the service recomputes them from quantity and unit price.
type ItemInput struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderInput holds the validated payload to place an order.
type CreateOrderInput struct {
	SupplierID           uuid.UUID
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	Notes                *string
	Items                []ItemInput
}

// UpdateOrderInput mutates the order header. Items are immutable after
// creation; corrections go through returns.
type UpdateOrderInput struct {
	ExpectedDeliveryDate *time.Time
	Notes                *string
	QualityControlNotes  *string
}

// StatusInput requests a lifecycle transition.
type StatusInput struct {
	Status             enums.OrderStatus
	ActualDeliveryDate *time.Time
}

// GradeInput records the inspection outcome of one order line.
type GradeInput struct {
	ReceivedQuantity  *int
	DefectiveQuantity *int
	QualityGrade      *enums.QualityGrade
}

// MilestoneInput adds a production step.
type MilestoneInput struct {
	Name         string
	Description  string
	ExpectedDate time.Time
	Notes        *string
}

// UpdateMilestoneInput mutates a production step.
type UpdateMilestoneInput struct {
	Status     *enums.MilestoneStatus
	ActualDate *time.Time
	Notes      *string
}

// ReturnInput records merchandise going back to the supplier.
type ReturnInput struct {
	OrderItemID uuid.UUID
	Reason      enums.ReturnReason
	Quantity    int
	ReturnDate  time.Time
	Notes       *string
}

// ReturnStatusInput advances a return through authorization and refund.
type ReturnStatusInput struct {
	Status       enums.ReturnStatus
	RefundAmount *decimal.Decimal
	Notes        *string
}

// ListResult pages through orders.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// allowedTransitions encodes the production lifecycle. Cancellation is
// reachable from every non-terminal status.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusDraft:      {enums.OrderStatusSent, enums.OrderStatusCancelled},
	enums.OrderStatusSent:       {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:  {enums.OrderStatusProduction, enums.OrderStatusCancelled},
	enums.OrderStatusProduction: {enums.OrderStatusQC, enums.OrderStatusCancelled},
	enums.OrderStatusQC:         {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusDelivered:  {enums.OrderStatusCompleted, enums.OrderStatusCancelled},
	enums.OrderStatusCompleted:  nil,
	enums.OrderStatusCancelled:  nil,
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error)
	Update(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	CreateMilestone(ctx context.Context, milestone *models.ProductionMilestone) (*models.ProductionMilestone, error)
	FindMilestone(ctx context.Context, orderID, milestoneID uuid.UUID) (*models.ProductionMilestone, error)
	UpdateMilestone(ctx context.Context, milestone *models.ProductionMilestone) (*models.ProductionMilestone, error)
	CreateReturn(ctx context.Context, ret *models.Return) (*models.Return, error)
	FindReturn(ctx context.Context, orderID, returnID uuid.UUID) (*models.Return, error)
	UpdateReturn(ctx context.Context, ret *models.Return) (*models.Return, error)
	ListReturns(ctx context.Context, orderID uuid.UUID) ([]models.Return, error)
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo    repository
	tx      txRunner
	events  eventEmitter
	logg    *logger.Logger
	nowFunc func() time.Time
}

// NewService constructs an order service instance.
func NewService(repo repository, tx txRunner, events eventEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, tx: tx, events: events, logg: logg, nowFunc: time.Now}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "an order needs at least one item")
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = s.nowFunc()
	}
	if input.ExpectedDeliveryDate.Before(orderDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected delivery date cannot precede the order date")
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive").
				WithDetails(map[string]any{"variant_id": in.VariantID})
		}
		if in.UnitPrice.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "item unit price must be positive").
				WithDetails(map[string]any{"variant_id": in.VariantID})
		}
		lineTotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		items = append(items, models.OrderItem{
			ProductID:  in.ProductID,
			VariantID:  in.VariantID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			TotalPrice: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	number, err := s.nextOrderNumber(ctx, orderDate)
	if err != nil {
		return nil, err
	}

	row := &models.Order{
		OrderNumber:          number,
		SupplierID:           input.SupplierID,
		Status:               enums.OrderStatusDraft,
		TotalAmount:          total,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Notes:                input.Notes,
		Items:                items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Create(ctx, tx, row); err != nil {
			if db.IsUniqueViolation(err, "idx_orders_number") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order number already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   row.ID,
			Data: map[string]any{
				"order_number": row.OrderNumber,
				"supplier_id":  row.SupplierID,
				"total_amount": row.TotalAmount.String(),
				"item_count":   len(row.Items),
			},
			Version: 1,
		})
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return NewOrderDTO(row), nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	row, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(row), nil
}

func (s *service) ListOrders(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, filter, cursor, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	result := &ListResult{}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Orders = append(result.Orders, *NewOrderDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	row, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is closed")
	}

	if input.ExpectedDeliveryDate != nil {
		if input.ExpectedDeliveryDate.Before(row.OrderDate) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected delivery date cannot precede the order date")
		}
		row.ExpectedDeliveryDate = *input.ExpectedDeliveryDate
	}
	if input.Notes != nil {
		row.Notes = input.Notes
	}
	if input.QualityControlNotes != nil {
		row.QualityControlNotes = input.QualityControlNotes
	}

	updated, err := s.repo.Update(ctx, nil, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
	}
	return NewOrderDTO(updated), nil
}

func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	row, err := s.findOrder(ctx, id)
	if err != nil {
		return err
	}
	if row.Status != enums.OrderStatusDraft {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only draft orders can be deleted").
			WithDetails(map[string]any{"status": row.Status})
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
	}
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*OrderDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	row, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(row.Status, input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
			WithDetails(map[string]any{"from": row.Status, "to": input.Status})
	}

	previous := row.Status
	row.Status = input.Status
	if input.Status == enums.OrderStatusDelivered {
		when := s.nowFunc()
		if input.ActualDeliveryDate != nil {
			when = *input.ActualDeliveryDate
		}
		row.ActualDeliveryDate = &when
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Update(ctx, tx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
		}

		data := map[string]any{
			"order_number": row.OrderNumber,
			"from":         previous,
			"to":           row.Status,
		}
		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   row.ID,
			Data:          data,
			Version:       1,
		}); err != nil {
			return err
		}

		if extra, ok := lifecycleEvent(row.Status); ok {
			return s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     extra,
				AggregateType: enums.AggregateOrder,
				AggregateID:   row.ID,
				Data:          data,
				Version:       1,
			})
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return NewOrderDTO(row), nil
}

func (s *service) GradeItem(ctx context.Context, orderID, itemID uuid.UUID, input GradeInput) (*ItemDTO, error) {
	row, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if row.Status == enums.OrderStatusDraft || row.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not in an inspectable state").
			WithDetails(map[string]any{"status": row.Status})
	}

	item, err := s.repo.FindItem(ctx, orderID, itemID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order item")
	}

	if input.ReceivedQuantity != nil {
		if *input.ReceivedQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "received quantity cannot be negative")
		}
		item.ReceivedQuantity = input.ReceivedQuantity
	}
	if input.DefectiveQuantity != nil {
		if *input.DefectiveQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "defective quantity cannot be negative")
		}
		if item.ReceivedQuantity != nil && *input.DefectiveQuantity > *item.ReceivedQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "defective quantity cannot exceed the received quantity")
		}
		item.DefectiveQuantity = input.DefectiveQuantity
	}
	if input.QualityGrade != nil {
		if !input.QualityGrade.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown quality grade")
		}
		item.QualityGrade = input.QualityGrade
	}

	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order item")
	}
	return NewItemDTO(updated), nil
}

func (s *service) AddMilestone(ctx context.Context, orderID uuid.UUID, input MilestoneInput) (*MilestoneDTO, error) {
	row, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if row.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is closed")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "milestone name is required")
	}

	milestone := &models.ProductionMilestone{
		OrderID:      orderID,
		Name:         input.Name,
		Description:  input.Description,
		ExpectedDate: input.ExpectedDate,
		Status:       enums.MilestoneStatusScheduled,
		Notes:        input.Notes,
	}
	created, err := s.repo.CreateMilestone(ctx, milestone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert milestone")
	}
	return NewMilestoneDTO(created), nil
}

func (s *service) UpdateMilestone(ctx context.Context, orderID, milestoneID uuid.UUID, input UpdateMilestoneInput) (*MilestoneDTO, error) {
	milestone, err := s.repo.FindMilestone(ctx, orderID, milestoneID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "milestone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load milestone")
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown milestone status")
		}
		milestone.Status = *input.Status
		if *input.Status == enums.MilestoneStatusCompleted && input.ActualDate == nil && milestone.ActualDate == nil {
			when := s.nowFunc()
			milestone.ActualDate = &when
		}
	}
	if input.ActualDate != nil {
		milestone.ActualDate = input.ActualDate
	}
	if input.Notes != nil {
		milestone.Notes = input.Notes
	}

	updated, err := s.repo.UpdateMilestone(ctx, milestone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update milestone")
	}
	return NewMilestoneDTO(updated), nil
}

func (s *service) CreateReturn(ctx context.Context, orderID uuid.UUID, input ReturnInput) (*ReturnDTO, error) {
	row, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if row.Status == enums.OrderStatusDraft || row.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no received merchandise to return").
			WithDetails(map[string]any{"status": row.Status})
	}
	if !input.Reason.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown return reason")
	}

	item, err := s.repo.FindItem(ctx, orderID, input.OrderItemID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order item")
	}
	if input.Quantity <= 0 || input.Quantity > item.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return quantity must be between 1 and the ordered quantity").
			WithDetails(map[string]any{"quantity": input.Quantity, "ordered": item.Quantity})
	}

	returnDate := input.ReturnDate
	if returnDate.IsZero() {
		returnDate = s.nowFunc()
	}

	ret := &models.Return{
		OrderID:     orderID,
		OrderItemID: input.OrderItemID,
		Reason:      input.Reason,
		Quantity:    input.Quantity,
		ReturnDate:  returnDate,
		Status:      enums.ReturnStatusRequested,
		Notes:       input.Notes,
	}
	created, err := s.repo.CreateReturn(ctx, ret)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert return")
	}
	return NewReturnDTO(created), nil
}

func (s *service) UpdateReturnStatus(ctx context.Context, orderID, returnID uuid.UUID, input ReturnStatusInput) (*ReturnDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown return status")
	}

	ret, err := s.repo.FindReturn(ctx, orderID, returnID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load return")
	}
	if ret.Status == enums.ReturnStatusRefunded || ret.Status == enums.ReturnStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "return is closed").
			WithDetails(map[string]any{"status": ret.Status})
	}

	if input.Status == enums.ReturnStatusRefunded {
		if input.RefundAmount == nil || input.RefundAmount.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a positive refund amount is required to refund")
		}
		ret.RefundAmount = input.RefundAmount
	}
	ret.Status = input.Status
	if input.Notes != nil {
		ret.Notes = input.Notes
	}

	updated, err := s.repo.UpdateReturn(ctx, ret)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update return")
	}
	return NewReturnDTO(updated), nil
}

func (s *service) ListReturns(ctx context.Context, orderID uuid.UUID) ([]ReturnDTO, error) {
	if _, err := s.findOrder(ctx, orderID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListReturns(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list returns")
	}
	dtos := make([]ReturnDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewReturnDTO(&rows[i]))
	}
	return dtos, nil
}

// nextOrderNumber derives a sequential ORD-<year>-<seq> number from the
// count of orders already placed in the year.
func (s *service) nextOrderNumber(ctx context.Context, orderDate time.Time) (string, error) {
	prefix := fmt.Sprintf("ORD-%d-", orderDate.Year())
	count, err := s.repo.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func lifecycleEvent(status enums.OrderStatus) (enums.OutboxEventType, bool) {
	switch status {
	case enums.OrderStatusDelivered:
		return enums.EventOrderDelivered, true
	case enums.OrderStatusCompleted:
		return enums.EventOrderCompleted, true
	case enums.OrderStatusCancelled:
		return enums.EventOrderCancelled, true
	default:
		return "", false
	}
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return row, nil
}

func isNotFound(err error) bool {
	return err != nil && (err == gorm.ErrRecordNotFound || strings.Contains(err.Error(), "record not found"))
}
