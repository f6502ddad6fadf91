package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/internal/cart"
	"github.com/retailpoint/posadmin-backend/pkg/config"
	"github.com/retailpoint/posadmin-backend/pkg/db"
	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	"github.com/retailpoint/posadmin-backend/pkg/enums"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
	"github.com/retailpoint/posadmin-backend/pkg/logger"
	"github.com/retailpoint/posadmin-backend/pkg/metrics"
)

// DefaultCustomerName labels anonymous walk-in sales.
const DefaultCustomerName = "Walk-in Customer"

// CheckoutLine is one cart line being settled. Unit price was frozen when the
// line entered the cart.
type CheckoutLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// CheckoutInput carries everything settlement needs.
type CheckoutInput struct {
	UserID        uuid.UUID
	PaymentMethod enums.PaymentMethod
	CustomerName  string
	Lines         []CheckoutLine
}

// SettlementResult reports what was persisted, including any stock shortfall
// that was allowed through.
type SettlementResult struct {
	Transaction *models.Transaction
	Oversold    bool
	// DeductionErr aggregates per-line deduction failures. The transaction
	// itself is already persisted when this is non-nil.
	DeductionErr error
}

// Service runs checkout settlement.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*SettlementResult, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	cfg      config.SalesConfig
	logg     *logger.Logger
	metrics  *metrics.SettlementMetrics
	now      func() time.Time
}

// NewService constructs a settlement service instance.
func NewService(repo *Repository, dbClient *db.Client, cfg config.SalesConfig, logg *logger.Logger, m *metrics.SettlementMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		cfg:      cfg,
		logg:     logg,
		metrics:  m,
		now:      time.Now,
	}, nil
}

// TransactionNumber derives the human-facing receipt number from the wall
// clock: "TX-" plus the last six digits of unix milliseconds. Collisions are
// possible within the same millisecond window and are not mitigated.
func TransactionNumber(at time.Time) string {
	millis := fmt.Sprintf("%d", at.UnixMilli())
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return "TX-" + millis
}

// Checkout settles the sale sequentially: persist the transaction with its
// items, then walk each line deducting inventory largest stock first. A
// deduction failure never rolls back the already persisted transaction.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*SettlementResult, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	seen := make(map[uuid.UUID]struct{}, len(input.Lines))
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line price cannot be negative")
		}
		if _, dup := seen[line.ProductID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product line")
		}
		seen[line.ProductID] = struct{}{}
	}

	if !s.cfg.AllowOversell {
		if err := s.ensureStockAvailable(ctx, input.Lines); err != nil {
			s.metrics.IncOutcome("rejected")
			return nil, err
		}
	}

	// The cart owns the money math: settlement totals are whatever the
	// register's cart would have shown for the same lines.
	basket := cart.New()
	for _, line := range input.Lines {
		basket.Add(cart.Item{ProductID: line.ProductID, UnitPrice: line.UnitPrice})
		basket.SetQuantity(line.ProductID, line.Quantity)
	}
	rate := s.cfg.TaxRateDecimal()
	subtotal := basket.Subtotal()
	tax := basket.Tax(rate)
	total := basket.Total(rate)

	customer := input.CustomerName
	if customer == "" {
		customer = s.cfg.CustomerName
	}
	if customer == "" {
		customer = DefaultCustomerName
	}

	transaction := &models.Transaction{
		TransactionNumber: TransactionNumber(s.now()),
		UserID:            input.UserID,
		PaymentMethod:     input.PaymentMethod,
		Status:            enums.TransactionStatusCompleted,
		Subtotal:          subtotal,
		TaxAmount:         tax,
		TotalAmount:       total,
		CustomerName:      customer,
	}
	for _, line := range basket.Lines() {
		transaction.Items = append(transaction.Items, models.TransactionItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.LineTotal(),
		})
	}

	// Header and items commit together. A failure here aborts settlement
	// before any stock moves.
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateTransaction(ctx, transaction)
		return err
	}); err != nil {
		s.metrics.IncOutcome("failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transaction")
	}

	if s.logg != nil {
		ctx = s.logg.WithTransactionNumber(ctx, transaction.TransactionNumber)
	}

	result := &SettlementResult{Transaction: transaction}
	for _, line := range input.Lines {
		oversold, err := s.deductLine(ctx, line)
		if err != nil {
			result.DeductionErr = multierr.Append(result.DeductionErr,
				fmt.Errorf("deduct product %s: %w", line.ProductID, err))
			continue
		}
		if oversold {
			result.Oversold = true
		}
	}

	if result.Oversold {
		s.metrics.IncOversell()
		if s.logg != nil {
			s.logg.Warn(ctx, "settlement oversold inventory")
		}
	}
	if result.DeductionErr != nil && s.logg != nil {
		s.logg.Error(ctx, "settlement deduction incomplete", result.DeductionErr)
	}
	s.metrics.IncOutcome("completed")

	return result, nil
}

// deductLine walks the product's inventory rows from the largest stock level
// down, taking min(stock, remaining) from each. It reports whether demand
// exceeded the available stock.
func (s *service) deductLine(ctx context.Context, line CheckoutLine) (bool, error) {
	records, err := s.repo.ListInventoryForDeduction(ctx, line.ProductID)
	if err != nil {
		return false, err
	}

	remaining := line.Quantity
	for _, record := range records {
		if remaining == 0 {
			break
		}
		take := record.StockLevel
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		if err := s.repo.SetStockLevel(ctx, record.ID, record.StockLevel-take); err != nil {
			return remaining > 0, err
		}
		remaining -= take
	}

	return remaining > 0, nil
}

func (s *service) ensureStockAvailable(ctx context.Context, lines []CheckoutLine) error {
	for _, line := range lines {
		total, err := s.repo.TotalStock(ctx, line.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: total stock")
		}
		if total < line.Quantity {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").WithDetails(map[string]any{
				"product_id": line.ProductID.String(),
				"requested":  line.Quantity,
				"available":  total,
			})
		}
	}
	return nil
}
