package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory"
	invDTO "github.com/kdjayakody/kdj-simple-pos/internal/inventory/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/middleware"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/product"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale/dto"
	"github.com/kdjayakody/kdj-simple-pos/pkg/i18n"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	DefaultPaymentType  = "Cash"
	DefaultIDAttempts   = 3
	changeEpsilon       = 0.001
	unknownProductLabel = "Unknown Product"
	// maxLineQuantity keeps quantities within int range before conversion.
	maxLineQuantity = 1e9
	saleStockReason = "sale"
)

type Config struct {
	StoreName string
	Location  *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// IDAttempts bounds how often a sale id taken by a concurrent sale is regenerated.
	IDAttempts int
}

type saleUseCase struct {
	products  product.Repository
	stock     inventory.UseCase
	ledger    sale.Ledger
	publisher sale.EventPublisher
	tr        *i18n.Translator
	validate  *validator.Validate
	cfg       Config
	logger    logger.ZapLogger
}

// NewSaleUseCase wires the orchestrator. Products are read for validation and
// stock leaves through the inventory usecase, so every sale line is journaled.
// publisher may be nil.
func NewSaleUseCase(products product.Repository, stock inventory.UseCase, ledger sale.Ledger, publisher sale.EventPublisher, tr *i18n.Translator, cfg Config, log logger.ZapLogger) sale.UseCase {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IDAttempts <= 0 {
		cfg.IDAttempts = DefaultIDAttempts
	}
	return &saleUseCase{
		products:  products,
		stock:     stock,
		ledger:    ledger,
		publisher: publisher,
		tr:        tr,
		validate:  validator.New(),
		cfg:       cfg,
		logger:    log,
	}
}

// validatedLine is a cart line that passed every check, with the product name
// captured for the receipt.
type validatedLine struct {
	item model.SaleItem
	name string
}

func (uc *saleUseCase) ProcessSale(ctx context.Context, input *dto.ProcessSaleInput) (*dto.SaleResult, error) {
	log := uc.logger.With(zap.String("request_id", middleware.RequestID(ctx)))

	amounts, err := uc.checkRequest(input)
	if err != nil {
		log.Warn("sale request rejected", zap.Error(err))
		return &dto.SaleResult{Success: false, Message: err.Error()}, err
	}
	if diff := amounts.change.Sub(amounts.clientChange).Abs(); diff.GreaterThan(decimal.NewFromFloat(changeEpsilon)) {
		log.Warn("change discrepancy, using server value",
			zap.String("client_change", amounts.clientChange.String()),
			zap.String("server_change", amounts.change.String()),
		)
	}

	// Validating
	lines, err := uc.validateItems(ctx, input.Items)
	if err != nil {
		var rejected *sale.RejectedError
		if errors.As(err, &rejected) {
			log.Warn("sale validation failed", zap.Strings("reasons", rejected.Messages()))
			return &dto.SaleResult{Success: false, Message: rejected.Error()}, err
		}
		return nil, apperror.ServerFault("validate sale items", err)
	}

	paymentType := strings.TrimSpace(input.PaymentType)
	if paymentType == "" {
		paymentType = DefaultPaymentType
	}
	items := make([]model.SaleItem, len(lines))
	for i, l := range lines {
		items[i] = l.item
	}
	record := model.Sale{
		Items:          items,
		TotalAmount:    amounts.total.InexactFloat64(),
		AmountReceived: amounts.received.InexactFloat64(),
		ChangeGiven:    amounts.change.InexactFloat64(),
		PaymentType:    paymentType,
	}

	// IdAssigned, Recorded
	if err := uc.record(ctx, log, &record); err != nil {
		return nil, err
	}
	log = log.With(zap.String("sale_id", record.SaleID))

	// StockAdjusted: the sale is final, so failures here only become warnings.
	var stockWarnings []string
	for _, item := range record.Items {
		_, err := uc.stock.AdjustInventory(ctx, &invDTO.AdjustInventoryInput{
			ProductID:      item.ProductID,
			QuantityChange: -item.Quantity,
			Reason:         saleStockReason,
			ReferenceType:  model.MovementSale,
			ReferenceID:    record.SaleID,
		})
		if err != nil {
			stockWarnings = append(stockWarnings, item.ProductID)
			log.Warn("stock update failed after sale was recorded, manual stock verification needed",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity_change", -item.Quantity),
				zap.Error(err),
			)
		}
	}

	// Completed
	if uc.publisher != nil {
		if err := uc.publisher.PublishSaleCompleted(ctx, record); err != nil {
			log.Warn("failed to publish sale completed event", zap.Error(err))
		}
	}
	log.Info("sale completed",
		zap.Float64("total_amount", record.TotalAmount),
		zap.Int("items", len(record.Items)),
		zap.Int("stock_warnings", len(stockWarnings)),
	)

	return &dto.SaleResult{
		Success:       true,
		SaleID:        record.SaleID,
		Message:       uc.message(ctx, record.SaleID, stockWarnings),
		Receipt:       uc.receipt(record, lines),
		StockWarnings: stockWarnings,
	}, nil
}

type saleAmounts struct {
	total, received, clientChange, change decimal.Decimal
}

func (uc *saleUseCase) checkRequest(input *dto.ProcessSaleInput) (saleAmounts, error) {
	if input == nil || uc.validate.Struct(input) != nil {
		return saleAmounts{}, apperror.Invalid("", "Incomplete sale data received from client.")
	}

	for _, v := range []float64{*input.TotalAmount, *input.AmountReceived, *input.ChangeGiven} {
		if !finite(v) {
			return saleAmounts{}, apperror.Invalid("amount_received",
				"Invalid payment amounts received or amount received is less than total.")
		}
	}

	a := saleAmounts{
		total:        decimal.NewFromFloat(*input.TotalAmount),
		received:     decimal.NewFromFloat(*input.AmountReceived),
		clientChange: decimal.NewFromFloat(*input.ChangeGiven),
	}
	if a.total.IsNegative() || a.received.LessThan(a.total) {
		return saleAmounts{}, apperror.Invalid("amount_received",
			"Invalid payment amounts received or amount received is less than total.")
	}
	a.change = a.received.Sub(a.total)
	return a, nil
}

// validateItems checks every line and reports all failures together. Only
// storage errors are returned unaggregated.
func (uc *saleUseCase) validateItems(ctx context.Context, inputs []dto.SaleItemInput) ([]validatedLine, error) {
	if len(inputs) == 0 {
		return nil, &sale.RejectedError{Reasons: &sale.ItemError{Kind: apperror.ErrValidation, Message: "The sale cart is empty."}}
	}

	var (
		reasons error
		lines   = make([]validatedLine, 0, len(inputs))
	)
	for i, in := range inputs {
		in.ProductID = strings.TrimSpace(in.ProductID)
		if uc.validate.Struct(in) != nil || !finite(*in.Quantity) || !finite(*in.PriceAtSale) ||
			*in.Quantity >= maxLineQuantity || int(*in.Quantity) <= 0 {
			reasons = multierr.Append(reasons, &sale.ItemError{
				Kind:    apperror.ErrValidation,
				Message: fmt.Sprintf("Item #%d has invalid data (ID, quantity, price).", i+1),
			})
			continue
		}
		qty := int(*in.Quantity)

		p, err := uc.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			reasons = multierr.Append(reasons, &sale.ItemError{
				Kind:    apperror.ErrNotFound,
				Message: fmt.Sprintf("Product ID '%s' not found in inventory.", in.ProductID),
			})
			continue
		}
		if p.StockUnreadable {
			name := p.Name
			if name == "" {
				name = in.ProductID
			}
			reasons = multierr.Append(reasons, &sale.ItemError{
				Kind:    apperror.ErrInsufficientStock,
				Message: fmt.Sprintf("Inventory data error for Product '%s'. Stock level unavailable.", name),
			})
			continue
		}
		if p.Stock < qty {
			reasons = multierr.Append(reasons, &sale.ItemError{
				Kind:    apperror.ErrInsufficientStock,
				Message: fmt.Sprintf("Insufficient stock for Product '%s'. Requested: %d, Available: %d.", displayName(p), qty, p.Stock),
			})
			continue
		}

		lines = append(lines, validatedLine{
			item: model.SaleItem{ProductID: in.ProductID, Quantity: qty, PriceAtSale: *in.PriceAtSale},
			name: displayName(p),
		})
	}
	if reasons != nil {
		return nil, &sale.RejectedError{Reasons: reasons}
	}
	return lines, nil
}

// record assigns an id and appends the sale, regenerating the id when a
// concurrent sale already took it.
func (uc *saleUseCase) record(ctx context.Context, log logger.ZapLogger, s *model.Sale) error {
	for attempt := 1; ; attempt++ {
		id, err := uc.ledger.GenerateSaleID(ctx)
		if err != nil {
			log.Error("failed to generate sale id", zap.Error(err))
			return apperror.ServerFault("generate sale id", err)
		}
		s.SaleID = id
		s.Timestamp = uc.cfg.Now().In(uc.cfg.Location).Format(time.RFC3339)

		err = uc.ledger.Append(ctx, *s)
		if err == nil {
			return nil
		}
		if errors.Is(err, apperror.ErrConflict) && attempt < uc.cfg.IDAttempts {
			log.Warn("sale id taken by a concurrent sale, regenerating",
				zap.String("sale_id", id), zap.Int("attempt", attempt))
			continue
		}
		log.Error("failed to record sale", zap.String("sale_id", id), zap.Int("attempt", attempt), zap.Error(err))
		return apperror.ServerFault("record sale", err)
	}
}

func (uc *saleUseCase) message(ctx context.Context, saleID string, stockWarnings []string) string {
	locale := middleware.Locale(ctx)
	msg := uc.tr.T(i18n.MsgSaleCompleted, map[string]any{"SaleID": saleID}, locale)
	if len(stockWarnings) > 0 {
		msg += uc.tr.T(i18n.MsgSaleStockWarning, map[string]any{"ProductIDs": strings.Join(stockWarnings, ", ")}, locale)
	}
	return msg
}

func (uc *saleUseCase) receipt(s model.Sale, lines []validatedLine) *model.Receipt {
	r := &model.Receipt{
		StoreName:      uc.cfg.StoreName,
		SaleID:         s.SaleID,
		Timestamp:      s.Timestamp,
		Items:          make([]model.ReceiptLine, len(lines)),
		TotalAmount:    s.TotalAmount,
		AmountReceived: s.AmountReceived,
		ChangeGiven:    s.ChangeGiven,
		PaymentType:    s.PaymentType,
	}
	for i, l := range lines {
		lineTotal := decimal.NewFromFloat(l.item.PriceAtSale).Mul(decimal.NewFromInt(int64(l.item.Quantity))).Round(2)
		r.Items[i] = model.ReceiptLine{
			Name:      l.name,
			Quantity:  l.item.Quantity,
			Price:     l.item.PriceAtSale,
			ItemTotal: lineTotal.InexactFloat64(),
		}
	}
	return r
}

func (uc *saleUseCase) ListSales(ctx context.Context, date string) ([]model.Sale, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return uc.ledger.All(ctx)
	}
	return uc.ledger.ByDate(ctx, date)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func displayName(p *model.Product) string {
	if p.Name == "" {
		return unknownProductLabel
	}
	return p.Name
}
