package handler

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/api/posv1"
	"github.com/kdjayakody/kdj-simple-pos/internal/middleware"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale/dto"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type SaleHandler struct {
	posv1.UnimplementedSaleServiceServer

	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SaleHandler) ProcessSale(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input := &dto.ProcessSaleInput{
		Items:          items(req),
		TotalAmount:    optionalNumber(req, "total_amount"),
		AmountReceived: optionalNumber(req, "amount_received"),
		ChangeGiven:    optionalNumber(req, "change_given"),
		PaymentType:    posv1.String(req, "payment_type"),
	}

	result, err := h.uc.ProcessSale(ctx, input)
	if err != nil {
		if result == nil {
			return nil, err
		}
		return nil, rejection(err, result)
	}
	return posv1.Encode(result)
}

func (h *SaleHandler) ListSales(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sales, err := h.uc.ListSales(ctx, posv1.String(req, "date"))
	if err != nil {
		return nil, err
	}
	h.logger.Debug("sales listed", zap.String("date", posv1.String(req, "date")), zap.Int("count", len(sales)))
	return posv1.Encode(struct {
		Sales []model.Sale `json:"sales"`
		Total int          `json:"total"`
	}{Sales: sales, Total: len(sales)})
}

// rejection carries the refused result as a status detail so clients can show
// the same message the success path would.
func rejection(err error, result *dto.SaleResult) error {
	st := status.New(middleware.Code(err), result.Message)
	body, encErr := posv1.Encode(result)
	if encErr != nil {
		return st.Err()
	}
	withBody, detailErr := st.WithDetails(body)
	if detailErr != nil {
		return st.Err()
	}
	return withBody.Err()
}

// Rejection extracts the refused sale result from a ProcessSale error.
func Rejection(err error) (*dto.SaleResult, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		body, ok := d.(*structpb.Struct)
		if !ok {
			continue
		}
		var result dto.SaleResult
		if posv1.Decode(body, &result) == nil {
			return &result, true
		}
	}
	return nil, false
}

func items(req *structpb.Struct) []dto.SaleItemInput {
	if !posv1.Has(req, "items") {
		return nil
	}
	values := posv1.List(req, "items")
	out := make([]dto.SaleItemInput, 0, len(values))
	for _, v := range values {
		line := v.GetStructValue()
		out = append(out, dto.SaleItemInput{
			ProductID:   posv1.String(line, "product_id"),
			Quantity:    optionalNumber(line, "quantity"),
			PriceAtSale: optionalNumber(line, "price_at_sale"),
		})
	}
	return out
}

func optionalNumber(s *structpb.Struct, key string) *float64 {
	v, ok := posv1.Number(s, key)
	if !ok {
		return nil
	}
	return &v
}
