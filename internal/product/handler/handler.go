package handler

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/api/posv1"
	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/product"
	"github.com/kdjayakody/kdj-simple-pos/internal/product/dto"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type ProductHandler struct {
	posv1.UnimplementedProductServiceServer

	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input := &dto.CreateProductInput{
		ID:       posv1.String(req, "id"),
		Name:     posv1.String(req, "name"),
		Category: posv1.String(req, "category"),
	}
	var err error
	if input.Price, err = number(req, "price", true); err != nil {
		return nil, err
	}
	stock, err := number(req, "stock", false)
	if err != nil {
		return nil, err
	}
	if stock != float64(int(stock)) {
		return nil, apperror.Invalid("stock", "stock must be a whole number")
	}
	input.Stock = int(stock)

	p, err := h.uc.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	return productResponse(p)
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.uc.GetProduct(ctx, posv1.String(req, "id"))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, status.Error(codes.NotFound, "product not found")
	}
	return productResponse(p)
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	filters := &dto.ProductFilters{
		SearchQuery: posv1.String(req, "search"),
		Category:    posv1.String(req, "category"),
	}
	products, err := h.uc.ListProducts(ctx, filters)
	if err != nil {
		return nil, err
	}
	return listResponse(products)
}

func (h *ProductHandler) SearchProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	products, err := h.uc.ListProducts(ctx, &dto.ProductFilters{SearchQuery: posv1.String(req, "query")})
	if err != nil {
		return nil, err
	}
	return listResponse(products)
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input := &dto.UpdateProductInput{
		ID:       posv1.String(req, "id"),
		Name:     posv1.String(req, "name"),
		Category: posv1.String(req, "category"),
	}
	var err error
	if input.Price, err = number(req, "price", true); err != nil {
		return nil, err
	}

	p, err := h.uc.UpdateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	return productResponse(p)
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := posv1.String(req, "id")
	if err := h.uc.DeleteProduct(ctx, id); err != nil {
		return nil, err
	}
	h.logger.Debug("product removed via rpc", zap.String("product_id", id))
	return structpb.NewStruct(map[string]any{"success": true})
}

// number reads a numeric field. A missing optional field reads as 0.
func number(req *structpb.Struct, key string, required bool) (float64, error) {
	if !posv1.Has(req, key) {
		if required {
			return 0, apperror.Invalid(key, "%s is required", key)
		}
		return 0, nil
	}
	v, ok := posv1.Number(req, key)
	if !ok {
		return 0, apperror.Invalid(key, "%s must be a number", key)
	}
	return v, nil
}

func productResponse(p *model.Product) (*structpb.Struct, error) {
	body, err := posv1.Encode(p)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"product": structpb.NewStructValue(body),
	}}, nil
}

func listResponse(products []model.Product) (*structpb.Struct, error) {
	values := make([]*structpb.Value, 0, len(products))
	for i := range products {
		body, err := posv1.Encode(&products[i])
		if err != nil {
			return nil, err
		}
		values = append(values, structpb.NewStructValue(body))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"products": structpb.NewListValue(&structpb.ListValue{Values: values}),
		"total":    structpb.NewNumberValue(float64(len(products))),
	}}, nil
}
