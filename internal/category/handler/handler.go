package handler

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/api/posv1"
	"github.com/kdjayakody/kdj-simple-pos/internal/category"
	"github.com/kdjayakody/kdj-simple-pos/internal/category/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ posv1.CategoryServiceServer = (*CategoryHandler)(nil)

type CategoryHandler struct {
	posv1.UnimplementedCategoryServiceServer
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	page, _ := posv1.Number(req, "page")
	pageSize, _ := posv1.Number(req, "page_size")
	filters := &dto.CategoryFilters{
		SearchQuery:  posv1.String(req, "search_query"),
		IncludeBlank: posv1.Bool(req, "include_blank"),
		Page:         int(page),
		PageSize:     int(pageSize),
	}

	categories, count, err := h.uc.ListCategories(ctx, filters)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("listed categories", zap.Int("total", count))

	return posv1.Encode(struct {
		Categories []model.CategorySummary `json:"categories"`
		Total      int                     `json:"total"`
	}{Categories: categories, Total: count})
}
