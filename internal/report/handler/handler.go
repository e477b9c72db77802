package handler

import (
	"context"

	"github.com/kdjayakody/kdj-simple-pos/api/posv1"
	"github.com/kdjayakody/kdj-simple-pos/internal/report"
	"google.golang.org/protobuf/types/known/structpb"
)

type ReportHandler struct {
	posv1.UnimplementedReportServiceServer
	uc report.UseCase
}

func NewReportHandler(uc report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) DailyReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r, err := h.uc.DailyReport(ctx, posv1.String(req, "date"))
	if err != nil {
		return nil, err
	}
	return posv1.Encode(r)
}
