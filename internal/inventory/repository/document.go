package repository

import (
	"context"
	"strings"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/docstore"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory/dto"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
)

// DocumentRepository journals stock movements in append order.
type DocumentRepository struct {
	store docstore.DocumentStore
}

func NewDocumentRepository(store docstore.DocumentStore) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	if m == nil || strings.TrimSpace(m.ProductID) == "" {
		return apperror.Invalid("product_id", "product_id is required")
	}
	rec := toRecord(m)
	return r.store.Update(ctx, inventory.Collection, func(records []docstore.Record) ([]docstore.Record, error) {
		return append(records, rec), nil
	})
}

func (r *DocumentRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	records, err := r.store.Load(ctx, inventory.Collection)
	if err != nil {
		return nil, 0, err
	}
	if f == nil {
		f = &dto.MovementFilters{}
	}

	items := []model.StockMovement{}
	for i := len(records) - 1; i >= 0; i-- {
		m := fromRecord(records[i])
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.ReferenceType != "" && m.ReferenceType != f.ReferenceType {
			continue
		}
		items = append(items, m)
	}
	count := len(items)

	if f.PageSize > 0 {
		page := max(f.Page, 1)
		offset := (page - 1) * f.PageSize
		if offset >= count {
			return []model.StockMovement{}, count, nil
		}
		items = items[offset:min(offset+f.PageSize, count)]
	}
	return items, count, nil
}

func toRecord(m *model.StockMovement) docstore.Record {
	return docstore.Record{
		"id":              m.ID,
		"product_id":      m.ProductID,
		"quantity_change": m.QuantityChange,
		"quantity_before": m.QuantityBefore,
		"quantity_after":  m.QuantityAfter,
		"reason":          m.Reason,
		"reference_type":  m.ReferenceType,
		"reference_id":    m.ReferenceID,
		"created_at":      m.CreatedAt.Format(time.RFC3339Nano),
	}
}

func fromRecord(rec docstore.Record) model.StockMovement {
	var m model.StockMovement
	m.ID, _ = rec.String("id")
	m.ProductID, _ = rec.String("product_id")
	m.QuantityChange, _ = rec.Int("quantity_change")
	m.QuantityBefore, _ = rec.Int("quantity_before")
	m.QuantityAfter, _ = rec.Int("quantity_after")
	m.Reason, _ = rec.String("reason")
	m.ReferenceType, _ = rec.String("reference_type")
	m.ReferenceID, _ = rec.String("reference_id")
	if ts, ok := rec.String("created_at"); ok {
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return m
}
