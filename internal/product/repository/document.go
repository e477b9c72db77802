package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/docstore"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/product"
)

// DocumentRepository keeps the catalog as one document. Lookups are linear
// scans of a fresh load; every mutation runs inside a single store Update so
// the check and the write share one exclusive lock.
type DocumentRepository struct {
	store    docstore.DocumentStore
	validate *validator.Validate
}

func NewDocumentRepository(store docstore.DocumentStore) *DocumentRepository {
	return &DocumentRepository{store: store, validate: validator.New()}
}

type productRules struct {
	ID    string  `validate:"required"`
	Name  string  `validate:"required"`
	Price float64 `validate:"gte=0"`
	Stock int     `validate:"gte=0"`
}

var ruleMessages = map[string]struct{ field, message string }{
	"ID":    {"id", "product id is required"},
	"Name":  {"name", "product name is required"},
	"Price": {"price", "price must be a non-negative number"},
	"Stock": {"stock", "stock must be a non-negative whole number"},
}

func (r *DocumentRepository) check(rules productRules) error {
	err := r.validate.Struct(rules)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		m := ruleMessages[verrs[0].StructField()]
		return apperror.Invalid(m.field, "%s", m.message)
	}
	return apperror.Invalid("", "%s", err.Error())
}

func (r *DocumentRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	records, err := r.store.Load(ctx, product.Collection)
	if err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, fromRecord(rec))
	}
	return products, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	records, err := r.store.Load(ctx, product.Collection)
	if err != nil {
		return nil, err
	}
	if i := indexOf(records, id); i >= 0 {
		p := fromRecord(records[i])
		return &p, nil
	}
	return nil, nil
}

func (r *DocumentRepository) IsIDUnique(ctx context.Context, id string) (bool, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return p == nil, nil
}

func (r *DocumentRepository) Add(ctx context.Context, p model.Product) (*model.Product, error) {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if err := r.check(productRules{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock}); err != nil {
		return nil, err
	}

	err := r.store.Update(ctx, product.Collection, func(records []docstore.Record) ([]docstore.Record, error) {
		if indexOf(records, p.ID) >= 0 {
			return nil, fmt.Errorf("%w: product id %q already exists", apperror.ErrConflict, p.ID)
		}
		return append(records, toRecord(p)), nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DocumentRepository) Update(ctx context.Context, id string, fields model.ProductFields) (*model.Product, error) {
	id = strings.TrimSpace(id)
	fields.Name = strings.TrimSpace(fields.Name)
	fields.Category = strings.TrimSpace(fields.Category)
	if err := r.check(productRules{ID: id, Name: fields.Name, Price: fields.Price}); err != nil {
		return nil, err
	}

	var updated model.Product
	err := r.store.Update(ctx, product.Collection, func(records []docstore.Record) ([]docstore.Record, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, notFound(id)
		}
		// Only these three keys change; stock and any hand-added fields stay as stored.
		records[i]["name"] = fields.Name
		records[i]["price"] = fields.Price
		records[i]["category"] = fields.Category
		updated = fromRecord(records[i])
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *DocumentRepository) AdjustStock(ctx context.Context, id string, delta int, allowNegative bool) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, apperror.Invalid("id", "product id is required")
	}

	var newStock int
	err := r.store.Update(ctx, product.Collection, func(records []docstore.Record) ([]docstore.Record, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, notFound(id)
		}
		current, _ := records[i].Int("stock")
		next := current + delta
		if !allowNegative && next < 0 {
			name, _ := records[i].String("name")
			return nil, fmt.Errorf("%w for %q (id %s): available %d, requested change %d",
				apperror.ErrInsufficientStock, name, id, current, delta)
		}
		records[i]["stock"] = next
		newStock = next
		return records, nil
	})
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.Invalid("id", "product id is required")
	}

	return r.store.Update(ctx, product.Collection, func(records []docstore.Record) ([]docstore.Record, error) {
		kept := make([]docstore.Record, 0, len(records))
		found := false
		for _, rec := range records {
			if recID, ok := rec.String("id"); ok && recID == id {
				found = true
				continue
			}
			kept = append(kept, rec)
		}
		if !found {
			return nil, notFound(id)
		}
		return kept, nil
	})
}

func (r *DocumentRepository) Search(ctx context.Context, term string) ([]model.Product, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return all, nil
	}

	results := []model.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.ID), term) || strings.Contains(strings.ToLower(p.Name), term) {
			results = append(results, p)
		}
	}
	return results, nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: product id %q", apperror.ErrNotFound, id)
}

// indexOf returns the first record whose id matches exactly, or -1.
func indexOf(records []docstore.Record, id string) int {
	for i, rec := range records {
		if recID, ok := rec.String("id"); ok && recID == id {
			return i
		}
	}
	return -1
}

func fromRecord(rec docstore.Record) model.Product {
	var p model.Product
	p.ID, _ = rec.String("id")
	p.Name, _ = rec.String("name")
	p.Category, _ = rec.String("category")
	p.Price, _ = rec.Float("price")
	var ok bool
	p.Stock, ok = rec.Int("stock")
	p.StockUnreadable = !ok
	return p
}

func toRecord(p model.Product) docstore.Record {
	return docstore.Record{
		"id":       p.ID,
		"name":     p.Name,
		"price":    p.Price,
		"category": p.Category,
		"stock":    p.Stock,
	}
}
