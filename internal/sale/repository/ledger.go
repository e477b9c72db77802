package repository

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/docstore"
	"github.com/kdjayakody/kdj-simple-pos/internal/model"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"go.uber.org/zap"
)

const (
	idDateLayout = "20060102"
	seqWidth     = 3
)

var (
	saleIDRe = regexp.MustCompile(`^(\d{8})-(\d+)$`)
	dateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// DocumentLedger stores the ledger as one document in append order.
type DocumentLedger struct {
	store  docstore.DocumentStore
	loc    *time.Location
	now    func() time.Time
	logger logger.ZapLogger

	// disordered latches once this process has seen the ledger out of date
	// order, or an id it generated was already taken; id generation then
	// always scans the whole ledger.
	disordered atomic.Bool
	// scanned is set after the first full pass. Until then the ledger may
	// hold records this process never appended.
	scanned atomic.Bool
}

type Option func(*DocumentLedger)

func WithClock(now func() time.Time) Option {
	return func(l *DocumentLedger) { l.now = now }
}

func NewDocumentLedger(store docstore.DocumentStore, loc *time.Location, log logger.ZapLogger, opts ...Option) *DocumentLedger {
	if loc == nil {
		loc = time.Local
	}
	l := &DocumentLedger{store: store, loc: loc, now: time.Now, logger: log}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now is the ledger clock in the configured location.
func (l *DocumentLedger) Now() time.Time {
	return l.now().In(l.loc)
}

func (l *DocumentLedger) GenerateSaleID(ctx context.Context) (string, error) {
	records, err := l.store.Load(ctx, sale.Collection)
	if err != nil {
		return "", err
	}

	today := l.Now().Format(idDateLayout)
	fullScan := l.disordered.Load() || !l.scanned.Load()
	next := nextSequence(records, today, fullScan)
	if fullScan {
		l.scanned.Store(true)
	}
	if next.disordered {
		l.markDisordered("sales ledger is not in date order, sale id generation will scan the whole ledger",
			zap.String("today", today))
	}
	return fmt.Sprintf("%s-%0*d", today, seqWidth, next.seq), nil
}

func (l *DocumentLedger) markDisordered(msg string, fields ...zap.Field) {
	if !l.disordered.Swap(true) {
		l.logger.Warn(msg, fields...)
	}
}

type sequenceScan struct {
	seq        int
	disordered bool
}

// nextSequence scans newest to oldest for today's highest sequence. The scan
// stops at the first id from an earlier day unless fullScan is set or the
// part already scanned shows the ledger is not in date order, in which case
// every record is examined.
func nextSequence(records []docstore.Record, today string, fullScan bool) sequenceScan {
	var (
		out    sequenceScan
		oldest string // smallest date prefix seen so far, walking backwards
	)
	for i := len(records) - 1; i >= 0; i-- {
		prefix, seq, ok := parseSaleID(records[i])
		if !ok {
			continue
		}
		if prefix > today || (oldest != "" && prefix > oldest) {
			out.disordered = true
		}
		if oldest == "" || prefix < oldest {
			oldest = prefix
		}

		if prefix == today {
			out.seq = max(out.seq, seq)
			continue
		}
		if prefix < today && !fullScan && !out.disordered {
			break
		}
	}
	out.seq++
	return out
}

func parseSaleID(rec docstore.Record) (prefix string, seq int, ok bool) {
	id, ok := rec.String("sale_id")
	if !ok {
		return "", 0, false
	}
	m := saleIDRe.FindStringSubmatch(id)
	if m == nil {
		return "", 0, false
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], seq, true
}

func (l *DocumentLedger) Append(ctx context.Context, s model.Sale) error {
	if err := validateForAppend(s); err != nil {
		return err
	}

	rec := toRecord(s)
	prefix := ""
	if m := saleIDRe.FindStringSubmatch(s.SaleID); m != nil {
		prefix = m[1]
	}

	return l.store.Update(ctx, sale.Collection, func(records []docstore.Record) ([]docstore.Record, error) {
		for _, existing := range records {
			if id, _ := existing.String("sale_id"); id == s.SaleID {
				// A stale id means a short-circuited scan missed part of today.
				l.markDisordered("sale id already recorded, sale id generation will scan the whole ledger",
					zap.String("sale_id", s.SaleID))
				return nil, fmt.Errorf("%w: sale id %q already recorded", apperror.ErrConflict, s.SaleID)
			}
		}
		if n := len(records); n > 0 && prefix != "" {
			if last, _, ok := parseSaleID(records[n-1]); ok && prefix < last {
				l.disordered.Store(true)
			}
		}
		return append(records, rec), nil
	})
}

func validateForAppend(s model.Sale) error {
	switch {
	case strings.TrimSpace(s.SaleID) == "":
		return apperror.Invalid("sale_id", "sale_id is required")
	case strings.TrimSpace(s.Timestamp) == "":
		return apperror.Invalid("timestamp", "timestamp is required")
	case s.Items == nil:
		return apperror.Invalid("items", "items are required")
	}
	return nil
}

func (l *DocumentLedger) ByDate(ctx context.Context, date string) ([]model.Sale, error) {
	if !dateRe.MatchString(date) {
		return nil, apperror.Invalid("date", "date %q must be in YYYY-MM-DD format", date)
	}

	records, err := l.store.Load(ctx, sale.Collection)
	if err != nil {
		return nil, err
	}

	sales := []model.Sale{}
	for _, rec := range records {
		ts, ok := rec["timestamp"].(string)
		if !ok || len(ts) < len(date) {
			continue
		}
		if ts[:len(date)] == date {
			sales = append(sales, fromRecord(rec))
		}
	}
	return sales, nil
}

func (l *DocumentLedger) All(ctx context.Context) ([]model.Sale, error) {
	records, err := l.store.Load(ctx, sale.Collection)
	if err != nil {
		return nil, err
	}
	sales := make([]model.Sale, 0, len(records))
	for _, rec := range records {
		sales = append(sales, fromRecord(rec))
	}
	return sales, nil
}

func toRecord(s model.Sale) docstore.Record {
	items := make([]any, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, map[string]any{
			"product_id":    it.ProductID,
			"quantity":      it.Quantity,
			"price_at_sale": it.PriceAtSale,
		})
	}
	return docstore.Record{
		"sale_id":         s.SaleID,
		"timestamp":       s.Timestamp,
		"items":           items,
		"total_amount":    s.TotalAmount,
		"amount_received": s.AmountReceived,
		"change_given":    s.ChangeGiven,
		"payment_type":    s.PaymentType,
	}
}

func fromRecord(rec docstore.Record) model.Sale {
	var s model.Sale
	s.SaleID, _ = rec.String("sale_id")
	s.Timestamp, _ = rec.String("timestamp")
	s.PaymentType, _ = rec.String("payment_type")
	s.AmountReceived, _ = rec.Float("amount_received")
	s.ChangeGiven, _ = rec.Float("change_given")

	var ok bool
	if s.TotalAmount, ok = rec.Float("total_amount"); !ok {
		s.TotalUnreadable = true
	}

	raw, _ := rec["items"].([]any)
	s.Items = make([]model.SaleItem, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		item := docstore.Record(m)
		var it model.SaleItem
		it.ProductID, _ = item.String("product_id")
		it.Quantity, _ = item.Int("quantity")
		it.PriceAtSale, _ = item.Float("price_at_sale")
		s.Items = append(s.Items, it)
	}
	return s
}
