package sqlstore

import (
	"context"

	"github.com/zeptools/gw-invoice/db/sqldb"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/store"
)

type invoiceRow struct {
	models.Invoice
}

func (r *invoiceRow) FieldsToScan() []any {
	inv := &r.Invoice
	return []any{
		&inv.ID, &inv.UserID, &inv.Logo, &inv.InvoiceNumber, &inv.Date, &inv.DueDate,
		&inv.PaymentTerms, &inv.PONumber, &inv.BillTo, &inv.ShipTo, &inv.From, &inv.Items,
		&inv.Currency, &inv.TaxPercent, &inv.TaxAmount, &inv.Discount, &inv.Notes,
		&inv.PaymentInfo, &inv.TemplateID, &inv.CreatedAt,
	}
}

// mutable columns in update.sql order
func invoiceValues(inv *models.Invoice) []any {
	return []any{
		inv.Logo, inv.InvoiceNumber, inv.Date, inv.DueDate, inv.PaymentTerms, inv.PONumber,
		inv.BillTo, inv.ShipTo, inv.From, inv.Items, inv.Currency, inv.TaxPercent,
		inv.TaxAmount, inv.Discount, inv.Notes, inv.PaymentInfo, inv.TemplateID,
	}
}

type Invoices struct {
	db *DB
}

var _ store.Invoices = (*Invoices)(nil)

func (s *Invoices) Create(ctx context.Context, inv *models.Invoice) error {
	s.db.stamp(&inv.ID, &inv.CreatedAt)
	args := append([]any{inv.ID, inv.UserID}, invoiceValues(inv)...)
	args = append(args, inv.CreatedAt)
	_, err := s.db.client.Exec(ctx, s.db.stmt("invoices.insert"), args...)
	return err
}

func (s *Invoices) ListByUser(ctx context.Context, userID string) ([]*models.Invoice, error) {
	rows, err := sqldb.QueryItems[invoiceRow, *invoiceRow](ctx, s.db.client, s.db.log, s.db.stmt("invoices.list_by_user"), userID)
	if err != nil {
		return nil, err
	}
	return invoices(rows), nil
}

func (s *Invoices) Get(ctx context.Context, userID string, id string) (*models.Invoice, error) {
	return getInvoice(ctx, s.db, s.db.client, userID, id)
}

func getInvoice(ctx context.Context, db *DB, h sqldb.Handle, userID string, id string) (*models.Invoice, error) {
	row, err := sqldb.QueryItem[invoiceRow, *invoiceRow](ctx, h, db.stmt("invoices.get"), id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return &row.Invoice, nil
}

func (s *Invoices) Update(ctx context.Context, inv *models.Invoice) error {
	args := append(invoiceValues(inv), inv.ID, inv.UserID)
	return affectedOne(s.db.client.Exec(ctx, s.db.stmt("invoices.update"), args...))
}

func (s *Invoices) Delete(ctx context.Context, userID string, id string) (*models.Invoice, error) {
	var deleted *models.Invoice
	err := sqldb.WithTx(ctx, s.db.client, func(tx sqldb.Tx) error {
		inv, err := getInvoice(ctx, s.db, tx, userID, id)
		if err != nil {
			return err
		}
		if err := affectedOne(tx.Exec(ctx, s.db.stmt("invoices.delete"), id, userID)); err != nil {
			return err
		}
		deleted = inv
		return nil
	})
	return deleted, err
}

func (s *Invoices) Search(ctx context.Context, userID string, q store.SearchQuery) (*store.SearchPage, error) {
	q = q.Normalized()
	pattern := sqldb.ContainsPattern(q.Text)
	// one pattern per searchable field, same order in both dialects
	args := []any{userID, pattern, pattern, pattern, pattern, pattern, pattern}

	total, err := sqldb.QueryInt64(ctx, s.db.client, s.db.stmt("invoices.search_count"), args...)
	if err != nil {
		return nil, err
	}
	args = append(args, q.Limit, q.Offset())
	rows, err := sqldb.QueryItems[invoiceRow, *invoiceRow](ctx, s.db.client, s.db.log, s.db.stmt("invoices.search"), args...)
	if err != nil {
		return nil, err
	}
	return store.NewSearchPage(invoices(rows), total, q), nil
}

func invoices(rows []*invoiceRow) []*models.Invoice {
	out := make([]*models.Invoice, len(rows))
	for i, r := range rows {
		out[i] = &r.Invoice
	}
	return out
}
