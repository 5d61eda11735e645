package sqlstore

import (
	"context"

	"github.com/zeptools/gw-invoice/db/sqldb"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/store"
)

type receiptRow struct {
	models.Receipt
}

func (r *receiptRow) FieldsToScan() []any {
	rc := &r.Receipt
	return []any{
		&rc.ID, &rc.UserID, &rc.Logo, &rc.ReceiptNumber, &rc.Date, &rc.PaymentDate,
		&rc.OriginalInvoiceNumber, &rc.OriginalInvoiceID, &rc.BillTo, &rc.From, &rc.ShipTo,
		&rc.Items, &rc.PaidAmount, &rc.Currency, &rc.TaxPercent, &rc.Discount,
		&rc.PaymentMethod, &rc.Notes, &rc.PaymentInfo, &rc.TemplateID, &rc.CreatedAt,
	}
}

func receiptValues(rc *models.Receipt) []any {
	return []any{
		rc.Logo, rc.ReceiptNumber, rc.Date, rc.PaymentDate, rc.OriginalInvoiceNumber,
		rc.OriginalInvoiceID, rc.BillTo, rc.From, rc.ShipTo, rc.Items, rc.PaidAmount,
		rc.Currency, rc.TaxPercent, rc.Discount, rc.PaymentMethod, rc.Notes,
		rc.PaymentInfo, rc.TemplateID,
	}
}

type Receipts struct {
	db *DB
}

var _ store.Receipts = (*Receipts)(nil)

func (s *Receipts) Create(ctx context.Context, rc *models.Receipt) error {
	s.db.stamp(&rc.ID, &rc.CreatedAt)
	args := append([]any{rc.ID, rc.UserID}, receiptValues(rc)...)
	args = append(args, rc.CreatedAt)
	_, err := s.db.client.Exec(ctx, s.db.stmt("receipts.insert"), args...)
	return err
}

func (s *Receipts) ListByUser(ctx context.Context, userID string) ([]*models.Receipt, error) {
	rows, err := sqldb.QueryItems[receiptRow, *receiptRow](ctx, s.db.client, s.db.log, s.db.stmt("receipts.list_by_user"), userID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Receipt, len(rows))
	for i, r := range rows {
		out[i] = &r.Receipt
	}
	return out, nil
}

func (s *Receipts) Get(ctx context.Context, userID string, id string) (*models.Receipt, error) {
	return getReceipt(ctx, s.db, s.db.client, userID, id)
}

func getReceipt(ctx context.Context, db *DB, h sqldb.Handle, userID string, id string) (*models.Receipt, error) {
	row, err := sqldb.QueryItem[receiptRow, *receiptRow](ctx, h, db.stmt("receipts.get"), id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return &row.Receipt, nil
}

func (s *Receipts) Update(ctx context.Context, rc *models.Receipt) error {
	args := append(receiptValues(rc), rc.ID, rc.UserID)
	return affectedOne(s.db.client.Exec(ctx, s.db.stmt("receipts.update"), args...))
}

func (s *Receipts) Delete(ctx context.Context, userID string, id string) (*models.Receipt, error) {
	var deleted *models.Receipt
	err := sqldb.WithTx(ctx, s.db.client, func(tx sqldb.Tx) error {
		rc, err := getReceipt(ctx, s.db, tx, userID, id)
		if err != nil {
			return err
		}
		if err := affectedOne(tx.Exec(ctx, s.db.stmt("receipts.delete"), id, userID)); err != nil {
			return err
		}
		deleted = rc
		return nil
	})
	return deleted, err
}
