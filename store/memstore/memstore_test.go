package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/nullable"
	"github.com/zeptools/gw-invoice/store"
)

func newStore(t *testing.T) (*store.Store, *time.Time) {
	t.Helper()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	db := New()
	db.SetClock(func() time.Time { return now })
	return db.Store(), &now
}

func TestUsersUniqueEmail(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	u := &models.User{Email: "a@example.com", PasswordHash: "h"}
	require.NoError(t, s.Users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	err := s.Users.Create(ctx, &models.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, store.ErrConflict)

	require.NoError(t, s.Users.UpdatePassword(ctx, u.ID, "h2"))
	got, err := s.Users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)

	_, err = s.Users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInvoicesAreScopedByUser(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	inv := &models.Invoice{UserID: "alice", InvoiceNumber: "INV-1"}
	require.NoError(t, s.Invoices.Create(ctx, inv))

	_, err := s.Invoices.Get(ctx, "bob", inv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Invoices.Delete(ctx, "bob", inv.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	err = s.Invoices.Update(ctx, &models.Invoice{ID: inv.ID, UserID: "bob"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.Invoices.ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := s.Invoices.Get(ctx, "alice", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-1", got.InvoiceNumber)
}

func TestInvoiceCopiesDoNotAlias(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	inv := &models.Invoice{UserID: "u", Items: models.LineItems{{Description: "a", Amount: 1}}}
	require.NoError(t, s.Invoices.Create(ctx, inv))
	inv.Items[0].Description = "changed"

	got, _ := s.Invoices.Get(ctx, "u", inv.ID)
	assert.Equal(t, "a", got.Items[0].Description)
}

func TestUpdateKeepsCreatedAt(t *testing.T) {
	s, now := newStore(t)
	ctx := context.Background()

	inv := &models.Invoice{UserID: "u", Notes: "old"}
	require.NoError(t, s.Invoices.Create(ctx, inv))
	created := inv.CreatedAt

	*now = now.Add(time.Hour)
	require.NoError(t, s.Invoices.Update(ctx, &models.Invoice{ID: inv.ID, UserID: "u", Notes: "new"}))
	got, _ := s.Invoices.Get(ctx, "u", inv.ID)
	assert.Equal(t, "new", got.Notes)
	assert.Equal(t, created, got.CreatedAt)
}

func TestSearchNewestFirstAndPaged(t *testing.T) {
	s, now := newStore(t)
	ctx := context.Background()

	for _, n := range []string{"INV-001", "INV-002", "INV-003"} {
		require.NoError(t, s.Invoices.Create(ctx, &models.Invoice{UserID: "u", InvoiceNumber: n}))
		*now = now.Add(time.Minute)
	}
	require.NoError(t, s.Invoices.Create(ctx, &models.Invoice{
		UserID: "u", InvoiceNumber: "X-9",
		Items: models.LineItems{{Description: "Consulting INV work"}},
	}))
	require.NoError(t, s.Invoices.Create(ctx, &models.Invoice{UserID: "other", InvoiceNumber: "INV-004"}))

	page, err := s.Invoices.Search(ctx, "u", store.SearchQuery{Text: "inv", Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Invoices, 3)
	assert.Equal(t, "X-9", page.Invoices[0].InvoiceNumber)
	assert.Equal(t, "INV-003", page.Invoices[1].InvoiceNumber)

	page, err = s.Invoices.Search(ctx, "u", store.SearchQuery{Text: "inv", Page: 2, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Invoices, 1)
	assert.Equal(t, "INV-001", page.Invoices[0].InvoiceNumber)

	page, err = s.Invoices.Search(ctx, "u", store.SearchQuery{Text: "nothing"})
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Invoices)
}

func TestReceiptsCRUD(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	r := &models.Receipt{UserID: "u", ReceiptNumber: "REC-1"}
	require.NoError(t, s.Receipts.Create(ctx, r))
	require.NoError(t, s.Receipts.Create(ctx, &models.Receipt{UserID: "v"}))

	list, _ := s.Receipts.ListByUser(ctx, "u")
	require.Len(t, list, 1)

	r.PaymentMethod = "Cash"
	require.NoError(t, s.Receipts.Update(ctx, r))
	got, _ := s.Receipts.Get(ctx, "u", r.ID)
	assert.Equal(t, "Cash", got.PaymentMethod)

	deleted, err := s.Receipts.Delete(ctx, "u", r.ID)
	require.NoError(t, err)
	assert.Equal(t, "REC-1", deleted.ReceiptNumber)
	_, err = s.Receipts.Get(ctx, "u", r.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTemplatesOwnershipAndLogo(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Templates.ReplaceAll(ctx, []*models.Template{
		{Name: "Seed A", Type: models.TypeInvoice},
		{Name: "Seed R", Type: models.TypeReceipt},
	}))
	mine := &models.Template{Name: "Mine", Type: models.TypeReceipt, CreatedBy: nullable.StringOf("u")}
	require.NoError(t, s.Templates.Create(ctx, mine))

	first, err := s.Templates.FirstOfType(ctx, models.TypeReceipt)
	require.NoError(t, err)
	assert.Equal(t, "Seed R", first.Name)

	all, _ := s.Templates.List(ctx)
	assert.Len(t, all, 3)
	recs, _ := s.Templates.ListByType(ctx, models.TypeReceipt)
	assert.Len(t, recs, 2)

	// seeds have no owner and cannot be changed by anyone
	_, err = s.Templates.Delete(ctx, "u", all[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Templates.SetLogo(ctx, "other", mine.ID, "/uploads/x.png")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Templates.SetLogo(ctx, "u", mine.ID, "/uploads/x.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/x.png", got.Layout.LogoPath.ForceValue())
	require.NotNil(t, got.Layout.ShowLogo)
	assert.True(t, *got.Layout.ShowLogo)

	got, err = s.Templates.SetLogo(ctx, "u", mine.ID, "")
	require.NoError(t, err)
	assert.True(t, got.Layout.LogoPath.IsNil())
	assert.False(t, *got.Layout.ShowLogo)

	require.NoError(t, s.Templates.ReplaceAll(ctx, nil))
	_, err = s.Templates.FirstOfType(ctx, models.TypeInvoice)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
