package invoice_test

import (
	"strings"
	"testing"

	"github.com/fyrsmithlabs/invoiceqa/internal/invoice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContentField(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{
		"content":       "  Invoice 101 for Alice Johnson, total $250.  ",
		"customer_name": "Alice Johnson",
	})

	assert.Equal(t, "Invoice 101 for Alice Johnson, total $250.", doc.Content)
	assert.Equal(t, "Alice Johnson", doc.Metadata["customer_name"])
}

func TestNormalizeEmptyContentFallsBackToFields(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{
		"content":       "   ",
		"customer_name": "Alice Johnson",
	})

	assert.Equal(t, "Customer: Alice Johnson", doc.Content)
}

func TestNormalizeKnownFieldOrder(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{
		"status":        "paid",
		"customer_name": "Bob Smith",
		"invoice_id":    "101",
		"date":          "2025-05-01",
	})

	// Fixed order regardless of map iteration order.
	assert.Equal(t, "Invoice ID: 101 | Date: 2025-05-01 | Customer: Bob Smith | Status: paid", doc.Content)
}

func TestNormalizeScenarioAlice(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{
		"customer_name": "Alice Johnson",
		"total_amount":  250.00,
	})

	assert.Equal(t, "Customer: Alice Johnson | Total Amount: 250.0", doc.Content)
}

func TestNormalizeFractionalAmount(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{
		"unit_price": 19.99,
	})

	assert.Equal(t, "Unit Price: 19.99", doc.Content)
}

func TestNormalizeOmitsEmptyAndZeroValues(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{
		"customer_name":  "Alice Johnson",
		"address":        "",
		"quantity":       0.0,
		"payment_method": nil,
	})

	assert.Equal(t, "Customer: Alice Johnson", doc.Content)
}

func TestNormalizeMalformedValuesTreatedAsAbsent(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{
		"customer_name": "Alice Johnson",
		"product":       []any{"Mouse", "Keyboard"},
		"status":        map[string]any{"code": 1},
	})

	assert.Equal(t, "Customer: Alice Johnson", doc.Content)
}

func TestNormalizeUnknownFieldsOnly(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{
		"warehouse": "north",
		"sku":       "WM-100",
	})

	require.NotEmpty(t, doc.Content)
	// Deterministic key order.
	assert.Equal(t, "sku=WM-100, warehouse=north", doc.Content)
}

func TestNormalizeEmptyRecordNeverPanics(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{})
	assert.NotEmpty(t, doc.Content)

	doc = invoice.Normalize(nil)
	assert.NotEmpty(t, doc.Content)
}

func TestNormalizeIntegerQuantity(t *testing.T) {
	doc := invoice.Normalize(invoice.Record{
		"product":  "Wireless Mouse",
		"quantity": 3,
	})

	assert.Equal(t, "Product: Wireless Mouse | Quantity: 3", doc.Content)
}

func TestNormalizeMetadataIsACopy(t *testing.T) {
	rec := invoice.Record{
		"customer_name": "Alice Johnson",
		"tags":          []any{"priority"},
	}
	doc := invoice.Normalize(rec)

	rec["customer_name"] = "Mallory"
	rec["tags"].([]any)[0] = "changed"

	assert.Equal(t, "Alice Johnson", doc.Metadata["customer_name"])
	assert.Equal(t, "priority", doc.Metadata["tags"].([]any)[0])
	assert.True(t, strings.Contains(doc.Content, "Alice Johnson"))
}
