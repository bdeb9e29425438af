package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/checkout"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperror.Required("product", "name"), 2},
		{apperror.NotFound("product", "x"), 2},
		{&apperror.StockError{SKU: "TEE"}, 2},
		{fmt.Errorf("checkout: %w", apperror.ErrEmptyCart), 2},
		{checkout.ErrLockBusy, 2},
		{&apperror.SyncError{Table: "products", Op: "upsert", Err: errors.New("boom")}, 3},
		{apperror.ErrNotConfigured, 3},
		{&apperror.ParseError{Format: "json", Err: errors.New("eof")}, 4},
		{errors.New("disk full"), 1},
	}
	for _, tc := range cases {
		var ee *exitErr
		require.ErrorAs(t, classify(tc.err), &ee, tc.err.Error())
		assert.Equal(t, tc.code, ee.code, tc.err.Error())
		assert.ErrorIs(t, ee, tc.err)
	}
	assert.NoError(t, classify(nil))
}

func TestParseItem(t *testing.T) {
	code, qty, err := parseItem("TEE-001-M-Black:3")
	require.NoError(t, err)
	assert.Equal(t, "TEE-001-M-Black", code)
	assert.Equal(t, 3, qty)

	code, qty, err = parseItem("CAP")
	require.NoError(t, err)
	assert.Equal(t, "CAP", code)
	assert.Equal(t, 1, qty)

	_, _, err = parseItem("CAP:0")
	assert.True(t, apperror.IsValidation(err))
}

func TestFormatFor(t *testing.T) {
	f, err := formatFor("", "backup.yml")
	require.NoError(t, err)
	assert.Equal(t, snapshot.FormatYAML, f)

	f, err = formatFor("", "backup.json")
	require.NoError(t, err)
	assert.Equal(t, snapshot.FormatJSON, f)

	f, err = formatFor("json", "backup.yaml")
	require.NoError(t, err)
	assert.Equal(t, snapshot.FormatJSON, f)
}

func TestPrintReceipt(t *testing.T) {
	s := &model.Sale{
		ID:            "INV-2506-0004",
		CreatedAt:     time.Date(2025, time.June, 15, 9, 30, 0, 0, time.UTC),
		Items:         []model.SaleItem{{SKU: "TEE-001-M-Black", Qty: 2, Price: 500}},
		Subtotal:      1000,
		Discount:      100,
		TaxRate:       13,
		TaxAmount:     117,
		Total:         1017,
		PaymentMethod: model.PaymentCard,
	}
	var buf bytes.Buffer
	require.NoError(t, printReceipt(&buf, s, model.DefaultSettings()))

	out := buf.String()
	assert.Contains(t, out, "INV-2506-0004")
	assert.Contains(t, out, "TEE-001-M-Black x2")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "-100.00")
	assert.Contains(t, out, "Tax 13%")
	assert.Contains(t, out, "1017.00")
}
