package snapshot

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *model.Snapshot {
	snap := model.DefaultSnapshot()
	snap.Settings.StoreName = "Corner Shop"
	snap.Products = []model.Product{{
		ID: "p1", Name: "Tee", SKU: "TEE", Price: 12,
		Variants: []model.Variant{{ID: "v1", Size: "M", Color: "Black", Stock: 2}},
	}}
	snap.Customers = []model.Customer{{ID: "c1", Name: "Ana"}}
	snap.Sales = []model.Sale{{
		ID: "INV-2506-0001", CreatedAt: time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC),
		Subtotal: 12, Total: 12, PaymentMethod: "upi",
		Customer: &model.CustomerSnapshot{ID: "c1", Name: "Ana"}, CustomerID: "c1",
		Items: []model.SaleItem{{ID: "i1", ProductID: "p1", VariantID: "v1", Qty: 1, Price: 12}},
	}}
	return snap
}

func TestExportImport_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			want := sample()
			var buf bytes.Buffer
			require.NoError(t, Export(&buf, want, format))

			doc, err := Import(&buf, format)
			require.NoError(t, err)

			got := model.DefaultSnapshot()
			doc.ApplyTo(got)
			assert.Equal(t, want, got)
		})
	}
}

func TestImport_OnlyPresentSectionsReplace(t *testing.T) {
	snap := sample()
	doc, err := Import(strings.NewReader(`{"customers": []}`), FormatJSON)
	require.NoError(t, err)

	assert.Nil(t, doc.Settings)
	assert.Nil(t, doc.Products)
	require.NotNil(t, doc.Customers)

	doc.ApplyTo(snap)
	assert.Empty(t, snap.Customers)
	assert.Len(t, snap.Products, 1)
	assert.Len(t, snap.Sales, 1)
	assert.Equal(t, "Corner Shop", snap.Settings.StoreName)
}

func TestImport_YAMLSettingsOnly(t *testing.T) {
	snap := sample()
	doc, err := Import(strings.NewReader("settings:\n  store_name: Kiosk\n  tax_rate: 8.5\n"), FormatYAML)
	require.NoError(t, err)

	doc.ApplyTo(snap)
	assert.Equal(t, "Kiosk", snap.Settings.StoreName)
	assert.Equal(t, 8.5, snap.Settings.TaxRate)
	assert.Len(t, snap.Products, 1)
}

func TestImport_Malformed(t *testing.T) {
	_, err := Import(strings.NewReader("{not json"), FormatJSON)
	var pe *apperror.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "json", pe.Format)

	_, err = Import(strings.NewReader("settings: [unclosed"), FormatYAML)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "yaml", pe.Format)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("csv")
	assert.True(t, apperror.IsValidation(err))
}

func TestDecode_NullCollections(t *testing.T) {
	snap, err := Decode([]byte(`{"products": null}`))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSnapshot(), snap)
}
