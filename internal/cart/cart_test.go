package cart

import (
	"testing"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/catalog"
	"github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*catalog.Store, model.Product, *Cart) {
	t.Helper()

	store := catalog.NewStore(nil, nil)
	p, err := store.CreateProduct(dto.CreateProductInput{Name: "Basic Tee", SKU: "TEE-001", Price: 500})
	require.NoError(t, err)
	_, err = store.AddVariant(dto.CreateVariantInput{ProductID: p.ID, Size: "M", Color: "Black", Stock: 3})
	require.NoError(t, err)
	override := 650.0
	_, err = store.AddVariant(dto.CreateVariantInput{ProductID: p.ID, Size: "L", Color: "Navy", Stock: 1, Price: &override})
	require.NoError(t, err)

	p, _ = store.Product(p.ID)
	return store, p, New(store, 13)
}

func TestAdd(t *testing.T) {
	_, p, c := setup(t)

	line, ok := c.Add(p.ID, p.Variants[1].ID)
	require.True(t, ok)
	assert.Equal(t, 1, line.Qty)
	assert.Equal(t, 650.0, line.UnitPrice)
	assert.Equal(t, p.Variants[1].ID, line.VariantID)

	line, ok = c.Add(p.ID, "")
	require.True(t, ok)
	assert.Equal(t, p.Variants[0].ID, line.VariantID)
	assert.Equal(t, 500.0, line.UnitPrice)
	assert.Equal(t, 2, c.Len())
}

func TestAdd_UnknownIsNoop(t *testing.T) {
	_, p, c := setup(t)

	_, ok := c.Add("missing", "")
	assert.False(t, ok)
	_, ok = c.Add(p.ID, "missing")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestAdd_SameVariantAppendsNewLine(t *testing.T) {
	_, p, c := setup(t)

	a, _ := c.Add(p.ID, p.Variants[0].ID)
	b, _ := c.Add(p.ID, p.Variants[0].ID)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, c.Len())
}

func TestAddBySKU(t *testing.T) {
	_, p, c := setup(t)

	line, err := c.AddBySKU("TEE-001-M-Black")
	require.NoError(t, err)
	assert.Equal(t, p.Variants[0].ID, line.VariantID)

	_, err = c.AddBySKU("UNKNOWN")
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 1, c.Len())
}

func TestCapturedPriceIsStable(t *testing.T) {
	store, p, c := setup(t)

	line, _ := c.Add(p.ID, p.Variants[0].ID)
	_, err := store.UpdateProduct(dto.UpdateProductInput{ID: p.ID, Name: p.Name, SKU: p.SKU, Price: 900})
	require.NoError(t, err)
	c.UpdateQuantity(line.ID, 2)

	assert.Equal(t, 500.0, c.Lines()[0].UnitPrice)
	assert.Equal(t, 1000.0, c.Totals().Subtotal)
}

func TestUpdateQuantity_Clamps(t *testing.T) {
	_, p, c := setup(t)
	line, _ := c.Add(p.ID, p.Variants[0].ID)

	assert.True(t, c.UpdateQuantity(line.ID, 5))
	assert.Equal(t, 5, c.Lines()[0].Qty)

	assert.True(t, c.UpdateQuantity(line.ID, 0))
	assert.Equal(t, 1, c.Lines()[0].Qty)

	assert.True(t, c.UpdateQuantity(line.ID, -3))
	assert.Equal(t, 1, c.Lines()[0].Qty)
	assert.Equal(t, 1, c.Len())

	assert.False(t, c.UpdateQuantity("missing", 2))
}

func TestRemoveAndClear(t *testing.T) {
	_, p, c := setup(t)
	a, _ := c.Add(p.ID, p.Variants[0].ID)
	b, _ := c.Add(p.ID, p.Variants[1].ID)

	c.Remove(a.ID)
	c.Remove("missing")
	require.Equal(t, 1, c.Len())
	assert.Equal(t, b.ID, c.Lines()[0].ID)

	require.NoError(t, c.SetDiscount(50))
	require.NoError(t, c.SetTaxRate(7))
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.Discount())
	assert.Equal(t, 13.0, c.TaxRate())
}

func TestSetters_RejectNegative(t *testing.T) {
	_, _, c := setup(t)

	assert.True(t, apperror.IsValidation(c.SetDiscount(-1)))
	assert.True(t, apperror.IsValidation(c.SetTaxRate(-0.5)))
}

func TestTotals(t *testing.T) {
	_, p, c := setup(t)
	line, _ := c.Add(p.ID, p.Variants[0].ID)
	c.UpdateQuantity(line.ID, 2)
	require.NoError(t, c.SetDiscount(100))

	got := c.Totals()
	assert.Equal(t, 1000.0, got.Subtotal)
	assert.Equal(t, 900.0, got.Discounted)
	assert.InDelta(t, 1017.0, got.Total, 1e-9)
}

func TestLinesIsCopy(t *testing.T) {
	_, p, c := setup(t)
	c.Add(p.ID, p.Variants[0].ID)

	lines := c.Lines()
	lines[0].Qty = 40
	assert.Equal(t, 1, c.Lines()[0].Qty)
}
