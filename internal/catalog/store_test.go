package catalog

import (
	"errors"
	"testing"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func newTeeStore(t *testing.T) (*Store, model.Product) {
	t.Helper()

	s := NewStore(nil, nil)
	p, err := s.CreateProduct(dto.CreateProductInput{Name: "Basic Tee", SKU: "TEE-001", Cost: 4, Price: 12})
	require.NoError(t, err)
	_, err = s.AddVariant(dto.CreateVariantInput{ProductID: p.ID, Size: "M", Color: "Black", Stock: 3})
	require.NoError(t, err)
	_, err = s.AddVariant(dto.CreateVariantInput{ProductID: p.ID, Size: "L", Color: "White", Stock: 10, Price: ptr(15)})
	require.NoError(t, err)

	p, ok := s.Product(p.ID)
	require.True(t, ok)
	return s, p
}

func TestCreateProduct_RequiresNameAndSKU(t *testing.T) {
	s := NewStore(nil, nil)

	_, err := s.CreateProduct(dto.CreateProductInput{SKU: "X-1"})
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	_, err = s.CreateProduct(dto.CreateProductInput{Name: "Mug", SKU: "  "})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sku", ve.Field)

	assert.Empty(t, s.Products())
}

func TestCreateProduct_SKUUnique(t *testing.T) {
	s, _ := newTeeStore(t)

	_, err := s.CreateProduct(dto.CreateProductInput{Name: "Other", SKU: "tee-001"})
	assert.True(t, apperror.IsValidation(err))
	assert.Len(t, s.Products(), 1)
}

func TestUpdateProduct(t *testing.T) {
	s, p := newTeeStore(t)
	_, err := s.CreateProduct(dto.CreateProductInput{Name: "Cap", SKU: "CAP-1", Price: 8})
	require.NoError(t, err)

	_, err = s.UpdateProduct(dto.UpdateProductInput{ID: p.ID, Name: "Tee", SKU: "CAP-1", Price: 12})
	assert.True(t, apperror.IsValidation(err))

	updated, err := s.UpdateProduct(dto.UpdateProductInput{ID: p.ID, Name: "Heavy Tee", SKU: "TEE-001", Price: 14, Cost: 5})
	require.NoError(t, err)
	assert.Equal(t, "Heavy Tee", updated.Name)
	assert.Len(t, updated.Variants, 2)

	_, err = s.UpdateProduct(dto.UpdateProductInput{ID: "missing", Name: "x", SKU: "y"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestAddVariant_Validation(t *testing.T) {
	s, p := newTeeStore(t)

	_, err := s.AddVariant(dto.CreateVariantInput{ProductID: p.ID, Size: "S", Color: "Red", Stock: -1})
	assert.True(t, apperror.IsValidation(err))

	_, err = s.AddVariant(dto.CreateVariantInput{ProductID: p.ID, Size: "m", Color: "black"})
	assert.True(t, apperror.IsValidation(err))

	_, err = s.AddVariant(dto.CreateVariantInput{ProductID: "nope", Size: "S"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestEffectivePriceAndDisplaySKU(t *testing.T) {
	_, p := newTeeStore(t)

	assert.Equal(t, 12.0, p.EffectivePrice(&p.Variants[0]))
	assert.Equal(t, 15.0, p.EffectivePrice(&p.Variants[1]))
	assert.Equal(t, "TEE-001-M-Black", p.DisplaySKU(&p.Variants[0]))
}

func TestReadsAreCopies(t *testing.T) {
	s, p := newTeeStore(t)

	p.Variants[0].Stock = 999
	*p.Variants[1].Price = 1

	fresh, _ := s.Product(p.ID)
	assert.Equal(t, 3, fresh.Variants[0].Stock)
	assert.Equal(t, 15.0, *fresh.Variants[1].Price)
}

func TestAdjustStock(t *testing.T) {
	s, p := newTeeStore(t)
	vid := p.Variants[0].ID

	v, err := s.AdjustStock(p.ID, vid, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Stock)

	_, err = s.AdjustStock(p.ID, vid, -8)
	var se *apperror.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 7, se.Available)

	_, v2, _ := s.Resolve(p.ID, vid)
	assert.Equal(t, 7, v2.Stock)
}

func TestApplyDecrements_AllOrNothing(t *testing.T) {
	s, p := newTeeStore(t)
	m, l := p.Variants[0].ID, p.Variants[1].ID

	err := s.ApplyDecrements([]dto.Decrement{
		{ProductID: p.ID, VariantID: l, Qty: 2},
		{ProductID: p.ID, VariantID: m, Qty: 2},
		{ProductID: p.ID, VariantID: m, Qty: 2},
	})
	var se *apperror.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 4, se.Requested)
	assert.Equal(t, 3, se.Available)

	after, _ := s.Product(p.ID)
	assert.Equal(t, 3, after.Variants[0].Stock)
	assert.Equal(t, 10, after.Variants[1].Stock)

	require.NoError(t, s.ApplyDecrements([]dto.Decrement{{ProductID: p.ID, VariantID: m, Qty: 3}}))
	after, _ = s.Product(p.ID)
	assert.Equal(t, 0, after.Variants[0].Stock)
}

func TestInventoryValue(t *testing.T) {
	s, _ := newTeeStore(t)
	_, err := s.CreateProduct(dto.CreateProductInput{Name: "Gift Card", SKU: "GIFT", Price: 50})
	require.NoError(t, err)

	atCost, atRetail := s.InventoryValue()
	assert.Equal(t, 13*4.0, atCost)
	assert.Equal(t, 3*12.0+10*15.0, atRetail)
}

func TestLowStock(t *testing.T) {
	s, p := newTeeStore(t)

	low := s.LowStock(5)
	require.Len(t, low, 1)
	assert.Equal(t, "TEE-001-M-Black", low[0].SKU)
	assert.Equal(t, p.Variants[0].ID, low[0].VariantID)

	assert.Len(t, s.LowStock(10), 2)
	assert.Empty(t, s.LowStock(2))
}

func TestResolveSKU(t *testing.T) {
	s, p := newTeeStore(t)
	plain, err := s.CreateProduct(dto.CreateProductInput{Name: "Sticker", SKU: "STK", Price: 1})
	require.NoError(t, err)

	_, v, err := s.ResolveSKU("TEE-001-M-Black")
	require.NoError(t, err)
	assert.Equal(t, p.Variants[0].ID, v.ID)

	_, v, err = s.ResolveSKU(" tee-001-l-white ")
	require.NoError(t, err)
	assert.Equal(t, p.Variants[1].ID, v.ID)

	_, v, err = s.ResolveSKU("TEE-001")
	require.NoError(t, err)
	assert.Equal(t, p.Variants[0].ID, v.ID)

	_, v, err = s.ResolveSKU("TEE-001-XL-Green")
	require.NoError(t, err)
	assert.Equal(t, p.Variants[0].ID, v.ID)

	got, v, err := s.ResolveSKU("STK")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, plain.ID, got.ID)

	_, _, err = s.ResolveSKU("UNKNOWN")
	var nf *apperror.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestResolve(t *testing.T) {
	s, p := newTeeStore(t)
	plain, err := s.CreateProduct(dto.CreateProductInput{Name: "Sticker", SKU: "STK", Price: 1})
	require.NoError(t, err)

	_, v, ok := s.Resolve(p.ID, p.Variants[1].ID)
	require.True(t, ok)
	assert.Equal(t, p.Variants[1].ID, v.ID)

	_, v, ok = s.Resolve(p.ID, "")
	require.True(t, ok)
	require.NotNil(t, v)
	assert.Equal(t, p.Variants[0].ID, v.ID)

	got, v, ok := s.Resolve(plain.ID, "")
	require.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, plain.ID, got.ID)

	_, _, ok = s.Resolve(p.ID, "missing")
	assert.False(t, ok)
	_, _, ok = s.Resolve("missing", "")
	assert.False(t, ok)
}

func TestCustomers(t *testing.T) {
	s := NewStore(nil, nil)

	_, err := s.CreateCustomer(dto.CreateCustomerInput{Phone: "555"})
	assert.True(t, apperror.IsValidation(err))

	c, err := s.CreateCustomer(dto.CreateCustomerInput{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	updated, err := s.UpdateCustomer(dto.UpdateCustomerInput{ID: c.ID, Name: "Ana Lopez"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", updated.Name)
	assert.Empty(t, updated.Email)

	_, err = s.UpdateCustomer(dto.UpdateCustomerInput{ID: "x", Name: "y"})
	assert.True(t, apperror.IsNotFound(err))
	assert.Len(t, s.Customers(), 1)
}
