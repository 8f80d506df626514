package cart

import (
	"testing"

	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAddMergesSameProduct(t *testing.T) {
	c := &Cart{}
	c.Add(models.CategoryPhone, 1, 2)
	c.Add(models.CategoryPhone, 1, 3)

	assert.Len(t, c.Lines, 1)
	line, ok := c.Get("celular:1")
	assert.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
}

func TestAddClampsQuantityToOne(t *testing.T) {
	c := &Cart{}
	c.Add(models.CategoryLaptop, 7, 0)
	c.Add(models.CategoryTablet, 8, -3)

	for _, l := range c.Lines {
		assert.Equal(t, 1, l.Quantity)
	}
}

func TestKeyFormat(t *testing.T) {
	l := Line{Category: models.CategoryAccessory, ProductID: 42}
	assert.Equal(t, "accesorio:42", l.Key())
}

func TestItemCountSumsQuantities(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, 0, c.ItemCount())

	c.Add(models.CategoryPhone, 1, 2)
	c.Add(models.CategoryAccessory, 3, 1)
	assert.Equal(t, 3, c.ItemCount())
}

func TestInsertionOrderIsPreserved(t *testing.T) {
	c := &Cart{}
	c.Add(models.CategoryTablet, 5, 1)
	c.Add(models.CategoryPhone, 1, 1)
	c.Add(models.CategoryLaptop, 2, 1)
	c.Add(models.CategoryTablet, 5, 1) // merge, must not reorder

	keys := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		keys = append(keys, l.Key())
	}
	assert.Equal(t, []string{"tablet:5", "celular:1", "laptop:2"}, keys)
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := &Cart{}
	c.Add(models.CategoryPhone, 1, 2)

	c.Remove("celular:1")
	assert.True(t, c.Empty())

	c.Remove("celular:1") // second removal is a no-op
	assert.True(t, c.Empty())
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	c := &Cart{}
	c.Add(models.CategoryPhone, 1, 2)

	c.SetQuantity("celular:1", 0)
	_, ok := c.Get("celular:1")
	assert.False(t, ok)
}

func TestSetQuantityOverwrites(t *testing.T) {
	c := &Cart{}
	c.Add(models.CategoryPhone, 1, 2)

	c.SetQuantity("celular:1", 9)
	line, _ := c.Get("celular:1")
	assert.Equal(t, 9, line.Quantity)
}

func TestSetQuantityAbsentKeyIsNoOp(t *testing.T) {
	c := &Cart{}
	c.Add(models.CategoryPhone, 1, 2)

	c.SetQuantity("laptop:99", 4)
	assert.Len(t, c.Lines, 1)
	line, _ := c.Get("celular:1")
	assert.Equal(t, 2, line.Quantity)
}

func TestClear(t *testing.T) {
	c := &Cart{}
	c.Add(models.CategoryPhone, 1, 2)
	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.ItemCount())
}
