package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

func TestStockStatus_Clasificacion(t *testing.T) {
	cases := []struct {
		stock    int
		expected string
	}{
		{-5, entity.StockStatusOut},
		{0, entity.StockStatusOut},
		{1, entity.StockStatusLow},
		{entity.LowStockThreshold, entity.StockStatusLow},
		{entity.LowStockThreshold + 1, entity.StockStatusIn},
		{500, entity.StockStatusIn},
	}
	for _, c := range cases {
		p := entity.Part{Stock: c.stock}
		assert.Equal(t, c.expected, p.StockStatus(), "stock=%d", c.stock)
	}
}

func TestIsDeleted(t *testing.T) {
	now := time.Now()
	assert.False(t, (&entity.Part{}).IsDeleted())
	assert.True(t, (&entity.Part{DeletedAt: &now}).IsDeleted())
}
