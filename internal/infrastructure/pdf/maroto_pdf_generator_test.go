package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ferramentas-api/internal/application/report"
	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
)

func TestGenerateLowStockPDF_GeneraPDF(t *testing.T) {
	r := report.LowStockReport{
		GeneratedAt: time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		Items: []report.LowStockItem{
			{Product: &entity.Product{ID: 1, Name: "Alicate", Brand: "Gedore", Model: "A1", Quantity: 2, MinQuantity: 5}, Shortage: 3},
			{Product: &entity.Product{ID: 2, Name: "Serrote", Brand: "Stanley", Model: "S", Quantity: -1, MinQuantity: 1}, Shortage: 2},
		},
		TotalShortage: 5,
	}

	doc, err := NewMarotoPDFGenerator().GenerateLowStockPDF(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerateLowStockPDF_SinItems(t *testing.T) {
	doc, err := NewMarotoPDFGenerator().GenerateLowStockPDF(context.Background(), report.LowStockReport{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestFormatInt_SeparadorDeMiles(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1.000",
		25000:   "25.000",
		1000000: "1.000.000",
		-1200:   "-1.200",
		-5:      "-5",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatInt(in))
	}
}
