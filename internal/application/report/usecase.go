// Package report genera el reporte PDF de productos con stock por debajo del mínimo.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
)

// LowStockItem fila del reporte: producto y cuánto falta para llegar al mínimo.
type LowStockItem struct {
	Product  *entity.Product
	Shortage int
}

// LowStockReport datos completos que recibe el generador.
type LowStockReport struct {
	GeneratedAt   time.Time
	Items         []LowStockItem
	TotalShortage int
}

// LowStockPDFGenerator puerto para renderizar el reporte (implementación: Maroto).
type LowStockPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, report LowStockReport) ([]byte, error)
}

// ProductLister fuente de los productos abajo del mínimo ya ordenados por nombre.
type ProductLister interface {
	ListBelowMinimum(ctx context.Context) ([]*entity.Product, error)
}

// ReportUseCase arma el reporte y delega el render al generador.
type ReportUseCase struct {
	products  ProductLister
	generator LowStockPDFGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(products ProductLister, generator LowStockPDFGenerator) *ReportUseCase {
	return &ReportUseCase{products: products, generator: generator, now: time.Now}
}

// Build devuelve los datos del reporte sin renderizar.
func (uc *ReportUseCase) Build(ctx context.Context) (LowStockReport, error) {
	list, err := uc.products.ListBelowMinimum(ctx)
	if err != nil {
		return LowStockReport{}, err
	}
	out := LowStockReport{GeneratedAt: uc.now(), Items: make([]LowStockItem, 0, len(list))}
	for _, p := range list {
		shortage := p.MinQuantity - p.Quantity
		out.Items = append(out.Items, LowStockItem{Product: p, Shortage: shortage})
		out.TotalShortage += shortage
	}
	return out, nil
}

// DownloadLowStockPDF genera el PDF y el nombre de archivo sugerido.
func (uc *ReportUseCase) DownloadLowStockPDF(ctx context.Context) (pdfBytes []byte, filename string, err error) {
	data, err := uc.Build(ctx)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateLowStockPDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("estoque-baixo_%s.pdf", data.GeneratedAt.Format("20060102-1504"))
	return pdfBytes, filename, nil
}
