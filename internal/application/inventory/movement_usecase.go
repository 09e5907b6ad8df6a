package inventory

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

// MovementUseCase consultas sobre el ledger de movimientos. Solo lectura:
// las inserciones son exclusivas del Stock Ledger.
type MovementUseCase struct {
	movements repository.MovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(movements repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{movements: movements}
}

// List consulta con filtros (parte, tipo, documento de origen, rango de
// fechas), paginada. Por defecto más reciente primero; Ascending invierte el
// orden para el job de sincronización a hoja de cálculo.
func (uc *MovementUseCase) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.PartMovement, int, error) {
	return uc.movements.List(filter)
}

// ListByReference devuelve los movimientos generados por un documento.
func (uc *MovementUseCase) ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.PartMovement, error) {
	return uc.movements.ListByReference(referenceType, referenceID)
}

// ExportXLSX vuelca los movimientos filtrados a un workbook Excel (una fila
// por movimiento, más antiguos primero), listo para descargar.
func (uc *MovementUseCase) ExportXLSX(ctx context.Context, filter repository.MovementFilter) (*bytes.Buffer, error) {
	filter.Ascending = true
	movements, _, err := uc.movements.List(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Movements"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Fecha", "Parte", "Tipo", "Cantidad", "Stock antes", "Stock después", "Documento", "Referencia"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, m := range movements {
		values := []any{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.PartID,
			m.Type,
			m.Qty,
			m.StockBefore,
			m.StockAfter,
			m.ReferenceType,
			m.ReferenceID,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("exportar movimientos: %w", err)
	}
	return buf, nil
}
