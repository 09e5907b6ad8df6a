package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/partes-api/internal/domain"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

// StockLedger es el único punto que muta Part.Stock, y siempre deja una fila
// inmutable en part_movements con el stock capturado antes de la mutación.
//
// Precondición: el llamador sostiene el candado de fila de la parte
// (GetForUpdate / ListForUpdate) durante toda la transacción; Apply nunca se
// reintenta solo, un fallo aborta la transacción del llamador.
type StockLedger struct{}

// NewStockLedger construye el ledger.
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// Apply debita o acredita el stock de la parte y registra el movimiento.
// direction=in siempre procede; direction=out falla con ErrInsufficientStock
// si el stock bloqueado no alcanza. Muta part.Stock en memoria para que el
// llamador pueda encadenar varias líneas sobre la misma parte.
func (l *StockLedger) Apply(r TxRepos, part *entity.Part, direction string, qty int, referenceType, referenceID string) (*entity.PartMovement, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva (qty=%d)", domain.ErrValidation, qty)
	}

	stockBefore := part.Stock
	var stockAfter int
	switch direction {
	case entity.MovementTypeIn:
		stockAfter = stockBefore + qty
	case entity.MovementTypeOut:
		if stockBefore < qty {
			return nil, fmt.Errorf("%w: parte %s disponible=%d solicitado=%d",
				domain.ErrInsufficientStock, part.PartNumber, stockBefore, qty)
		}
		stockAfter = stockBefore - qty
	default:
		return nil, fmt.Errorf("%w: dirección de movimiento desconocida %q", domain.ErrValidation, direction)
	}

	movement := &entity.PartMovement{
		ID:            uuid.New().String(),
		PartID:        part.ID,
		StockBefore:   stockBefore,
		Type:          direction,
		Qty:           qty,
		StockAfter:    stockAfter,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		CreatedAt:     time.Now(),
	}
	if err := movement.Validate(); err != nil {
		return nil, err
	}

	if err := r.Parts.UpdateStock(part.ID, stockAfter); err != nil {
		return nil, err
	}
	if err := r.Movements.Create(movement); err != nil {
		return nil, err
	}

	part.Stock = stockAfter
	return movement, nil
}
