package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/domain"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

// PartUseCase CRUD de partes. El stock inicial se fija en el alta; después
// solo lo muta el Stock Ledger.
type PartUseCase struct {
	parts repository.PartRepository
}

// NewPartUseCase construye el caso de uso.
func NewPartUseCase(parts repository.PartRepository) *PartUseCase {
	return &PartUseCase{parts: parts}
}

// Create da de alta una parte.
func (uc *PartUseCase) Create(ctx context.Context, in dto.CreatePartRequest) (*entity.Part, error) {
	if in.PartNumber == "" || in.PartName == "" {
		return nil, fmt.Errorf("%w: part_number y part_name son obligatorios", domain.ErrValidation)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: el stock inicial no puede ser negativo", domain.ErrValidation)
	}
	packing := in.StandardPacking
	if packing <= 0 {
		packing = 1
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	part := &entity.Part{
		ID:              uuid.New().String(),
		PartNumber:      in.PartNumber,
		PartName:        in.PartName,
		CustomerCode:    in.CustomerCode,
		SupplierCode:    in.SupplierCode,
		Model:           in.Model,
		Variant:         in.Variant,
		StandardPacking: packing,
		Stock:           in.Stock,
		Address:         in.Address,
		IsActive:        active,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := uc.parts.Create(part); err != nil {
		return nil, err
	}
	return part, nil
}

// GetByID devuelve una parte viva (no soft-deleted).
func (uc *PartUseCase) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	part, err := uc.parts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	return part, nil
}

// List lista partes con búsqueda y filtro de estado de stock.
func (uc *PartUseCase) List(ctx context.Context, filter repository.PartFilter) ([]*entity.Part, int, error) {
	return uc.parts.List(filter)
}

// Update modifica los campos maestros de la parte. El stock no se toca aquí.
func (uc *PartUseCase) Update(ctx context.Context, id string, in dto.UpdatePartRequest) (*entity.Part, error) {
	part, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.PartNumber != nil {
		part.PartNumber = *in.PartNumber
	}
	if in.PartName != nil {
		part.PartName = *in.PartName
	}
	if in.CustomerCode != nil {
		part.CustomerCode = *in.CustomerCode
	}
	if in.SupplierCode != nil {
		part.SupplierCode = *in.SupplierCode
	}
	if in.Model != nil {
		part.Model = *in.Model
	}
	if in.Variant != nil {
		part.Variant = *in.Variant
	}
	if in.StandardPacking != nil {
		if *in.StandardPacking <= 0 {
			return nil, fmt.Errorf("%w: standard_packing debe ser positivo", domain.ErrValidation)
		}
		part.StandardPacking = *in.StandardPacking
	}
	if in.Address != nil {
		part.Address = *in.Address
	}
	if in.IsActive != nil {
		part.IsActive = *in.IsActive
	}
	part.UpdatedAt = time.Now()
	if err := uc.parts.Update(part); err != nil {
		return nil, err
	}
	return part, nil
}

// Delete soft-delete: la parte desaparece de los listados pero sigue siendo
// referenciable desde los movimientos históricos del ledger.
func (uc *PartUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.parts.SoftDelete(id)
}
