package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/partes-api/internal/application/dto"
	"github.com/tu-usuario/partes-api/internal/application/inventory"
	"github.com/tu-usuario/partes-api/internal/domain"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
)

func newOutgoingUC(s *store) *inventory.OutgoingUseCase {
	return inventory.NewOutgoingUseCase(&fakeTxRunner{s: s}, &fakeOutgoings{s: s})
}

func TestOutgoingCreate_BorradorConNumeroAutomatico(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 10)
	uc := newOutgoingUC(s)

	out, err := uc.Create(context.Background(), "user-1", dto.CreateDocumentRequest{
		Items: []dto.ItemInput{{PartID: "a", Qty: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDraft, out.Status)
	assert.Regexp(t, `^OUT-\d{6}-0001$`, out.DocNumber)
	// crear en borrador no toca el stock aunque supere lo disponible
	assert.Equal(t, 10, s.partStock("a"))
	assert.Equal(t, 0, s.movementCount())
}

func TestOutgoingComplete_DebitaStockYRegistraMovimientos(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 10)
	s.seedPart("b", "PN-B", 8)
	uc := newOutgoingUC(s)

	out, err := uc.Create(context.Background(), "u", dto.CreateDocumentRequest{
		Items: []dto.ItemInput{{PartID: "a", Qty: 3}, {PartID: "b", Qty: 5}},
	})
	require.NoError(t, err)

	completed, err := uc.Complete(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, completed.Status)

	assert.Equal(t, 7, s.partStock("a"))
	assert.Equal(t, 3, s.partStock("b"))

	movements, err := (&fakeMovements{s: s}).ListByReference(entity.ReferenceTypeOutgoings, out.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, entity.MovementTypeOut, m.Type)
		assert.NoError(t, m.Validate())
	}
}

// La suficiencia se valida sobre la demanda ACUMULADA del lote: dos líneas
// de 3 y 4 sobre una parte con stock 5 fallan aunque cada una quepa sola, y
// el fallo no deja efecto parcial.
func TestOutgoingComplete_InsuficienciaAcumuladaSinEfectoParcial(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 5)
	uc := newOutgoingUC(s)

	out, err := uc.Create(context.Background(), "u", dto.CreateDocumentRequest{
		Items: []dto.ItemInput{{PartID: "a", Qty: 3}, {PartID: "a", Qty: 4}},
	})
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 5, s.partStock("a"))
	assert.Equal(t, 0, s.movementCount())
	// el documento sigue en borrador y puede corregirse
	reloaded, _ := uc.GetByID(context.Background(), out.ID)
	assert.Equal(t, entity.StatusDraft, reloaded.Status)
}

// Con stock justo, la demanda acumulada cabe y las líneas se encadenan.
func TestOutgoingComplete_DemandaAcumuladaExacta(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 7)
	uc := newOutgoingUC(s)

	out, _ := uc.Create(context.Background(), "u", dto.CreateDocumentRequest{
		Items: []dto.ItemInput{{PartID: "a", Qty: 3}, {PartID: "a", Qty: 4}},
	})
	_, err := uc.Complete(context.Background(), out.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, s.partStock("a"))
	movements, _ := (&fakeMovements{s: s}).ListByReference(entity.ReferenceTypeOutgoings, out.ID)
	require.Len(t, movements, 2)
	assert.Equal(t, 7, movements[0].StockBefore)
	assert.Equal(t, 4, movements[0].StockAfter)
	assert.Equal(t, 4, movements[1].StockBefore)
	assert.Equal(t, 0, movements[1].StockAfter)
}

func TestOutgoingComplete_DobleCompletadoFalla(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 10)
	uc := newOutgoingUC(s)

	out, _ := uc.Create(context.Background(), "u", dto.CreateDocumentRequest{Items: []dto.ItemInput{{PartID: "a", Qty: 2}}})
	_, err := uc.Complete(context.Background(), out.ID)
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 8, s.partStock("a"))
	assert.Equal(t, 1, s.movementCount())
}

func TestOutgoingConfirmGI_Monotono(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 10)
	uc := newOutgoingUC(s)

	out, _ := uc.Create(context.Background(), "u", dto.CreateDocumentRequest{Items: []dto.ItemInput{{PartID: "a", Qty: 2}}})

	_, err := uc.ConfirmGI(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = uc.Complete(context.Background(), out.ID)
	require.NoError(t, err)

	confirmed, err := uc.ConfirmGI(context.Background(), out.ID)
	require.NoError(t, err)
	assert.True(t, confirmed.IsGI)

	_, err = uc.ConfirmGI(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Cancelar un completado no devuelve el stock debitado.
func TestOutgoingCancel_CompletadoNoRevierteStock(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 10)
	uc := newOutgoingUC(s)

	out, _ := uc.Create(context.Background(), "u", dto.CreateDocumentRequest{Items: []dto.ItemInput{{PartID: "a", Qty: 4}}})
	_, err := uc.Complete(context.Background(), out.ID)
	require.NoError(t, err)

	cancelled, err := uc.Cancel(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	assert.Equal(t, 6, s.partStock("a"))
}

func TestOutgoingUpdate_ConfirmadoNoEditable(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 10)
	uc := newOutgoingUC(s)

	out, _ := uc.Create(context.Background(), "u", dto.CreateDocumentRequest{Items: []dto.ItemInput{{PartID: "a", Qty: 2}}})
	_, err := uc.Complete(context.Background(), out.ID)
	require.NoError(t, err)
	_, err = uc.ConfirmGI(context.Background(), out.ID)
	require.NoError(t, err)

	notes := "tarde"
	_, err = uc.Update(context.Background(), out.ID, dto.UpdateDocumentRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrNotEditable)
}

func TestOutgoingUpdate_RenombraDocNumberYPersiste(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 10)
	uc := newOutgoingUC(s)

	out, err := uc.Create(context.Background(), "u", dto.CreateDocumentRequest{Items: []dto.ItemInput{{PartID: "a", Qty: 1}}})
	require.NoError(t, err)

	renamed := "OUT-MANUAL-0042"
	updated, err := uc.Update(context.Background(), out.ID, dto.UpdateDocumentRequest{DocNumber: &renamed})
	require.NoError(t, err)
	assert.Equal(t, renamed, updated.DocNumber)

	fetched, err := uc.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed, fetched.DocNumber)
}
