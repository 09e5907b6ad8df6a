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

func newRequestUC(s *store, notifier *fakeNotifier) *inventory.RequestUseCase {
	return inventory.NewRequestUseCase(&fakeTxRunner{s: s}, &fakeRequests{s: s}, &fakeParts{s: s}, notifier)
}

func TestRequestCreate_BorradorConNumeroAutomatico(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 5)
	uc := newRequestUC(s, &fakeNotifier{})

	req, err := uc.Create(context.Background(), "user-1", dto.CreateRequestRequest{
		Destination: "línea 3",
		Items:       []dto.RequestItemInput{{PartID: "a", Qty: 2, IsUrgent: true}},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^REQ-\d{6}-0001$`, req.RequestNumber)
	assert.Equal(t, entity.StatusDraft, req.Status)
	assert.Equal(t, "user-1", req.RequestedBy)
	require.Len(t, req.Items, 1)
	assert.True(t, req.Items[0].IsUrgent)
	assert.False(t, req.Items[0].IsSupplied)

	// una solicitud no toca stock ni ledger
	assert.Equal(t, 5, s.partStock("a"))
	assert.Equal(t, 0, s.movementCount())
}

func TestRequestCreate_NumeracionConsecutiva(t *testing.T) {
	s := newStore()
	uc := newRequestUC(s, &fakeNotifier{})

	first, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 1}},
	})
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, docSeq(first.RequestNumber)+1, docSeq(second.RequestNumber))
}

func TestRequestCreate_SinLineasFalla(t *testing.T) {
	s := newStore()
	uc := newRequestUC(s, &fakeNotifier{})

	_, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Completar publica un evento por cada línea pendiente, enriquecido con los
// datos de la parte para la cola de suministro.
func TestRequestComplete_PublicaLineasPendientes(t *testing.T) {
	s := newStore()
	part := s.seedPart("a", "PN-A", 9)
	part.Address = "A-01-03"
	s.seedPart("b", "PN-B", 2)
	notifier := &fakeNotifier{}
	uc := newRequestUC(s, notifier)

	req, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		RequestNumber: "REQ-010124-0001",
		Destination:   "mantenimiento",
		Items: []dto.RequestItemInput{
			{PartID: "a", Qty: 2, IsUrgent: true},
			{PartID: "b", Qty: 1},
		},
	})
	require.NoError(t, err)

	completed, err := uc.Complete(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, completed.Status)

	events := notifier.byName("request_item_created")
	require.Len(t, events, 2)
	payload := events[0].payload.(map[string]any)
	assert.Equal(t, req.Items[0].ID, payload["id"])
	assert.Equal(t, "PN-A", payload["part_number"])
	assert.Equal(t, 9, payload["stock"])
	assert.Equal(t, "A-01-03", payload["address"])
	assert.Equal(t, true, payload["is_urgent"])
	assert.Equal(t, "REQ-010124-0001", payload["request_number"])
	assert.Equal(t, "mantenimiento", payload["destination"])
}

func TestRequestComplete_OmiteLineasYaSuministradas(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 9)
	s.seedPart("b", "PN-B", 9)
	notifier := &fakeNotifier{}
	uc := newRequestUC(s, notifier)

	req, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{
			{PartID: "a", Qty: 1},
			{PartID: "b", Qty: 1},
		},
	})
	require.NoError(t, err)

	// simula una línea ya satisfecha antes de completar
	s.mu.Lock()
	s.requests[req.ID].Items[0].IsSupplied = true
	s.mu.Unlock()

	_, err = uc.Complete(context.Background(), req.ID)
	require.NoError(t, err)

	events := notifier.byName("request_item_created")
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].payload.(map[string]any)["part_id"])
}

func TestRequestComplete_DobleFalla(t *testing.T) {
	s := newStore()
	uc := newRequestUC(s, &fakeNotifier{})

	req, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 1}},
	})
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), req.ID)
	require.NoError(t, err)
	_, err = uc.Complete(context.Background(), req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRequestUpdate_SoloEnBorrador(t *testing.T) {
	s := newStore()
	uc := newRequestUC(s, &fakeNotifier{})

	req, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 1}},
	})
	require.NoError(t, err)

	dest := "almacén central"
	updated, err := uc.Update(context.Background(), req.ID, dto.UpdateRequestRequest{
		Destination: &dest,
		Items: []dto.RequestItemInput{
			{PartID: "a", Qty: 3},
			{PartID: "b", Qty: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "almacén central", updated.Destination)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, 3, updated.Items[0].Qty)

	_, err = uc.Complete(context.Background(), req.ID)
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), req.ID, dto.UpdateRequestRequest{Destination: &dest})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRequestCancel_NoRepetible(t *testing.T) {
	s := newStore()
	uc := newRequestUC(s, &fakeNotifier{})

	req, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 1}},
	})
	require.NoError(t, err)

	cancelled, err := uc.Cancel(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)

	_, err = uc.Cancel(context.Background(), req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Cancelar una solicitud completada no revierte los suministros ya hechos.
func TestRequestCancel_NoRevierteSuministros(t *testing.T) {
	s := newStore()
	s.seedPart("a", "PN-A", 10)
	uc := newRequestUC(s, &fakeNotifier{})
	supply := newSupplyUC(s, &fakeNotifier{})

	req, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 4}},
	})
	require.NoError(t, err)
	_, err = uc.Complete(context.Background(), req.ID)
	require.NoError(t, err)
	_, err = supply.Supply(context.Background(), req.Items[0].ID, "u", nil)
	require.NoError(t, err)
	require.Equal(t, 6, s.partStock("a"))

	_, err = uc.Cancel(context.Background(), req.ID)
	require.NoError(t, err)

	assert.Equal(t, 6, s.partStock("a"), "el stock entregado no vuelve")
	assert.Equal(t, 1, s.movementCount())
}

func TestRequestGetByID_NoExisteFalla(t *testing.T) {
	s := newStore()
	uc := newRequestUC(s, &fakeNotifier{})
	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequestDelete_SoftDelete(t *testing.T) {
	s := newStore()
	uc := newRequestUC(s, &fakeNotifier{})

	req, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), req.ID))
	_, err = uc.GetByID(context.Background(), req.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Renombrar la solicitud debe sobrevivir a la relectura: el adaptador
// persiste request_number, no solo destino y notas.
func TestRequestUpdate_RenombraRequestNumberYPersiste(t *testing.T) {
	s := newStore()
	uc := newRequestUC(s, &fakeNotifier{})

	req, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 1}},
	})
	require.NoError(t, err)

	renamed := "REQ-MANUAL-0042"
	updated, err := uc.Update(context.Background(), req.ID, dto.UpdateRequestRequest{RequestNumber: &renamed})
	require.NoError(t, err)
	assert.Equal(t, renamed, updated.RequestNumber)

	fetched, err := uc.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed, fetched.RequestNumber)
}

func TestRequestUpdate_RequestNumberDuplicadoFalla(t *testing.T) {
	s := newStore()
	uc := newRequestUC(s, &fakeNotifier{})

	first, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 1}},
	})
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), "u", dto.CreateRequestRequest{
		Items: []dto.RequestItemInput{{PartID: "a", Qty: 1}},
	})
	require.NoError(t, err)

	taken := first.RequestNumber
	_, err = uc.Update(context.Background(), second.ID, dto.UpdateRequestRequest{RequestNumber: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
