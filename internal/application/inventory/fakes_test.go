package inventory_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/partes-api/internal/application/inventory"
	"github.com/tu-usuario/partes-api/internal/domain"
	"github.com/tu-usuario/partes-api/internal/domain/docnumber"
	"github.com/tu-usuario/partes-api/internal/domain/entity"
	"github.com/tu-usuario/partes-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// store simula la base de datos; fakeTxRunner serializa las "transacciones"
// con un mutex, el equivalente grueso de los candados de fila FOR UPDATE:
// dos completados o suministros concurrentes nunca ven stock intermedio.
// No hay rollback: los casos de uso validan antes de mutar, igual que en
// producción donde un fallo aborta la tx antes de tocar nada.
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	mu         sync.Mutex
	parts      map[string]*entity.Part
	receivings map[string]*entity.Receiving
	outgoings  map[string]*entity.Outgoing
	requests   map[string]*entity.Request
	movements  []*entity.PartMovement
}

func timeNow() time.Time { return time.Now() }

// docSeq atajo para leer el sufijo secuencial de un número de documento.
func docSeq(n string) int { return docnumber.Seq(n) }

func newStore() *store {
	return &store{
		parts:      make(map[string]*entity.Part),
		receivings: make(map[string]*entity.Receiving),
		outgoings:  make(map[string]*entity.Outgoing),
		requests:   make(map[string]*entity.Request),
	}
}

func (s *store) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Parts:      &fakeParts{s: s},
		Receivings: &fakeReceivings{s: s},
		Outgoings:  &fakeOutgoings{s: s},
		Requests:   &fakeRequests{s: s},
		Movements:  &fakeMovements{s: s},
	}
}

func (s *store) seedPart(id, number string, stock int) *entity.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &entity.Part{ID: id, PartNumber: number, PartName: "parte " + number, StandardPacking: 1, Stock: stock, IsActive: true}
	s.parts[id] = p
	return p
}

func (s *store) partStock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parts[id].Stock
}

func (s *store) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func copyPart(p *entity.Part) *entity.Part {
	cp := *p
	return &cp
}

// fakeTxRunner serializa transacciones completas.
type fakeTxRunner struct {
	s    *store
	txMu sync.Mutex
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(r inventory.TxRepos) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	return fn(f.s.repos())
}

// fakeNotifier acumula los eventos publicados.
type fakeNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	name    string
	payload any
}

func (f *fakeNotifier) Publish(event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{name: event, payload: payload})
}

func (f *fakeNotifier) byName(name string) []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []publishedEvent
	for _, e := range f.events {
		if e.name == name {
			out = append(out, e)
		}
	}
	return out
}

// ── parts ────────────────────────────────────────────────────────────────────

type fakeParts struct{ s *store }

var _ repository.PartRepository = (*fakeParts)(nil)

func (f *fakeParts) Create(part *entity.Part) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.parts[part.ID] = copyPart(part)
	return nil
}

func (f *fakeParts) GetByID(id string) (*entity.Part, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.parts[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	return copyPart(p), nil
}

func (f *fakeParts) GetForUpdate(id string) (*entity.Part, error) {
	return f.GetByID(id)
}

func (f *fakeParts) ListForUpdate(ids []string) ([]*entity.Part, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make([]*entity.Part, 0, len(sorted))
	for _, id := range sorted {
		p, ok := f.s.parts[id]
		if !ok || p.DeletedAt != nil {
			return nil, domain.ErrNotFound
		}
		out = append(out, copyPart(p))
	}
	return out, nil
}

func (f *fakeParts) Update(part *entity.Part) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.parts[part.ID]; !ok {
		return domain.ErrNotFound
	}
	f.s.parts[part.ID] = copyPart(part)
	return nil
}

func (f *fakeParts) UpdateStock(id string, stock int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.parts[id]
	if !ok || p.DeletedAt != nil {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (f *fakeParts) SoftDelete(id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.parts[id]
	if !ok || p.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := timeNow()
	p.DeletedAt = &now
	return nil
}

func (f *fakeParts) List(filter repository.PartFilter) ([]*entity.Part, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*entity.Part
	for _, p := range f.s.parts {
		if p.DeletedAt == nil {
			out = append(out, copyPart(p))
		}
	}
	return out, len(out), nil
}

func (f *fakeParts) HasTransactions(id string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, rec := range f.s.receivings {
		for _, it := range rec.Items {
			if it.PartID == id {
				return true, nil
			}
		}
	}
	for _, out := range f.s.outgoings {
		for _, it := range out.Items {
			if it.PartID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

// ── receivings ───────────────────────────────────────────────────────────────

type fakeReceivings struct{ s *store }

var _ repository.ReceivingRepository = (*fakeReceivings)(nil)

func (f *fakeReceivings) Create(rec *entity.Receiving) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.receivings {
		if existing.DocNumber == rec.DocNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *rec
	cp.Items = append([]entity.ReceivingItem(nil), rec.Items...)
	f.s.receivings[rec.ID] = &cp
	return nil
}

func (f *fakeReceivings) GetByID(id string) (*entity.Receiving, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	rec, ok := f.s.receivings[id]
	if !ok || rec.DeletedAt != nil {
		return nil, nil
	}
	cp := *rec
	cp.Items = append([]entity.ReceivingItem(nil), rec.Items...)
	return &cp, nil
}

func (f *fakeReceivings) Update(rec *entity.Receiving) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	stored, ok := f.s.receivings[rec.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrNotFound
	}
	for _, other := range f.s.receivings {
		if other.ID != rec.ID && other.DocNumber == rec.DocNumber {
			return domain.ErrDuplicate
		}
	}
	stored.DocNumber = rec.DocNumber
	stored.ReceivedBy = rec.ReceivedBy
	stored.ReceivedAt = rec.ReceivedAt
	stored.Notes = rec.Notes
	return nil
}

func (f *fakeReceivings) ReplaceItems(receivingID string, items []entity.ReceivingItem) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	rec, ok := f.s.receivings[receivingID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Items = append([]entity.ReceivingItem(nil), items...)
	return nil
}

func (f *fakeReceivings) UpdateStatus(id, status string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	rec, ok := f.s.receivings[id]
	if !ok || rec.DeletedAt != nil {
		return domain.ErrNotFound
	}
	rec.Status = status
	return nil
}

func (f *fakeReceivings) SetGR(id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	rec, ok := f.s.receivings[id]
	if !ok || rec.DeletedAt != nil || rec.IsGR {
		return domain.ErrInvalidState
	}
	rec.IsGR = true
	return nil
}

func (f *fakeReceivings) SoftDelete(id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	rec, ok := f.s.receivings[id]
	if !ok || rec.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := timeNow()
	rec.DeletedAt = &now
	return nil
}

func (f *fakeReceivings) List(filter repository.DocumentFilter) ([]*entity.Receiving, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*entity.Receiving
	for _, rec := range f.s.receivings {
		if rec.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.PendingConfirm && (rec.Status != entity.StatusCompleted || rec.IsGR) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeReceivings) LastDocNumberForDay(pattern string) (string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "%")
	last := ""
	for _, rec := range f.s.receivings {
		if strings.HasPrefix(rec.DocNumber, prefix) && docnumber.Seq(rec.DocNumber) > docnumber.Seq(last) {
			last = rec.DocNumber
		}
	}
	return last, nil
}

// ── outgoings ────────────────────────────────────────────────────────────────

type fakeOutgoings struct{ s *store }

var _ repository.OutgoingRepository = (*fakeOutgoings)(nil)

func (f *fakeOutgoings) Create(out *entity.Outgoing) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.outgoings {
		if existing.DocNumber == out.DocNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *out
	cp.Items = append([]entity.OutgoingItem(nil), out.Items...)
	f.s.outgoings[out.ID] = &cp
	return nil
}

func (f *fakeOutgoings) GetByID(id string) (*entity.Outgoing, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out, ok := f.s.outgoings[id]
	if !ok || out.DeletedAt != nil {
		return nil, nil
	}
	cp := *out
	cp.Items = append([]entity.OutgoingItem(nil), out.Items...)
	return &cp, nil
}

func (f *fakeOutgoings) FindDraftByRequestID(requestID string) (*entity.Outgoing, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, out := range f.s.outgoings {
		if out.DeletedAt == nil && out.RequestID == requestID && out.Status == entity.StatusDraft {
			cp := *out
			cp.Items = append([]entity.OutgoingItem(nil), out.Items...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOutgoings) AddItem(item *entity.OutgoingItem) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out, ok := f.s.outgoings[item.OutgoingID]
	if !ok {
		return domain.ErrNotFound
	}
	out.Items = append(out.Items, *item)
	return nil
}

func (f *fakeOutgoings) Update(out *entity.Outgoing) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	stored, ok := f.s.outgoings[out.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrNotFound
	}
	for _, other := range f.s.outgoings {
		if other.ID != out.ID && other.DocNumber == out.DocNumber {
			return domain.ErrDuplicate
		}
	}
	stored.DocNumber = out.DocNumber
	stored.IssuedBy = out.IssuedBy
	stored.IssuedAt = out.IssuedAt
	stored.Notes = out.Notes
	return nil
}

func (f *fakeOutgoings) ReplaceItems(outgoingID string, items []entity.OutgoingItem) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out, ok := f.s.outgoings[outgoingID]
	if !ok {
		return domain.ErrNotFound
	}
	out.Items = append([]entity.OutgoingItem(nil), items...)
	return nil
}

func (f *fakeOutgoings) UpdateStatus(id, status string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out, ok := f.s.outgoings[id]
	if !ok || out.DeletedAt != nil {
		return domain.ErrNotFound
	}
	out.Status = status
	return nil
}

func (f *fakeOutgoings) SetGI(id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out, ok := f.s.outgoings[id]
	if !ok || out.DeletedAt != nil || out.IsGI {
		return domain.ErrInvalidState
	}
	out.IsGI = true
	return nil
}

func (f *fakeOutgoings) SoftDelete(id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out, ok := f.s.outgoings[id]
	if !ok || out.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := timeNow()
	out.DeletedAt = &now
	return nil
}

func (f *fakeOutgoings) List(filter repository.DocumentFilter) ([]*entity.Outgoing, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var list []*entity.Outgoing
	for _, out := range f.s.outgoings {
		if out.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && out.Status != filter.Status {
			continue
		}
		cp := *out
		list = append(list, &cp)
	}
	return list, len(list), nil
}

func (f *fakeOutgoings) LastDocNumberForDay(pattern string) (string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "%")
	last := ""
	for _, out := range f.s.outgoings {
		if strings.HasPrefix(out.DocNumber, prefix) && docnumber.Seq(out.DocNumber) > docnumber.Seq(last) {
			last = out.DocNumber
		}
	}
	return last, nil
}

// ── requests ─────────────────────────────────────────────────────────────────

type fakeRequests struct{ s *store }

var _ repository.RequestRepository = (*fakeRequests)(nil)

func (f *fakeRequests) Create(req *entity.Request) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.requests {
		if existing.RequestNumber == req.RequestNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *req
	cp.Items = append([]entity.RequestItem(nil), req.Items...)
	f.s.requests[req.ID] = &cp
	return nil
}

func (f *fakeRequests) GetByID(id string) (*entity.Request, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	req, ok := f.s.requests[id]
	if !ok || req.DeletedAt != nil {
		return nil, nil
	}
	cp := *req
	cp.Items = append([]entity.RequestItem(nil), req.Items...)
	return &cp, nil
}

func (f *fakeRequests) GetItem(itemID string) (*entity.RequestItem, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, req := range f.s.requests {
		for i := range req.Items {
			if req.Items[i].ID == itemID {
				cp := req.Items[i]
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeRequests) MarkItemSupplied(itemID string, qty int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, req := range f.s.requests {
		for i := range req.Items {
			if req.Items[i].ID == itemID {
				if req.Items[i].IsSupplied {
					return domain.ErrAlreadySupplied
				}
				req.Items[i].IsSupplied = true
				req.Items[i].Qty = qty
				return nil
			}
		}
	}
	return domain.ErrAlreadySupplied
}

func (f *fakeRequests) Update(req *entity.Request) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	stored, ok := f.s.requests[req.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrNotFound
	}
	for _, other := range f.s.requests {
		if other.ID != req.ID && other.RequestNumber == req.RequestNumber {
			return domain.ErrDuplicate
		}
	}
	stored.RequestNumber = req.RequestNumber
	stored.RequestedBy = req.RequestedBy
	stored.RequestedAt = req.RequestedAt
	stored.Destination = req.Destination
	stored.Notes = req.Notes
	return nil
}

func (f *fakeRequests) ReplaceItems(requestID string, items []entity.RequestItem) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	req, ok := f.s.requests[requestID]
	if !ok {
		return domain.ErrNotFound
	}
	req.Items = append([]entity.RequestItem(nil), items...)
	return nil
}

func (f *fakeRequests) UpdateStatus(id, status string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	req, ok := f.s.requests[id]
	if !ok || req.DeletedAt != nil {
		return domain.ErrNotFound
	}
	req.Status = status
	return nil
}

func (f *fakeRequests) SoftDelete(id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	req, ok := f.s.requests[id]
	if !ok || req.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := timeNow()
	req.DeletedAt = &now
	return nil
}

func (f *fakeRequests) List(filter repository.DocumentFilter) ([]*entity.Request, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var list []*entity.Request
	for _, req := range f.s.requests {
		if req.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		cp := *req
		cp.Items = append([]entity.RequestItem(nil), req.Items...)
		list = append(list, &cp)
	}
	return list, len(list), nil
}

func (f *fakeRequests) LastDocNumberForDay(pattern string) (string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "%")
	last := ""
	for _, req := range f.s.requests {
		if strings.HasPrefix(req.RequestNumber, prefix) && docnumber.Seq(req.RequestNumber) > docnumber.Seq(last) {
			last = req.RequestNumber
		}
	}
	return last, nil
}

// ── movements ────────────────────────────────────────────────────────────────

type fakeMovements struct{ s *store }

var _ repository.MovementRepository = (*fakeMovements)(nil)

func (f *fakeMovements) Create(m *entity.PartMovement) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *m
	f.s.movements = append(f.s.movements, &cp)
	return nil
}

func (f *fakeMovements) List(filter repository.MovementFilter) ([]*entity.PartMovement, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*entity.PartMovement
	for _, m := range f.s.movements {
		if filter.PartID != "" && m.PartID != filter.PartID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	// mismo orden que el adaptador SQL: created_at asc y, por defecto, invertido
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if !filter.Ascending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	total := len(out)
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			out = nil
		} else {
			out = out[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (f *fakeMovements) ListByReference(referenceType, referenceID string) ([]*entity.PartMovement, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*entity.PartMovement
	for _, m := range f.s.movements {
		if m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}
