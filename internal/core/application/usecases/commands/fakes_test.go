package commands_test

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"fastship/internal/core/application/auth"
	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory stand-in for the postgres unit of work. It hands
// out copies of stored aggregates so handlers see the same isolation they get
// from the real repositories, and it emulates row locks taken by GetForUpdate.
type memoryStore struct {
	mu sync.Mutex

	shipments map[kernel.UUID]*shipment.Shipment
	partners  map[kernel.UUID]*partner.Partner
	sellers   map[kernel.UUID]*seller.Seller
	reviews   map[kernel.UUID]*shipment.Review
	rowLocks  map[kernel.UUID]*sync.Mutex

	// lostRaces makes the next TryReserve calls report a concurrent winner.
	lostRaces int
	// afterRead runs after every shipment read, outside the store lock.
	afterRead func(id kernel.UUID)

	begins, commits, rollbacks int
	releases                   []kernel.UUID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		shipments: map[kernel.UUID]*shipment.Shipment{},
		partners:  map[kernel.UUID]*partner.Partner{},
		sellers:   map[kernel.UUID]*seller.Seller{},
		reviews:   map[kernel.UUID]*shipment.Review{},
		rowLocks:  map[kernel.UUID]*sync.Mutex{},
	}
}

func (m *memoryStore) Create() commands.ShipmentUoW { return &memoryTx{memoryStore: m} }

func (m *memoryStore) Begin(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.begins++
	return nil
}

func (m *memoryStore) Commit(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits++
	return nil
}

func (m *memoryStore) Rollback(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollbacks++
	return nil
}

func (m *memoryStore) ShipmentRepository() ports.ShipmentRepository { return memoryShipments{m: m} }
func (m *memoryStore) PartnerRepository() ports.PartnerRepository   { return memoryPartners{m} }
func (m *memoryStore) SellerRepository() ports.SellerRepository     { return memorySellers{m} }
func (m *memoryStore) ReviewRepository() ports.ReviewRepository     { return memoryReviews{m} }

func (m *memoryStore) rowLock(id kernel.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		m.rowLocks[id] = l
	}
	return l
}

// memoryTx is one unit of work. Row locks it took are released when it ends.
type memoryTx struct {
	*memoryStore
	held []*sync.Mutex
}

func (tx *memoryTx) Commit(ctx context.Context) error {
	tx.unlockAll()
	return tx.memoryStore.Commit(ctx)
}

func (tx *memoryTx) Rollback(ctx context.Context) error {
	tx.unlockAll()
	return tx.memoryStore.Rollback(ctx)
}

func (tx *memoryTx) ShipmentRepository() ports.ShipmentRepository {
	return memoryShipments{m: tx.memoryStore, tx: tx}
}

func (tx *memoryTx) unlockAll() {
	for _, l := range tx.held {
		l.Unlock()
	}
	tx.held = nil
}

type reviewUoWFactory struct{ store *memoryStore }

func (f reviewUoWFactory) Create() commands.ReviewUoW { return f.store }

type accountUoWFactory struct{ store *memoryStore }

func (f accountUoWFactory) Create() commands.AccountUoW { return f.store }

func cloneShipment(s *shipment.Shipment) *shipment.Shipment {
	timeline, err := shipment.RestoreTimeline(s.ID(), s.Timeline().History())
	if err != nil {
		panic(err)
	}
	restored, err := shipment.RestoreShipment(s.ID(), s.Details(), s.SellerID(), s.PartnerID(),
		s.CreatedAt(), s.EstimatedDelivery(), timeline, s.Tags())
	if err != nil {
		panic(err)
	}
	return restored
}

func clonePartner(p *partner.Partner) *partner.Partner {
	restored, err := partner.RestorePartner(p.Account, p.ServiceArea(), p.MaxCapacity(), p.ActiveShipments())
	if err != nil {
		panic(err)
	}
	return restored
}

func cloneSeller(s *seller.Seller) *seller.Seller {
	restored, err := seller.RestoreSeller(s.Account, s.Address(), s.PostalCode())
	if err != nil {
		panic(err)
	}
	return restored
}

type memoryShipments struct {
	m  *memoryStore
	tx *memoryTx
}

func (r memoryShipments) Add(_ context.Context, s *shipment.Shipment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.shipments[s.ID()] = cloneShipment(s)
	return nil
}

// Update refuses a write based on a stale read, like the conditional UPDATE
// of the postgres repository.
func (r memoryShipments) Update(_ context.Context, s *shipment.Shipment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.shipments[s.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("shipment", s.ID().String())
	}
	if loaded, ok := s.Timeline().StoredStatus(); ok {
		if loaded != stored.CurrentStatus() || s.Timeline().Len()-len(s.Timeline().NewEvents()) != stored.Timeline().Len() {
			return errs.NewConcurrentModificationError("shipment", s.ID().String())
		}
	}
	r.m.shipments[s.ID()] = cloneShipment(s)
	return nil
}

func (r memoryShipments) Get(_ context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	s, err := r.read(id)
	if err != nil {
		return nil, err
	}
	if r.m.afterRead != nil {
		r.m.afterRead(id)
	}
	return s, nil
}

func (r memoryShipments) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if r.tx != nil {
		l := r.m.rowLock(id)
		l.Lock()
		r.tx.held = append(r.tx.held, l)
	}
	return r.Get(ctx, id)
}

func (r memoryShipments) read(id kernel.UUID) (*shipment.Shipment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.shipments[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("shipment", id.String())
	}
	return cloneShipment(s), nil
}

func (r memoryShipments) Delete(_ context.Context, id kernel.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.shipments[id]; !ok {
		return errs.NewObjectNotFoundError("shipment", id.String())
	}
	delete(r.m.shipments, id)
	delete(r.m.reviews, id)
	return nil
}

func (r memoryShipments) FindByTag(_ context.Context, tag shipment.TagName) ([]*shipment.Shipment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var result []*shipment.Shipment
	for _, s := range r.m.shipments {
		if s.HasTag(tag) {
			result = append(result, cloneShipment(s))
		}
	}
	return result, nil
}

type memoryPartners struct{ m *memoryStore }

func (r memoryPartners) Add(_ context.Context, p *partner.Partner) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.partners[p.ID()] = clonePartner(p)
	return nil
}

func (r memoryPartners) Update(_ context.Context, p *partner.Partner) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.partners[p.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("delivery partner", p.ID().String())
	}
	updated, err := partner.RestorePartner(p.Account, p.ServiceArea(), p.MaxCapacity(), stored.ActiveShipments())
	if err != nil {
		return err
	}
	r.m.partners[p.ID()] = updated
	return nil
}

func (r memoryPartners) Get(_ context.Context, id kernel.UUID) (*partner.Partner, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.partners[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("delivery partner", id.String())
	}
	return clonePartner(p), nil
}

func (r memoryPartners) GetByEmail(_ context.Context, email kernel.Email) (*partner.Partner, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.partners {
		if p.Email() == email {
			return clonePartner(p), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("delivery partner", email.String())
}

func (r memoryPartners) FindServing(_ context.Context, code kernel.PostalCode) ([]*partner.Partner, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var result []*partner.Partner
	for _, p := range r.m.partners {
		if p.Serves(code) {
			result = append(result, clonePartner(p))
		}
	}
	slices.SortFunc(result, partner.RegisteredBefore)
	return result, nil
}

func (r memoryPartners) TryReserve(_ context.Context, id kernel.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.lostRaces > 0 {
		r.m.lostRaces--
		return false, nil
	}
	p, ok := r.m.partners[id]
	if !ok {
		return false, nil
	}
	return p.Reserve() == nil, nil
}

func (r memoryPartners) Release(_ context.Context, id kernel.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.releases = append(r.m.releases, id)
	if p, ok := r.m.partners[id]; ok {
		_ = p.Release()
	}
	return nil
}

func (r memoryPartners) RecountActive(context.Context) (int64, error) {
	return 0, nil
}

type memorySellers struct{ m *memoryStore }

func (r memorySellers) Add(_ context.Context, s *seller.Seller) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.sellers[s.ID()] = cloneSeller(s)
	return nil
}

func (r memorySellers) Update(_ context.Context, s *seller.Seller) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sellers[s.ID()]; !ok {
		return errs.NewObjectNotFoundError("seller", s.ID().String())
	}
	r.m.sellers[s.ID()] = cloneSeller(s)
	return nil
}

func (r memorySellers) Get(_ context.Context, id kernel.UUID) (*seller.Seller, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sellers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("seller", id.String())
	}
	return cloneSeller(s), nil
}

func (r memorySellers) GetByEmail(_ context.Context, email kernel.Email) (*seller.Seller, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.sellers {
		if s.Email() == email {
			return cloneSeller(s), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("seller", email.String())
}

type memoryReviews struct{ m *memoryStore }

func (r memoryReviews) Add(_ context.Context, review *shipment.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reviews[review.ShipmentID()]; ok {
		return shipment.ErrReviewAlreadySubmitted
	}
	r.m.reviews[review.ShipmentID()] = review
	return nil
}

func (r memoryReviews) ExistsForShipment(_ context.Context, id kernel.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.reviews[id]
	return ok, nil
}

// recordingNotifier captures after-commit side effects.
type recordingNotifier struct {
	mu      sync.Mutex
	changes []shipmentChange
	verify  []string
	resets  []string
}

type shipmentChange struct {
	view     views.ShipmentView
	appended []*shipment.Event
}

func (n *recordingNotifier) ShipmentChanged(_ context.Context, view views.ShipmentView, appended []*shipment.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, shipmentChange{view: view, appended: appended})
}

func (n *recordingNotifier) SendVerification(_ context.Context, _ account.Role, acc account.Account, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verify = append(n.verify, acc.Email().String()+"|"+token)
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, _ account.Role, acc account.Account, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets = append(n.resets, acc.Email().String()+"|"+token)
}

// plainHasher stores passwords with a visible prefix.
type plainHasher struct{}

func (plainHasher) Hash(_ context.Context, plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (plainHasher) Verify(_ context.Context, plain, digest string) (bool, error) {
	return digest == "hashed:"+plain, nil
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (s *memoryRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked == nil {
		s.revoked = map[string]time.Duration{}
	}
	s.revoked[jti] = ttl
	return nil
}

func (s *memoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok, nil
}

func newTokenAuthority(t *testing.T) *auth.TokenAuthority {
	t.Helper()
	authority, err := auth.NewTokenAuthority(auth.Config{Secret: []byte("commands-test")}, &memoryRevocations{})
	require.NoError(t, err)
	return authority
}

var registeredAt = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func (m *memoryStore) addSeller(t *testing.T, name string, postalCode int) *seller.Seller {
	t.Helper()

	email, err := kernel.NewEmail(name + "@shop.example.com")
	require.NoError(t, err)
	acc, err := account.Restore(kernel.NewUUID(), name, email, "hashed:password1", true, registeredAt)
	require.NoError(t, err)

	var code *kernel.PostalCode
	if postalCode != 0 {
		c := kernel.MustPostalCode(postalCode)
		code = &c
	}
	s, err := seller.NewSeller(acc, "", code)
	require.NoError(t, err)
	m.sellers[s.ID()] = s
	return s
}

func (m *memoryStore) addPartner(t *testing.T, name string, offset time.Duration, capacity int, area ...int) *partner.Partner {
	t.Helper()

	email, err := kernel.NewEmail(name + "@partners.example.com")
	require.NoError(t, err)
	acc, err := account.Restore(kernel.NewUUID(), name, email, "hashed:password1", true, registeredAt.Add(offset))
	require.NoError(t, err)

	codes := make([]kernel.PostalCode, 0, len(area))
	for _, c := range area {
		codes = append(codes, kernel.MustPostalCode(c))
	}
	p, err := partner.NewPartner(acc, codes, capacity)
	require.NoError(t, err)
	m.partners[p.ID()] = p
	return p
}

func (m *memoryStore) activeShipments(id kernel.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.partners[id].ActiveShipments()
}

func (m *memoryStore) storedShipment(id kernel.UUID) *shipment.Shipment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shipments[id]
}

func authSubject(id kernel.UUID, name string) auth.Subject {
	return auth.Subject{ID: id, Name: name, Role: account.RoleSeller}
}
