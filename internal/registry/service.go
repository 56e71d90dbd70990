// Package registry owns every account and performs all account mutations.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/osse101/armorsmith/internal/domain"
	"github.com/osse101/armorsmith/internal/metrics"
	"github.com/osse101/armorsmith/internal/realm"
	"github.com/osse101/armorsmith/internal/repository"
)

// Service defines the account registry operations
type Service interface {
	CreateAccount(ctx context.Context, id domain.Identity, displayName string) (*domain.Account, error)
	AccountExists(ctx context.Context, id domain.Identity) bool
	GetAccount(ctx context.Context, id domain.Identity) (*domain.Account, error)
	Stash(ctx context.Context, id domain.Identity) ([]domain.Item, error)
	HasItem(ctx context.Context, id domain.Identity, item domain.Item) (bool, error)
	IsEquipped(ctx context.Context, id domain.Identity, item domain.Item) (bool, error)
	GiveItem(ctx context.Context, id domain.Identity, item domain.Item) error
	RemoveItem(ctx context.Context, id domain.Identity, item domain.Item) error
	TransferItem(ctx context.Context, sender, receiver domain.Identity, item domain.Item) error
	Equip(ctx context.Context, id domain.Identity, item domain.Item) error
	WipeRealm(ctx context.Context, realmID string) error
	ListRealmAccounts(ctx context.Context, realmID string) ([]*domain.Account, error)
	ListAllAccounts(ctx context.Context) ([]*domain.Account, error)
	Document(ctx context.Context) *repository.Document
}

// Option configures a service
type Option func(*service)

// WithClock overrides the time source used for account creation timestamps
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithResolver sets the resolver consulted by ListAllAccounts
func WithResolver(r realm.Resolver) Option {
	return func(s *service) { s.resolver = r }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *service) { s.log = l }
}

// service keeps realm -> user -> account in memory. Stored accounts are
// never edited in place: mutations clone, edit, and swap the pointer, so
// clones handed to callers stay valid.
type service struct {
	mu       sync.RWMutex
	store    repository.Store
	resolver realm.Resolver
	log      *slog.Logger
	now      func() time.Time

	realms map[string]map[string]*domain.Account
	legacy map[string]repository.LegacyRecord
}

// NewService loads the registry from store
func NewService(ctx context.Context, store repository.Store, opts ...Option) (Service, error) {
	s := &service{
		store:    store,
		resolver: realm.AllowAll,
		log:      slog.Default(),
		now:      time.Now,
		realms:   make(map[string]map[string]*domain.Account),
		legacy:   make(map[string]repository.LegacyRecord),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %w", domain.ErrPersistence, err)
	}
	if err := s.restore(ctx, doc); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, LogMsgRegistryLoaded,
		"realms", len(s.realms),
		"accounts", doc.Accounts(),
		"legacy_records", len(s.legacy))
	return s, nil
}

func (s *service) restore(ctx context.Context, doc *repository.Document) error {
	for realmID, users := range doc.Realms {
		accounts := make(map[string]*domain.Account, len(users))
		for userID, rec := range users {
			id := domain.Identity{Realm: realmID, User: userID}
			acc, err := rec.ToAccount(id)
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
			}
			if cleared := acc.SanitizeEquipment(); len(cleared) > 0 {
				s.log.WarnContext(ctx, LogMsgEquipmentSanitized, "account", id.Key(), "slots", cleared)
			}
			accounts[userID] = acc
		}
		s.realms[realmID] = accounts
	}
	for userID, rec := range doc.Legacy {
		s.legacy[userID] = rec
	}
	return nil
}

// CreateAccount registers a new account, carrying over a legacy record for
// the same user id when one exists
func (s *service) CreateAccount(ctx context.Context, id domain.Identity, displayName string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(id); ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountAlreadyExists, id)
	}

	acc := domain.NewAccount(id, displayName, s.now())
	_, realmKnown := s.realms[id.Realm]
	_, parksLegacy := s.legacy[id.Realm]
	parksLegacy = parksLegacy && !realmKnown && id.Realm != id.User
	legacy, migrated := s.legacy[id.User]
	if migrated {
		acc.Stash = legacy.Stash.Clone()
		acc.Equipment = legacy.Equipment.Clone()
		acc.SanitizeEquipment()
	}

	err := s.commit(ctx, OpCreateAccount, func() func() {
		undoPut := s.put(acc)
		if !migrated {
			return undoPut
		}
		delete(s.legacy, id.User)
		return func() {
			s.legacy[id.User] = legacy
			undoPut()
		}
	})
	if err != nil {
		return nil, err
	}

	if migrated {
		s.log.InfoContext(ctx, LogMsgLegacyAccountMigrated, "account", id.Key(), "items", acc.Stash.Len())
	}
	if parksLegacy {
		s.log.InfoContext(ctx, LogMsgLegacyRecordParked, "realm", id.Realm)
	}
	s.log.InfoContext(ctx, LogMsgAccountCreated, "account", id.Key(), "name", displayName)
	return acc.Clone(), nil
}

// AccountExists reports whether an account is registered for id
func (s *service) AccountExists(_ context.Context, id domain.Identity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.lookup(id)
	return ok
}

// GetAccount returns a copy of the account
func (s *service) GetAccount(_ context.Context, id domain.Identity) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, err := s.mustLookup(id)
	if err != nil {
		return nil, err
	}
	return acc.Clone(), nil
}

// Stash returns the account's items in insertion order
func (s *service) Stash(_ context.Context, id domain.Identity) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, err := s.mustLookup(id)
	if err != nil {
		return nil, err
	}
	return acc.Stash.Items(), nil
}

// HasItem reports whether an item with item's name is in the stash
func (s *service) HasItem(_ context.Context, id domain.Identity, item domain.Item) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, err := s.mustLookup(id)
	if err != nil {
		return false, err
	}
	return acc.Stash.Has(item.Name), nil
}

// IsEquipped reports whether the slot for item's category holds item
func (s *service) IsEquipped(_ context.Context, id domain.Identity, item domain.Item) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, err := s.mustLookup(id)
	if err != nil {
		return false, err
	}
	return acc.Equipment.IsEquipped(item), nil
}

// GiveItem adds item to the stash, replacing an item with the same name
func (s *service) GiveItem(ctx context.Context, id domain.Identity, item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.mustLookup(id)
	if err != nil {
		return err
	}

	next := acc.Clone()
	next.Give(item)
	if err := s.commit(ctx, OpGiveItem, func() func() { return s.put(next) }); err != nil {
		return err
	}

	s.log.InfoContext(ctx, LogMsgItemGiven, "account", id.Key(), "item", item.Name)
	return nil
}

// RemoveItem takes item out of the stash and unequips it if needed
func (s *service) RemoveItem(ctx context.Context, id domain.Identity, item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.mustLookup(id)
	if err != nil {
		return err
	}

	next := acc.Clone()
	if !next.Remove(item) {
		return fmt.Errorf("%w: '%s' not in stash of %s", domain.ErrItemNotFound, item.Name, id)
	}
	if err := s.commit(ctx, OpRemoveItem, func() func() { return s.put(next) }); err != nil {
		return err
	}

	s.log.InfoContext(ctx, LogMsgItemRemoved, "account", id.Key(), "item", item.Name)
	return nil
}

// TransferItem moves the sender's copy of item to the receiver in one write
func (s *service) TransferItem(ctx context.Context, sender, receiver domain.Identity, item domain.Item) error {
	if sender == receiver {
		return fmt.Errorf("%w: %s", domain.ErrSameSenderAndReceiver, sender)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.mustLookup(sender)
	if err != nil {
		return err
	}
	to, err := s.mustLookup(receiver)
	if err != nil {
		return err
	}

	held, ok := from.Stash.Get(item.Name)
	if !ok {
		return fmt.Errorf("%w: '%s' not in stash of %s", domain.ErrItemNotFound, item.Name, sender)
	}

	nextFrom := from.Clone()
	nextFrom.Remove(held)
	nextTo := to.Clone()
	nextTo.Give(held)

	err = s.commit(ctx, OpTransferItem, func() func() {
		undoFrom := s.put(nextFrom)
		undoTo := s.put(nextTo)
		return func() {
			undoTo()
			undoFrom()
		}
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, LogMsgItemTransferred, "from", sender.Key(), "to", receiver.Key(), "item", held.Name)
	return nil
}

// Equip puts the stash copy of item into its category's slot
func (s *service) Equip(ctx context.Context, id domain.Identity, item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.mustLookup(id)
	if err != nil {
		return err
	}

	next := acc.Clone()
	if !next.Equip(item) {
		return fmt.Errorf("%w: '%s' not in stash of %s", domain.ErrItemNotFound, item.Name, id)
	}
	if err := s.commit(ctx, OpEquip, func() func() { return s.put(next) }); err != nil {
		return err
	}

	s.log.InfoContext(ctx, LogMsgItemEquipped, "account", id.Key(), "item", item.Name)
	return nil
}

// WipeRealm deletes every account in the realm
func (s *service) WipeRealm(ctx context.Context, realmID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.realms[realmID]
	err := s.commit(ctx, OpWipeRealm, func() func() {
		delete(s.realms, realmID)
		return func() {
			if existed {
				s.realms[realmID] = prev
			}
		}
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, LogMsgRealmWiped, "realm", realmID, "accounts", len(prev))
	return nil
}

// ListRealmAccounts returns copies of the realm's accounts, oldest first
func (s *service) ListRealmAccounts(_ context.Context, realmID string) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(realmID), nil
}

// ListAllAccounts returns copies of every account in realms the resolver
// still recognises, grouped by realm and oldest first within a realm
func (s *service) ListAllAccounts(ctx context.Context) ([]*domain.Account, error) {
	s.mu.RLock()
	realmIDs := make([]string, 0, len(s.realms))
	for realmID := range s.realms {
		realmIDs = append(realmIDs, realmID)
	}
	s.mu.RUnlock()
	sort.Strings(realmIDs)

	var out []*domain.Account
	for _, realmID := range realmIDs {
		exists, err := s.resolver.Exists(ctx, realmID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.WarnContext(ctx, LogMsgRealmResolveFailed, "realm", realmID, "error", err)
			continue
		}
		if !exists {
			s.log.DebugContext(ctx, LogMsgRealmTombstoned, "realm", realmID)
			continue
		}

		s.mu.RLock()
		out = append(out, s.snapshot(realmID)...)
		s.mu.RUnlock()
	}
	return out, nil
}

// Document returns the current persisted form of the registry
func (s *service) Document(_ context.Context) *repository.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document()
}

// snapshot clones the realm's accounts sorted by creation time, then user id.
// Callers hold at least the read lock.
func (s *service) snapshot(realmID string) []*domain.Account {
	users := s.realms[realmID]
	out := make([]*domain.Account, 0, len(users))
	for _, acc := range users {
		out = append(out, acc.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

func (s *service) lookup(id domain.Identity) (*domain.Account, bool) {
	acc, ok := s.realms[id.Realm][id.User]
	return acc, ok
}

func (s *service) mustLookup(id domain.Identity) (*domain.Account, error) {
	acc, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoAccount, id)
	}
	return acc, nil
}

// put stores acc under its identity and returns a func restoring the
// previous state. Callers hold the write lock.
func (s *service) put(acc *domain.Account) (undo func()) {
	users, realmExisted := s.realms[acc.Realm]
	if !realmExisted {
		users = make(map[string]*domain.Account)
		s.realms[acc.Realm] = users
	}
	prev, had := users[acc.UserID]
	users[acc.UserID] = acc

	return func() {
		switch {
		case had:
			users[acc.UserID] = prev
		case realmExisted:
			delete(users, acc.UserID)
		default:
			delete(s.realms, acc.Realm)
		}
	}
}

// commit applies a change, persists the whole document and rolls the change
// back if the store fails. Callers hold the write lock.
func (s *service) commit(ctx context.Context, op string, apply func() (undo func())) error {
	undo := apply()

	err := s.store.Save(ctx, s.document())
	if err != nil {
		undo()
		s.log.ErrorContext(ctx, LogMsgPersistFailed, "operation", op, "error", err)
		err = fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
	}
	metrics.RecordMutation(op, err)
	return err
}

func (s *service) document() *repository.Document {
	doc := repository.NewDocument()
	for realmID, users := range s.realms {
		records := make(map[string]repository.AccountRecord, len(users))
		for userID, acc := range users {
			records[userID] = repository.RecordFromAccount(acc)
		}
		doc.Realms[realmID] = records
	}
	for userID, rec := range s.legacy {
		doc.Legacy[userID] = rec
	}
	return doc
}
