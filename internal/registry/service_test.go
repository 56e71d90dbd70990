package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/armorsmith/internal/domain"
	"github.com/osse101/armorsmith/internal/realm"
	"github.com/osse101/armorsmith/internal/repository"
)

// MockStore is a testify mock of repository.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context) (*repository.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Document), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, doc *repository.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// memStore keeps the last saved document as JSON so every save goes
// through the real encoding
type memStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
	fail  error
}

func (m *memStore) Load(context.Context) (*repository.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := repository.NewDocument()
	if m.data == nil {
		return doc, nil
	}
	if err := json.Unmarshal(m.data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *memStore) Save(_ context.Context, doc *repository.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

type fixture struct {
	svc     Service
	store   *memStore
	sword   domain.Item
	leather domain.Item
	potion  domain.Item
	clock   time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store: &memStore{},
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	var err error
	f.sword, err = domain.NewWeapon("Shortsword", 5, "1d6")
	require.NoError(t, err)
	f.leather, err = domain.NewArmor("Leather", 5, 2)
	require.NoError(t, err)
	f.potion, err = domain.NewPotion("Healing Potion", 3, "2d4")
	require.NoError(t, err)

	tick := func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	opts = append([]Option{WithClock(tick)}, opts...)
	f.svc, err = NewService(context.Background(), f.store, opts...)
	require.NoError(t, err)
	return f
}

var (
	alice = domain.Identity{Realm: "guild", User: "alice"}
	bob   = domain.Identity{Realm: "guild", User: "bob"}
	ghost = domain.Identity{Realm: "guild", User: "ghost"}
)

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	acc, err := f.svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", acc.Name)
	assert.Equal(t, alice, acc.Identity())
	assert.Equal(t, 0, acc.Stash.Len())
	assert.Empty(t, acc.Equipment.Items())
	assert.True(t, f.svc.AccountExists(ctx, alice))
	assert.Equal(t, 1, f.store.saves)

	t.Run("second registration fails and leaves the first untouched", func(t *testing.T) {
		require.NoError(t, f.svc.GiveItem(ctx, alice, f.sword))

		_, err := f.svc.CreateAccount(ctx, alice, "Impostor")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAccountAlreadyExists))

		got, err := f.svc.GetAccount(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
		assert.True(t, got.Stash.Has("Shortsword"))
		assert.Equal(t, acc.CreatedAt, got.CreatedAt)
	})

	t.Run("same user in another realm is a different account", func(t *testing.T) {
		_, err := f.svc.CreateAccount(ctx, domain.Identity{Realm: "other", User: "alice"}, "Alice")
		assert.NoError(t, err)
	})
}

func TestCreateAccount_MigratesLegacyRecord(t *testing.T) {
	ctx := context.Background()
	sword, _ := domain.NewWeapon("Shortsword", 5, "1d6")
	leather, _ := domain.NewArmor("Leather", 5, 2)

	doc := repository.NewDocument()
	doc.Legacy["alice"] = repository.LegacyRecord{
		Stash:     domain.NewStash(leather, sword),
		Equipment: domain.Equipment{Weapon: &sword},
	}
	store := &memStore{}
	require.NoError(t, store.Save(ctx, doc))

	svc, err := NewService(ctx, store)
	require.NoError(t, err)

	acc, err := svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Leather", "Shortsword"}, acc.Stash.Names())
	assert.True(t, acc.Equipment.IsEquipped(sword))

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.NotContains(t, reloaded.Legacy, "alice", "legacy record is consumed")
	assert.Contains(t, reloaded.Realms["guild"], "alice")

	// the same user registering in a second realm starts empty
	other, err := svc.CreateAccount(ctx, domain.Identity{Realm: "other", User: "alice"}, "Alice")
	require.NoError(t, err)
	assert.Equal(t, 0, other.Stash.Len())
}

func TestCreateAccount_RealmMatchingLegacyUserKeepsSaving(t *testing.T) {
	ctx := context.Background()
	potion, _ := domain.NewPotion("Healing Potion", 3, "2d4")

	doc := repository.NewDocument()
	doc.Legacy["guild"] = repository.LegacyRecord{Stash: domain.NewStash(potion)}
	store := &memStore{}
	require.NoError(t, store.Save(ctx, doc))

	var logs bytes.Buffer
	svc, err := NewService(ctx, store, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, err)
	assert.Contains(t, logs.String(), LogMsgLegacyRecordParked)
	require.NoError(t, svc.GiveItem(ctx, alice, potion))
	assert.Equal(t, 3, store.saves)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, reloaded.Legacy, "guild")
	assert.Contains(t, reloaded.Realms["guild"], "alice")

	heir, err := svc.CreateAccount(ctx, domain.Identity{Realm: "other", User: "guild"}, "Guild")
	require.NoError(t, err)
	assert.True(t, heir.Stash.Has("Healing Potion"))
}

func TestQueries_NoAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.False(t, f.svc.AccountExists(ctx, ghost))

	_, err := f.svc.GetAccount(ctx, ghost)
	assert.True(t, errors.Is(err, domain.ErrNoAccount))
	_, err = f.svc.Stash(ctx, ghost)
	assert.True(t, errors.Is(err, domain.ErrNoAccount))
	_, err = f.svc.HasItem(ctx, ghost, f.sword)
	assert.True(t, errors.Is(err, domain.ErrNoAccount))
	_, err = f.svc.IsEquipped(ctx, ghost, f.sword)
	assert.True(t, errors.Is(err, domain.ErrNoAccount))
	assert.True(t, errors.Is(f.svc.GiveItem(ctx, ghost, f.sword), domain.ErrNoAccount))
	assert.True(t, errors.Is(f.svc.RemoveItem(ctx, ghost, f.sword), domain.ErrNoAccount))
	assert.True(t, errors.Is(f.svc.Equip(ctx, ghost, f.sword), domain.ErrNoAccount))
	assert.Equal(t, 0, f.store.saves)
}

func TestGiveAndStash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, err)

	require.NoError(t, f.svc.GiveItem(ctx, alice, f.potion))
	require.NoError(t, f.svc.GiveItem(ctx, alice, f.sword))
	require.NoError(t, f.svc.GiveItem(ctx, alice, f.potion))

	items, err := f.svc.Stash(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 2, "re-acquiring overwrites, it does not stack")
	assert.Equal(t, "Healing Potion", items[0].Name)
	assert.Equal(t, "Shortsword", items[1].Name)

	has, err := f.svc.HasItem(ctx, alice, f.sword)
	require.NoError(t, err)
	assert.True(t, has)
	has, err = f.svc.HasItem(ctx, alice, f.leather)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, err)

	t.Run("missing item", func(t *testing.T) {
		err := f.svc.RemoveItem(ctx, alice, f.sword)
		assert.True(t, errors.Is(err, domain.ErrItemNotFound))
	})

	t.Run("equipped item clears its slot", func(t *testing.T) {
		require.NoError(t, f.svc.GiveItem(ctx, alice, f.sword))
		require.NoError(t, f.svc.GiveItem(ctx, alice, f.leather))
		require.NoError(t, f.svc.Equip(ctx, alice, f.sword))
		require.NoError(t, f.svc.Equip(ctx, alice, f.leather))

		require.NoError(t, f.svc.RemoveItem(ctx, alice, f.sword))

		equipped, err := f.svc.IsEquipped(ctx, alice, f.sword)
		require.NoError(t, err)
		assert.False(t, equipped)
		has, _ := f.svc.HasItem(ctx, alice, f.sword)
		assert.False(t, has)

		equipped, _ = f.svc.IsEquipped(ctx, alice, f.leather)
		assert.True(t, equipped, "other slots are untouched")
	})
}

func TestTransferItem(t *testing.T) {
	ctx := context.Background()

	t.Run("same sender and receiver fails without accounts", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.TransferItem(ctx, ghost, ghost, f.sword)
		assert.True(t, errors.Is(err, domain.ErrSameSenderAndReceiver))
	})

	t.Run("same sender and receiver fails with accounts", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateAccount(ctx, alice, "Alice")
		require.NoError(t, err)
		require.NoError(t, f.svc.GiveItem(ctx, alice, f.sword))

		err = f.svc.TransferItem(ctx, alice, alice, f.sword)
		assert.True(t, errors.Is(err, domain.ErrSameSenderAndReceiver))
	})

	t.Run("missing accounts", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateAccount(ctx, alice, "Alice")
		require.NoError(t, err)

		assert.True(t, errors.Is(f.svc.TransferItem(ctx, alice, ghost, f.sword), domain.ErrNoAccount))
		assert.True(t, errors.Is(f.svc.TransferItem(ctx, ghost, alice, f.sword), domain.ErrNoAccount))
	})

	t.Run("sender lacks item", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.svc.CreateAccount(ctx, alice, "Alice")
		_, _ = f.svc.CreateAccount(ctx, bob, "Bob")

		err := f.svc.TransferItem(ctx, alice, bob, f.sword)
		assert.True(t, errors.Is(err, domain.ErrItemNotFound))
	})

	t.Run("moves the item and unequips it on the sender", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.svc.CreateAccount(ctx, alice, "Alice")
		_, _ = f.svc.CreateAccount(ctx, bob, "Bob")
		require.NoError(t, f.svc.GiveItem(ctx, alice, f.sword))
		require.NoError(t, f.svc.Equip(ctx, alice, f.sword))
		saves := f.store.saves

		require.NoError(t, f.svc.TransferItem(ctx, alice, bob, f.sword))
		assert.Equal(t, saves+1, f.store.saves, "transfer is a single write")

		has, _ := f.svc.HasItem(ctx, alice, f.sword)
		assert.False(t, has)
		equipped, _ := f.svc.IsEquipped(ctx, alice, f.sword)
		assert.False(t, equipped)

		has, _ = f.svc.HasItem(ctx, bob, f.sword)
		assert.True(t, has)
		equipped, _ = f.svc.IsEquipped(ctx, bob, f.sword)
		assert.False(t, equipped, "receiver does not inherit the loadout")
	})
}

func TestEquip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, err)

	t.Run("without possession fails and changes nothing", func(t *testing.T) {
		err := f.svc.Equip(ctx, alice, f.sword)
		assert.True(t, errors.Is(err, domain.ErrItemNotFound))

		acc, err := f.svc.GetAccount(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, acc.Equipment.Items())
	})

	t.Run("overwrites the slot and keeps the stash", func(t *testing.T) {
		dagger, err := domain.NewWeapon("Dagger", 2, "1d4")
		require.NoError(t, err)
		require.NoError(t, f.svc.GiveItem(ctx, alice, f.sword))
		require.NoError(t, f.svc.GiveItem(ctx, alice, dagger))

		require.NoError(t, f.svc.Equip(ctx, alice, f.sword))
		require.NoError(t, f.svc.Equip(ctx, alice, dagger))
		require.NoError(t, f.svc.Equip(ctx, alice, dagger))

		acc, err := f.svc.GetAccount(ctx, alice)
		require.NoError(t, err)
		require.NotNil(t, acc.Equipment.Weapon)
		assert.Equal(t, "Dagger", acc.Equipment.Weapon.Name)
		assert.Equal(t, 2, acc.Stash.Len())
	})
}

func TestWipeRealm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _ = f.svc.CreateAccount(ctx, alice, "Alice")
	_, _ = f.svc.CreateAccount(ctx, bob, "Bob")
	outsider := domain.Identity{Realm: "other", User: "carol"}
	_, _ = f.svc.CreateAccount(ctx, outsider, "Carol")

	require.NoError(t, f.svc.WipeRealm(ctx, "guild"))

	assert.False(t, f.svc.AccountExists(ctx, alice))
	assert.False(t, f.svc.AccountExists(ctx, bob))
	assert.True(t, f.svc.AccountExists(ctx, outsider))

	accounts, err := f.svc.ListRealmAccounts(ctx, "guild")
	require.NoError(t, err)
	assert.Empty(t, accounts)

	// re-registration after a wipe is allowed
	_, err = f.svc.CreateAccount(ctx, alice, "Alice")
	assert.NoError(t, err)

	require.NoError(t, f.svc.WipeRealm(ctx, "never-seen"))
}

func TestListAccounts(t *testing.T) {
	ctx := context.Background()
	resolver := realm.NewStaticResolver("guild", "other")
	f := newFixture(t, WithResolver(resolver))

	_, _ = f.svc.CreateAccount(ctx, bob, "Bob")
	_, _ = f.svc.CreateAccount(ctx, alice, "Alice")
	_, _ = f.svc.CreateAccount(ctx, domain.Identity{Realm: "other", User: "carol"}, "Carol")
	_, _ = f.svc.CreateAccount(ctx, domain.Identity{Realm: "left-server", User: "dave"}, "Dave")

	accounts, err := f.svc.ListRealmAccounts(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "bob", accounts[0].UserID, "oldest first")
	assert.Equal(t, "alice", accounts[1].UserID)

	all, err := f.svc.ListAllAccounts(ctx)
	require.NoError(t, err)
	var names []string
	for _, acc := range all {
		names = append(names, acc.Name)
	}
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, names, "tombstoned realms are skipped")

	t.Run("resolver errors skip the realm", func(t *testing.T) {
		failing := realm.ResolverFunc(func(_ context.Context, r string) (bool, error) {
			if r == "guild" {
				return false, errors.New("gateway timeout")
			}
			return true, nil
		})
		f.svc.(*service).resolver = failing

		all, err := f.svc.ListAllAccounts(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("snapshots are copies", func(t *testing.T) {
		accounts[0].Give(f.sword)
		has, err := f.svc.HasItem(ctx, bob, f.sword)
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestPersistenceFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, err)
	_, err = f.svc.CreateAccount(ctx, bob, "Bob")
	require.NoError(t, err)
	require.NoError(t, f.svc.GiveItem(ctx, alice, f.sword))
	require.NoError(t, f.svc.Equip(ctx, alice, f.sword))

	f.store.fail = errors.New("disk full")

	tests := []struct {
		name string
		op   func() error
	}{
		{"create", func() error { _, err := f.svc.CreateAccount(ctx, ghost, "Ghost"); return err }},
		{"give", func() error { return f.svc.GiveItem(ctx, alice, f.leather) }},
		{"remove", func() error { return f.svc.RemoveItem(ctx, alice, f.sword) }},
		{"transfer", func() error { return f.svc.TransferItem(ctx, alice, bob, f.sword) }},
		{"equip", func() error { return f.svc.Equip(ctx, alice, f.sword) }},
		{"wipe", func() error { return f.svc.WipeRealm(ctx, "guild") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrPersistence))
			assert.Contains(t, err.Error(), "disk full")

			assert.False(t, f.svc.AccountExists(ctx, ghost))
			acc, err := f.svc.GetAccount(ctx, alice)
			require.NoError(t, err)
			assert.Equal(t, []string{"Shortsword"}, acc.Stash.Names())
			assert.True(t, acc.Equipment.IsEquipped(f.sword))
			has, err := f.svc.HasItem(ctx, bob, f.sword)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _ = f.svc.CreateAccount(ctx, alice, "Alice")
	_, _ = f.svc.CreateAccount(ctx, bob, "Bob")
	require.NoError(t, f.svc.GiveItem(ctx, alice, f.potion))
	require.NoError(t, f.svc.GiveItem(ctx, alice, f.sword))
	require.NoError(t, f.svc.GiveItem(ctx, alice, f.leather))
	require.NoError(t, f.svc.Equip(ctx, alice, f.leather))
	require.NoError(t, f.svc.GiveItem(ctx, bob, f.sword))

	reloaded, err := NewService(ctx, f.store)
	require.NoError(t, err)

	before, err := f.svc.ListRealmAccounts(ctx, "guild")
	require.NoError(t, err)
	after, err := reloaded.ListRealmAccounts(ctx, "guild")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestNewService_LoadError(t *testing.T) {
	store := new(MockStore)
	store.On("Load", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewService(context.Background(), store)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersistence))
	store.AssertExpectations(t)
}

func TestNewService_SanitizesDanglingEquipment(t *testing.T) {
	ctx := context.Background()
	sword, _ := domain.NewWeapon("Shortsword", 5, "1d6")

	doc := repository.NewDocument()
	doc.Realms["guild"] = map[string]repository.AccountRecord{
		"alice": {
			Name:      "Alice",
			CreatedAt: "2024-01-01 00:00:00",
			Equipment: domain.Equipment{Weapon: &sword},
		},
	}

	// ARRANGE
	store := new(MockStore)
	store.On("Load", mock.Anything).Return(doc, nil)

	// ACT
	svc, err := NewService(ctx, store)
	require.NoError(t, err)

	// ASSERT
	equipped, err := svc.IsEquipped(ctx, alice, sword)
	require.NoError(t, err)
	assert.False(t, equipped)
}

func TestSaveReceivesWholeDocument(t *testing.T) {
	ctx := context.Background()

	// ARRANGE
	store := new(MockStore)
	store.On("Load", mock.Anything).Return(repository.NewDocument(), nil)
	store.On("Save", mock.Anything, mock.MatchedBy(func(doc *repository.Document) bool {
		return doc.Accounts() == 1
	})).Return(nil).Once()
	store.On("Save", mock.Anything, mock.MatchedBy(func(doc *repository.Document) bool {
		return doc.Accounts() == 2
	})).Return(nil).Once()

	svc, err := NewService(ctx, store)
	require.NoError(t, err)

	// ACT
	_, err = svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, bob, "Bob")
	require.NoError(t, err)

	// ASSERT
	store.AssertExpectations(t)
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, err := domain.NewWeapon(fmt.Sprintf("Blade %02d", i), 1, "1d4")
			if err != nil {
				t.Error(err)
				return
			}
			if err := f.svc.GiveItem(ctx, alice, item); err != nil {
				t.Error(err)
			}
			_, _ = f.svc.Stash(ctx, alice)
		}(i)
	}
	wg.Wait()

	items, err := f.svc.Stash(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, items, 50, "no lost updates")

	doc, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, doc.Realms["guild"]["alice"].Stash.Len())
}

func TestDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _ = f.svc.CreateAccount(ctx, alice, "Alice")
	require.NoError(t, f.svc.GiveItem(ctx, alice, f.sword))

	doc := f.svc.Document(ctx)
	require.Contains(t, doc.Realms, "guild")
	rec := doc.Realms["guild"]["alice"]
	assert.Equal(t, "Alice", rec.Name)
	assert.Equal(t, "2024-01-01 12:00:01", rec.CreatedAt)
	assert.True(t, rec.Stash.Has("Shortsword"))
}
