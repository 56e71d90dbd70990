// Package shop sells catalog items to registered accounts.
package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/osse101/armorsmith/internal/domain"
	"github.com/osse101/armorsmith/internal/item"
	"github.com/osse101/armorsmith/internal/metrics"
)

// Bank moves currency for a purchase. Withdraw fails with
// domain.ErrInsufficientFunds when the balance does not cover amount.
type Bank interface {
	Withdraw(ctx context.Context, id domain.Identity, amount int) error
	Deposit(ctx context.Context, id domain.Identity, amount int) error
}

// Registry is the part of the account registry a purchase touches
type Registry interface {
	AccountExists(ctx context.Context, id domain.Identity) bool
	GiveItem(ctx context.Context, id domain.Identity, item domain.Item) error
}

// Listing is one category of the shop window
type Listing struct {
	Category domain.Category
	Items    []domain.Item
}

// Service lists and sells catalog items
type Service interface {
	Catalog(ctx context.Context) []Listing
	Buy(ctx context.Context, id domain.Identity, itemName string) (domain.Item, error)
}

type service struct {
	catalog  *item.Catalog
	registry Registry
	bank     Bank
	log      *slog.Logger
}

// NewService creates a shop over catalog. A nil bank makes every item free.
func NewService(catalog *item.Catalog, registry Registry, bank Bank, log *slog.Logger) Service {
	if bank == nil {
		bank = FreeBank{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{
		catalog:  catalog,
		registry: registry,
		bank:     bank,
		log:      log,
	}
}

func (s *service) Catalog(_ context.Context) []Listing {
	listings := make([]Listing, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		listings = append(listings, Listing{Category: c, Items: s.catalog.Category(c)})
	}
	return listings
}

func (s *service) Buy(ctx context.Context, id domain.Identity, itemName string) (domain.Item, error) {
	s.log.DebugContext(ctx, LogMsgBuyItemCalled, "account", id.Key(), "item", itemName)

	it, err := s.catalog.Lookup(itemName)
	if err != nil {
		return domain.Item{}, err
	}
	if !s.registry.AccountExists(ctx, id) {
		return domain.Item{}, fmt.Errorf("%w: %s", domain.ErrNoAccount, id)
	}

	if err := s.bank.Withdraw(ctx, id, it.Cost); err != nil {
		return domain.Item{}, fmt.Errorf("%s: %w", ErrMsgWithdrawFailed, err)
	}

	if err := s.registry.GiveItem(ctx, id, it); err != nil {
		if refundErr := s.bank.Deposit(ctx, id, it.Cost); refundErr != nil {
			s.log.ErrorContext(ctx, LogMsgRefundFailed, "account", id.Key(), "item", it.Name, "cost", it.Cost, "error", refundErr)
			return domain.Item{}, errors.Join(
				fmt.Errorf("%s: %w", ErrMsgGiveFailed, err),
				fmt.Errorf("%s: %w", ErrMsgRefundFailed, refundErr),
			)
		}
		s.log.WarnContext(ctx, LogMsgPurchaseRefund, "account", id.Key(), "item", it.Name, "cost", it.Cost)
		return domain.Item{}, fmt.Errorf("%s: %w", ErrMsgGiveFailed, err)
	}

	metrics.ItemsBought.WithLabelValues(it.Name).Inc()
	s.log.InfoContext(ctx, LogMsgItemPurchased, "account", id.Key(), "item", it.Name, "cost", it.Cost)
	return it, nil
}

// FreeBank never charges
type FreeBank struct{}

func (FreeBank) Withdraw(context.Context, domain.Identity, int) error { return nil }

func (FreeBank) Deposit(context.Context, domain.Identity, int) error { return nil }

// MemoryBank keeps balances in memory. Unknown accounts start at zero.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[domain.Identity]int
}

// NewMemoryBank creates an empty MemoryBank
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{balances: make(map[domain.Identity]int)}
}

// Balance returns the current balance for id
func (b *MemoryBank) Balance(id domain.Identity) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[id]
}

func (b *MemoryBank) Withdraw(_ context.Context, id domain.Identity, amount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[id] < amount {
		return fmt.Errorf("%w: balance %d, cost %d", domain.ErrInsufficientFunds, b.balances[id], amount)
	}
	b.balances[id] -= amount
	return nil
}

func (b *MemoryBank) Deposit(_ context.Context, id domain.Identity, amount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[id] += amount
	return nil
}
