package domain

import "time"

// TimestampLayout is the persisted form of Account.CreatedAt (UTC)
const TimestampLayout = "2006-01-02 15:04:05"

// Account is one user's record inside a realm. Accounts are treated as
// values: mutate a Clone and swap it in, never edit a shared record.
type Account struct {
	Realm     string
	UserID    string
	Name      string
	CreatedAt time.Time
	Stash     Stash
	Equipment Equipment
}

// NewAccount creates an empty account created at now, truncated to the
// precision the persisted document keeps
func NewAccount(id Identity, name string, now time.Time) *Account {
	return &Account{
		Realm:     id.Realm,
		UserID:    id.User,
		Name:      name,
		CreatedAt: now.UTC().Truncate(time.Second),
	}
}

// Identity returns the account's key
func (a *Account) Identity() Identity {
	return Identity{Realm: a.Realm, User: a.UserID}
}

// Clone returns a deep copy
func (a *Account) Clone() *Account {
	out := *a
	out.Stash = a.Stash.Clone()
	out.Equipment = a.Equipment.Clone()
	return &out
}

// Give stores item in the stash, overwriting an item of the same name. An
// equipped item that gets overwritten is refreshed in its slot, or unequipped
// if the new item belongs to another category.
func (a *Account) Give(item Item) {
	if old, ok := a.Stash.Get(item.Name); ok && a.Equipment.IsEquipped(old) {
		a.Equipment.Clear(old.Type)
		if old.Type == item.Type {
			a.Equipment.Set(item)
		}
	}
	a.Stash.Put(item)
}

// SanitizeEquipment clears any slot whose item is no longer in the stash and
// reports the cleared categories. A stash item whose dice stat fits the slot
// it is equipped in is re-tagged to that slot's category first.
func (a *Account) SanitizeEquipment() []Category {
	var cleared []Category
	for _, c := range Categories {
		slot := a.Equipment.Slot(c)
		if slot == nil {
			continue
		}
		stored, ok := a.Stash.Get(slot.Name)
		if ok && stored.Type != c {
			if retagged, fits := stored.As(c); fits {
				a.Stash.Put(retagged)
				stored = retagged
			}
		}
		if !ok || stored.Type != c {
			a.Equipment.Clear(c)
			cleared = append(cleared, c)
		}
	}
	return cleared
}

// Remove takes the named item out of the stash and clears its equipment
// slot if it was equipped. It reports whether the item was present.
func (a *Account) Remove(item Item) bool {
	stored, ok := a.Stash.Get(item.Name)
	if !ok {
		return false
	}
	a.Stash.Remove(item.Name)
	if a.Equipment.IsEquipped(stored) {
		a.Equipment.Clear(stored.Type)
	}
	return true
}

// Equip marks a stash item as active in its slot. It reports false when the
// item is not in the stash.
func (a *Account) Equip(item Item) bool {
	stored, ok := a.Stash.Get(item.Name)
	if !ok {
		return false
	}
	a.Equipment.Set(stored)
	return true
}
