package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/osse101/armorsmith/internal/domain"
)

// AccountRecord is the persisted form of a realm-scoped account
type AccountRecord struct {
	Name      string           `json:"name"`
	Stash     domain.Stash     `json:"stash"`
	CreatedAt string           `json:"created_at"`
	Equipment domain.Equipment `json:"equipment"`
}

// LegacyRecord is an account stored under a bare user id, from before
// accounts were scoped by realm
type LegacyRecord struct {
	Name      string           `json:"name,omitempty"`
	Stash     domain.Stash     `json:"stash"`
	Equipment domain.Equipment `json:"equipment"`
}

// Document is the full persisted registry state: realm -> user -> record,
// plus any legacy records still waiting to be migrated
type Document struct {
	Realms map[string]map[string]AccountRecord
	Legacy map[string]LegacyRecord
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{
		Realms: make(map[string]map[string]AccountRecord),
		Legacy: make(map[string]LegacyRecord),
	}
}

// Accounts returns the number of realm-scoped accounts in the document
func (d *Document) Accounts() int {
	n := 0
	for _, users := range d.Realms {
		n += len(users)
	}
	return n
}

// ParkedLegacyKey holds legacy records whose user id is also a realm id, or is
// the key itself. No realm may use it.
const ParkedLegacyKey = "_legacy"

// MarshalJSON flattens realms and legacy records into one top-level object
func (d Document) MarshalJSON() ([]byte, error) {
	if _, ok := d.Realms[ParkedLegacyKey]; ok {
		return nil, fmt.Errorf("realm '%s' uses a reserved key", ParkedLegacyKey)
	}

	top := make(map[string]any, len(d.Realms)+len(d.Legacy)+1)
	parked := make(map[string]LegacyRecord)
	for user, rec := range d.Legacy {
		if _, clash := d.Realms[user]; clash || user == ParkedLegacyKey {
			parked[user] = rec
			continue
		}
		top[user] = rec
	}
	for realm, users := range d.Realms {
		top[realm] = users
	}
	if len(parked) > 0 {
		top[ParkedLegacyKey] = parked
	}
	return json.Marshal(top)
}

// UnmarshalJSON splits the top-level object into realms and legacy records
func (d *Document) UnmarshalJSON(data []byte) error {
	var top map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}

	*d = *NewDocument()
	for key, entry := range top {
		if key == ParkedLegacyKey {
			for user, raw := range entry {
				var rec LegacyRecord
				if err := json.Unmarshal(raw, &rec); err != nil {
					return fmt.Errorf("legacy record '%s': %w", user, err)
				}
				d.Legacy[user] = rec
			}
			continue
		}

		if isLegacyRecord(entry) {
			raw, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			var rec LegacyRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return fmt.Errorf("legacy record '%s': %w", key, err)
			}
			if _, dup := d.Legacy[key]; dup {
				return fmt.Errorf("legacy record '%s' is stored twice", key)
			}
			d.Legacy[key] = rec
			continue
		}

		users := make(map[string]AccountRecord, len(entry))
		for user, raw := range entry {
			var rec AccountRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return fmt.Errorf("account '%s:%s': %w", key, user, err)
			}
			users[user] = rec
		}
		d.Realms[key] = users
	}
	return nil
}

// isLegacyRecord tells a legacy record from a realm's user map. A legacy
// record only has name, stash and equipment keys, and its stash maps names to
// items. A realm account always carries string fields, so a user named
// "stash" never passes for a stash of items.
func isLegacyRecord(entry map[string]json.RawMessage) bool {
	stash, ok := entry["stash"]
	if !ok {
		return false
	}
	for key, raw := range entry {
		switch key {
		case "stash", "equipment":
		case "name":
			var name string
			if json.Unmarshal(raw, &name) != nil {
				return false
			}
		default:
			return false
		}
	}

	if bytes.Equal(bytes.TrimSpace(stash), []byte("null")) {
		return true
	}
	var items map[string]json.RawMessage
	if err := json.Unmarshal(stash, &items); err != nil {
		return false
	}
	for _, raw := range items {
		if raw = bytes.TrimSpace(raw); len(raw) == 0 || (raw[0] != '{' && raw[0] != '[') {
			return false
		}
	}
	return true
}

// RecordFromAccount converts an account to its persisted form
func RecordFromAccount(acc *domain.Account) AccountRecord {
	return AccountRecord{
		Name:      acc.Name,
		Stash:     acc.Stash.Clone(),
		CreatedAt: acc.CreatedAt.UTC().Format(domain.TimestampLayout),
		Equipment: acc.Equipment.Clone(),
	}
}

// ToAccount converts a persisted record back to an account
func (r AccountRecord) ToAccount(id domain.Identity) (*domain.Account, error) {
	var created time.Time
	if r.CreatedAt != "" {
		t, err := time.ParseInLocation(domain.TimestampLayout, r.CreatedAt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("account %s: bad created_at %q: %w", id, r.CreatedAt, err)
		}
		created = t
	}
	return &domain.Account{
		Realm:     id.Realm,
		UserID:    id.User,
		Name:      r.Name,
		CreatedAt: created,
		Stash:     r.Stash.Clone(),
		Equipment: r.Equipment.Clone(),
	}, nil
}
