// internal/domain/address/book.go
package address

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Book is every address of one user, loaded and changed as a unit.
//
// Invariant: when the book is non-empty exactly one address is default.
// Stores load a Book inside one atomic unit, let the caller mutate it,
// then persist Changes().
type Book struct {
	userID  string
	byID    map[string]*Address
	dirty   map[string]struct{}
	deleted map[string]struct{}
}

// NewBook wraps the stored addresses of userID.
func NewBook(userID string, stored []Address) *Book {
	b := &Book{
		userID:  strings.TrimSpace(userID),
		byID:    make(map[string]*Address, len(stored)),
		dirty:   map[string]struct{}{},
		deleted: map[string]struct{}{},
	}
	for i := range stored {
		a := stored[i]
		b.byID[a.ID] = &a
	}
	return b
}

func (b *Book) UserID() string { return b.userID }

func (b *Book) Len() int { return len(b.byID) }

// List returns addresses ordered default first, then newest first.
func (b *Book) List() []Address {
	out := make([]Address, 0, len(b.byID))
	for _, a := range b.byID {
		out = append(out, *a)
	}
	SortForDisplay(out)
	return out
}

// Get returns ErrNotFound for ids that are not in this user's book.
func (b *Book) Get(id string) (Address, error) {
	a, ok := b.byID[strings.TrimSpace(id)]
	if !ok {
		return Address{}, fmt.Errorf("%w: id=%s", ErrNotFound, id)
	}
	return *a, nil
}

// Default returns the current default address, if any.
func (b *Book) Default() (Address, bool) {
	for _, a := range b.byID {
		if a.IsDefault {
			return *a, true
		}
	}
	return Address{}, false
}

// Add creates a new address. The first address of a book is always default.
func (b *Book) Add(id string, f Fields, now time.Time) (Address, error) {
	a, err := New(id, b.userID, f, now)
	if err != nil {
		return Address{}, err
	}
	if _, exists := b.byID[a.ID]; exists {
		return Address{}, fmt.Errorf("%w: duplicate id=%s", ErrInvalidID, a.ID)
	}

	shouldBeDefault := len(b.byID) == 0 || f.IsDefault
	b.byID[a.ID] = &a
	b.markDirty(a.ID)
	if shouldBeDefault {
		b.makeDefault(a.ID, now)
	}
	return *b.byID[a.ID], nil
}

// Update applies a partial patch.
//
// IsDefault=true moves the default here. IsDefault=false is ignored: the default
// only moves when another address is promoted, so the book never ends up without one.
func (b *Book) Update(id string, p Patch, now time.Time) (Address, error) {
	a, ok := b.byID[strings.TrimSpace(id)]
	if !ok {
		return Address{}, fmt.Errorf("%w: id=%s", ErrNotFound, id)
	}
	if err := a.apply(p, now); err != nil {
		return Address{}, err
	}
	b.markDirty(a.ID)
	if p.IsDefault != nil && *p.IsDefault {
		b.makeDefault(a.ID, now)
	}
	return *a, nil
}

// SetDefault makes id the only default address.
func (b *Book) SetDefault(id string, now time.Time) (Address, error) {
	a, ok := b.byID[strings.TrimSpace(id)]
	if !ok {
		return Address{}, fmt.Errorf("%w: id=%s", ErrNotFound, id)
	}
	b.makeDefault(a.ID, now)
	return *a, nil
}

// Delete removes id. Deleting the default promotes the most recently created
// remaining address. The promoted address is returned when one was promoted.
func (b *Book) Delete(id string, now time.Time) (*Address, error) {
	key := strings.TrimSpace(id)
	a, ok := b.byID[key]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", ErrNotFound, id)
	}
	wasDefault := a.IsDefault
	delete(b.byID, key)
	delete(b.dirty, key)
	b.deleted[key] = struct{}{}

	if !wasDefault || len(b.byID) == 0 {
		return nil, nil
	}

	var next *Address
	for _, cand := range b.byID {
		if next == nil || newerThan(*cand, *next) {
			next = cand
		}
	}
	b.makeDefault(next.ID, now)
	promoted := *next
	return &promoted, nil
}

// Changes returns what the store must write: upserts ordered so that
// addresses losing the default flag are written before the one gaining it,
// and the ids to delete.
func (b *Book) Changes() (upserts []Address, deletes []string) {
	for id := range b.dirty {
		upserts = append(upserts, *b.byID[id])
	}
	sort.SliceStable(upserts, func(i, j int) bool {
		if upserts[i].IsDefault != upserts[j].IsDefault {
			return !upserts[i].IsDefault
		}
		return upserts[i].ID < upserts[j].ID
	})
	for id := range b.deleted {
		deletes = append(deletes, id)
	}
	sort.Strings(deletes)
	return upserts, deletes
}

// CheckInvariant reports a broken "exactly one default" rule.
func (b *Book) CheckInvariant() error {
	if len(b.byID) == 0 {
		return nil
	}
	n := 0
	for _, a := range b.byID {
		if a.IsDefault {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("address: user %s has %d default addresses", b.userID, n)
	}
	return nil
}

func (b *Book) makeDefault(id string, now time.Time) {
	for oid, a := range b.byID {
		want := oid == id
		if a.IsDefault == want {
			continue
		}
		a.IsDefault = want
		a.touch(now)
		b.markDirty(oid)
	}
}

func (b *Book) markDirty(id string) {
	b.dirty[id] = struct{}{}
}

func newerThan(a, b Address) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// SortForDisplay orders by isDefault desc, createdAt desc.
func SortForDisplay(list []Address) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].IsDefault != list[j].IsDefault {
			return list[i].IsDefault
		}
		return newerThan(list[i], list[j])
	})
}
