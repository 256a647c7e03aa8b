// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	cartdom "storefront/internal/domain/cart"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
// - collection: carts
// - docId: owner user id  ✅ (docId is the source of truth)
// - fields: lines(array), createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on "expiresAt".
type CartRepositoryFS struct {
	Client     *firestore.Client
	Collection string
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client, Collection: "carts"}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(r.Collection)
}

func (r *CartRepositoryFS) doc(ownerID string) (*firestore.DocumentRef, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(ownerID)
	if id == "" {
		return nil, errors.New("cart_repository_fs: ownerID is empty")
	}
	return r.col().Doc(id), nil
}

// EnsureExists creates the empty cart with Create, which fails with
// AlreadyExists instead of overwriting a concurrent creator.
func (r *CartRepositoryFS) EnsureExists(ctx context.Context, ownerID string, now time.Time) error {
	ref, err := r.doc(ownerID)
	if err != nil {
		return err
	}
	c, err := cartdom.NewCart(ref.ID, now)
	if err != nil {
		return err
	}
	if _, err := ref.Create(ctx, cartDocFromDomain(c)); err != nil && !isAlreadyExists(err) {
		return fmt.Errorf("cart_repository_fs: create %s: %w", ref.ID, err)
	}
	return nil
}

func (r *CartRepositoryFS) Get(ctx context.Context, ownerID string) (*cartdom.Cart, error) {
	ref, err := r.doc(ownerID)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: ownerId=%s", cartdom.ErrCartNotFound, ref.ID)
		}
		return nil, err
	}
	return cartFromSnapshot(snap)
}

// Update is a Firestore transaction: read, fn, validate, Set.
// Firestore retries the closure on contention, so fn sees a fresh cart each attempt.
func (r *CartRepositoryFS) Update(ctx context.Context, ownerID string, fn func(c *cartdom.Cart) error) (*cartdom.Cart, error) {
	ref, err := r.doc(ownerID)
	if err != nil {
		return nil, err
	}

	var out *cartdom.Cart
	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: ownerId=%s", cartdom.ErrCartNotFound, ref.ID)
			}
			return err
		}
		c, err := cartFromSnapshot(snap)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := tx.Set(ref, cartDocFromDomain(c)); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	ID        string        `firestore:"id"`
	Lines     []cartLineDoc `firestore:"lines"`
	CreatedAt time.Time     `firestore:"createdAt"`
	UpdatedAt time.Time     `firestore:"updatedAt"`
	ExpiresAt time.Time     `firestore:"expiresAt"`
}

type cartLineDoc struct {
	ProductID     string    `firestore:"productId"`
	Quantity      int       `firestore:"quantity"`
	SelectedColor string    `firestore:"selectedColor"`
	PriceAtAdd    string    `firestore:"priceAtAdd"` // decimal string
	AddedAt       time.Time `firestore:"addedAt"`
}

func cartDocFromDomain(c *cartdom.Cart) cartDoc {
	lines := make([]cartLineDoc, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, cartLineDoc{
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			SelectedColor: l.SelectedColor,
			PriceAtAdd:    l.PriceAtAdd.String(),
			AddedAt:       l.AddedAt,
		})
	}
	return cartDoc{
		ID:        c.ID,
		Lines:     lines,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}

// cartFromSnapshot parses snap.Data() by hand instead of DataTo so a line with a
// malformed field is reported with its position rather than as a generic decode error.
func cartFromSnapshot(snap *firestore.DocumentSnapshot) (*cartdom.Cart, error) {
	if snap == nil {
		return nil, errors.New("cart_repository_fs: snapshot is nil")
	}
	raw := snap.Data()

	c := &cartdom.Cart{
		// ✅ docId wins over any stored id field
		ID:    snap.Ref.ID,
		Lines: []cartdom.Line{},
	}
	c.CreatedAt, _ = asTime(raw["createdAt"])
	c.UpdatedAt, _ = asTime(raw["updatedAt"])
	c.ExpiresAt, _ = asTime(raw["expiresAt"])

	rawLines, _ := raw["lines"].([]any)
	for i, v := range rawLines {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cart_repository_fs: %s lines[%d] has type %T", c.ID, i, v)
		}
		price, err := asDecimal(m["priceAtAdd"])
		if err != nil {
			return nil, fmt.Errorf("cart_repository_fs: %s lines[%d].priceAtAdd: %w", c.ID, i, err)
		}
		addedAt, _ := asTime(m["addedAt"])
		c.Lines = append(c.Lines, cartdom.Line{
			ProductID:     strings.TrimSpace(asString(m["productId"])),
			Quantity:      asInt(m["quantity"]),
			SelectedColor: strings.TrimSpace(asString(m["selectedColor"])),
			PriceAtAdd:    price,
			AddedAt:       addedAt,
		})
	}
	return c, nil
}
