// internal/adapters/out/firestore/address_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	addressdom "storefront/internal/domain/address"
)

// AddressRepositoryFS implements address.Repository using Firestore.
//
// - collection "shippingAddresses": one doc per address (docId = address id, field userId)
// - collection "addressBooks": one lock doc per user (docId = userId)
//
// Every Atomically call reads and rewrites the user's lock doc inside the
// transaction, so two concurrent book changes for the same user conflict and
// Firestore retries one of them against the other's result.
type AddressRepositoryFS struct {
	Client         *firestore.Client
	Collection     string
	LockCollection string
}

func NewAddressRepositoryFS(client *firestore.Client) *AddressRepositoryFS {
	return &AddressRepositoryFS{
		Client:         client,
		Collection:     "shippingAddresses",
		LockCollection: "addressBooks",
	}
}

func (r *AddressRepositoryFS) check(userID string) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("address_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return "", errors.New("address_repository_fs: userID is empty")
	}
	return uid, nil
}

func (r *AddressRepositoryFS) byUser(uid string) firestore.Query {
	return r.Client.Collection(r.Collection).Where("userId", "==", uid)
}

func (r *AddressRepositoryFS) Atomically(ctx context.Context, userID string, fn func(b *addressdom.Book) error) error {
	uid, err := r.check(userID)
	if err != nil {
		return err
	}
	lockRef := r.Client.Collection(r.LockCollection).Doc(uid)
	col := r.Client.Collection(r.Collection)

	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// reads first (Firestore requires all reads before writes)
		if _, err := tx.Get(lockRef); err != nil && !isNotFound(err) {
			return err
		}
		stored, err := readAddresses(tx.Documents(r.byUser(uid)))
		if err != nil {
			return err
		}

		b := addressdom.NewBook(uid, stored)
		if err := fn(b); err != nil {
			return err
		}

		upserts, deletes := b.Changes()
		for _, id := range deletes {
			if err := tx.Delete(col.Doc(id)); err != nil {
				return err
			}
		}
		for _, a := range upserts {
			if err := tx.Set(col.Doc(a.ID), addressToDocData(a)); err != nil {
				return err
			}
		}
		return tx.Set(lockRef, map[string]any{
			"userId":    uid,
			"count":     b.Len(),
			"updatedAt": time.Now().UTC(),
		})
	})
}

func (r *AddressRepositoryFS) ListByUser(ctx context.Context, userID string) ([]addressdom.Address, error) {
	uid, err := r.check(userID)
	if err != nil {
		return nil, err
	}
	return readAddresses(r.byUser(uid).Documents(ctx))
}

func readAddresses(it *firestore.DocumentIterator) ([]addressdom.Address, error) {
	defer it.Stop()
	var out []addressdom.Address
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("address_repository_fs: iterate: %w", err)
		}
		out = append(out, docToAddress(snap))
	}
	return out, nil
}

func docToAddress(snap *firestore.DocumentSnapshot) addressdom.Address {
	m := snap.Data()
	a := addressdom.Address{
		ID:                   snap.Ref.ID,
		UserID:               asString(m["userId"]),
		FullName:             asString(m["fullName"]),
		MobileNumber:         asString(m["mobileNumber"]),
		Email:                asString(m["email"]),
		ShippingAddress:      asString(m["shippingAddress"]),
		Landmark:             asString(m["landmark"]),
		PinCode:              asString(m["pinCode"]),
		City:                 asString(m["city"]),
		State:                asString(m["state"]),
		Country:              asString(m["country"]),
		IsDefault:            asBool(m["isDefault"]),
		DeliveryInstructions: asString(m["deliveryInstructions"]),
	}
	a.CreatedAt, _ = asTime(m["createdAt"])
	a.UpdatedAt, _ = asTime(m["updatedAt"])
	return a
}

func addressToDocData(a addressdom.Address) map[string]any {
	return map[string]any{
		"userId":               a.UserID,
		"fullName":             a.FullName,
		"mobileNumber":         a.MobileNumber,
		"email":                a.Email,
		"shippingAddress":      a.ShippingAddress,
		"landmark":             a.Landmark,
		"pinCode":              a.PinCode,
		"city":                 a.City,
		"state":                a.State,
		"country":              a.Country,
		"isDefault":            a.IsDefault,
		"deliveryInstructions": a.DeliveryInstructions,
		"createdAt":            a.CreatedAt.UTC(),
		"updatedAt":            a.UpdatedAt.UTC(),
	}
}
