// internal/adapters/out/db/address_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	dbcommon "storefront/internal/adapters/out/db/common"
	addressdom "storefront/internal/domain/address"
	"storefront/internal/domain/common"
)

// AddressDDL creates the address table. The partial unique index lets the
// database itself reject a second default for the same user.
const AddressDDL = `
CREATE TABLE IF NOT EXISTS shipping_addresses (
  id                    TEXT PRIMARY KEY,
  user_id               TEXT        NOT NULL,
  full_name             TEXT        NOT NULL,
  mobile_number         TEXT        NOT NULL,
  email                 TEXT        NOT NULL DEFAULT '',
  shipping_address      TEXT        NOT NULL,
  landmark              TEXT        NOT NULL DEFAULT '',
  pin_code              TEXT        NOT NULL,
  city                  TEXT        NOT NULL,
  state                 TEXT        NOT NULL,
  country               TEXT        NOT NULL,
  is_default            BOOLEAN     NOT NULL DEFAULT FALSE,
  delivery_instructions TEXT        NOT NULL DEFAULT '',
  created_at            TIMESTAMPTZ NOT NULL,
  updated_at            TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shipping_addresses_user
  ON shipping_addresses(user_id);

CREATE UNIQUE INDEX IF NOT EXISTS uq_shipping_addresses_one_default
  ON shipping_addresses(user_id) WHERE is_default;
`

// AddressRepositoryPG implements address.Repository on PostgreSQL.
// Each Atomically call holds a per-user advisory lock for the life of its transaction.
type AddressRepositoryPG struct {
	DB *sql.DB
}

func NewAddressRepositoryPG(db *sql.DB) *AddressRepositoryPG {
	return &AddressRepositoryPG{DB: db}
}

const addressColumns = `
  id, user_id, full_name, mobile_number, email, shipping_address, landmark,
  pin_code, city, state, country, is_default, delivery_instructions,
  created_at, updated_at`

func (r *AddressRepositoryPG) Atomically(ctx context.Context, userID string, fn func(b *addressdom.Book) error) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("address_repository_pg: userID is empty")
	}

	return dbcommon.WithTx(ctx, r.DB, func(ctx context.Context) error {
		run := dbcommon.GetRunner(ctx, r.DB)

		if _, err := run.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "address_book:"+uid); err != nil {
			return fmt.Errorf("address_repository_pg: lock: %w", err)
		}

		stored, err := r.listByUser(ctx, run, uid)
		if err != nil {
			return err
		}

		b := addressdom.NewBook(uid, stored)
		if err := fn(b); err != nil {
			return err
		}

		upserts, deletes := b.Changes()
		for _, id := range deletes {
			if _, err := run.ExecContext(ctx,
				`DELETE FROM shipping_addresses WHERE id = $1 AND user_id = $2`, id, uid); err != nil {
				return fmt.Errorf("address_repository_pg: delete %s: %w", id, err)
			}
		}
		// Changes() orders demotions before the promotion, which keeps
		// uq_shipping_addresses_one_default satisfied statement by statement.
		for _, a := range upserts {
			if err := upsertAddress(ctx, run, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AddressRepositoryPG) ListByUser(ctx context.Context, userID string) ([]addressdom.Address, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("address_repository_pg: userID is empty")
	}
	return r.listByUser(ctx, dbcommon.GetRunner(ctx, r.DB), uid)
}

func (r *AddressRepositoryPG) listByUser(ctx context.Context, run dbcommon.Runner, uid string) ([]addressdom.Address, error) {
	rows, err := run.QueryContext(ctx, `SELECT`+addressColumns+`
FROM shipping_addresses
WHERE user_id = $1
ORDER BY created_at, id`, uid)
	if err != nil {
		return nil, fmt.Errorf("address_repository_pg: list: %w", err)
	}
	defer rows.Close()

	var out []addressdom.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func upsertAddress(ctx context.Context, run dbcommon.Runner, a addressdom.Address) error {
	const q = `
INSERT INTO shipping_addresses (` + addressColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (id) DO UPDATE SET
  full_name             = EXCLUDED.full_name,
  mobile_number         = EXCLUDED.mobile_number,
  email                 = EXCLUDED.email,
  shipping_address      = EXCLUDED.shipping_address,
  landmark              = EXCLUDED.landmark,
  pin_code              = EXCLUDED.pin_code,
  city                  = EXCLUDED.city,
  state                 = EXCLUDED.state,
  country               = EXCLUDED.country,
  is_default            = EXCLUDED.is_default,
  delivery_instructions = EXCLUDED.delivery_instructions,
  updated_at            = EXCLUDED.updated_at
WHERE shipping_addresses.user_id = EXCLUDED.user_id`

	_, err := run.ExecContext(ctx, q,
		a.ID, a.UserID, a.FullName, a.MobileNumber, a.Email, a.ShippingAddress, a.Landmark,
		a.PinCode, a.City, a.State, a.Country, a.IsDefault, a.DeliveryInstructions,
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return fmt.Errorf("%w: address_repository_pg: user %s already has a default address", common.ErrDuplicate, a.UserID)
		}
		return fmt.Errorf("address_repository_pg: upsert %s: %w", a.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(s rowScanner) (addressdom.Address, error) {
	var (
		a                  addressdom.Address
		createdAt, updated time.Time
	)
	if err := s.Scan(
		&a.ID, &a.UserID, &a.FullName, &a.MobileNumber, &a.Email, &a.ShippingAddress, &a.Landmark,
		&a.PinCode, &a.City, &a.State, &a.Country, &a.IsDefault, &a.DeliveryInstructions,
		&createdAt, &updated,
	); err != nil {
		return addressdom.Address{}, fmt.Errorf("address_repository_pg: scan: %w", err)
	}
	a.CreatedAt = createdAt.UTC()
	a.UpdatedAt = updated.UTC()
	return a, nil
}
