// internal/application/usecase/address_usecase.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	addressdom "storefront/internal/domain/address"
	"storefront/internal/platform/logger"
)

// AddressUsecase runs every address book change through Repository.Atomically,
// so the single-default rule is enforced against a consistent snapshot.
type AddressUsecase struct {
	repo  addressdom.Repository
	clock Clock
	newID func() string
	log   *logger.Logger
}

func NewAddressUsecase(repo addressdom.Repository) *AddressUsecase {
	return &AddressUsecase{
		repo:  repo,
		clock: systemClock{},
		newID: uuid.NewString,
		log:   logger.Nop(),
	}
}

func (uc *AddressUsecase) WithClock(c Clock) *AddressUsecase {
	uc.clock = orSystemClock(c)
	return uc
}

// WithIDGenerator replaces uuid generation (tests).
func (uc *AddressUsecase) WithIDGenerator(gen func() string) *AddressUsecase {
	if gen != nil {
		uc.newID = gen
	}
	return uc
}

func (uc *AddressUsecase) WithLogger(l *logger.Logger) *AddressUsecase {
	uc.log = logger.OrNop(l).Component("address_uc")
	return uc
}

// Create adds an address. The user's first address is always the default.
func (uc *AddressUsecase) Create(ctx context.Context, userID string, f addressdom.Fields) (addressdom.Address, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return addressdom.Address{}, err
	}

	id := uc.newID()
	var out addressdom.Address
	err = uc.repo.Atomically(ctx, uid, func(b *addressdom.Book) error {
		a, err := b.Add(id, f, uc.clock.Now())
		if err != nil {
			return err
		}
		out = a
		return b.CheckInvariant()
	})
	if err != nil {
		return addressdom.Address{}, err
	}
	uc.log.Info("address created", "userId", uid, "addressId", out.ID, "isDefault", out.IsDefault)
	return out, nil
}

// Update applies a partial patch to one of the user's addresses.
func (uc *AddressUsecase) Update(ctx context.Context, id, userID string, p addressdom.Patch) (addressdom.Address, error) {
	uid, aid, err := normalizeAddressArgs(id, userID)
	if err != nil {
		return addressdom.Address{}, err
	}

	var out addressdom.Address
	err = uc.repo.Atomically(ctx, uid, func(b *addressdom.Book) error {
		a, err := b.Update(aid, p, uc.clock.Now())
		if err != nil {
			return err
		}
		out = a
		return b.CheckInvariant()
	})
	if err != nil {
		return addressdom.Address{}, err
	}
	return out, nil
}

// Delete removes an address, promoting the newest remaining one when the default goes.
func (uc *AddressUsecase) Delete(ctx context.Context, id, userID string) error {
	uid, aid, err := normalizeAddressArgs(id, userID)
	if err != nil {
		return err
	}

	return uc.repo.Atomically(ctx, uid, func(b *addressdom.Book) error {
		promoted, err := b.Delete(aid, uc.clock.Now())
		if err != nil {
			return err
		}
		if promoted != nil {
			uc.log.Info("default address promoted", "userId", uid, "addressId", promoted.ID)
		}
		return b.CheckInvariant()
	})
}

// SetDefault makes id the user's only default address.
func (uc *AddressUsecase) SetDefault(ctx context.Context, id, userID string) (addressdom.Address, error) {
	uid, aid, err := normalizeAddressArgs(id, userID)
	if err != nil {
		return addressdom.Address{}, err
	}

	var out addressdom.Address
	err = uc.repo.Atomically(ctx, uid, func(b *addressdom.Book) error {
		a, err := b.SetDefault(aid, uc.clock.Now())
		if err != nil {
			return err
		}
		out = a
		return b.CheckInvariant()
	})
	if err != nil {
		return addressdom.Address{}, err
	}
	return out, nil
}

// List returns the user's addresses, default first then newest first.
func (uc *AddressUsecase) List(ctx context.Context, userID string) ([]addressdom.Address, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	addressdom.SortForDisplay(list)
	return list, nil
}

// Get returns one address; ids owned by someone else are reported as not found.
func (uc *AddressUsecase) Get(ctx context.Context, id, userID string) (addressdom.Address, error) {
	uid, aid, err := normalizeAddressArgs(id, userID)
	if err != nil {
		return addressdom.Address{}, err
	}
	list, err := uc.repo.ListByUser(ctx, uid)
	if err != nil {
		return addressdom.Address{}, err
	}
	for _, a := range list {
		if a.ID == aid {
			return a, nil
		}
	}
	return addressdom.Address{}, fmt.Errorf("%w: id=%s", addressdom.ErrNotFound, aid)
}

func normalizeAddressArgs(id, userID string) (string, string, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return "", "", err
	}
	aid := strings.TrimSpace(id)
	if aid == "" {
		return "", "", addressdom.ErrInvalidID
	}
	return uid, aid, nil
}
