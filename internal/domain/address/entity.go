// internal/domain/address/entity.go
package address

import (
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/common"
)

// DefaultCountry is used when the form leaves country empty.
const DefaultCountry = "India"

// Address is one shipping address of a user.
type Address struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	FullName             string    `json:"fullName"`
	MobileNumber         string    `json:"mobileNumber"`
	Email                string    `json:"email"`
	ShippingAddress      string    `json:"shippingAddress"`
	Landmark             string    `json:"landmark,omitempty"`
	PinCode              string    `json:"pinCode"`
	City                 string    `json:"city"`
	State                string    `json:"state"`
	Country              string    `json:"country"`
	IsDefault            bool      `json:"isDefault"`
	DeliveryInstructions string    `json:"deliveryInstructions,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Errors
var (
	ErrNotFound = fmt.Errorf("%w: address", common.ErrNotFound)

	ErrInvalidID              = fmt.Errorf("%w: address: invalid id", common.ErrInvalidArgument)
	ErrInvalidUserID          = fmt.Errorf("%w: address: invalid userId", common.ErrInvalidArgument)
	ErrInvalidFullName        = fmt.Errorf("%w: address: fullName is required", common.ErrInvalidArgument)
	ErrInvalidMobileNumber    = fmt.Errorf("%w: address: mobileNumber is required", common.ErrInvalidArgument)
	ErrInvalidEmail           = fmt.Errorf("%w: address: invalid email", common.ErrInvalidArgument)
	ErrInvalidShippingAddress = fmt.Errorf("%w: address: shippingAddress is required", common.ErrInvalidArgument)
	ErrInvalidPinCode         = fmt.Errorf("%w: address: pinCode is required", common.ErrInvalidArgument)
	ErrInvalidCity            = fmt.Errorf("%w: address: city is required", common.ErrInvalidArgument)
	ErrInvalidState           = fmt.Errorf("%w: address: state is required", common.ErrInvalidArgument)
	ErrInvalidCreatedAt       = fmt.Errorf("%w: address: invalid createdAt", common.ErrInvalidArgument)
	ErrInvalidUpdatedAt       = fmt.Errorf("%w: address: invalid updatedAt", common.ErrInvalidArgument)
)

// Fields is the form a user submits when creating an address.
type Fields struct {
	FullName             string `json:"fullName"`
	MobileNumber         string `json:"mobileNumber"`
	Email                string `json:"email"`
	ShippingAddress      string `json:"shippingAddress"`
	Landmark             string `json:"landmark"`
	PinCode              string `json:"pinCode"`
	City                 string `json:"city"`
	State                string `json:"state"`
	Country              string `json:"country"`
	IsDefault            bool   `json:"isDefault"`
	DeliveryInstructions string `json:"deliveryInstructions"`
}

// Patch is a partial update. nil fields are left untouched.
type Patch struct {
	FullName             *string `json:"fullName,omitempty"`
	MobileNumber         *string `json:"mobileNumber,omitempty"`
	Email                *string `json:"email,omitempty"`
	ShippingAddress      *string `json:"shippingAddress,omitempty"`
	Landmark             *string `json:"landmark,omitempty"`
	PinCode              *string `json:"pinCode,omitempty"`
	City                 *string `json:"city,omitempty"`
	State                *string `json:"state,omitempty"`
	Country              *string `json:"country,omitempty"`
	IsDefault            *bool   `json:"isDefault,omitempty"`
	DeliveryInstructions *string `json:"deliveryInstructions,omitempty"`
}

// New builds a validated address. IsDefault is decided by the Book, not here.
func New(id, userID string, f Fields, now time.Time) (Address, error) {
	now = now.UTC()
	a := Address{
		ID:                   strings.TrimSpace(id),
		UserID:               strings.TrimSpace(userID),
		FullName:             strings.TrimSpace(f.FullName),
		MobileNumber:         strings.TrimSpace(f.MobileNumber),
		Email:                strings.TrimSpace(f.Email),
		ShippingAddress:      strings.TrimSpace(f.ShippingAddress),
		Landmark:             strings.TrimSpace(f.Landmark),
		PinCode:              strings.TrimSpace(f.PinCode),
		City:                 strings.TrimSpace(f.City),
		State:                strings.TrimSpace(f.State),
		Country:              strings.TrimSpace(f.Country),
		DeliveryInstructions: strings.TrimSpace(f.DeliveryInstructions),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// apply copies the non-nil fields of p. IsDefault is handled by the Book.
func (a *Address) apply(p Patch, now time.Time) error {
	next := *a
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&next.FullName, p.FullName)
	set(&next.MobileNumber, p.MobileNumber)
	set(&next.Email, p.Email)
	set(&next.ShippingAddress, p.ShippingAddress)
	set(&next.Landmark, p.Landmark)
	set(&next.PinCode, p.PinCode)
	set(&next.City, p.City)
	set(&next.State, p.State)
	set(&next.Country, p.Country)
	set(&next.DeliveryInstructions, p.DeliveryInstructions)
	if next.Country == "" {
		next.Country = DefaultCountry
	}
	next.touch(now)

	if err := next.Validate(); err != nil {
		return err
	}
	*a = next
	return nil
}

func (a *Address) touch(now time.Time) {
	now = now.UTC()
	if now.Before(a.CreatedAt) {
		now = a.CreatedAt
	}
	a.UpdatedAt = now
}

// Validate checks required fields.
func (a Address) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrInvalidID
	}
	if strings.TrimSpace(a.UserID) == "" {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(a.FullName) == "" {
		return ErrInvalidFullName
	}
	if strings.TrimSpace(a.MobileNumber) == "" {
		return ErrInvalidMobileNumber
	}
	email := strings.TrimSpace(a.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(a.ShippingAddress) == "" {
		return ErrInvalidShippingAddress
	}
	if strings.TrimSpace(a.PinCode) == "" {
		return ErrInvalidPinCode
	}
	if strings.TrimSpace(a.City) == "" {
		return ErrInvalidCity
	}
	if strings.TrimSpace(a.State) == "" {
		return ErrInvalidState
	}
	if a.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	if a.UpdatedAt.IsZero() || a.UpdatedAt.Before(a.CreatedAt) {
		return ErrInvalidUpdatedAt
	}
	return nil
}
