package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyOwner = errors.New("customer owner id is required")

// Customer links an authenticated account owner to the retail profile that
// orders are placed against.
type Customer struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

// NewCustomer validates and constructs a customer profile.
func NewCustomer(id, ownerID uuid.UUID, firstName, lastName, email string) (*Customer, error) {
	if ownerID == uuid.Nil {
		return nil, ErrEmptyOwner
	}
	return &Customer{
		ID:        id,
		OwnerID:   ownerID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}
