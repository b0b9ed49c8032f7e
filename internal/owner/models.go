package owner

import (
	"time"

	"github.com/google/uuid"
)

// Owner is a business owner record. Owners are always accessed through the
// manager (actor) relationship; there is no unscoped lookup.
type Owner struct {
	ID         uuid.UUID
	ManagerID  uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	TaxID      string
	IDNumber   string
	IDType     string
	Street     string
	City       string
	State      string
	PostalCode string
	CreatedAt  time.Time
}
