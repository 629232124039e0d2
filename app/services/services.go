// Package services holds the store's business logic. Each service owns
// one slice of the domain, takes its repositories and collaborators at
// construction, and returns classified faults the transport layer maps
// onto the wire.
package services

import (
	"errors"

	"gorm.io/gorm"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
