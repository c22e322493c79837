package port

import "github.com/bnema/vodforge/internal/domain"

// StatusStore persists video status records, keyed by name. Insert upserts:
// re-submitting a name resets its record rather than erroring.
type StatusStore interface {
	Insert(record *domain.VideoStatus) error
	UpdateStatus(name string, status domain.EncodingStatus, errMsg string) error
	FindByName(name string) (*domain.VideoStatus, error)
}
