package persistence

import (
	"errors"
	"fmt"
	"personad/internal/persistence/interfaces"
)

var ErrQuotaExceeded = errors.New("storage quota exceeded")

// QuotaMedium rejects any single write larger than limit bytes. A rejected
// write leaves the previous value of the key untouched.
type QuotaMedium struct {
	interfaces.MediumInterface
	limit int
}

func NewQuotaMedium(inner interfaces.MediumInterface, limit int) interfaces.MediumInterface {
	if limit <= 0 {
		return inner
	}
	return &QuotaMedium{MediumInterface: inner, limit: limit}
}

func (q *QuotaMedium) SetItem(key string, value []byte) error {
	if len(value) > q.limit {
		return fmt.Errorf("write %s (%d bytes, limit %d): %w", key, len(value), q.limit, ErrQuotaExceeded)
	}
	return q.MediumInterface.SetItem(key, value)
}
