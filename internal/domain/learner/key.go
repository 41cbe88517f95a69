package learner

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrEmptyKey = errors.New("learner id is required")

// KeyFor maps an inbound learner identifier onto the learner primary key.
// UUIDs pass through; any other value is hashed into a stable UUIDv5 so the
// same free-form id ("user-ana", "ana") always addresses the same row.
func KeyFor(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, ErrEmptyKey
	}
	if id, err := uuid.Parse(raw); err == nil {
		if id == uuid.Nil {
			return uuid.Nil, ErrEmptyKey
		}
		return id, nil
	}
	name := strings.TrimPrefix(raw, "user-")
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte("user_"+name)), nil
}
