package authorization

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Authorization status constants
const (
	StatusValid   = "valid"
	StatusRevoked = "revoked"
)

// Authorization type constants
const (
	TypePermanent = "permanent"
	TypeAdHoc     = "ad_hoc"
)

// Authorization represents a persisted grant allowing silent reuse of a
// previously granted scope set without repeating consent. Records are never
// mutated after creation; revocation is an external administrative concern.
type Authorization struct {
	ID        uuid.UUID
	Subject   string
	ClientID  string
	Scopes    []string
	Status    string
	Type      string
	CreatedAt time.Time
}

// ScopesKey returns the canonical key for a scope set: sorted and
// space-joined. Two scope sets are equal exactly when their keys are equal,
// regardless of request order.
func ScopesKey(scopes []string) string {
	sorted := make([]string, len(scopes))
	copy(sorted, scopes)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}
