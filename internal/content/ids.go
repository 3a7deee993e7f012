package content

import "github.com/google/uuid"

// NewID mints an identifier for a newly created entity (video, banner, block,
// chip, footer icon, pick, place). Identifiers are never reused.
func NewID() string {
	return uuid.NewString()
}
