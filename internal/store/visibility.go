package store

// Viewer is the capability a request carries into the read path. It is
// derived from the session by the HTTP layer and passed down explicitly,
// so the store never inspects sessions itself.
type Viewer int

const (
	// ViewerPublic sees only approved moderated content.
	ViewerPublic Viewer = iota
	// ViewerStaff sees every status.
	ViewerStaff
)

// publicationVisible decides which posts/pages a list request returns.
// An explicit status filter wins; without one the default is published,
// for staff and public alike (admin screens ask for drafts explicitly).
func publicationVisible(status, statusFilter string) bool {
	if statusFilter != "" {
		return status == statusFilter
	}
	return status == "published"
}

// moderationVisible decides which comments/reviews a list request
// returns. An explicit status filter wins; otherwise the public sees
// approved items only and staff sees everything.
func moderationVisible(status, statusFilter string, viewer Viewer) bool {
	if statusFilter != "" {
		return status == statusFilter
	}
	if viewer == ViewerStaff {
		return true
	}
	return status == "approved"
}
