// Package access computes allow/deny decisions for every resource the API
// exposes. The whole policy is a pure function of (actor, resource kind,
// action, ownership) so it can be unit tested as a truth table without any
// I/O.
package access

import "reviewhub/internal/http-api/models"

// Kind groups the resources the engine knows about. Category, Genre and
// Title form the admin-curated catalog; Review and Comment are
// user-generated content.
type Kind int

const (
	KindCategory Kind = iota
	KindGenre
	KindTitle
	KindReview
	KindComment
	KindUser
)

type Action int

const (
	List Action = iota
	Retrieve
	Create
	Update
	PartialUpdate
	Destroy
)

// Decision is the outcome of an authorization check. Unauthenticated maps
// to HTTP 401, Forbidden to 403.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

// Actor is the identity attached to a request. The zero value is the
// anonymous actor.
type Actor struct {
	ID            string
	Role          string
	Superuser     bool
	Authenticated bool
}

// Anonymous is the actor for requests without credentials.
var Anonymous = Actor{}

func (a Actor) privileged() bool {
	return a.Authenticated && (a.Role == models.RoleAdmin || a.Superuser)
}

func (a Actor) canModerate() bool {
	return a.Authenticated && (a.Role == models.RoleModerator || a.privileged())
}

func (act Action) safe() bool {
	return act == List || act == Retrieve
}

// Authorize decides whether actor may perform action on a resource of the
// given kind. ownerID is the author of the resource for content kinds and
// is ignored otherwise; pass "" when there is no specific resource (list,
// create).
func Authorize(actor Actor, kind Kind, action Action, ownerID string) Decision {
	switch kind {
	case KindCategory, KindGenre, KindTitle:
		return authorizeCatalog(actor, action)
	case KindReview, KindComment:
		return authorizeContent(actor, action, ownerID)
	case KindUser:
		return authorizeUser(actor)
	}
	return Forbidden
}

// Catalog: anyone may read, only admins and superusers may write.
func authorizeCatalog(actor Actor, action Action) Decision {
	if action.safe() {
		return Allow
	}
	if !actor.Authenticated {
		return Unauthenticated
	}
	if actor.privileged() {
		return Allow
	}
	return Forbidden
}

// Content: anyone may read, any authenticated user may create, and
// mutation is reserved for the author, moderators, admins and superusers.
func authorizeContent(actor Actor, action Action, ownerID string) Decision {
	if action.safe() {
		return Allow
	}
	if !actor.Authenticated {
		return Unauthenticated
	}
	if action == Create {
		return Allow
	}
	if actor.canModerate() || (ownerID != "" && actor.ID == ownerID) {
		return Allow
	}
	return Forbidden
}

// User records: admin/superuser only. Self service goes through the
// dedicated "me" endpoint, which is a separate contract outside this
// table.
func authorizeUser(actor Actor) Decision {
	if !actor.Authenticated {
		return Unauthenticated
	}
	if actor.privileged() {
		return Allow
	}
	return Forbidden
}
