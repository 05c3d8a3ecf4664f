package domain

// IdentityKind distinguishes authenticated users from anonymous guests.
type IdentityKind string

const (
	IdentityUser  IdentityKind = "user"
	IdentityGuest IdentityKind = "guest"
)

// Identity is the resolved actor behind a request. Exactly one of UserID
// and GuestID is set, matching Kind.
type Identity struct {
	Kind    IdentityKind
	UserID  string
	GuestID string
}

func UserIdentity(userID string) Identity {
	return Identity{Kind: IdentityUser, UserID: userID}
}

func GuestIdentity(guestID string) Identity {
	return Identity{Kind: IdentityGuest, GuestID: guestID}
}

func (i Identity) IsGuest() bool {
	return i.Kind == IdentityGuest
}
