package webhook

import (
	"github.com/focusnest/user-sync/internal/user"
)

// PlaceholderEmailDomain is used when Clerk supplies no email for an account.
const PlaceholderEmailDomain = "no-email.local"

// PrimaryEmail selects the account's primary email: the entry matching
// primary_email_address_id, else the first entry, else "".
func PrimaryEmail(d UserData) string {
	if primary := deref(d.PrimaryEmailAddressID); primary != "" {
		for _, e := range d.EmailAddresses {
			if e.ID == primary && e.EmailAddress != "" {
				return e.EmailAddress
			}
		}
	}
	if len(d.EmailAddresses) > 0 {
		return d.EmailAddresses[0].EmailAddress
	}
	return ""
}

// NormalizeCreate maps a user.created payload to the fields stored on first insert.
func NormalizeCreate(d UserData) user.NewUser {
	email := PrimaryEmail(d)
	if email == "" {
		email = d.ID + "@" + PlaceholderEmailDomain
	}

	return user.NewUser{
		ClerkID:   d.ID,
		Email:     email,
		Username:  username(d),
		FirstName: deref(d.FirstName),
		LastName:  deref(d.LastName),
		Photo:     firstNonEmpty(deref(d.ImageURL), deref(d.ProfileImageURL)),
	}
}

// NormalizeUpdate maps a user.updated payload to the reduced set of mutable fields.
// Email is not touched on update.
func NormalizeUpdate(d UserData) user.Update {
	name := username(d)
	first := deref(d.FirstName)
	last := deref(d.LastName)
	photo := deref(d.ImageURL)

	return user.Update{
		Username:  &name,
		FirstName: &first,
		LastName:  &last,
		Photo:     &photo,
	}
}

func username(d UserData) string {
	return firstNonEmpty(deref(d.Username), d.ID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
