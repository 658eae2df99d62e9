package models

// Role values the storefront API assigns to accounts.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
)

// StatusVerified is the account status for verified users.
const StatusVerified = "Verified"

// UserProfile is the user object returned by auth/login and cached locally.
type UserProfile struct {
	ID             string  `json:"_id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Role           Role    `json:"role"`
	Status         string  `json:"status"`
	StoreID        *string `json:"storeId,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// IsSeller reports whether the account is a seller account.
func (u *UserProfile) IsSeller() bool {
	return u != nil && u.Role == RoleSeller
}

// IsVerified reports whether the account status is Verified.
func (u *UserProfile) IsVerified() bool {
	return u != nil && u.Status == StatusVerified
}

// NeedsStoreSetup is true for sellers that have no store yet.
func (u *UserProfile) NeedsStoreSetup() bool {
	return u.IsSeller() && (u.StoreID == nil || *u.StoreID == "")
}

// FullName joins first and last name.
func (u *UserProfile) FullName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session is the credential plus cached profile. An empty token is guest mode,
// whatever User holds.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user,omitempty"`
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
