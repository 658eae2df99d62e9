package database

// Keys names the storage keys the session/cart store owns.
type Keys struct {
	Token     string
	User      string
	Cart      string
	Favorites string
}

// DefaultKeys returns the standard key names, each prefixed with prefix so
// several profiles can share one Redis or SQLite store.
func DefaultKeys(prefix string) Keys {
	return Keys{
		Token:     prefix + "userToken",
		User:      prefix + "userData",
		Cart:      prefix + "cart",
		Favorites: prefix + "favorites",
	}
}
