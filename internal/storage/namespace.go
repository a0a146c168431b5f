package storage

// Key layout shared with any previously persisted storefront data. The names
// are a compatibility contract and must not change.
const (
	GuestCartKey = "cart_guest"

	cartKeyPrefix = "cart_"

	CredentialKey     = "token"
	ProfileNameKey    = "userName"
	ProfileSurnameKey = "userSurname"
	ProfileDniKey     = "userDni"
	ProfileEmailKey   = "userEmail"
	ProfilePhotoKey   = "userProfilePhoto"
)

// CartKey derives the storage key for the given identity token. An empty
// token selects the anonymous guest namespace. Pure function of its input.
func CartKey(identityToken string) string {
	if identityToken == "" {
		return GuestCartKey
	}
	return cartKeyPrefix + identityToken
}

// SessionKeys lists the credential and cached profile keys that are written
// at login and purged together when a credential is invalidated.
func SessionKeys() []string {
	return []string{
		CredentialKey,
		ProfileNameKey,
		ProfileSurnameKey,
		ProfileDniKey,
		ProfileEmailKey,
		ProfilePhotoKey,
	}
}
