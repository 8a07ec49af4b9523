package model

// ClientCredentials are the long lived credentials used to obtain new access tokens.
type ClientCredentials struct {
	RefreshToken string
	ClientID     string
	ClientSecret string
}

// CredentialState is the currently known access token state of a rotation run.
type CredentialState struct {
	// AccessToken is the held token, empty when none is available.
	AccessToken string
	// Valid is set once the token has been probed successfully.
	Valid       bool
	Credentials ClientCredentials
}

// RotationState is the state of the credential rotation state machine.
type RotationState string

const (
	RotationStateUnknown    RotationState = "unknown"
	RotationStateProbing    RotationState = "probing"
	RotationStateValid      RotationState = "valid"
	RotationStateInvalid    RotationState = "invalid"
	RotationStateRefreshing RotationState = "refreshing"
	RotationStateRefreshed  RotationState = "refreshed"
	RotationStatePublishing RotationState = "publishing"
	RotationStatePublished  RotationState = "published"
	// RotationStatePrinted is reached when the refreshed token is only reported locally.
	RotationStatePrinted RotationState = "printed"
)

// Terminal returns true if no transition leaves the state.
func (s RotationState) Terminal() bool {
	switch s {
	case RotationStateValid, RotationStatePublished, RotationStatePrinted:
		return true
	}
	return false
}

// PublicKey is the repository public key used to seal secrets.
type PublicKey struct {
	ID string
	// Key is the base64 encoded curve25519 public key.
	Key string
}

// EncryptedSecret is a secret value sealed for a repository public key.
type EncryptedSecret struct {
	KeyID          string
	EncryptedValue string
}

// UploadedImage is an image stored in the image hosting service.
type UploadedImage struct {
	Link  string
	Title string
}
