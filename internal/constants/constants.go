package constants

const (
	AppName    = "caviar"
	WalletFile = "wallet.json"
	ConfigFile = "config.yaml"

	WalletName    = "caviar"
	WalletVersion = "1.1"

	FilePerm      = 0o600
	DirectoryPerm = 0o700

	// AAD prefix for sealed account keys; the owner address is appended.
	AccountKeyAAD = "caviar:wallet:account:v1:"

	// AAD prefix for sealed identity control keys; the control address is appended.
	ControlKeyAAD = "caviar:wallet:control:v1:"

	KeyAlgorithm = "ECDSA-secp256k1"

	DIDPrefix = "did:ont:"
)
