package wallet

// Config selects where the signing key comes from: either PrivateKey, or
// a keystore directory with the account address and its passphrase.
type Config struct {
	PrivateKey string

	KeystoreDir      string
	KeystoreAddress  string
	KeystorePassword string
}

func (cfg *Config) Empty() bool {
	return cfg == nil || (cfg.PrivateKey == "" && cfg.KeystoreDir == "")
}
