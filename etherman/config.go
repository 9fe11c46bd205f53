package etherman

type Config struct {
	// URL is the URL of the Ethereum node
	URL string

	// ContractAddress is the deployed token bridge contract address in hex string
	ContractAddress string
}
