package config

import "strings"

// SecretRefPrefix marks env values that name a Secret Manager secret
// instead of carrying the credential itself.
const SecretRefPrefix = "sm://"

// SecretFields maps each credential env var to the field holding it.
func (c *Config) SecretFields() map[string]*string {
	return map[string]*string{
		"GEMINI_API_KEY":        &c.GeminiKey,
		"THIRDWEB_SECRET_KEY":   &c.ThirdwebSecretKey,
		"SERVER_WALLET_ADDRESS": &c.ServerWallet,
		"CIRCLE_API_KEY":        &c.CircleAPIKey,
		"CIRCLE_ENTITY_SECRET":  &c.CircleEntitySecret,
	}
}

func HasSecretRefs(c *Config) bool {
	for _, f := range c.SecretFields() {
		if strings.HasPrefix(*f, SecretRefPrefix) {
			return true
		}
	}
	return false
}
