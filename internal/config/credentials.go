package config

import "strings"

type CredentialState int

const (
	AbsentOrPlaceholder CredentialState = iota
	Present
)

func (s CredentialState) String() string {
	if s == Present {
		return "present"
	}
	return "absent_or_placeholder"
}

// Credentials is the one-time classification of every credential the service
// and the setup commands depend on.
type Credentials struct {
	Vertex       CredentialState
	Thirdweb     CredentialState
	Circle       CredentialState
	EntitySecret CredentialState
	ServerWallet CredentialState
}

func (c *Config) Credentials() Credentials {
	return Credentials{
		Vertex:       c.vertexState(),
		Thirdweb:     Classify(c.ThirdwebSecretKey),
		Circle:       Classify(c.CircleAPIKey),
		EntitySecret: Classify(c.CircleEntitySecret),
		ServerWallet: ClassifyAddress(c.ServerWallet),
	}
}

// vertexState needs a project. GEMINI_API_KEY is optional because ADC can
// authenticate, but a placeholder key would be sent as-is and fail every call.
func (c *Config) vertexState() CredentialState {
	if Classify(c.ProjectID) == AbsentOrPlaceholder {
		return AbsentOrPlaceholder
	}
	if strings.TrimSpace(c.GeminiKey) != "" && Classify(c.GeminiKey) == AbsentOrPlaceholder {
		return AbsentOrPlaceholder
	}
	return Present
}

// Classify treats empty values and the "your_..." values shipped in example
// env files as missing.
func Classify(value string) CredentialState {
	v := strings.TrimSpace(value)
	if v == "" || strings.Contains(v, "your_") {
		return AbsentOrPlaceholder
	}
	return Present
}

func ClassifyAddress(value string) CredentialState {
	if strings.TrimSpace(value) == "0x" {
		return AbsentOrPlaceholder
	}
	return Classify(value)
}
