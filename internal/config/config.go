package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-yaml/yaml"
)

// Config is built once at process start and treated as immutable after.
type Config struct {
	ListenAddr    string    `yaml:"listenAddr"`
	EnableTrace   bool      `yaml:"enableTrace"`
	TraceEndpoint string    `yaml:"traceEndpoint"`
	Identity      Identity  `yaml:"identity"`
	Messaging     Messaging `yaml:"messaging"`
}

// Identity configures access to the external card service.
type Identity struct {
	BaseURL     string `yaml:"baseUrl"`
	AuthBaseURL string `yaml:"authBaseUrl"`
	AppID       string `yaml:"appId"`
	AppKeyID    string `yaml:"appKeyId"`
	// AppKey is the base64 encoding of the application's Ed25519 seed.
	AppKey string `yaml:"appKey"`
}

// Messaging configures access to the external messaging platform.
type Messaging struct {
	BaseURL       string `yaml:"baseUrl"`
	ApplicationID string `yaml:"applicationId"`
	// PrivateKey is the PEM encoding of the application's RSA private key.
	PrivateKey string `yaml:"privateKey"`
}

// Load reads and validates the configuration. All missing required keys
// are reported in one error so a misconfigured deployment can be fixed in
// a single pass.
func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}

	missing := missingKeys(config)
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("invalid configuration, missing: %s", strings.Join(missing, ", "))
	}

	return config, nil
}

func missingKeys(config Config) []string {
	required := []struct {
		key   string
		value string
	}{
		{"identity.baseUrl", config.Identity.BaseURL},
		{"identity.authBaseUrl", config.Identity.AuthBaseURL},
		{"identity.appId", config.Identity.AppID},
		{"identity.appKeyId", config.Identity.AppKeyID},
		{"identity.appKey", config.Identity.AppKey},
		{"messaging.baseUrl", config.Messaging.BaseURL},
		{"messaging.applicationId", config.Messaging.ApplicationID},
		{"messaging.privateKey", config.Messaging.PrivateKey},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	return missing
}
