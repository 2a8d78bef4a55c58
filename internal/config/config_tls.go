package config

import "fmt"

// ValidateTLSConfig checks the TLS mode, certificate sources and minimum version
func (c *Config) ValidateTLSConfig() error {
	if err := validateTLSMode(c.Server.TLS); err != nil {
		return err
	}
	return validateTLSVersion(c.Server.TLS)
}

// validateTLSMode accepts "disabled" (or empty) and "server". Server mode
// needs a certificate and a key, each from exactly one of file or content.
func validateTLSMode(tls TLSConfig) error {
	switch tls.Mode {
	case "disabled", "":
		return nil
	case "server":
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", tls.Mode)
	}

	if (tls.CertFile == "" && tls.CertContent == "") || (tls.KeyFile == "" && tls.KeyContent == "") {
		return fmt.Errorf("TLS certificate and key are required for server mode (provide either files or content)")
	}
	for _, pair := range [][3]string{
		{"cert", tls.CertFile, tls.CertContent},
		{"key", tls.KeyFile, tls.KeyContent},
	} {
		if pair[1] != "" && pair[2] != "" {
			return fmt.Errorf("cannot specify both %[1]sFile and %[1]sContent - choose one", pair[0])
		}
	}
	return nil
}

func validateTLSVersion(tls TLSConfig) error {
	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	}
	return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
}
