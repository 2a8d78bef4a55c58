package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
)

// configureTLS attaches a certificate-bearing tls.Config in server mode
func (s *Server) configureTLS(httpServer *http.Server) error {
	switch s.TLSConfig.Mode {
	case "disabled", "":
		return nil
	case "server":
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", s.TLSConfig.Mode)
	}

	cert, err := s.loadServerCertificate()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}

	minVersion := uint16(tls.VersionTLS12)
	if s.TLSConfig.MinVersion == "1.3" {
		minVersion = tls.VersionTLS13
	}
	httpServer.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}
	return nil
}

// loadServerCertificate prefers PEM content, which is what Vault supplies,
// over certificate files.
func (s *Server) loadServerCertificate() (tls.Certificate, error) {
	c := s.TLSConfig
	switch {
	case c.CertContent != "" && c.KeyContent != "":
		cert, err := tls.X509KeyPair([]byte(c.CertContent), []byte(c.KeyContent))
		if err != nil {
			return cert, fmt.Errorf("failed to load server cert/key from content: %w", err)
		}
		return cert, nil
	case c.CertFile != "" && c.KeyFile != "":
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return cert, fmt.Errorf("failed to load server cert/key from files: %w", err)
		}
		return cert, nil
	}
	return tls.Certificate{}, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
}
