// Package credentials resolves the completion service API key from the
// process environment and the configured secret stores.
package credentials

import (
	"context"
	"fmt"
	"os"
	"strings"

	"interviewprep/internal/errors"
)

// SourceEnvironment is the Credential.Source of values read from the process environment
const SourceEnvironment = "environment"

// SecretStore is a deployment secret backend consulted after the environment
type SecretStore interface {
	Name() string
	// Lookup returns "" with a nil error when the store has no value for key.
	Lookup(ctx context.Context, key string) (string, error)
}

// Credential is a resolved API key and where it came from
type Credential struct {
	Value  string
	Source string
}

// String never prints the value
func (c Credential) String() string {
	return fmt.Sprintf("credential from %s", c.Source)
}

// Resolver looks a named credential up in the environment first, then in
// each store in order. Blank and whitespace-only values count as absent.
type Resolver struct {
	name      string
	lookupEnv func(string) (string, bool)
	stores    []SecretStore
	logger    *errors.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLookupEnv replaces os.LookupEnv
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookupEnv = fn }
}

// WithStores appends secret stores, consulted in the given order
func WithStores(stores ...SecretStore) Option {
	return func(r *Resolver) {
		for _, s := range stores {
			if s != nil {
				r.stores = append(r.stores, s)
			}
		}
	}
}

// NewResolver creates a resolver for the credential called name
func NewResolver(name string, logger *errors.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = errors.Discard()
	}
	r := &Resolver{
		name:      name,
		lookupEnv: os.LookupEnv,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name is the credential name being resolved
func (r *Resolver) Name() string {
	return r.name
}

// Sources lists the places Resolve consults, in order
func (r *Resolver) Sources() []string {
	sources := []string{SourceEnvironment}
	for _, s := range r.stores {
		sources = append(sources, s.Name())
	}
	return sources
}

// Resolve returns the first non-blank value. A failing store is logged and
// skipped; when nothing yields a value the error is MISSING_CREDENTIAL.
func (r *Resolver) Resolve(ctx context.Context) (Credential, error) {
	if value, ok := r.lookupEnv(r.name); ok {
		if v := strings.TrimSpace(value); v != "" {
			r.logger.Debug("Credential resolved", "name", r.name, "source", SourceEnvironment)
			return Credential{Value: v, Source: SourceEnvironment}, nil
		}
	}

	var storeErrs []string
	for _, store := range r.stores {
		if err := ctx.Err(); err != nil {
			return Credential{}, err
		}
		value, err := store.Lookup(ctx, r.name)
		if err != nil {
			r.logger.Warn("Secret store lookup failed", "store", store.Name(), "name", r.name, "error", err.Error())
			storeErrs = append(storeErrs, store.Name()+": "+err.Error())
			continue
		}
		if v := strings.TrimSpace(value); v != "" {
			r.logger.Debug("Credential resolved", "name", r.name, "source", store.Name())
			return Credential{Value: v, Source: store.Name()}, nil
		}
	}

	appErr := errors.NewConfigError(errors.ErrCodeMissingCredential,
		fmt.Sprintf("%s not found in the environment or any configured secret store", r.name), nil).
		WithContext("credential_name", r.name).
		WithContext("sources", strings.Join(r.Sources(), ","))
	if len(storeErrs) > 0 {
		appErr.WithContext("store_errors", strings.Join(storeErrs, "; "))
	}
	return Credential{}, appErr
}
