package payments

import "errors"

// ErrMalformedPayload marks webhook bodies that cannot be parsed or are
// missing required fields. The handler maps it to a 400 so the provider
// does not retry.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// Provider adapts one payment provider's webhook format.
type Provider interface {
	Name() string

	// SignatureHeader names the HTTP header carrying the webhook
	// signature.
	SignatureHeader() string

	// VerifySignature authenticates the raw, unparsed request body.
	// The body must be captured before any JSON parsing; malformed
	// signatures are a verification failure, never an error.
	VerifySignature(rawBody []byte, signature string) bool

	// ParseEvent translates the raw body into a normalized Event.
	// Unrecognized event types yield an Event with empty Type rather
	// than an error.
	ParseEvent(rawBody []byte) (*Event, error)
}

// Registry holds the configured providers, keyed by the :provider path
// segment of the webhook route.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}
