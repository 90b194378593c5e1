package padron

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Recipient holds the identity fields of an invoice counterpart.
type Recipient struct {
	Name        string `json:"name"`
	Zipcode     string `json:"zipcode"`
	Address     string `json:"address"`
	State       string `json:"state"`
	City        string `json:"city"`
	Category    string `json:"category"`
	FullAddress string `json:"full_address"`
}

// Blank reports whether the recipient carries no usable identity.
func (r Recipient) Blank() bool {
	return r.Name == "" && r.Category == ""
}

// RecipientLookup resolves a recipient's identity by tax id. A miss is
// (nil, nil); errors are reserved for transport failures.
type RecipientLookup interface {
	Find(ctx context.Context, taxID string) (*Recipient, error)
}

// --- HTTP lookup (queries the taxpayer registry service) ---

type httpLookup struct {
	baseURL string
	client  *http.Client
}

// NewHTTPLookup creates a lookup backed by the registry HTTP service.
// baseURL is the service root, e.g. "https://padron.internal/api".
func NewHTTPLookup(baseURL string, timeout time.Duration) RecipientLookup {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpLookup{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (l *httpLookup) Find(ctx context.Context, taxID string) (*Recipient, error) {
	endpoint := fmt.Sprintf("%s/persona/%s", l.baseURL, url.PathEscape(taxID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("padron: build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("padron: lookup %s: %w", taxID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("padron: lookup %s: unexpected status %d", taxID, resp.StatusCode)
	}

	var recipient Recipient
	if err := json.NewDecoder(resp.Body).Decode(&recipient); err != nil {
		return nil, fmt.Errorf("padron: decode response for %s: %w", taxID, err)
	}
	return &recipient, nil
}

// --- Null lookup (no registry configured; every lookup misses) ---

type nullLookup struct{}

// NewNullLookup creates a lookup that always misses.
func NewNullLookup() RecipientLookup {
	return &nullLookup{}
}

func (*nullLookup) Find(ctx context.Context, taxID string) (*Recipient, error) {
	return nil, nil
}

// NewLookupFromConfig creates the appropriate RecipientLookup.
//
//	kind: "http" or "none"
//	baseURL: registry service root for HTTP lookups
func NewLookupFromConfig(kind, baseURL string, timeout time.Duration) (RecipientLookup, error) {
	switch kind {
	case "http":
		if baseURL == "" {
			return nil, fmt.Errorf("padron: base URL is required for HTTP lookup")
		}
		return NewHTTPLookup(baseURL, timeout), nil
	case "none", "":
		return NewNullLookup(), nil
	default:
		return nil, fmt.Errorf("padron: unknown lookup type %q (use http or none)", kind)
	}
}
