package dnd5e

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"

	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
)

// DefaultBaseURL is where the upstream library sends requests
const DefaultBaseURL = "https://www.dnd5eapi.co/api"

type client struct {
	client dnd5e.Interface
}

type Config struct {
	HttpClient *http.Client
	// BaseURL points requests at a mirror of the SRD API. Empty uses DefaultBaseURL.
	BaseURL string
}

func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, dnderr.InvalidArgument("cfg is required")
	}

	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if cfg.BaseURL != "" && strings.TrimRight(cfg.BaseURL, "/") != DefaultBaseURL {
		rewritten, err := withBaseURL(httpClient, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		httpClient = rewritten
	}

	dndClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client: httpClient,
	})
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to create dnd5e api client")
	}

	return &client{
		client: dndClient,
	}, nil
}

func (c *client) ListRaceKeys() ([]string, error) {
	response, err := c.client.ListRaces()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list races")
	}

	return referenceItemKeys(response), nil
}

func (c *client) GetRace(key string) (*rulebook.Race, error) {
	response, err := c.client.GetRace(key)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get race %s", key)
	}
	if response == nil {
		return nil, dnderr.NotFoundf("race %s not found", key)
	}

	return apiRaceToRace(response), nil
}

func (c *client) GetClassHitDie(key string) (int, error) {
	response, err := c.client.GetClass(key)
	if err != nil {
		return 0, dnderr.Wrapf(err, "failed to get class %s", key)
	}
	if response == nil {
		return 0, dnderr.NotFoundf("class %s not found", key)
	}

	return response.HitDie, nil
}

// rewriteTransport sends every request to base while keeping the path
// below the default API root.
type rewriteTransport struct {
	base *url.URL
	next http.RoundTripper
}

func withBaseURL(httpClient *http.Client, baseURL string) (*http.Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, dnderr.InvalidArgumentf("invalid dnd5e base url %q", baseURL)
	}

	next := httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	rewritten := *httpClient
	rewritten.Transport = &rewriteTransport{base: base, next: next}
	return &rewritten, nil
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	path := strings.TrimPrefix(req.URL.Path, "/api")
	out.URL.Scheme = t.base.Scheme
	out.URL.Host = t.base.Host
	out.URL.Path = t.base.Path + path
	out.Host = t.base.Host

	return t.next.RoundTrip(out)
}
