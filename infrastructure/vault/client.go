// Package vault adapts a Key-Vault-style secret store behind a small
// get/set surface. When no vault is configured (or the service runs in dry
// mode) a mock client answers with a placeholder so the rest of the pipeline
// can execute without live credentials.
package vault

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MockSecretValue is returned by Get when no vault is configured.
const MockSecretValue = "mock-secret-value"

const apiVersion = "7.4"

// Client is the credential store surface. Get reports found=false (not an
// error) when the secret is absent so callers can substitute a dummy value
// and continue.
type Client interface {
	Get(ctx context.Context, name string) (value string, found bool, err error)
	Set(ctx context.Context, name, value string) error
}

type keyVaultClient struct {
	baseURL   string
	token     string
	requester httpclient.Requester
}

type mockClient struct{}

// New builds the vault client. An empty vaultName selects mock mode.
func New(vaultName, token string, requester httpclient.Requester) Client {
	if vaultName == "" {
		log.L.Info("vault: no vault configured, secrets served in mock mode")
		return &mockClient{}
	}

	return &keyVaultClient{
		baseURL:   fmt.Sprintf("https://%s.vault.azure.net", vaultName),
		token:     token,
		requester: requester,
	}
}

type secretEnvelope struct {
	Value string `json:"value"`
}

func (c *keyVaultClient) Get(ctx context.Context, name string) (string, bool, error) {
	target := fmt.Sprintf("%s/secrets/%s", c.baseURL, url.PathEscape(name))

	resp, err := c.requester.Do(ctx, http.MethodGet, target, c.params(), c.headers(), nil)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			log.ForContext(ctx).WithField("secret_name", name).Warn("vault: secret not found")
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "vault: fetching secret %q", name)
	}

	var envelope secretEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return "", false, errors.Wrapf(err, "vault: decoding secret %q", name)
	}

	return envelope.Value, true, nil
}

// Set overwrites the named secret's current value. No versioning is exposed
// to callers.
func (c *keyVaultClient) Set(ctx context.Context, name, value string) error {
	target := fmt.Sprintf("%s/secrets/%s", c.baseURL, url.PathEscape(name))

	body, err := json.Marshal(secretEnvelope{Value: value})
	if err != nil {
		return errors.Wrapf(err, "vault: encoding secret %q", name)
	}

	headers := c.headers()
	headers.Set("Content-Type", "application/json")

	if _, err := c.requester.Do(ctx, http.MethodPut, target, c.params(), headers, body); err != nil {
		return errors.Wrapf(err, "vault: updating secret %q", name)
	}

	log.ForContext(ctx).WithField("secret_name", name).Info("vault: secret updated")
	return nil
}

func (c *keyVaultClient) params() url.Values {
	params := url.Values{}
	params.Set("api-version", apiVersion)
	return params
}

func (c *keyVaultClient) headers() http.Header {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.token)
	headers.Set("Accept", "application/json")
	return headers
}

func (c *mockClient) Get(ctx context.Context, name string) (string, bool, error) {
	return MockSecretValue, true, nil
}

func (c *mockClient) Set(ctx context.Context, name, value string) error {
	log.ForContext(ctx).WithField("secret_name", name).Info("vault: mock update ignored")
	return nil
}
