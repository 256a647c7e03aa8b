// internal/adapters/out/secret/secret_provider_sm.go
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	gax "github.com/googleapis/gax-go/v2"
)

var ErrNotConfigured = errors.New("secret: provider not configured")

// accessor is the part of *secretmanager.Client used here.
type accessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

var _ accessor = (*secretmanager.Client)(nil)

// ProviderSM reads secrets from Secret Manager.
type ProviderSM struct {
	sm        accessor
	projectID string
}

func NewProviderSM(sm *secretmanager.Client, projectID string) *ProviderSM {
	if sm == nil {
		return &ProviderSM{projectID: strings.TrimSpace(projectID)}
	}
	return &ProviderSM{sm: sm, projectID: strings.TrimSpace(projectID)}
}

// Get returns the trimmed payload of secretID at version ("" means latest).
func (p *ProviderSM) Get(ctx context.Context, secretID, version string) (string, error) {
	if p == nil || p.sm == nil {
		return "", ErrNotConfigured
	}
	if p.projectID == "" {
		return "", errors.New("secret: projectID is empty")
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("secret: secretID is empty")
	}
	ver := strings.TrimSpace(version)
	if ver == "" {
		ver = "latest"
	}

	name := "projects/" + p.projectID + "/secrets/" + sid + "/versions/" + ver
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("secret: AccessSecretVersion failed (%s): %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("secret: empty payload (%s)", name)
	}
	v := strings.TrimSpace(string(resp.Payload.Data))
	if v == "" {
		return "", fmt.Errorf("secret: empty payload (%s)", name)
	}
	return v, nil
}
