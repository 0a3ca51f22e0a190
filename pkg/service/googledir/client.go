// Package googledir reads user accounts from the Google Workspace
// directory via the Admin SDK. Requires a service account with
// domain-wide delegation impersonating a Workspace admin.
package googledir

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2/google"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/option"
)

// User is one directory account.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	OrgUnit    string `json:"org_unit"`
	IsAdmin    bool   `json:"is_admin"`
	Suspended  bool   `json:"suspended"`
}

// Service reads the Workspace directory.
type Service interface {
	// ListUsers returns all accounts, optionally restricted to an org
	// unit path prefix.
	ListUsers(ctx context.Context, orgUnitPath string) ([]*User, error)

	// TestConnection verifies the delegated credentials.
	TestConnection(ctx context.Context) error
}

type client struct {
	newService func(ctx context.Context) (*admin.Service, error)
}

// New creates a directory service. The key is the service account JSON,
// raw or base64-encoded. adminEmail is the Workspace admin to
// impersonate.
func New(serviceAccountKey, adminEmail string) (Service, error) {
	if serviceAccountKey == "" {
		return nil, goerr.New("service account key is required")
	}
	if adminEmail == "" {
		return nil, goerr.New("admin email is required")
	}

	keyData := []byte(serviceAccountKey)
	if !json.Valid(keyData) {
		decoded, err := base64.StdEncoding.DecodeString(serviceAccountKey)
		if err != nil || !json.Valid(decoded) {
			return nil, goerr.New("service account key is neither JSON nor base64-encoded JSON")
		}
		keyData = decoded
	}

	config, err := google.JWTConfigFromJSON(keyData,
		admin.AdminDirectoryUserReadonlyScope,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse service account key")
	}
	config.Subject = adminEmail

	return &client{
		newService: func(ctx context.Context) (*admin.Service, error) {
			svc, err := admin.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx)))
			if err != nil {
				return nil, goerr.Wrap(err, "failed to create directory service")
			}
			return svc, nil
		},
	}, nil
}

func (c *client) ListUsers(ctx context.Context, orgUnitPath string) ([]*User, error) {
	svc, err := c.newService(ctx)
	if err != nil {
		return nil, err
	}

	var users []*User
	pageToken := ""
	for {
		call := svc.Users.List().
			Customer("my_customer").
			MaxResults(500).
			OrderBy("email").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list directory users")
		}

		for _, u := range resp.Users {
			if orgUnitPath != "" && !hasOrgUnitPrefix(u.OrgUnitPath, orgUnitPath) {
				continue
			}
			user := &User{
				ID:        u.Id,
				Email:     u.PrimaryEmail,
				OrgUnit:   u.OrgUnitPath,
				IsAdmin:   u.IsAdmin,
				Suspended: u.Suspended,
			}
			if u.Name != nil {
				user.Name = u.Name.FullName
				user.GivenName = u.Name.GivenName
				user.FamilyName = u.Name.FamilyName
			}
			users = append(users, user)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return users, nil
}

func (c *client) TestConnection(ctx context.Context) error {
	svc, err := c.newService(ctx)
	if err != nil {
		return err
	}

	_, err = svc.Users.List().
		Customer("my_customer").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return goerr.Wrap(err, "directory connection test failed")
	}

	return nil
}

func hasOrgUnitPrefix(path, prefix string) bool {
	if len(path) < len(prefix) {
		return false
	}
	return path[:len(prefix)] == prefix
}
