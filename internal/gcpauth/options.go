// Package gcpauth resolves Application Default Credentials for Google API clients.
package gcpauth

import (
	"context"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// ClientOptions returns the options shared by every Google client. When no
// default credentials are found the client libraries fall back to their own lookup.
func ClientOptions(ctx context.Context, scopes ...string) []option.ClientOption {
	var opts []option.ClientOption

	creds, _ := google.FindDefaultCredentials(ctx, scopes...)
	if creds != nil {
		opts = append(opts, option.WithCredentials(creds))
	}
	if len(scopes) > 0 {
		opts = append(opts, option.WithScopes(scopes...))
	}

	return opts
}
