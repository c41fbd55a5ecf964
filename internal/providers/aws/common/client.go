package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ProfileConfig is a resolved AWS profile with its SDK configuration and
// initialised service clients. It is the unit passed from the loader
// into collectors and sinks.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/credentials or "default".
	ProfileName string

	// AccountID is the resolved AWS account ID for this profile (via STS).
	AccountID string

	// Region is the effective region for this profile configuration.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration. Service
	// packages construct their own clients from it.
	Config aws.Config

	// Clients holds the shared account-level service clients.
	Clients *ClientSet
}

// AWSClientProvider loads AWS configurations and resolves the caller
// identity. It is the sole entry point for AWS credential management
// across the provider layer.
//
// Implementations must use the AWS SDK v2 only. Never shell out to the
// aws CLI.
type AWSClientProvider interface {
	// LoadProfile returns a ProfileConfig for the named profile.
	// Pass an empty profile to load the default credential chain and an
	// empty region to use the profile's configured region.
	LoadProfile(ctx context.Context, profile, region string) (*ProfileConfig, error)
}
