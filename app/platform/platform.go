package platform

import (
	"context"
	"fmt"
)

// Platform is the uniform contract every posting target implements.
// Instances are fully configured at construction or not constructed at all;
// identity fields never change afterwards.
type Platform interface {
	// Name returns the stable lowercase platform identifier.
	Name() string
	// MaxLength returns the platform character ceiling. Advisory only: it
	// feeds the generation prompt and is never enforced as a hard gate.
	MaxLength() int
	// Post publishes message and returns the platform-assigned post ID.
	Post(ctx context.Context, message string) (*PostResult, error)
	// VerifyCredentials checks the configured token. It never returns an
	// error itself: an upstream rejection is reported as Valid=false so
	// callers can batch-verify without one failure aborting the rest.
	VerifyCredentials(ctx context.Context) Verification
}

type PostResult struct {
	PostID  string
	Message string
}

type Verification struct {
	Valid    bool
	Identity string
	Error    string
}

// ConfigError reports a missing credential or identifier, naming the exact
// configuration value that is absent. Raised at construction time, fatal.
type ConfigError struct {
	Key    string
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("missing %s in configuration (%s)", e.Key, e.Detail)
	}
	return fmt.Sprintf("missing %s in configuration", e.Key)
}

// PublishError reports an upstream rejection of a publish request.
type PublishError struct {
	Platform string
	Message  string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s publish failed: %s", e.Platform, e.Message)
}
