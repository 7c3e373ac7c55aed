// Package release provides the application use cases of the two-phase
// version upgrade workflow.
package release

import (
	"context"

	"github.com/relicta-tech/lily-assistant/internal/domain/release"
	"github.com/relicta-tech/lily-assistant/internal/domain/sourcecontrol"
)

// ProjectConfig is the persisted record the workflow reads and mutates.
// Every setter persists before returning.
type ProjectConfig interface {
	Version() string
	NextVersion() *string
	LastCommitHash() string
	NextLastCommitHash() *string
	State() release.State

	SetVersion(v string) error
	SetNextVersion(v *string) error
	SetLastCommitHash(hash string) error
	SetNextLastCommitHash(hash *string) error
}

// ConfigLoader loads the project record for one workflow step.
type ConfigLoader func(ctx context.Context) (ProjectConfig, error)

// UpgradeGateway is the repository access needed to stage an upgrade.
type UpgradeGateway interface {
	sourcecontrol.HeadReader
	sourcecontrol.StatusReader
}

// PublishGateway is the repository access needed to publish an upgrade.
type PublishGateway interface {
	sourcecontrol.Committer
	Push(ctx context.Context) error
}
