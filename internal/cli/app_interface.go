// Package cli defines interfaces for injecting the container into commands.
package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/relicta-tech/lily-assistant/internal/application/release"
	"github.com/relicta-tech/lily-assistant/internal/config"
	"github.com/relicta-tech/lily-assistant/internal/container"
	"github.com/relicta-tech/lily-assistant/internal/domain/sourcecontrol"
	"github.com/relicta-tech/lily-assistant/internal/infrastructure/persistence"
	"github.com/relicta-tech/lily-assistant/internal/infrastructure/scaffold"
	"github.com/relicta-tech/lily-assistant/internal/service/conventions"
)

type upgradeVersionUseCase interface {
	Execute(context.Context, release.UpgradeVersionInput) (*release.UpgradeVersionOutput, error)
}

type pushUpgradedVersionUseCase interface {
	Execute(context.Context) (*release.PushUpgradedVersionOutput, error)
}

type cliApp interface {
	Close() error
	Root() string
	ProjectStore() *persistence.ProjectStore
	Gateway() sourcecontrol.Gateway
	Bootstrapper() *scaffold.Bootstrapper

	// Release workflow
	UpgradeVersion() upgradeVersionUseCase
	PushUpgradedVersion() pushUpgradedVersionUseCase

	// Convention checks
	BranchGuard() *conventions.BranchGuard
	CommitMessageValidator() *conventions.CommitMessageValidator
	VirtualEnvDetector() *conventions.VirtualEnvDetector
	StructureValidator() *conventions.StructureValidator
}

var newContainerApp = func(ctx context.Context, cfg *config.Config, root string, logger *log.Logger) (cliApp, error) {
	app, err := container.NewInitialized(ctx, cfg,
		container.WithRoot(root),
		container.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return &containerAppWrapper{App: app}, nil
}

type containerAppWrapper struct {
	*container.App
}

func (w *containerAppWrapper) UpgradeVersion() upgradeVersionUseCase {
	return w.App.UpgradeVersion()
}

func (w *containerAppWrapper) PushUpgradedVersion() pushUpgradedVersionUseCase {
	return w.App.PushUpgradedVersion()
}
