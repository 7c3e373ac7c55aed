package release

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/relicta-tech/lily-assistant/internal/domain/release"
	apperrors "github.com/relicta-tech/lily-assistant/internal/errors"
)

// PushUpgradedVersionOutput represents the output of the PushUpgradedVersion use case.
type PushUpgradedVersionOutput struct {
	PreviousVersion string
	Version         string
	CommitHash      string
	CommitMessage   string
}

// PushUpgradedVersionUseCase promotes the pending version and publishes it.
type PushUpgradedVersionUseCase struct {
	load    ConfigLoader
	gateway PublishGateway
	logger  *log.Logger
}

// NewPushUpgradedVersionUseCase creates a new PushUpgradedVersionUseCase.
func NewPushUpgradedVersionUseCase(load ConfigLoader, gateway PublishGateway) *PushUpgradedVersionUseCase {
	return &PushUpgradedVersionUseCase{
		load:    load,
		gateway: gateway,
		logger:  log.Default().With("usecase", "push_upgraded_version"),
	}
}

// WithLogger sets the use case logger.
func (uc *PushUpgradedVersionUseCase) WithLogger(logger *log.Logger) *PushUpgradedVersionUseCase {
	uc.logger = logger.With("usecase", "push_upgraded_version")
	return uc
}

// Execute moves the pending fields into the released ones, then stages,
// commits and pushes. The promotion is persisted before any git command
// runs; a git failure leaves the record promoted.
func (uc *PushUpgradedVersionUseCase) Execute(ctx context.Context) (*PushUpgradedVersionOutput, error) {
	const op = "release.PushUpgradedVersion"

	cfg, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	machine, err := release.NewMachine(cfg.State())
	if err != nil {
		return nil, apperrors.InternalWrap(err, op, "failed to create release state machine")
	}
	if _, err := machine.Fire(release.EventPush); err != nil {
		return nil, apperrors.StateWrap(err, op, "cannot push upgraded version")
	}

	next := *cfg.NextVersion()
	nextHash := cfg.NextLastCommitHash()
	if nextHash == nil {
		return nil, apperrors.StateWrap(ErrIncompletePending, op, "cannot push upgraded version")
	}
	hash := *nextHash
	previous := cfg.Version()

	if err := cfg.SetVersion(next); err != nil {
		return nil, err
	}
	if err := cfg.SetNextVersion(nil); err != nil {
		return nil, err
	}
	if err := cfg.SetLastCommitHash(hash); err != nil {
		return nil, err
	}
	if err := cfg.SetNextLastCommitHash(nil); err != nil {
		return nil, err
	}

	uc.logger.Debug("upgrade promoted", "previous", previous, "version", next, "commit", hash)

	message := CommitMessage(next)
	if err := uc.gateway.AddAll(ctx); err != nil {
		return nil, uc.publishFailed(err, next)
	}
	if err := uc.gateway.Commit(ctx, message); err != nil {
		return nil, uc.publishFailed(err, next)
	}
	if err := uc.gateway.Push(ctx); err != nil {
		return nil, uc.publishFailed(err, next)
	}

	return &PushUpgradedVersionOutput{
		PreviousVersion: previous,
		Version:         next,
		CommitHash:      hash,
		CommitMessage:   message,
	}, nil
}

func (uc *PushUpgradedVersionUseCase) publishFailed(err error, v string) error {
	uc.logger.Error("project config already promoted, finish the release with git by hand",
		"version", v,
		"commit_message", CommitMessage(v))
	return err
}
