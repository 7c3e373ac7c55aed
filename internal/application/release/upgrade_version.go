package release

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/relicta-tech/lily-assistant/internal/domain/release"
	"github.com/relicta-tech/lily-assistant/internal/domain/version"
	apperrors "github.com/relicta-tech/lily-assistant/internal/errors"
)

// UpgradeVersionInput represents the input for the UpgradeVersion use case.
type UpgradeVersionInput struct {
	// Kind selects the upgrade magnitude. Empty means PATCH.
	Kind version.UpgradeKind
}

// UpgradeVersionOutput represents the output of the UpgradeVersion use case.
type UpgradeVersionOutput struct {
	Kind           version.UpgradeKind
	CurrentVersion string
	NextVersion    string
	NextCommitHash string
	// Replaced is the previously pending version, if an upgrade was restaged.
	Replaced *string
}

// UpgradeVersionUseCase stages the next version in the pending half of the record.
type UpgradeVersionUseCase struct {
	load    ConfigLoader
	gateway UpgradeGateway
	logger  *log.Logger
}

// NewUpgradeVersionUseCase creates a new UpgradeVersionUseCase.
func NewUpgradeVersionUseCase(load ConfigLoader, gateway UpgradeGateway) *UpgradeVersionUseCase {
	return &UpgradeVersionUseCase{
		load:    load,
		gateway: gateway,
		logger:  log.Default().With("usecase", "upgrade_version"),
	}
}

// WithLogger sets the use case logger.
func (uc *UpgradeVersionUseCase) WithLogger(logger *log.Logger) *UpgradeVersionUseCase {
	uc.logger = logger.With("usecase", "upgrade_version")
	return uc
}

// Execute computes the next version from the released one and stages it,
// together with the current HEAD hash. The record is untouched on failure
// before the first write.
func (uc *UpgradeVersionUseCase) Execute(ctx context.Context, input UpgradeVersionInput) (*UpgradeVersionOutput, error) {
	const op = "release.UpgradeVersion"

	kind := input.Kind
	if kind == "" {
		kind = version.DefaultUpgradeKind
	}
	if !kind.IsValid() {
		return nil, apperrors.ValidationWrap(version.ErrInvalidUpgradeKind, op, string(kind))
	}

	cfg, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	committed, err := uc.gateway.AllChangesCommitted(ctx)
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, apperrors.PreconditionWrap(ErrUncommittedChanges, op, "working tree is dirty")
	}

	machine, err := release.NewMachine(cfg.State())
	if err != nil {
		return nil, apperrors.InternalWrap(err, op, "failed to create release state machine")
	}
	if _, err := machine.Fire(release.EventUpgrade); err != nil {
		return nil, apperrors.StateWrap(err, op, "cannot upgrade version")
	}

	current := cfg.Version()
	next, err := version.RenderNextVersion(current, kind)
	if err != nil {
		return nil, apperrors.VersionWrap(err, op, "released version in project config is not MAJOR.MINOR.PATCH")
	}

	hash, err := uc.gateway.CurrentCommitHash(ctx)
	if err != nil {
		return nil, err
	}

	var replaced *string
	if prev := cfg.NextVersion(); prev != nil {
		v := *prev
		replaced = &v
		uc.logger.Warn("replacing pending upgrade", "pending", v, "next", next)
	}

	if err := cfg.SetNextVersion(&next); err != nil {
		return nil, err
	}
	if err := cfg.SetNextLastCommitHash(&hash); err != nil {
		return nil, err
	}

	uc.logger.Debug("upgrade staged",
		"kind", kind,
		"version", current,
		"next_version", next,
		"next_commit", hash)

	return &UpgradeVersionOutput{
		Kind:           kind,
		CurrentVersion: current,
		NextVersion:    next,
		NextCommitHash: hash,
		Replaced:       replaced,
	}, nil
}
