// Package container provides dependency injection for lily-assistant services.
package container

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/relicta-tech/lily-assistant/internal/application/release"
	"github.com/relicta-tech/lily-assistant/internal/config"
	"github.com/relicta-tech/lily-assistant/internal/domain/project"
	"github.com/relicta-tech/lily-assistant/internal/domain/sourcecontrol"
	"github.com/relicta-tech/lily-assistant/internal/errors"
	gitadapter "github.com/relicta-tech/lily-assistant/internal/infrastructure/git"
	"github.com/relicta-tech/lily-assistant/internal/infrastructure/persistence"
	"github.com/relicta-tech/lily-assistant/internal/infrastructure/scaffold"
	"github.com/relicta-tech/lily-assistant/internal/service/conventions"
)

// Option customizes an App before Initialize.
type Option func(*App)

// WithRoot sets the project root. Defaults to the working directory.
func WithRoot(root string) Option {
	return func(a *App) {
		if root != "" {
			a.root = root
		}
	}
}

// WithEnv sets the environment snapshot handed to git and the checks.
func WithEnv(env []string) Option {
	return func(a *App) {
		if env != nil {
			a.env = env
		}
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithGateway replaces the git-backed repository gateway.
func WithGateway(gateway sourcecontrol.Gateway) Option {
	return func(a *App) {
		a.gateway = gateway
	}
}

// App wires the infrastructure, domain services and use cases.
type App struct {
	config *config.Config
	root   string
	env    []string
	logger *log.Logger
	mu     sync.RWMutex
	closed bool

	// Infrastructure layer
	store        *persistence.ProjectStore
	gateway      sourcecontrol.Gateway
	bootstrapper *scaffold.Bootstrapper

	// Convention checks
	branchGuard   *conventions.BranchGuard
	messageCheck  *conventions.CommitMessageValidator
	virtualEnv    *conventions.VirtualEnvDetector
	structure     *conventions.StructureValidator
	rulesFromFile bool

	// Application layer use cases
	upgradeVersionUC *release.UpgradeVersionUseCase
	pushVersionUC    *release.PushUpgradedVersionUseCase
}

// New creates an App for cfg. Call Initialize before use.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.Config("container.New", "configuration is required")
	}

	a := &App{
		config: cfg,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.IOWrap(err, "container.New", "failed to resolve working directory")
		}
		a.root = wd
	}
	if a.env == nil {
		a.env = os.Environ()
	}

	return a, nil
}

// NewInitialized creates and initializes a new App.
func NewInitialized(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	if err := a.Initialize(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

// Initialize initializes all layers of the App.
func (a *App) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return errors.New(errors.KindState, "container is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := a.initInfrastructure(); err != nil {
		return err
	}
	if err := a.initConventions(); err != nil {
		return err
	}
	a.initApplicationLayer()

	return nil
}

// initInfrastructure initializes infrastructure layer components.
func (a *App) initInfrastructure() error {
	a.store = persistence.NewProjectStore(a.root)

	if a.gateway == nil {
		runner := gitadapter.NewRunner(a.root,
			gitadapter.WithEnv(a.env),
			gitadapter.WithLogger(a.logger),
		)
		a.gateway = gitadapter.NewRepository(runner,
			gitadapter.WithRemote(a.config.Git.Remote),
			gitadapter.WithIgnoredSegment(project.MetadataDir+"/"),
		)
	}

	a.bootstrapper = scaffold.NewBootstrapper(a.root, a.logger)
	return nil
}

// initConventions loads structure rules and builds the convention checks.
func (a *App) initConventions() error {
	rules := conventions.DefaultRules()
	if a.config.Structure.RulesFile != "" {
		loaded, found, err := conventions.LoadRules(a.rulesPath())
		if err != nil {
			return errors.ConfigWrap(err, "container.initConventions", "failed to load structure rules")
		}
		if found {
			a.logger.Debug("loaded structure rules", "path", a.rulesPath())
		}
		rules = loaded
		a.rulesFromFile = found
	}

	a.structure = conventions.NewStructureValidator(rules)
	a.branchGuard = conventions.NewBranchGuard(a.config.Git.ProtectedBranch)
	a.messageCheck = conventions.NewCommitMessageValidator()
	a.virtualEnv = conventions.NewVirtualEnvDetector(a.config.Environment.VirtualEnvVar, a.env)
	return nil
}

// initApplicationLayer initializes the release use cases.
func (a *App) initApplicationLayer() {
	load := projectLoader(a.store)
	a.upgradeVersionUC = release.NewUpgradeVersionUseCase(load, a.gateway).WithLogger(a.logger)
	a.pushVersionUC = release.NewPushUpgradedVersionUseCase(load, a.gateway).WithLogger(a.logger)
}

// projectLoader adapts the store to the use case loader. The explicit nil
// return keeps a failed load from surfacing as a non-nil interface.
func projectLoader(store *persistence.ProjectStore) release.ConfigLoader {
	return func(ctx context.Context) (release.ProjectConfig, error) {
		cfg, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
}

func (a *App) rulesPath() string {
	if filepath.IsAbs(a.config.Structure.RulesFile) {
		return a.config.Structure.RulesFile
	}
	return filepath.Join(a.root, a.config.Structure.RulesFile)
}

// UpgradeVersion returns the use case that stages the next version.
func (a *App) UpgradeVersion() *release.UpgradeVersionUseCase {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.upgradeVersionUC
}

// PushUpgradedVersion returns the use case that publishes a staged version.
func (a *App) PushUpgradedVersion() *release.PushUpgradedVersionUseCase {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pushVersionUC
}

// ProjectStore returns the project record store.
func (a *App) ProjectStore() *persistence.ProjectStore {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.store
}

// Gateway returns the repository gateway.
func (a *App) Gateway() sourcecontrol.Gateway {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.gateway
}

// Bootstrapper returns the hook and makefile installer.
func (a *App) Bootstrapper() *scaffold.Bootstrapper {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bootstrapper
}

// BranchGuard returns the protected branch check.
func (a *App) BranchGuard() *conventions.BranchGuard {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.branchGuard
}

// CommitMessageValidator returns the commit message check.
func (a *App) CommitMessageValidator() *conventions.CommitMessageValidator {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.messageCheck
}

// VirtualEnvDetector returns the virtual environment check.
func (a *App) VirtualEnvDetector() *conventions.VirtualEnvDetector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.virtualEnv
}

// StructureValidator returns the project layout check.
func (a *App) StructureValidator() *conventions.StructureValidator {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.structure
}

// RulesFromFile reports whether structure rules came from the rules file.
func (a *App) RulesFromFile() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rulesFromFile
}

// Root returns the project root.
func (a *App) Root() string {
	return a.root
}

// Config returns the configuration.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// Close marks the App closed. Initialize fails afterwards.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.closed {
		a.closed = true
		a.logger.Debug("container closed")
	}
	return nil
}
