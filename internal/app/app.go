// Package app implements the application layer for kunlun: plugin
// activation and the queries the CLI runs against an activated plugin.
package app

import (
	"context"
	"errors"
	"os"

	"go.trai.ch/kunlun/internal/adapters/manifest" //nolint:depguard // Manifest assembly
	"go.trai.ch/kunlun/internal/adapters/modules"  //nolint:depguard // Module origin tags
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/kunlun/internal/engine/collective"
	"go.trai.ch/kunlun/internal/engine/oplib"
	"go.trai.ch/kunlun/internal/engine/redirect"
	"go.trai.ch/kunlun/internal/engine/schema"
	"go.trai.ch/kunlun/internal/plugin"
	"go.trai.ch/zerr"
)

// Deps are the collaborators activation works with.
type Deps struct {
	Settings  *domain.Settings
	Logger    ports.Logger
	Tracer    ports.Tracer
	Imports   ports.ImportSystem
	Cache     ports.ModuleCache
	Hook      *redirect.Hook
	Registrar *oplib.Registrar
	Groups    *collective.Groups
	Ports     ports.PortAllocator
	Manifest  ports.ManifestStore
}

// App represents the main application logic.
type App struct {
	Deps

	pid    int
	native *plugin.Native
}

// New creates a new App instance.
func New(deps Deps) *App {
	return &App{Deps: deps, pid: os.Getpid()}
}

// Register activates the plugin and returns the platform class the host
// should instantiate.
//
// Mandatory steps that fail are logged and returned wrapped in
// domain.ErrActivationFailed. Optional patches only log their failures.
// Activation is meant to run once per process.
func (a *App) Register(ctx context.Context) (string, error) {
	ctx, span := a.Tracer.Start(ctx, "register")
	defer span.End()

	a.info("register()")

	steps := []struct {
		name     string
		run      func() error
		done     string
		optional bool
	}{
		{name: "wrap_utils", run: a.wrapUtils, done: "vllm_utils_wrapper loaded and patched"},
		{name: "config_registry", run: a.patchConfig, optional: true},
		{name: "collectives", run: a.patchCollectives, done: "collective overrides installed"},
		{name: "import_hook", run: a.installHook, done: "import_hook() ok"},
	}
	for _, s := range steps {
		err := a.step(ctx, s.name, s.run)
		switch {
		case err != nil && s.optional:
			a.Logger.Warn(s.name+" patch failed", "plugin", domain.PluginID, "pid", a.pid, "error", err)
		case err != nil:
			err = zerr.With(zerr.Wrap(errors.Join(domain.ErrActivationFailed, err), "register"), "step", s.name)
			a.Logger.Error(err, "plugin", domain.PluginID, "pid", a.pid)
			span.RecordError(err)
			return "", err
		case s.done != "":
			a.info(s.done)
		}
	}

	span.SetAttribute("platform", a.Settings.Platform.ClassPath)
	a.info("register() done")
	return a.Settings.Platform.ClassPath, nil
}

func (a *App) step(ctx context.Context, name string, fn func() error) error {
	_, span := a.Tracer.Start(ctx, name)
	defer span.End()
	if err := fn(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (a *App) info(msg string, args ...any) {
	a.Logger.Info(msg, append([]any{"plugin", domain.PluginID, "pid", a.pid}, args...)...)
}

func (a *App) wrapUtils() error {
	native, err := plugin.RegisterNative(a.Registrar, a.Settings.Platform.DispatchKey)
	if err != nil {
		return err
	}
	if _, err := plugin.WrapUtils(a.Imports.Import, a.Cache, native, a.Ports); err != nil {
		native.Close()
		return err
	}
	if err := plugin.PatchTorchUtils(a.Imports.Import, a.Registrar, a.Settings.Capabilities); err != nil {
		native.Close()
		return err
	}
	a.native = native
	return nil
}

func (a *App) patchConfig() error {
	patched, err := plugin.PatchConfigRegistry(a.Cache)
	if err != nil {
		return err
	}
	if patched {
		a.info("patched transformers_utils.config")
	}
	return nil
}

func (a *App) patchCollectives() error {
	if err := collective.RegisterOps(a.Registrar, a.Groups); err != nil {
		return err
	}
	return plugin.PatchParallelState(a.Imports.Import, a.Groups)
}

func (a *App) installHook() error {
	a.Hook.Install(a.Imports)
	return nil
}

// Close unregisters the native operators registered during activation.
func (a *App) Close() {
	if a.native != nil {
		a.native.Close()
		a.native = nil
	}
}

// Operators returns the registered operators.
func (a *App) Operators() []domain.OperatorRecord {
	return a.Registrar.Dispatcher().Operators()
}

// ExportManifest writes the manifest of the registered operators and the
// active redirects.
func (a *App) ExportManifest() (domain.Manifest, error) {
	m := manifest.Build(a.Settings, a.Operators(), a.Hook.Table().Entries())
	if err := a.Manifest.Save(m); err != nil {
		return domain.Manifest{}, err
	}
	a.info("manifest written", "operators", len(m.Operators))
	return m, nil
}

// SavedManifest returns the last exported manifest, or nil if there is none.
func (a *App) SavedManifest() (*domain.Manifest, error) {
	return a.Manifest.Load()
}

// ModuleStatus describes how a logical module name resolves.
type ModuleStatus struct {
	domain.Redirect
	// Origin is the distribution that built the resolved module.
	Origin string
	// Shared reports whether the logical and target names resolve to the
	// same module object.
	Shared bool
	Err    error
}

// ResolveModules imports every redirected name through the installed entry
// point and reports where it resolved.
func (a *App) ResolveModules() []ModuleStatus {
	entries := a.Hook.Table().Entries()
	statuses := make([]ModuleStatus, 0, len(entries))
	for _, r := range entries {
		st := ModuleStatus{Redirect: r}
		logical, err := a.Imports.Import(domain.ImportRequest{Name: r.Logical, FromList: []string{"*"}})
		if err != nil {
			st.Err = err
			statuses = append(statuses, st)
			continue
		}
		if origin, ok := logical.Get(modules.OriginSymbol); ok {
			st.Origin, _ = origin.(string)
		}
		if target, ok := a.Cache.Get(r.Target); ok {
			st.Shared = target == logical
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// InferSchema derives the schema of a signature such as
// "x: Tensor, dim: int = -1 -> Tensor". The legacy inferrer skips
// normalization.
func (a *App) InferSchema(signature string, mutates []string, legacy bool) (string, error) {
	sig, err := schema.ParseSignature(signature)
	if err != nil {
		return "", err
	}
	if legacy {
		return schema.NewLegacyInferrer().Infer(sig, mutates)
	}
	return schema.NewInferrer().Infer(schema.Normalize(sig), mutates)
}
