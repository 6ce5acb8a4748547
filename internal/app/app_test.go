package app_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/kunlun/internal/adapters/logger"
	"go.trai.ch/kunlun/internal/adapters/loopback"
	"go.trai.ch/kunlun/internal/adapters/manifest"
	"go.trai.ch/kunlun/internal/adapters/modcache"
	"go.trai.ch/kunlun/internal/adapters/modules"
	"go.trai.ch/kunlun/internal/adapters/netport"
	"go.trai.ch/kunlun/internal/adapters/telemetry"
	"go.trai.ch/kunlun/internal/app"
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports/mocks"
	"go.trai.ch/kunlun/internal/engine/collective"
	"go.trai.ch/kunlun/internal/engine/oplib"
	"go.trai.ch/kunlun/internal/engine/redirect"
	"go.trai.ch/kunlun/internal/engine/schema"
	"go.trai.ch/kunlun/internal/plugin"
)

type harness struct {
	app   *app.App
	sys   *modules.System
	cache *modcache.Store
	logs  *bytes.Buffer
	spans *tracetest.SpanRecorder
}

func newHarness(t *testing.T, caps domain.Capabilities, overrides ...func(*app.Deps)) *harness {
	t.Helper()

	settings := &domain.Settings{
		RuntimeVersion: domain.DefaultRuntimeVersion,
		Capabilities:   caps,
		Platform:       domain.KunlunPlatform(),
		WorldSize:      1,
	}

	logs := &bytes.Buffer{}
	log := logger.New()
	log.SetOutput(logs)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	registry := modules.NewRegistry()
	require.NoError(t, registry.AddAll(modules.HostModules()))
	require.NoError(t, registry.AddAll(plugin.TargetModules(settings.Platform)))
	cache := modcache.New()
	sys := modules.NewSystem(registry, cache)

	table, err := redirect.DefaultTable()
	require.NoError(t, err)
	hook := redirect.NewHook(table, cache, sys, sys.Current(), log)

	registrar, err := oplib.NewRegistrar(oplib.NewDispatcher(), caps, settings.Platform,
		schema.NewInferrer(), schema.NewLegacyInferrer(), log)
	require.NoError(t, err)

	network, err := loopback.NewNetwork(1)
	require.NoError(t, err)
	g, err := collective.NewFactory(collective.NewDeviceStrategy()).NewGroup("world", network.Hub("world").Member(0))
	require.NoError(t, err)
	groups := collective.NewGroups()
	groups.Add(g)

	deps := app.Deps{
		Settings:  settings,
		Logger:    log,
		Tracer:    telemetry.NewOTelTracer(tp),
		Imports:   sys,
		Cache:     cache,
		Hook:      hook,
		Registrar: registrar,
		Groups:    groups,
		Ports:     netport.NewAllocator(0),
		Manifest:  manifest.NewStore(filepath.Join(t.TempDir(), "manifest.json")),
	}
	for _, o := range overrides {
		o(&deps)
	}
	a := app.New(deps)
	t.Cleanup(a.Close)

	return &harness{app: a, sys: sys, cache: cache, logs: logs, spans: spans}
}

func fullCaps() domain.Capabilities {
	return domain.Capabilities{CustomOp: true, InferSchema: true}
}

func spanNames(sr *tracetest.SpanRecorder) []string {
	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestApp_Register(t *testing.T) {
	h := newHarness(t, fullCaps())

	class, err := h.app.Register(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "vllm_kunlun.platforms.kunlun.KunlunPlatform", class)

	var ops []string
	for _, op := range h.app.Operators() {
		ops = append(ops, op.QualifiedName())
	}
	assert.Equal(t, []string{"_kunlun::weak_ref_tensor", "vllm::all_gather", "vllm::all_reduce"}, ops)

	mod, err := h.sys.Import(domain.ImportRequest{Name: "vllm.model_executor.layers.sampler", FromList: []string{"*"}})
	require.NoError(t, err)
	origin, _ := mod.Get(modules.OriginSymbol)
	assert.Equal(t, plugin.Origin, origin, "the import hook is installed")

	assert.ElementsMatch(t,
		[]string{"wrap_utils", "config_registry", "collectives", "import_hook", "register"},
		spanNames(h.spans))

	out := h.logs.String()
	assert.Contains(t, out, "register() plugin=KunlunPlugin pid=")
	assert.Contains(t, out, "vllm_utils_wrapper loaded and patched")
	assert.Contains(t, out, "import_hook() ok")
	assert.Contains(t, out, "register() done")
	assert.NotContains(t, out, "patched transformers_utils.config")
}

func TestApp_Register_ConfigRegistry(t *testing.T) {
	t.Run("loaded", func(t *testing.T) {
		h := newHarness(t, fullCaps())
		cfg, err := h.sys.Load(plugin.ConfigModule)
		require.NoError(t, err)

		_, err = h.app.Register(t.Context())
		require.NoError(t, err)

		registry, _ := cfg.Get("_CONFIG_REGISTRY")
		assert.Contains(t, registry, "glm_moe_dsa")
		assert.Contains(t, h.logs.String(), "patched transformers_utils.config")
	})

	t.Run("failure is not fatal", func(t *testing.T) {
		h := newHarness(t, fullCaps())
		cfg, err := h.sys.Load(plugin.ConfigModule)
		require.NoError(t, err)
		cfg.Set("_CONFIG_REGISTRY", 42)

		_, err = h.app.Register(t.Context())
		require.NoError(t, err)
		assert.Contains(t, h.logs.String(), "config_registry patch failed")
	})
}

func TestApp_Register_Fatal(t *testing.T) {
	h := newHarness(t, domain.Capabilities{})

	_, err := h.app.Register(t.Context())
	require.ErrorIs(t, err, domain.ErrActivationFailed)
	require.ErrorIs(t, err, domain.ErrCustomOpUnsupported)

	mod, err := h.sys.Import(domain.ImportRequest{Name: "vllm.model_executor.layers.sampler", FromList: []string{"*"}})
	require.NoError(t, err)
	origin, _ := mod.Get(modules.OriginSymbol)
	assert.Equal(t, modules.HostOrigin, origin, "no hook after a failed activation")

	assert.Contains(t, h.logs.String(), "✗")
	assert.NotContains(t, h.logs.String(), "register() done")
}

func TestApp_Register_StepSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	root := mocks.NewMockSpan(ctrl)
	step := mocks.NewMockSpan(ctrl)

	tracer.EXPECT().Start(gomock.Any(), "register").Return(t.Context(), root)
	tracer.EXPECT().Start(gomock.Any(), "wrap_utils").Return(t.Context(), step)
	step.EXPECT().RecordError(gomock.Any())
	step.EXPECT().End()
	root.EXPECT().RecordError(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrActivationFailed)
	})
	root.EXPECT().End()

	h := newHarness(t, domain.Capabilities{}, func(d *app.Deps) { d.Tracer = tracer })

	_, err := h.app.Register(t.Context())
	require.ErrorIs(t, err, domain.ErrCustomOpUnsupported)
}

func TestApp_Register_Twice(t *testing.T) {
	h := newHarness(t, fullCaps())

	_, err := h.app.Register(t.Context())
	require.NoError(t, err)

	_, err = h.app.Register(t.Context())
	require.ErrorIs(t, err, domain.ErrActivationFailed)
	require.ErrorIs(t, err, domain.ErrNamespaceMismatch)
}

func TestApp_Manifest(t *testing.T) {
	h := newHarness(t, fullCaps())

	saved, err := h.app.SavedManifest()
	require.NoError(t, err)
	assert.Nil(t, saved)

	_, err = h.app.Register(t.Context())
	require.NoError(t, err)

	m, err := h.app.ExportManifest()
	require.NoError(t, err)
	assert.Len(t, m.Operators, 3)
	assert.Equal(t, domain.DefaultRedirects(), m.Redirects)

	saved, err = h.app.SavedManifest()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, m, *saved)
}

func TestApp_ExportManifest_SaveFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockManifestStore(ctrl)
	store.EXPECT().Save(gomock.Any()).Return(errors.New("disk full"))

	h := newHarness(t, fullCaps(), func(d *app.Deps) { d.Manifest = store })
	_, err := h.app.Register(t.Context())
	require.NoError(t, err)

	_, err = h.app.ExportManifest()
	require.EqualError(t, err, "disk full")
	assert.NotContains(t, h.logs.String(), "manifest written")
}

func TestApp_ResolveModules(t *testing.T) {
	t.Run("before activation", func(t *testing.T) {
		h := newHarness(t, fullCaps())
		for _, st := range h.app.ResolveModules() {
			require.NoError(t, st.Err)
			assert.Equal(t, modules.HostOrigin, st.Origin, st.Logical)
			assert.False(t, st.Shared, st.Logical)
		}
	})

	t.Run("after activation", func(t *testing.T) {
		h := newHarness(t, fullCaps())
		_, err := h.app.Register(t.Context())
		require.NoError(t, err)

		statuses := h.app.ResolveModules()
		require.Len(t, statuses, len(domain.DefaultRedirects()))
		for _, st := range statuses {
			require.NoError(t, st.Err)
			assert.Equal(t, plugin.Origin, st.Origin, st.Logical)
			assert.True(t, st.Shared, st.Logical)
		}
	})
}

func TestApp_InferSchema(t *testing.T) {
	h := newHarness(t, fullCaps())
	const sig = "out: Tensor, sizes: Optional[list[int]] = None -> None"

	got, err := h.app.InferSchema(sig, []string{"out"}, false)
	require.NoError(t, err)
	assert.Equal(t, "(Tensor(a0!) out, SymInt[]? sizes=None) -> ()", got)

	legacy, err := h.app.InferSchema(sig, []string{"out"}, true)
	require.NoError(t, err)
	assert.Equal(t, got, legacy)

	_, err = h.app.InferSchema("x: Tensor, *, eps: float = 1e-6 -> Tensor", nil, true)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	_, err = h.app.InferSchema("x -> Tensor", nil, false)
	require.ErrorIs(t, err, domain.ErrMissingAnnotation)
}
