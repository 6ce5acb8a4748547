package plugin

import (
	"fmt"
	"maps"

	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
	"go.trai.ch/kunlun/internal/engine/collective"
	"go.trai.ch/kunlun/internal/engine/oplib"
	"go.trai.ch/zerr"
)

// ConfigRegistry lists the model configs the plugin adds to the host's
// config registry.
func ConfigRegistry() map[string]string {
	return map[string]string{
		"deepseek_v32": "DeepseekV3Config",
		"glm_moe_dsa":  "GlmMoeDsaConfig",
	}
}

// WrapUtils replaces the host utilities module in cache with a copy whose
// weak reference and port helpers are the plugin's. Importers that already
// hold the original module keep it.
func WrapUtils(
	imp ports.ImportFunc,
	cache ports.ModuleCache,
	native *Native,
	alloc ports.PortAllocator,
) (*domain.Module, error) {
	orig, err := imp(domain.ImportRequest{Name: UtilsModule, FromList: []string{"weak_ref_tensor"}})
	if err != nil {
		return nil, err
	}

	wrapped := orig.Wrap(map[string]any{
		"weak_ref_tensor": &domain.Function{
			Name: "weak_ref_tensor",
			Impl: func(args ...any) (any, error) { return native.WeakRefTensor(args[0]) },
		},
		"weak_ref_tensors": &domain.Function{
			Name: "weak_ref_tensors",
			Impl: func(args ...any) (any, error) { return native.WeakRefTensors(args[0]) },
		},
		"_get_open_port": &domain.Function{
			Name: "_get_open_port",
			Impl: func(...any) (any, error) { return alloc.OpenPort() },
		},
	})
	cache.Put(UtilsModule, wrapped)
	if parent, ok := cache.Get("vllm"); ok {
		parent.Set("utils", wrapped)
	}
	return wrapped, nil
}

// PatchTorchUtils exposes the registrar as direct_register_custom_op.
func PatchTorchUtils(imp ports.ImportFunc, r *oplib.Registrar, caps domain.Capabilities) error {
	mod, err := imp(domain.ImportRequest{Name: TorchUtilsModule, FromList: []string{"supports_custom_op"}})
	if err != nil {
		return err
	}
	mod.Set("direct_register_custom_op", r.Register)
	mod.Set("supports_custom_op", caps.CustomOp)
	return nil
}

// PatchParallelState binds the group lookup of the host's collective layer
// to groups.
func PatchParallelState(imp ports.ImportFunc, groups *collective.Groups) error {
	mod, err := imp(domain.ImportRequest{Name: ParallelStateModule, FromList: []string{"get_group"}})
	if err != nil {
		return err
	}
	mod.Set("get_group", groups.Get)
	mod.Set("group_names", groups.Names())
	return nil
}

// PatchConfigRegistry merges ConfigRegistry into the host's config registry.
// It only touches the registry when the host config module is already
// loaded and reports whether it did.
func PatchConfigRegistry(cache ports.ModuleCache) (bool, error) {
	mod, ok := cache.Get(ConfigModule)
	if !ok {
		return false, nil
	}

	current, ok := mod.Get("_CONFIG_REGISTRY")
	if !ok {
		return false, zerr.With(zerr.Wrap(domain.ErrSymbolNotFound, "patch config registry"),
			"symbol", "_CONFIG_REGISTRY")
	}
	registry, ok := current.(map[string]string)
	if !ok {
		return false, zerr.With(zerr.Wrap(domain.ErrSymbolNotFound, "config registry has an unexpected type"),
			"type", typeName(current))
	}

	merged := maps.Clone(registry)
	maps.Copy(merged, ConfigRegistry())
	mod.Set("_CONFIG_REGISTRY", merged)
	return true, nil
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
