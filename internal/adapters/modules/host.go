package modules

import (
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
)

// OriginSymbol names the symbol recording which distribution built a module.
const OriginSymbol = "__origin__"

// HostOrigin is the origin of modules provided by the host runtime.
const HostOrigin = "vllm"

// HostModules returns the builders of the host runtime modules the plugin
// interacts with.
func HostModules() map[string]ports.ModuleBuilder {
	leaf := func(extra map[string]any) ports.ModuleBuilder {
		return func(mod *domain.Module, _ ports.ImportFunc) error {
			mod.Set(OriginSymbol, HostOrigin)
			for k, v := range extra {
				mod.Set(k, v)
			}
			return nil
		}
	}

	builders := map[string]ports.ModuleBuilder{
		"vllm": leaf(nil),
		"vllm.utils": leaf(map[string]any{
			"cdiv": func(a, b int) int { return -(-a / b) },
			"weak_ref_tensor": &domain.Function{
				Name: "weak_ref_tensor",
				Impl: func(...any) (any, error) {
					return nil, domain.ErrNoKernel
				},
			},
		}),
		"vllm.utils.torch_utils": leaf(map[string]any{
			"supports_custom_op": true,
		}),
		"vllm.transformers_utils.config": leaf(map[string]any{
			"_CONFIG_REGISTRY": map[string]string{
				"chatglm":        "ChatGLMConfig",
				"deepseek_vl_v2": "DeepseekVLV2Config",
			},
		}),
	}

	// Modules the plugin redirects, plus the collective layer it overrides.
	for _, r := range domain.DefaultRedirects() {
		builders[r.Logical] = leaf(nil)
	}
	builders["vllm.distributed.parallel_state"] = leaf(nil)

	return builders
}
