// Package plugin holds what the accelerator plugin contributes to the host
// runtime: the modules redirects resolve to, the native operator library and
// the patches applied to host modules during activation.
package plugin

import (
	"strings"

	"go.trai.ch/kunlun/internal/adapters/modules" //nolint:depguard // Wired in plugin wiring
	"go.trai.ch/kunlun/internal/core/domain"
	"go.trai.ch/kunlun/internal/core/ports"
)

// Origin tags the modules built by the plugin.
const Origin = "vllm_kunlun"

// Host modules the plugin patches.
const (
	UtilsModule         = "vllm.utils"
	TorchUtilsModule    = "vllm.utils.torch_utils"
	ConfigModule        = "vllm.transformers_utils.config"
	ParallelStateModule = "vllm.distributed.parallel_state"
)

// PlatformModule is the module that exports the platform class.
const PlatformModule = "vllm_kunlun.platforms.kunlun"

// TargetModules returns the builders of the modules redirects resolve to,
// plus the platform module.
//
// Every target imports the host utilities through the installed entry point
// while it is built, so resolving a redirect re-enters the import hook.
func TargetModules(platform domain.Platform) map[string]ports.ModuleBuilder {
	builders := make(map[string]ports.ModuleBuilder)
	for _, r := range domain.DefaultRedirects() {
		builders[r.Target] = targetModule(r.Logical)
	}

	className := platform.ClassPath[strings.LastIndexByte(platform.ClassPath, '.')+1:]
	builders[PlatformModule] = func(mod *domain.Module, _ ports.ImportFunc) error {
		mod.Set(modules.OriginSymbol, Origin)
		mod.Set(className, platform)
		mod.Set("device_type", platform.DeviceType)
		return nil
	}
	return builders
}

func targetModule(replaces string) ports.ModuleBuilder {
	return func(mod *domain.Module, imp ports.ImportFunc) error {
		utils, err := imp(domain.ImportRequest{Name: UtilsModule, FromList: []string{"cdiv"}})
		if err != nil {
			return err
		}
		mod.Set(modules.OriginSymbol, Origin)
		mod.Set("__replaces__", replaces)
		mod.Set("utils", utils)
		return nil
	}
}
