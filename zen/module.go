package zen

import (
	"context"

	"go.uber.org/zap"

	"github.com/sdegenaar/zenify-sub002/errcode"
	"github.com/sdegenaar/zenify-sub002/scope"
)

// Module a named registration unit batched through RegisterModules
type Module interface {
	// Name unique identifier of the unit, used in logs and errors
	Name() string

	// Register installs the unit's entries into the target scope
	Register(ctx context.Context, s *scope.Scope) error
}

// PostRegisterHook optional hook run right after the module's Register call
// completes, before the next module registers
type PostRegisterHook interface {
	OnRegistered(ctx context.Context, s *scope.Scope) error
}

// RegisterModules batch-registers the units in order against the current
// scope. Each unit's post-register hook runs after its own registration
// completes. Ready callbacks flush once after the whole batch, so every
// module in the batch is visible to every OnReady.
func RegisterModules(ctx context.Context, modules ...Module) error {
	r := ensure()
	s := CurrentScope()

	for _, m := range modules {
		if m == nil {
			continue
		}
		if err := m.Register(ctx, s); err != nil {
			r.log.ErrorCtx(ctx, "❌ 模块注册失败", zap.String("module", m.Name()), zap.Error(err))
			return errcode.ErrModuleRegister.Wrapf(err, "模块 '%s' 注册失败", m.Name())
		}
		if hook, ok := m.(PostRegisterHook); ok {
			if err := hook.OnRegistered(ctx, s); err != nil {
				r.log.ErrorCtx(ctx, "❌ 模块注册后钩子失败", zap.String("module", m.Name()), zap.Error(err))
				return errcode.ErrModuleRegister.Wrapf(err, "模块 '%s' 注册后钩子失败", m.Name())
			}
		}
		r.log.DebugCtx(ctx, "📦 模块已注册", zap.String("module", m.Name()))
	}

	r.manager.FlushReady(ctx)
	return nil
}
