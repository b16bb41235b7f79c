package errcode

// Module codes: 10 scope, 12 analyzer/bus, 13 lifecycle, 14 zen facade.
// The container itself never errors: absence is an empty result.
var (
	// ErrNotFound required lookup failed
	ErrNotFound = Register(New(10, 1, "scope", "error.scope.not_found", "依赖未找到"))

	// ErrPermanentEntry non-forced delete refused on a permanent entry
	ErrPermanentEntry = Register(New(10, 2, "scope", "error.scope.permanent_refused", "永久条目拒绝删除"))

	// ErrInvalidConfiguration invalid registration options (e.g. permanent + always-new)
	ErrInvalidConfiguration = Register(New(10, 3, "scope", "error.scope.invalid_configuration", "无效的注册配置"))

	// ErrScopeDisposed registration attempted on a disposed scope
	ErrScopeDisposed = Register(New(10, 4, "scope", "error.scope.disposed", "作用域已销毁"))

	// ErrCycleDetected diagnostic only, registration is never blocked
	ErrCycleDetected = Register(New(12, 1, "analyzer", "error.analyzer.cycle_detected", "检测到循环依赖"))

	// ErrModuleRegister a registration unit failed during batch registration
	ErrModuleRegister = Register(New(14, 1, "zen", "error.zen.module_register", "模块注册失败"))
)
