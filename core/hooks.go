package core

import "context"

// Lifecycle hook interfaces. A stored instance may implement any subset;
// the lifecycle manager invokes whatever is present and ignores the rest.

// Initializable runs synchronously when the instance is registered.
type Initializable interface {
	OnInit(ctx context.Context) error
}

// Readyable runs after the registration batch completes, so siblings
// registered together are visible to each other.
type Readyable interface {
	OnReady(ctx context.Context) error
}

// Pausable receives the external background signal.
type Pausable interface {
	OnPause(ctx context.Context)
}

// Resumable receives the external foreground signal.
type Resumable interface {
	OnResume(ctx context.Context)
}

// Disposable runs when the owning entry is deleted or its scope disposes.
// It fires at most once per entry removal.
type Disposable interface {
	OnDispose()
}
