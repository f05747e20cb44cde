package ports

import "github.com/bft-labs/calcpad/internal/domain"

// RenderListener receives the render model after every state transition.
// Listeners are called synchronously while the calculator is locked and
// must not call back into it.
type RenderListener interface {
	OnRender(model domain.RenderModel)
}

// RenderListenerFunc adapts a function to RenderListener.
type RenderListenerFunc func(model domain.RenderModel)

// OnRender calls f(model).
func (f RenderListenerFunc) OnRender(model domain.RenderModel) {
	f(model)
}
