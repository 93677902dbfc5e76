// Package auth exposes the provider login endpoints.
package auth

import (
	"github.com/yoocash/idbroker/internal/broker"
)

// Controllers bundles the auth controllers for wiring.
type Controllers struct {
	Callback  *CallbackController
	Providers *ProvidersController
}

func NewControllers(b *broker.Broker) *Controllers {
	return &Controllers{
		Callback:  NewCallbackController(b),
		Providers: NewProvidersController(b),
	}
}
