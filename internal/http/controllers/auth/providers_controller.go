package auth

import (
	"net/http"

	"github.com/yoocash/idbroker/internal/broker"
	"github.com/yoocash/idbroker/internal/http/dto"
	"github.com/yoocash/idbroker/internal/http/helpers"
)

// ProvidersController exposes the provider discovery endpoint.
type ProvidersController struct {
	broker *broker.Broker
}

func NewProvidersController(b *broker.Broker) *ProvidersController {
	return &ProvidersController{broker: b}
}

// List handles GET /v1/auth/providers
func (c *ProvidersController) List(w http.ResponseWriter, r *http.Request) {
	statuses := c.broker.ProviderStatuses(r.Context())
	entries := make([]dto.ProviderEntry, 0, len(statuses))
	for _, s := range statuses {
		entries = append(entries, dto.ProviderEntry{
			Name:    s.Name,
			Enabled: s.Enabled,
			Ready:   s.Ready,
		})
	}
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, dto.ProvidersResponse{Providers: entries})
}
