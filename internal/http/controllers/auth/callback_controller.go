package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yoocash/idbroker/internal/broker"
	"github.com/yoocash/idbroker/internal/http/dto"
	httperrors "github.com/yoocash/idbroker/internal/http/errors"
	"github.com/yoocash/idbroker/internal/http/helpers"
	"github.com/yoocash/idbroker/internal/observability/logger"
	"github.com/yoocash/idbroker/internal/providers"
	"github.com/yoocash/idbroker/internal/settings"
	"github.com/yoocash/idbroker/internal/validation"
)

// CallbackController handles the provider callback endpoint.
type CallbackController struct {
	broker *broker.Broker
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(b *broker.Broker) *CallbackController {
	return &CallbackController{broker: b}
}

// Callback handles POST /v1/auth/{provider}/callback
//
// The credential arrives as a JSON body; GET with the redirect query
// string is accepted too for providers that send the user agent
// straight here.
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := strings.ToLower(chi.URLParam(r, "provider"))
	log := logger.From(ctx).With(logger.Op("CallbackController.Callback"), logger.Provider(provider))

	if provider == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing provider"))
		return
	}

	params, ok := c.extractParams(w, r)
	if !ok {
		return
	}

	res, err := c.broker.Authenticate(ctx, provider, params)
	if err != nil {
		appErr := mapAuthError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("callback failed", logger.Err(err))
		} else {
			log.Warn("callback refused", logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}

	status := http.StatusOK
	if res.New {
		status = http.StatusCreated
	}
	helpers.WriteJSON(w, status, dto.NewAuthResponse(res.User, res.New))
}

// extractParams builds the broker parameter map from either the JSON
// body (POST) or the query string (GET). Returns false if it already
// wrote an error.
func (c *CallbackController) extractParams(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	if r.Method == http.MethodGet {
		params := make(map[string]string)
		for k, vs := range r.URL.Query() {
			if len(vs) > 0 {
				params[k] = vs[0]
			}
		}
		return params, true
	}

	var req dto.CallbackRequest
	if !helpers.ReadJSON(w, r, &req) {
		return nil, false
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, httperrors.ErrNoCredential.WithCause(err))
		return nil, false
	}
	return req.Params(), true
}

// mapAuthError translates pipeline errors to wire errors.
func mapAuthError(err error) *httperrors.AppError {
	var rej *broker.Rejection
	if errors.As(err, &rej) {
		switch rej.Reason {
		case broker.ReasonRegisterClosed:
			return httperrors.ErrRegistrationClosed
		case broker.ReasonEmailTaken:
			return httperrors.ErrEmailTaken
		}
	}

	var callErr *providers.CallError
	switch {
	case errors.Is(err, broker.ErrNoCredential):
		return httperrors.ErrNoCredential.WithCause(err)
	case errors.Is(err, providers.ErrUnknownProvider):
		return httperrors.ErrUnknownProvider.WithCause(err)
	case errors.Is(err, settings.ErrNotConfigured):
		return httperrors.ErrProviderNotConfigured.WithCause(err)
	case errors.Is(err, providers.ErrInvalidToken):
		return httperrors.ErrInvalidToken.WithCause(err)
	case errors.Is(err, validation.ErrEmailMissing):
		return httperrors.ErrEmailMissing.WithCause(err)
	case errors.As(err, &callErr):
		return httperrors.ErrProviderCallFailed.WithCause(err)
	}

	var se *broker.StoreError
	if errors.As(err, &se) {
		return httperrors.ErrStoreFailure.WithCause(err)
	}
	return httperrors.ErrInternalServerError.WithCause(err)
}
