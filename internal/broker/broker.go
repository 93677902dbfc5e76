package broker

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yoocash/idbroker/internal/metrics"
	"github.com/yoocash/idbroker/internal/observability/logger"
	"github.com/yoocash/idbroker/internal/providers"
	"github.com/yoocash/idbroker/internal/settings"
	"github.com/yoocash/idbroker/internal/store"
	"github.com/yoocash/idbroker/internal/validation"
)

// RegistrationHook is notified after a new account is provisioned.
// Hooks run asynchronously; a hook failure never affects the login that
// triggered it.
type RegistrationHook interface {
	OnRegistered(ctx context.Context, user *store.User)
}

// Broker is the single entry point for provider logins: it extracts the
// credential, fetches and normalizes the remote profile, and resolves it
// to an account under the tenant's current policy.
type Broker struct {
	registry *providers.Registry
	settings settings.Store
	resolver *Resolver
	hooks    []RegistrationHook
}

func New(registry *providers.Registry, cfg settings.Store, userStore store.UserStore, hooks ...RegistrationHook) *Broker {
	return &Broker{
		registry: registry,
		settings: cfg,
		resolver: NewResolver(userStore),
		hooks:    hooks,
	}
}

// Providers returns the IDs of all registered providers, sorted.
func (b *Broker) Providers() []string {
	return b.registry.Names()
}

// ProviderStatus is a discovery entry: Enabled when the provider has a
// settings entry, Ready when that entry carries key material.
type ProviderStatus struct {
	Name    string
	Enabled bool
	Ready   bool
}

// ProviderStatuses reports enabled/ready per registered provider, for
// login-UI bootstrap. Settings read failures other than "not configured"
// degrade the entry rather than failing the listing.
func (b *Broker) ProviderStatuses(ctx context.Context) []ProviderStatus {
	names := b.registry.Names()
	out := make([]ProviderStatus, 0, len(names))
	for _, name := range names {
		st := ProviderStatus{Name: name}
		cfg, err := b.settings.ProviderConfig(ctx, name)
		if err == nil {
			st.Enabled = true
			st.Ready = cfg.ClientKey != ""
		}
		out = append(out, st)
	}
	return out
}

// Authenticate runs the full pipeline for one callback. params carries
// the query parameters of the provider redirect; which key holds the
// credential varies by protocol generation.
//
// Rejections come back as *Rejection via the error return; everything
// else is a hard failure.
func (b *Broker) Authenticate(ctx context.Context, providerID string, params map[string]string) (*Result, error) {
	start := time.Now()
	log := logger.FromWithFields(ctx, logger.Component("broker"), logger.Provider(providerID))

	res, err := b.authenticate(ctx, providerID, params)
	metrics.AuthDuration.WithLabelValues(providerID).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AuthAttempts.WithLabelValues(providerID, outcomeLabel(err)).Inc()
		return nil, err
	}

	outcome := metrics.OutcomeMatched
	if res.New {
		outcome = metrics.OutcomeCreated
		metrics.UsersCreated.WithLabelValues(providerID).Inc()
	}
	metrics.AuthAttempts.WithLabelValues(providerID, outcome).Inc()
	log.Info("login resolved",
		logger.Outcome(outcome),
		logger.UserID(res.User.ID),
		logger.Duration(time.Since(start)),
	)

	if res.New {
		b.notifyRegistered(ctx, res.User)
	}
	return res, nil
}

func (b *Broker) authenticate(ctx context.Context, providerID string, params map[string]string) (*Result, error) {
	cred, err := extractCredential(params)
	if err != nil {
		return nil, err
	}

	provider, err := b.registry.Get(providerID)
	if err != nil {
		return nil, err
	}

	// Provider key material and policy flags live behind independent
	// reads; fetch both concurrently.
	var (
		cfg *providers.Config
		adv *settings.Advanced
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = b.settings.ProviderConfig(gctx, providerID)
		return err
	})
	g.Go(func() error {
		var err error
		adv, err = b.settings.AdvancedSettings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile, err := provider.FetchProfile(ctx, cred, *cfg)
	if err != nil {
		metrics.ProviderCallErrors.WithLabelValues(providerID).Inc()
		return nil, err
	}
	profile.Email = strings.ToLower(profile.Email)

	if err := validation.ValidateProfile(profile); err != nil {
		return nil, err
	}

	return b.resolver.Resolve(ctx, providerID, profile, adv)
}

// notifyRegistered fires registration hooks in the background. The
// request context is about to be canceled, so hooks get a detached copy
// that keeps its values.
func (b *Broker) notifyRegistered(ctx context.Context, user *store.User) {
	if len(b.hooks) == 0 {
		return
	}
	hookCtx := context.WithoutCancel(ctx)
	for _, h := range b.hooks {
		h := h
		go h.OnRegistered(hookCtx, user)
	}
}

func outcomeLabel(err error) string {
	var rej *Rejection
	if errors.As(err, &rej) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeFailed
}

// extractCredential pulls the token material out of the callback
// parameters. OAuth2 implicit flows send access_token, Apple sends an
// authorization code, OAuth1 providers send oauth_token (plus its
// secret). All remaining params ride along for adapters that need extra
// callback data (openid, raw[...] keys, Apple name fields).
func extractCredential(params map[string]string) (providers.Credential, error) {
	cred := providers.Credential{Params: params}
	switch {
	case params["access_token"] != "":
		cred.AccessToken = params["access_token"]
	case params["code"] != "":
		cred.AccessToken = params["code"]
	case params["oauth_token"] != "":
		cred.AccessToken = params["oauth_token"]
		cred.Secret = params["oauth_token_secret"]
	default:
		return providers.Credential{}, ErrNoCredential
	}
	return cred, nil
}
