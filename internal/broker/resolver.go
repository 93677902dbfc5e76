package broker

import (
	"context"
	"errors"

	"github.com/yoocash/idbroker/internal/providers"
	"github.com/yoocash/idbroker/internal/settings"
	"github.com/yoocash/idbroker/internal/store"
)

// Resolver decides, for one validated profile, which account the login
// maps to. The gates run in a fixed order; each either passes control to
// the next or ends resolution with a result or rejection.
type Resolver struct {
	store store.UserStore
}

func NewResolver(s store.UserStore) *Resolver {
	return &Resolver{store: s}
}

// Resolve runs the gate sequence:
//
//  1. look up existing accounts sharing the profile's email
//  2. registration gate: no account under this provider and
//     registration closed means the login is refused
//  3. existing match: an account under the same provider wins outright,
//     policy flags notwithstanding
//  4. uniqueness gate: accounts under other providers plus unique_email
//     refuse the login
//  5. create a confirmed account with the default role
func (r *Resolver) Resolve(ctx context.Context, providerID string, profile *providers.Profile, adv *settings.Advanced) (*Result, error) {
	users, err := r.store.FindUsersByEmail(ctx, profile.Email)
	if err != nil {
		return nil, &StoreError{Op: "find users by email", Err: err}
	}

	var match *store.User
	for i := range users {
		if users[i].Provider == providerID {
			match = &users[i]
			break
		}
	}

	if !adv.AllowRegister && match == nil {
		return nil, rejectRegisterClosed()
	}

	if match != nil {
		return &Result{User: match, New: false}, nil
	}

	if len(users) > 0 && adv.UniqueEmail {
		return nil, rejectEmailTaken()
	}

	role, err := r.store.FindDefaultRole(ctx, adv.DefaultRole)
	if err != nil {
		return nil, &StoreError{Op: "find default role", Err: err}
	}

	user, err := r.store.CreateUser(ctx, store.NewUser{
		Username:       profile.Username,
		Email:          profile.Email,
		DisplayName:    profile.DisplayName,
		AvatarURL:      profile.AvatarURL,
		Provider:       providerID,
		ProviderUserID: profile.ProviderUserID,
		RoleID:         role.ID,
		Confirmed:      true,
	})
	if err != nil {
		// A concurrent login for the same identity raced us to the
		// insert; the store constraint is the backstop for the gate
		// above.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, rejectEmailTaken()
		}
		return nil, &StoreError{Op: "create user", Err: err}
	}
	return &Result{User: user, New: true}, nil
}
