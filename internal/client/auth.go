package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nhle/flowboard/internal/model"
	"github.com/nhle/flowboard/internal/remote"
)

// Auth manages the session and the current user.
type Auth struct {
	c *Client
}

// Me returns the current user, or nil when there is none. In mock mode the
// current user is the first record of the users collection.
func (a *Auth) Me(ctx context.Context) (*model.User, error) {
	return attempt(ctx, a.c, model.CollectionUsers, "me", defaultLatency,
		func(r *remote.Client) (*model.User, error) {
			env, err := r.Me(ctx)
			if err != nil {
				return nil, err
			}
			return decodeUser(env)
		},
		func() (*model.User, error) {
			return a.current(ctx)
		},
	)
}

// UpdateMe shallow-merges patch into the current user. The users
// collection is updated in place, so listing users shows the change.
func (a *Auth) UpdateMe(ctx context.Context, patch model.Patch) (*model.User, error) {
	return attempt(ctx, a.c, model.CollectionUsers, "updateMe", defaultLatency,
		func(r *remote.Client) (*model.User, error) {
			env, err := r.UpdateMe(ctx, patch)
			if err != nil {
				return nil, err
			}
			return decodeUser(env)
		},
		func() (*model.User, error) {
			me, err := a.current(ctx)
			if err != nil || me == nil {
				return nil, err
			}
			rec, err := a.c.store.Update(ctx, model.CollectionUsers, me.ID, patch)
			if err != nil {
				return nil, err
			}
			return decodeRecord[model.User](a.c, model.CollectionUsers, rec)
		},
	)
}

// Logout ends the session. The persisted token is cleared in both modes.
func (a *Auth) Logout(ctx context.Context) (remote.Envelope, error) {
	return attempt(ctx, a.c, model.CollectionUsers, "logout", logoutLatency,
		func(r *remote.Client) (remote.Envelope, error) {
			return r.Logout(ctx)
		},
		func() (remote.Envelope, error) {
			if a.c.session != nil {
				if err := a.c.session.ClearToken(); err != nil {
					return remote.Envelope{}, fmt.Errorf("clearing session: %w", err)
				}
			}
			return remote.Envelope{Success: true}, nil
		},
	)
}

// List returns every user, for leaderboard views.
func (a *Auth) List(ctx context.Context, orderBy string) ([]model.User, error) {
	return a.c.Entities.User.List(ctx, orderBy)
}

// Login authenticates against the backend and persists the token. Failures
// are returned to the caller rather than masked. In mock mode it succeeds
// with the current user as data.
func (a *Auth) Login(ctx context.Context, creds remote.Credentials) (remote.Envelope, error) {
	if a.c.remote != nil {
		return a.c.remote.Login(ctx, creds)
	}
	return a.localSignIn(ctx)
}

// Register creates an account on the backend and persists the token. In
// mock mode it behaves like Login.
func (a *Auth) Register(ctx context.Context, reg remote.Registration) (remote.Envelope, error) {
	if a.c.remote != nil {
		return a.c.remote.Register(ctx, reg)
	}
	return a.localSignIn(ctx)
}

func (a *Auth) localSignIn(ctx context.Context) (remote.Envelope, error) {
	if err := a.c.pause(ctx, defaultLatency); err != nil {
		return remote.Envelope{}, err
	}
	me, err := a.current(ctx)
	if err != nil {
		return remote.Envelope{}, err
	}
	return envelopeOf(me)
}

// current returns the first user in the local store.
func (a *Auth) current(ctx context.Context) (*model.User, error) {
	users, err := a.c.store.List(ctx, model.CollectionUsers, "")
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return decodeRecord[model.User](a.c, model.CollectionUsers, users[0])
}

func decodeUser(env remote.Envelope) (*model.User, error) {
	if !env.HasData() {
		return nil, nil
	}
	var rec model.Record
	if err := env.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return model.Decode[model.User](rec)
}

// envelopeOf wraps v as successful data.
func envelopeOf(v any) (remote.Envelope, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return remote.Envelope{}, fmt.Errorf("encoding response data: %w", err)
	}
	return remote.Envelope{Success: true, Data: data}, nil
}
