package checkout

import (
	"context"
	"fmt"

	"ugiot.co.il/app/internal/modules/profiles"
)

type ProfileAction string

const (
	ActionCreate ProfileAction = "create"
	ActionUpdate ProfileAction = "update"
	ActionGuest  ProfileAction = "guest"
)

type ProfileUpserter interface {
	Upsert(ctx context.Context, userID string, in profiles.UpsertRequest) ([]profiles.Profile, error)
}

type ProfileCache interface {
	Get(userID string) (profiles.Profile, bool)
	Put(userID string, p profiles.Profile)
}

type ReconcileInput struct {
	UserID string // empty for guests
	Form   Form
}

type ProfileDecision struct {
	Action    ProfileAction
	ProfileID string
}

// Reconciler decides how the customer profile is written before an order.
// Guests never get a profile write here; the guest procedure owns that path.
type Reconciler struct {
	upserter ProfileUpserter
	cache    ProfileCache
}

func NewReconciler(u ProfileUpserter, c ProfileCache) *Reconciler {
	return &Reconciler{upserter: u, cache: c}
}

func (r *Reconciler) Resolve(ctx context.Context, in ReconcileInput) (ProfileDecision, error) {
	if in.UserID == "" {
		return ProfileDecision{Action: ActionGuest}, nil
	}

	cached, hasCached := r.cache.Get(in.UserID)
	action := ActionCreate
	if hasCached {
		action = ActionUpdate
	}

	rows, err := r.upserter.Upsert(ctx, in.UserID, upsertRequest(in.Form))
	if err != nil {
		return ProfileDecision{}, fmt.Errorf("profile %s: %w", action, err)
	}
	if len(rows) == 0 {
		return ProfileDecision{}, ErrEmptyUpsert
	}
	r.cache.Put(in.UserID, rows[0])

	id := rows[0].ID
	if hasCached && cached.ID != "" {
		id = cached.ID
	}
	return ProfileDecision{Action: action, ProfileID: id}, nil
}

func upsertRequest(f Form) profiles.UpsertRequest {
	req := profiles.UpsertRequest{Phone: f.Phone, FullName: f.FullName, Notes: f.notesPtr()}
	if f.Address != "" {
		a := f.Address
		req.Address = &a
	}
	if f.City != "" {
		c := f.City
		req.City = &c
	}
	return req
}
