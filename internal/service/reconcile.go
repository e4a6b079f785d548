package service

import (
	"context"
	"errors"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/rahvusarhiiv/vaugate/internal/domain/auth"
	"github.com/rahvusarhiiv/vaugate/internal/ports"
)

// ScenarioTagger is implemented by user records that support validation
// scenarios. Records without scenario support are used as-is.
type ScenarioTagger interface {
	TagScenario(scenario string)
}

var errCreateDisabled = errors.New("user not found and creation disabled")

// reconciler maps validated VAU claims onto a local user record through the
// UserStore port.
type reconciler struct {
	store   ports.UserStore
	mapping *boundMapping
}

// reconcile finds, creates, or updates the local user for the claims'
// external id. errCreateDisabled means access is denied; any other error is
// a sync failure against the local store.
func (r *reconciler) reconcile(ctx context.Context, claims domainauth.Claims) (domainauth.UserRecord, error) {
	id, _ := claims.ID()

	rec, err := r.store.FindOne(ctx, r.mapping.idAttribute, id)
	switch {
	case errors.Is(err, ports.ErrUserNotFound):
		if !r.mapping.allowCreate {
			return nil, errCreateDisabled
		}
		rec = r.store.New(r.mapping.scenario)
		rec.SetAttribute(r.mapping.idAttribute, id)
		r.applyAttributes(rec, claims)
		if saveErr := r.store.Save(ctx, rec); saveErr != nil {
			return nil, fmt.Errorf("create user: %w", saveErr)
		}
		return rec, nil

	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)

	case r.mapping.allowUpdate:
		if tagger, ok := rec.(ScenarioTagger); ok && r.mapping.scenario != "" {
			tagger.TagScenario(r.mapping.scenario)
		}
		r.applyAttributes(rec, claims)
		if saveErr := r.store.Save(ctx, rec); saveErr != nil {
			return nil, fmt.Errorf("update user: %w", saveErr)
		}
		return rec, nil

	default:
		// Found and updates disabled: hand back the record untouched.
		return rec, nil
	}
}

// applyAttributes copies every configured claim expression onto the record.
// Expressions were compiled at bind time; a claim that is absent evaluates
// to nil and is copied as such, unconditionally overwriting the attribute.
func (r *reconciler) applyAttributes(rec domainauth.UserRecord, claims domainauth.Claims) {
	for _, a := range r.mapping.attrs {
		v, err := jmespath.Search(a.Expr, map[string]any(claims))
		if err != nil {
			v = nil
		}
		rec.SetAttribute(a.Attribute, v)
	}
}
