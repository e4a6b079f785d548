package service

import (
	"errors"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// AttributeMapping pairs a claim-side JMESPath expression with the local
// user attribute it populates. Plain claim names ("firstname") are valid
// expressions, so simple deployments never notice the expression support.
type AttributeMapping struct {
	Expr      string
	Attribute string
}

// DataMapping configures identity reconciliation. When no mapping is
// configured, authentication yields a claims-only identity and the user
// store is never touched.
type DataMapping struct {
	// IDAttribute is the local user attribute storing the VAU user id.
	IDAttribute string
	// Scenario optionally tags created/updated records for
	// validation-mode selection in the store.
	Scenario string
	// AllowCreate permits creating a local user for an unknown VAU id.
	AllowCreate bool
	// AllowUpdate overwrites mapped attributes on every authentication.
	AllowUpdate bool
	// Attributes are applied in order on create and update.
	Attributes []AttributeMapping
}

// boundMapping is a DataMapping validated and compiled at configuration-bind
// time, so per-request evaluation cannot hit an expression error.
type boundMapping struct {
	idAttribute string
	scenario    string
	allowCreate bool
	allowUpdate bool
	attrs       []AttributeMapping
}

// bindMapping validates the mapping and compiles its attribute expressions.
// Failures here are deployment defects and abort startup.
func bindMapping(m *DataMapping) (*boundMapping, error) {
	if m == nil {
		return nil, nil
	}
	if strings.TrimSpace(m.IDAttribute) == "" {
		return nil, errors.New("data mapping: id attribute is required")
	}
	for _, a := range m.Attributes {
		if strings.TrimSpace(a.Attribute) == "" {
			return nil, fmt.Errorf("data mapping: expression %q maps to an empty attribute name", a.Expr)
		}
		if _, err := jmespath.Compile(a.Expr); err != nil {
			return nil, fmt.Errorf("data mapping: invalid expression %q: %w", a.Expr, err)
		}
	}
	return &boundMapping{
		idAttribute: m.IDAttribute,
		scenario:    m.Scenario,
		allowCreate: m.AllowCreate,
		allowUpdate: m.AllowUpdate,
		attrs:       append([]AttributeMapping(nil), m.Attributes...),
	}, nil
}
