package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessRules_Evaluate(t *testing.T) {
	employeeClaims := Claims{
		"id":        float64(3),
		"type":      float64(1),
		"safelogin": true,
		"safehost":  false,
		"roles":     []any{"ClientManager"},
	}

	tests := []struct {
		name     string
		rules    AccessRules
		claims   Claims
		wantRule Rule
		wantOK   bool
	}{
		{
			name:   "no rules grants everyone",
			rules:  AccessRules{},
			claims: Claims{"id": float64(1)},
			wantOK: true,
		},
		{
			name:   "safelogin satisfied",
			rules:  AccessRules{SafeLogin: true},
			claims: employeeClaims,
			wantOK: true,
		},
		{
			name:     "safelogin denied",
			rules:    AccessRules{SafeLogin: true},
			claims:   Claims{"safelogin": false},
			wantRule: RuleSafeLogin,
		},
		{
			name:     "safehost denied",
			rules:    AccessRules{SafeHost: true},
			claims:   employeeClaims,
			wantRule: RuleSafeHost,
		},
		{
			name:   "safe passes on safelogin alone",
			rules:  AccessRules{Safe: true},
			claims: Claims{"safelogin": true, "safehost": false},
			wantOK: true,
		},
		{
			name:   "safe passes on safehost alone",
			rules:  AccessRules{Safe: true},
			claims: Claims{"safelogin": false, "safehost": true},
			wantOK: true,
		},
		{
			name:     "safe denied when neither",
			rules:    AccessRules{Safe: true},
			claims:   Claims{"safelogin": false, "safehost": false},
			wantRule: RuleSafe,
		},
		{
			name:   "employee satisfied",
			rules:  AccessRules{Employee: true},
			claims: employeeClaims,
			wantOK: true,
		},
		{
			name:     "employee denied for other type",
			rules:    AccessRules{Employee: true},
			claims:   Claims{"type": float64(2)},
			wantRule: RuleEmployee,
		},
		{
			name:     "employee denied when type missing",
			rules:    AccessRules{Employee: true},
			claims:   Claims{},
			wantRule: RuleEmployee,
		},
		{
			name:   "roles intersect",
			rules:  AccessRules{Roles: []string{"Admin", "ClientManager"}},
			claims: employeeClaims,
			wantOK: true,
		},
		{
			name:     "roles disjoint",
			rules:    AccessRules{Roles: []string{"Admin"}},
			claims:   employeeClaims,
			wantRule: RuleRoles,
		},
		{
			name:     "roles required but claim empty",
			rules:    AccessRules{Roles: []string{"Admin"}},
			claims:   Claims{"roles": []any{}},
			wantRule: RuleRoles,
		},
		{
			name:   "all configured rules pass",
			rules:  AccessRules{SafeLogin: true, Employee: true, Roles: []string{"ClientManager"}},
			claims: employeeClaims,
			wantOK: true,
		},
		{
			name:     "first failing rule reported",
			rules:    AccessRules{SafeHost: true, Employee: true},
			claims:   employeeClaims,
			wantRule: RuleSafeHost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := tt.rules.Evaluate(tt.claims)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRule, rule)
		})
	}
}
