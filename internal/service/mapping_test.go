package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindMapping(t *testing.T) {
	t.Run("nil mapping binds to nil", func(t *testing.T) {
		bound, err := bindMapping(nil)
		require.NoError(t, err)
		assert.Nil(t, bound)
	})

	t.Run("valid mapping", func(t *testing.T) {
		bound, err := bindMapping(&DataMapping{
			IDAttribute: "vau_id",
			Scenario:    "vau",
			AllowCreate: true,
			Attributes: []AttributeMapping{
				{Expr: "firstname", Attribute: "first_name"},
				{Expr: "fullname || firstname", Attribute: "full_name"},
				{Expr: "roles[0]", Attribute: "primary_role"},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, bound)
		assert.Equal(t, "vau_id", bound.idAttribute)
		assert.Len(t, bound.attrs, 3)
	})

	t.Run("missing id attribute", func(t *testing.T) {
		_, err := bindMapping(&DataMapping{IDAttribute: "  "})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id attribute is required")
	})

	t.Run("empty target attribute", func(t *testing.T) {
		_, err := bindMapping(&DataMapping{
			IDAttribute: "vau_id",
			Attributes:  []AttributeMapping{{Expr: "firstname", Attribute: ""}},
		})
		require.Error(t, err)
	})

	t.Run("invalid expression fails at bind time", func(t *testing.T) {
		_, err := bindMapping(&DataMapping{
			IDAttribute: "vau_id",
			Attributes:  []AttributeMapping{{Expr: "firstname[", Attribute: "first_name"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid expression")
	})
}
