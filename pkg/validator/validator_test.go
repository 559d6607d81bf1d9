package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordivo/shopkit/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("name", "Mario Rossi"),
			validator.ValidEmail("email", "mario@example.com"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every violation", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("name", "  "),
			validator.ValidEmail("email", "nope"),
			validator.Positive("total", 0),
		)
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 3)
		assert.Equal(t, []string{"name", "email", "total"}, ve.Fields())
		assert.True(t, ve.Has("email"))
		assert.False(t, ve.Has("subject"))
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		valid bool
	}{
		{"mario@example.com", true},
		{"mario.rossi+tag@sub.example.it", true},
		{"", false},
		{"   ", false},
		{"plainstring", false},
		{"@example.com", false},
		{"mario@", false},
		{"mario@localhost", false},
		{"mario@.example.com", false},
		{"mario@example.com.", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()

			rule := validator.ValidEmail("email", tt.email)
			assert.Equal(t, tt.valid, rule.Check())
		})
	}
}

func TestMaxLen(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.MaxLen("subject", "breve", 10).Check())
	assert.False(t, validator.MaxLen("subject", "decisamente troppo lungo", 10).Check())
}
