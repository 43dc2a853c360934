package domain_test

import (
	"testing"

	"github.com/nfrund/stucruum/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	for _, f := range domain.Fields {
		got, err := domain.ParseField(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := domain.ParseField("username")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestDraft_WithLeavesOtherFieldsAlone(t *testing.T) {
	d := domain.Draft{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "pw"}

	updated, err := d.With(domain.FieldEmail, "countess@example.com")
	require.NoError(t, err)

	assert.Equal(t, "countess@example.com", updated.Email)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Equal(t, "pw", updated.Password)
	// The receiver is a value; the original draft keeps its email.
	assert.Equal(t, "ada@example.com", d.Email)

	assert.Equal(t, "Lovelace", updated.Get(domain.FieldLastName))
	assert.Equal(t, "", updated.Get(domain.Field("nickname")))
}

func TestDraft_WithUnknownField(t *testing.T) {
	_, err := domain.Draft{}.With(domain.Field("nickname"), "x")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}
