package database

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(&pq.Error{Code: "23505"}))
	assert.False(t, IsDuplicateKey(&pq.Error{Code: "23503"}))
	assert.False(t, IsDuplicateKey(errors.New("plain")))
}

func TestDuplicateKeyField(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"admins_email_key", "email"},
		{"tables_name_key", "name"},
		{"admins_phone_number_key", "phoneNumber"},
	}

	for _, tt := range tests {
		err := &pq.Error{Code: "23505", Constraint: tt.constraint}
		assert.Equal(t, tt.want, DuplicateKeyField(err), tt.constraint)
	}
}
