//go:build unit

package user_test

import (
	"testing"

	"parking-booking/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    user.Role
		wantErr error
	}{
		{name: "user role", input: "user", want: user.RoleUser},
		{name: "admin role", input: "admin", want: user.RoleAdmin},
		{name: "unknown role", input: "operator", wantErr: user.ErrInvalidRole},
		{name: "empty role", input: "", wantErr: user.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := user.NewRole(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActor_CanAccess(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	assert.True(t, user.NewActor(owner, user.RoleUser).CanAccess(owner), "owner can access own record")
	assert.False(t, user.NewActor(other, user.RoleUser).CanAccess(owner), "other user cannot access")
	assert.True(t, user.NewActor(other, user.RoleAdmin).CanAccess(owner), "admin can access any record")
}
