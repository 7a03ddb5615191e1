package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUp struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
	Stars       int    `json:"stars" validate:"min=1,max=5"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(signUp{Email: "a@b.dk", DisplayName: "Ada", Stars: 3}))

	err := Struct(signUp{Email: "a@b.dk", Stars: 3})
	require.Error(t, err)
	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "display_name", ve.Field)
	assert.Equal(t, "display_name is required", ve.Error())

	err = Struct(signUp{Email: "a@b.dk", DisplayName: "Ada", Stars: 6})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "stars", ve.Field)
	assert.Equal(t, "must be at most 5", ve.Message)
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("status", "approved", "oneof=approved rejected hidden"))

	err := Var("status", "pending", "oneof=approved rejected hidden")
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "status must be one of: approved, rejected, hidden")
	assert.False(t, IsValidation(fmt.Errorf("other")))
}
