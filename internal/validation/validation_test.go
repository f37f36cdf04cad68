package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
)

func TestStruct_CardInput(t *testing.T) {
	assert.NoError(t, Struct(models.CardInput{Question: "q", Answer: "a"}))

	err := Struct(models.CardInput{Course: "Math", Answer: "a"})
	require.Error(t, err)
	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "question is required")

	err = Struct(models.CardInput{Question: "q", Answer: strings.Repeat("x", 2001)})
	require.Error(t, err)
	assert.Contains(t, apperrors.As(err).Message, "answer must be at most 2000 characters")
}

func TestStruct_CardInputRejectsBlankText(t *testing.T) {
	err := Struct(models.CardInput{Question: "   ", Answer: "\t"})
	require.Error(t, err)
	msg := apperrors.As(err).Message
	assert.Contains(t, msg, "question cannot be blank")
	assert.Contains(t, msg, "answer cannot be blank")
}

func TestStruct_CredentialsRejectsBlankUsername(t *testing.T) {
	err := Struct(models.Credentials{Username: "   ", Password: "secret"})
	require.Error(t, err)
	assert.Contains(t, apperrors.As(err).Message, "username")
}
