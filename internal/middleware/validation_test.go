package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	RuleKey string `json:"rule_key" validate:"required,max=8"`
	Email   string `json:"email" validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(&sampleRequest{RuleKey: "Key"}))

	details := ValidateStruct(&sampleRequest{Email: "nope"})
	require.Len(t, details, 2)
	assert.Equal(t, ValidationDetail{Field: "rule_key", Message: "This field is required"}, details[0])
	assert.Equal(t, ValidationDetail{Field: "email", Message: "Invalid email format"}, details[1])

	details = ValidateStruct(&sampleRequest{RuleKey: "much-too-long"})
	require.Len(t, details, 1)
	assert.Equal(t, "Must be at most 8 characters", details[0].Message)
}
