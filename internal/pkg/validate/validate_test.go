package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaizen-ideas/internal/domain"
)

func TestStruct_CreateIdea(t *testing.T) {
	valid := domain.CreateIdeaInput{
		Title:       "Reuse packaging",
		Problem:     "Boxes are discarded",
		Improvement: "Return boxes to supplier",
		Benefit:     domain.BenefitCostSaving,
		Department:  domain.DeptManufacturing,
	}
	assert.NoError(t, Struct(valid))

	invalid := valid
	invalid.Title = ""
	invalid.Department = "Marketing"
	err := Struct(invalid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]string{}
	for _, f := range ve.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "title is required", fields["title"])
	assert.Contains(t, fields["department"], "unsupported value")
}

func TestStruct_StatusAndSavings(t *testing.T) {
	negative := -5.0
	err := Struct(domain.UpdateIdeaStatusInput{Status: domain.StatusApproved, ActualSavings: &negative})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "actual_savings must be at least 0")

	err = Struct(domain.UpdateIdeaStatusInput{Status: "archived"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status has an unsupported value")

	err = Struct(domain.UpdateIdeaStatusInput{Status: domain.StatusSubmitted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status has an unsupported value")

	assert.NoError(t, Struct(domain.UpdateIdeaStatusInput{Status: domain.StatusImplemented}))
}

func TestStruct_VerifyOTP(t *testing.T) {
	assert.NoError(t, Struct(domain.VerifyOTPInput{EmployeeNumber: "E100", OTP: "123456"}))
	assert.Error(t, Struct(domain.VerifyOTPInput{EmployeeNumber: "E100", OTP: "12ab56"}))
	assert.Error(t, Struct(domain.VerifyOTPInput{EmployeeNumber: "E100", OTP: "123"}))
}
