package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventureshield/internal/model"
)

func TestValidateSubmission_AcceptsSample(t *testing.T) {
	warnings, err := ValidateSubmission(defaultCatalog(t), sampleSubmission())
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidateSubmission_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(sub *model.Submission)
		detail string
	}{
		{"unknown stage", func(s *model.Submission) { s.CompanyContext.Stage = "ipo" }, "companyContext.stage"},
		{"unknown team size", func(s *model.Submission) { s.CompanyContext.TeamSize = "7" }, "companyContext.teamSize"},
		{"missing question id", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionCloudSetup, "", model.BoolValue(true)))
		}, "questionId: required"},
		{"unknown section", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer("marketing", "cs_iac", model.BoolValue(true)))
		}, "unknown section"},
		{"section mismatch", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionTeamMaturity, "cs_iac", model.BoolValue(true)))
		}, "belongs to"},
		{"bool for scale", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionCloudSetup, "cs_iam_model", model.BoolValue(true)))
		}, "boolean given"},
		{"scale below range", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionCloudSetup, "cs_iam_model", model.ScaleValue(0)))
		}, "outside 1..5"},
		{"scale above range", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionCloudSetup, "cs_iam_model", model.ScaleValue(6)))
		}, "outside 1..5"},
		{"choice for boolean", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionCloudSetup, "cs_iac", model.ChoiceValue("yes")))
		}, "option id given"},
		{"list for single choice", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionCloudSetup, "cs_provider", model.MultiChoiceValue{"paas"}))
		}, "option list given"},
		{"number for multi choice", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionCloudSetup, "cs_network", model.ScaleValue(2)))
		}, "number given"},
		{"unknown multi option", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionCloudSetup, "cs_network", model.MultiChoiceValue{"moat"}))
		}, "unknown option"},
		{"repeated multi option", func(s *model.Submission) {
			s.Answers = append(s.Answers, answer(model.SectionCloudSetup, "cs_network", model.MultiChoiceValue{"waf", "waf"}))
		}, "selected twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := sampleSubmission()
			tt.mutate(sub)

			_, err := ValidateSubmission(defaultCatalog(t), sub)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Details, 1)
			assert.Contains(t, verr.Details[0], tt.detail)
		})
	}
}

func TestValidateSubmission_Warnings(t *testing.T) {
	sub := sampleSubmission()
	sub.Answers = append(sub.Answers,
		answer(model.SectionCloudSetup, "cs_mfa", model.BoolValue(false)),
		answer(model.SectionCloudSetup, "cs_legacy_question", model.BoolValue(true)),
	)

	warnings, err := ValidateSubmission(defaultCatalog(t), sub)

	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "duplicate")
	assert.Contains(t, warnings[1], "unknown question")
}

func TestValidateSubmission_UnansweredAndUnknownSingleChoiceAccepted(t *testing.T) {
	sub := sampleSubmission()
	sub.Answers = append(sub.Answers,
		answer(model.SectionCloudSetup, "cs_iac", nil),
		answer(model.SectionSecurityPractices, "sp_pentest", model.ChoiceValue("retired_option")),
	)

	_, err := ValidateSubmission(defaultCatalog(t), sub)
	assert.NoError(t, err)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Details: []string{"a", "b"}}
	assert.Equal(t, "invalid submission: a; b", err.Error())
}
