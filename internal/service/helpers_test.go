package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"ventureshield/internal/catalog"
	"ventureshield/internal/model"
)

type enricherFunc func(ctx context.Context, sub *model.Submission, pre *model.PreScoreResult) (*model.AnalysisResult, error)

func (f enricherFunc) Enrich(ctx context.Context, sub *model.Submission, pre *model.PreScoreResult) (*model.AnalysisResult, error) {
	return f(ctx, sub, pre)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func answer(section model.SectionID, id string, v model.AnswerValue) model.Answer {
	return model.Answer{QuestionID: id, SectionID: section, Value: v}
}

// sampleSubmission answers most of the default catalog with middling posture
func sampleSubmission() *model.Submission {
	return &model.Submission{
		CompanyContext: model.CompanyContext{
			Stage:    model.StageSeriesA,
			TeamSize: model.TeamSize16to50,
		},
		Answers: []model.Answer{
			answer(model.SectionCloudSetup, "cs_provider", model.ChoiceValue("paas")),
			answer(model.SectionCloudSetup, "cs_mfa", model.BoolValue(true)),
			answer(model.SectionCloudSetup, "cs_iam_model", model.ScaleValue(3)),
			answer(model.SectionCloudSetup, "cs_network", model.MultiChoiceValue{}),
			answer(model.SectionSecurityPractices, "sp_secrets", model.ChoiceValue("ci_env")),
			answer(model.SectionSecurityPractices, "sp_scanning", model.MultiChoiceValue{"sast", "dependency"}),
			answer(model.SectionSecurityPractices, "sp_encryption_rest", model.BoolValue(true)),
			answer(model.SectionSecurityPractices, "sp_incident_response", model.ScaleValue(2)),
			answer(model.SectionTeamMaturity, "tm_ci_cd", model.ChoiceValue("basic_ci")),
			answer(model.SectionTeamMaturity, "tm_code_review", model.BoolValue(true)),
			answer(model.SectionTeamMaturity, "tm_observability", model.MultiChoiceValue{"logging"}),
			answer(model.SectionComplianceReadiness, "cr_soc2", model.ChoiceValue("not_started")),
			answer(model.SectionComplianceReadiness, "cr_privacy", model.MultiChoiceValue{"privacy_policy"}),
		},
	}
}
