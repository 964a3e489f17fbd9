package scoring_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventureshield/internal/model"
	"ventureshield/internal/scoring"
)

func preScore(composite float64, cloud, security, team, compliance float64) *model.PreScoreResult {
	return &model.PreScoreResult{
		CompositeScore: composite,
		SectionScores: map[model.SectionID]float64{
			model.SectionCloudSetup:          cloud,
			model.SectionSecurityPractices:   security,
			model.SectionTeamMaturity:        team,
			model.SectionComplianceReadiness: compliance,
		},
	}
}

func TestBuildFallback_SingleWeakSection(t *testing.T) {
	pre := preScore(59, 80, 20, 80, 80)

	res := scoring.BuildFallback(pre)

	require.Len(t, res.PriorityActions, 1)
	assert.Equal(t, "action_1", res.PriorityActions[0].ID)
	assert.Equal(t, model.SectionSecurityPractices, res.PriorityActions[0].Section)
	assert.Equal(t, model.SeverityCritical, res.PriorityActions[0].Severity)

	require.Len(t, res.Strengths, 3)
	assert.Contains(t, res.Strengths[0], "cloud")
	assert.Contains(t, res.Strengths[1], "engineering")
	assert.Contains(t, res.Strengths[2], "compliance")

	require.Len(t, res.RiskFlags, 1)
	assert.True(t, strings.HasPrefix(res.RiskFlags[0], "Critical"))
	assert.Contains(t, res.RiskFlags[0], "secrets")
}

func TestBuildFallback_AllPerfect(t *testing.T) {
	res := scoring.BuildFallback(preScore(100, 100, 100, 100, 100))

	require.Len(t, res.PriorityActions, 1)
	assert.Equal(t, "action_1", res.PriorityActions[0].ID)
	assert.Equal(t, model.SeverityLow, res.PriorityActions[0].Severity)
	assert.Contains(t, res.PriorityActions[0].Title, "Penetration Test")

	assert.Len(t, res.Strengths, 4)
	require.Len(t, res.RiskFlags, 1)
	assert.Contains(t, res.RiskFlags[0], "Continue monitoring")
	assert.Equal(t, model.VerdictExemplary, res.Verdict)
}

func TestBuildFallback_AllZero(t *testing.T) {
	res := scoring.BuildFallback(preScore(0, 0, 0, 0, 0))

	require.Len(t, res.PriorityActions, 4)
	wantSections := []model.SectionID{
		model.SectionSecurityPractices,
		model.SectionCloudSetup,
		model.SectionComplianceReadiness,
		model.SectionTeamMaturity,
	}
	for i, a := range res.PriorityActions {
		assert.Equal(t, "action_"+string(rune('1'+i)), a.ID)
		assert.Equal(t, wantSections[i], a.Section)
	}

	require.Len(t, res.Strengths, 1)
	assert.Contains(t, res.Strengths[0], "self-assessment")
	assert.Len(t, res.RiskFlags, 4)
	assert.Equal(t, model.VerdictCriticalRisk, res.Verdict)
}

func TestBuildFallback_IDsDenseInRuleOrder(t *testing.T) {
	// cloud and team fire; security and compliance clear their thresholds
	res := scoring.BuildFallback(preScore(50, 45, 60, 10, 40))

	require.Len(t, res.PriorityActions, 2)
	assert.Equal(t, "action_1", res.PriorityActions[0].ID)
	assert.Equal(t, model.SectionCloudSetup, res.PriorityActions[0].Section)
	assert.Equal(t, "action_2", res.PriorityActions[1].ID)
	assert.Equal(t, model.SectionTeamMaturity, res.PriorityActions[1].Section)
}

func TestBuildFallback_Thresholds(t *testing.T) {
	tests := []struct {
		name        string
		pre         *model.PreScoreResult
		wantActions int
		wantFlags   int
		wantStrong  int
	}{
		// compliance action < 40, flag < 30
		{"compliance at 40 clears action", preScore(70, 90, 90, 90, 40), 1, 1, 3},
		{"compliance at 39.9 fires action", preScore(70, 90, 90, 90, 39.9), 1, 1, 3},
		{"compliance at 29.9 fires flag", preScore(70, 90, 90, 90, 29.9), 1, 1, 3},
		// security action < 50, flag < 40, strength >= 70
		{"security at 50 clears", preScore(70, 90, 50, 90, 90), 1, 1, 3},
		{"security at 45 fires action only", preScore(70, 90, 45, 90, 90), 1, 1, 3},
		{"security at 70 is a strength", preScore(70, 90, 70, 90, 90), 1, 1, 4},
		{"security at 69.9 is not", preScore(70, 90, 69.9, 90, 90), 1, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scoring.BuildFallback(tt.pre)
			assert.Len(t, res.PriorityActions, tt.wantActions)
			assert.Len(t, res.RiskFlags, tt.wantFlags)
			assert.Len(t, res.Strengths, tt.wantStrong)
		})
	}
}

func TestBuildFallback_ComplianceFlagFiresBelow30(t *testing.T) {
	res := scoring.BuildFallback(preScore(70, 90, 90, 90, 29.9))
	require.Len(t, res.RiskFlags, 1)
	assert.True(t, strings.HasPrefix(res.RiskFlags[0], "High"))
	assert.Equal(t, model.SectionComplianceReadiness, res.PriorityActions[0].Section)
}

func TestBuildFallback_KeepsScoresAndTemplates(t *testing.T) {
	pre := preScore(62.5, 50, 70, 60, 70)

	res := scoring.BuildFallback(pre)

	assert.Equal(t, pre.CompositeScore, res.CompositeScore)
	assert.Equal(t, pre.SectionScores, res.SectionScores)
	assert.Equal(t, model.VerdictModerateRisk, res.Verdict)
	assert.Contains(t, res.VerdictRationale, "62.5/100")
	assert.Contains(t, res.VerdictRationale, "Moderate Risk")
	assert.Contains(t, res.ExecutiveSummary, "62.5/100")

	// The result owns its score map
	res.SectionScores[model.SectionCloudSetup] = 0
	assert.Equal(t, 50.0, pre.SectionScores[model.SectionCloudSetup])
}

func TestBuildFallback_WholeNumberScoreFormatting(t *testing.T) {
	res := scoring.BuildFallback(preScore(70, 70, 70, 70, 70))
	assert.Contains(t, res.VerdictRationale, "score is 70/100")
}

func TestBuildFallback_PassesOwnContract(t *testing.T) {
	for _, pre := range []*model.PreScoreResult{
		preScore(0, 0, 0, 0, 0),
		preScore(59, 80, 20, 80, 80),
		preScore(100, 100, 100, 100, 100),
	} {
		res := scoring.BuildFallback(pre)
		assert.NoError(t, scoring.ValidateEnrichment(res, pre, 0))
	}
}
