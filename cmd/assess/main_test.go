package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventureshield/internal/model"
)

const submissionJSON = `{
  "companyContext": {"stage": "pre_seed", "teamSize": "1-5", "hasSecurityBudget": false},
  "answers": [
    {"questionId": "cs_mfa", "sectionId": "cloud_setup", "value": true},
    {"questionId": "sp_secrets", "sectionId": "security_practices", "value": "secrets_manager"},
    {"questionId": "tm_code_review", "sectionId": "team_maturity", "value": false}
  ]
}`

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("REDIS_URI", "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSubmission(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "submission.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestAnalyzeCmd_Fallback(t *testing.T) {
	stdout, stderr, err := run(t, "", "analyze", "-f", writeSubmission(t, submissionJSON), "--no-enrich")
	require.NoError(t, err)

	assert.Contains(t, stderr, "Report source: fallback")
	var res model.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, 100.0, res.SectionScores[model.SectionCloudSetup])
	assert.Equal(t, 100.0, res.SectionScores[model.SectionSecurityPractices])
	assert.Equal(t, 0.0, res.SectionScores[model.SectionTeamMaturity])
	assert.NotEmpty(t, res.PriorityActions)
}

func TestPreScoreCmd_Stdin(t *testing.T) {
	stdout, _, err := run(t, submissionJSON, "prescore", "-f", "-")
	require.NoError(t, err)

	var pre model.PreScoreResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &pre))
	detail, ok := pre.Detail(model.SectionTeamMaturity)
	require.True(t, ok)
	assert.Equal(t, 1, detail.AnsweredCount)
}

func TestAnalyzeCmd_InvalidSubmission(t *testing.T) {
	bad := strings.Replace(submissionJSON, `"pre_seed"`, `"growth"`, 1)

	_, _, err := run(t, "", "analyze", "-f", writeSubmission(t, bad), "--no-enrich")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "companyContext.stage")
}

func TestAnalyzeCmd_RequiresFile(t *testing.T) {
	_, _, err := run(t, "", "analyze")
	require.Error(t, err)
}

func TestCatalogValidateCmd(t *testing.T) {
	stdout, _, err := run(t, "", "catalog", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "catalog OK: 4 sections")

	broken := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("sections:\n  - id: cloud_setup\n    weight: 1\n"), 0o644))
	_, _, err = run(t, "", "catalog", "validate", "--catalog", broken)
	assert.Error(t, err)
}

func TestTokenIssueCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	stdout, _, err := run(t, "", "token", "issue", "--client", "acme-fund", "--ttl", "1h")
	require.NoError(t, err)

	var resp model.TokenResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "acme-fund", resp.ClientID)
	assert.NotEmpty(t, resp.Token)
}

func TestTokenIssueCmd_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, _, err := run(t, "", "token", "issue", "--client", "acme-fund")
	assert.Error(t, err)
}
