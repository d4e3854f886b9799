package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const sampleOutput = `{
	"summary": "Login page crashes on submit",
	"priority": "high",
	"helpfulNotes": "Likely a null token; check the auth reducer.",
	"relatedSkills": ["React", "Redux"]
}`

func TestParseClassification_RawJSON(t *testing.T) {
	result, err := ParseClassification(sampleOutput)
	require.NoError(t, err)

	assert.Equal(t, "Login page crashes on submit", result.Summary)
	assert.Equal(t, domain.TicketPriorityHigh, result.Priority)
	assert.Equal(t, []string{"React", "Redux"}, result.RelatedSkills)
}

func TestParseClassification_FencedEqualsUnfenced(t *testing.T) {
	fenced := "```json\n" + sampleOutput + "\n```"

	plain, err := ParseClassification(sampleOutput)
	require.NoError(t, err)
	cleaned, err := ParseClassification(fenced)
	require.NoError(t, err)

	assert.Equal(t, plain, cleaned)
}

func TestParseClassification_BareFences(t *testing.T) {
	result, err := ParseClassification("```\n" + sampleOutput + "\n```")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, result.Priority)
}

func TestParseClassification_InvalidPriorityFallsBackToMedium(t *testing.T) {
	for _, priority := range []string{`"urgent"`, `"CRITICAL"`, `""`, `null`} {
		result, err := ParseClassification(`{"summary":"s","priority":` + priority + `,"helpfulNotes":"n"}`)
		require.NoError(t, err, "priority %s", priority)
		assert.Equal(t, domain.TicketPriorityMedium, result.Priority, "priority %s", priority)
	}
}

func TestParseClassification_PriorityIsCaseNormalized(t *testing.T) {
	result, err := ParseClassification(`{"summary":"s","priority":" High ","helpfulNotes":"n"}`)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, result.Priority)
}

func TestParseClassification_MissingSkillsDefaultsToEmpty(t *testing.T) {
	result, err := ParseClassification(`{"summary":"s","priority":"low","helpfulNotes":"n"}`)
	require.NoError(t, err)
	require.NotNil(t, result.RelatedSkills)
	assert.Empty(t, result.RelatedSkills)
}

func TestParseClassification_EmptyOutput(t *testing.T) {
	for _, raw := range []string{"", "   ", "```json\n```"} {
		_, err := ParseClassification(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestParseClassification_MalformedJSON(t *testing.T) {
	_, err := ParseClassification("Sure! Here is the analysis you asked for.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse model output")
}
