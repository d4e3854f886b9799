package triage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// fakeDirectory mirrors the repository query semantics: role filter,
// case-insensitive substring skill match, lowest id wins.
type fakeDirectory struct {
	users   []domain.User
	findErr error
}

func (d *fakeDirectory) FindOne(_ context.Context, q repository.DirectoryQuery) (*domain.User, error) {
	if d.findErr != nil {
		return nil, d.findErr
	}
	matches := make([]domain.User, 0)
	for _, user := range d.users {
		if user.Role != q.Role {
			continue
		}
		if len(q.SkillsMatchAnyOf) > 0 && !skillsIntersect(user.Skills, q.SkillsMatchAnyOf) {
			continue
		}
		matches = append(matches, user)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return &matches[0], nil
}

func skillsIntersect(have, wanted []string) bool {
	for _, skill := range have {
		for _, want := range wanted {
			if strings.Contains(strings.ToLower(skill), strings.ToLower(want)) {
				return true
			}
		}
	}
	return false
}

func TestSelectAssignee_CaseInsensitiveSkillMatch(t *testing.T) {
	dir := &fakeDirectory{users: []domain.User{
		{ID: "u1", Email: "admin@example.com", Role: domain.RoleAdmin},
		{ID: "u2", Email: "mod@example.com", Role: domain.RoleModerator, Skills: []string{"react", "css"}},
	}}

	user, err := NewPolicy(dir).SelectAssignee(context.Background(), []string{"React"})
	require.NoError(t, err)
	assert.Equal(t, "mod@example.com", user.Email)
}

func TestSelectAssignee_SubstringMatch(t *testing.T) {
	dir := &fakeDirectory{users: []domain.User{
		{ID: "u1", Email: "mod@example.com", Role: domain.RoleModerator, Skills: []string{"MongoDB"}},
	}}

	user, err := NewPolicy(dir).SelectAssignee(context.Background(), []string{"mongo"})
	require.NoError(t, err)
	assert.Equal(t, "mod@example.com", user.Email)
}

func TestSelectAssignee_EmptySkillsFallsBackToAdmin(t *testing.T) {
	dir := &fakeDirectory{users: []domain.User{
		{ID: "u1", Email: "mod@example.com", Role: domain.RoleModerator, Skills: []string{"react"}},
		{ID: "u2", Email: "admin@example.com", Role: domain.RoleAdmin},
	}}

	user, err := NewPolicy(dir).SelectAssignee(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
}

func TestSelectAssignee_NoModeratorMatchFallsBackToAdmin(t *testing.T) {
	dir := &fakeDirectory{users: []domain.User{
		{ID: "u1", Email: "mod@example.com", Role: domain.RoleModerator, Skills: []string{"css"}},
		{ID: "u2", Email: "admin@example.com", Role: domain.RoleAdmin},
	}}

	user, err := NewPolicy(dir).SelectAssignee(context.Background(), []string{"kubernetes"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
}

func TestSelectAssignee_TieBreaksOnLowestID(t *testing.T) {
	dir := &fakeDirectory{users: []domain.User{
		{ID: "u9", Email: "late@example.com", Role: domain.RoleModerator, Skills: []string{"go"}},
		{ID: "u2", Email: "early@example.com", Role: domain.RoleModerator, Skills: []string{"go"}},
	}}

	user, err := NewPolicy(dir).SelectAssignee(context.Background(), []string{"go"})
	require.NoError(t, err)
	assert.Equal(t, "early@example.com", user.Email)
}

func TestSelectAssignee_NobodyEligible(t *testing.T) {
	dir := &fakeDirectory{users: []domain.User{
		{ID: "u1", Email: "user@example.com", Role: domain.RoleUser},
	}}

	_, err := NewPolicy(dir).SelectAssignee(context.Background(), []string{"go"})
	require.Error(t, err)

	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ASSIGNMENT_FAILED", domainErr.Code)
	assert.True(t, domainErr.Retriable, "assignment faults retry up to the attempt budget")
}

func TestSelectAssignee_DirectoryErrorPropagates(t *testing.T) {
	dir := &fakeDirectory{findErr: errors.New("connection reset")}

	_, err := NewPolicy(dir).SelectAssignee(context.Background(), []string{"go"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
