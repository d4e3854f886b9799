package triage

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// Policy selects exactly one assignee for a classified ticket: a
// moderator whose skills intersect the required ones, otherwise any
// admin. The directory orders candidates by identifier, so repeated
// runs against the same directory pick the same user.
type Policy struct {
	directory repository.UserDirectory
}

// NewPolicy creates the assignment policy over a user directory.
func NewPolicy(directory repository.UserDirectory) *Policy {
	return &Policy{directory: directory}
}

// SelectAssignee resolves the assignee for the given required skills.
// Skill comparison is case-insensitive substring matching: a moderator
// skill "MongoDB" satisfies a required skill "mongo". The returned
// fault is retriable; the directory may gain an eligible user before
// the attempt budget runs out.
func (p *Policy) SelectAssignee(ctx context.Context, skills []string) (*domain.User, error) {
	if len(skills) > 0 {
		moderator, err := p.directory.FindOne(ctx, repository.DirectoryQuery{
			Role:             domain.RoleModerator,
			SkillsMatchAnyOf: skills,
		})
		if err != nil {
			return nil, err
		}
		if moderator != nil {
			return moderator, nil
		}
	}

	admin, err := p.directory.FindOne(ctx, repository.DirectoryQuery{Role: domain.RoleAdmin})
	if err != nil {
		return nil, err
	}
	if admin != nil {
		return admin, nil
	}

	return nil, util.NewAssignmentFault("no moderator or admin available for assignment")
}
