package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/member"
)

type MemberService struct {
	persistence
	members member.Repository
}

func NewMemberService(members member.Repository) *MemberService {
	return &MemberService{members: members}
}

// Resolve maps the caller's user id to a club member.
func (s *MemberService) Resolve(ctx context.Context, userID string) (member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MemberService.Resolve")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return member.Member{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	m, err := s.members.GetByID(callCtx, userID)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return member.Member{}, fmt.Errorf("%w: unknown user %s", ErrUnauthorized, userID)
		}
		recordSpanError(span, err)
		return member.Member{}, infraError("get member", err)
	}
	return m, nil
}

func (s *MemberService) Authorize(ctx context.Context, userID string, capability member.Capability) (member.Member, error) {
	m, err := s.Resolve(ctx, userID)
	if err != nil {
		return member.Member{}, err
	}
	if !m.Can(capability) {
		return member.Member{}, fmt.Errorf("%w: role %s cannot %s", ErrForbidden, m.Role, capability)
	}
	return m, nil
}
