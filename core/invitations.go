package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type InvitationStatus string

const (
	StatusPending  InvitationStatus = "PENDING"
	StatusAccepted InvitationStatus = "ACCEPTED"
	StatusExpired  InvitationStatus = "EXPIRED"
	StatusRevoked  InvitationStatus = "REVOKED"
)

// Target is the single entity an invitation or membership points at.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   int64      `json:"id"`
}

// InvitationRecord is the storage-agnostic view of an invitation the service
// works with. Repos map their models into it.
type InvitationRecord struct {
	ID        int64            `json:"id"`
	Email     string           `json:"email"`
	Role      Role             `json:"role"`
	Status    InvitationStatus `json:"status"`
	Target    Target           `json:"target"`
	InviterID int64            `json:"inviter_id"`
	Message   string           `json:"message,omitempty"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type MembershipRecord struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Role   Role   `json:"role"`
	Target Target `json:"target"`
}

// InvitationStore is the persistence contract the invitation lifecycle needs.
//
// Redeem is the one genuinely concurrency-sensitive call: it must flip the
// row from PENDING to ACCEPTED with a conditional update (hash matches,
// still PENDING, not yet expired) and insert the membership in the same
// all-or-nothing unit, returning nil when the condition matched no row.
// "Accepted but no membership" must be impossible.
type InvitationStore interface {
	ByTokenHash(ctx context.Context, hash string) (*InvitationRecord, error)
	HasPending(ctx context.Context, email string, target Target) (bool, error)
	Redeem(ctx context.Context, hash string, userID int64, now time.Time) (*MembershipRecord, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type ValidationCode string

const (
	CodeInvalidFormat    ValidationCode = "INVALID_FORMAT"
	CodeNotFound         ValidationCode = "NOT_FOUND"
	CodeExpired          ValidationCode = "EXPIRED"
	CodeAlreadyProcessed ValidationCode = "ALREADY_PROCESSED"
)

type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Code       ValidationCode    `json:"error,omitempty"`
	Invitation *InvitationRecord `json:"invitation,omitempty"`
}

type RedemptionCode string

const (
	CodeInvalidOrExpired RedemptionCode = "INVALID_OR_EXPIRED"
	CodeRedemptionFailed RedemptionCode = "REDEMPTION_FAILED"
)

type RedemptionResult struct {
	Success    bool              `json:"success"`
	Code       RedemptionCode    `json:"error,omitempty"`
	Membership *MembershipRecord `json:"membership,omitempty"`
}

type InvitationService struct {
	store InvitationStore
	clock func() time.Time
}

func NewInvitationService(store InvitationStore) *InvitationService {
	return &InvitationService{store: store, clock: time.Now}
}

// Validate checks a presented token without consuming it. Format is rejected
// before any lookup, and expiry is reported before status so a stale token
// reads the same whether or not it was ever redeemed.
func (s *InvitationService) Validate(ctx context.Context, token string) (ValidationResult, error) {
	if !ValidTokenFormat(token) {
		return ValidationResult{Code: CodeInvalidFormat}, nil
	}

	inv, err := s.store.ByTokenHash(ctx, HashToken(token))
	if err != nil {
		return ValidationResult{}, err
	}

	if inv == nil {
		return ValidationResult{Code: CodeNotFound}, nil
	}

	if !inv.ExpiresAt.After(s.clock()) {
		return ValidationResult{Code: CodeExpired}, nil
	}

	if inv.Status != StatusPending {
		return ValidationResult{Code: CodeAlreadyProcessed}, nil
	}

	return ValidationResult{Valid: true, Invitation: inv}, nil
}

// Redeem converts a pending invitation into a membership, exactly once.
// Concurrent attempts on the same token race on the store's conditional
// update; the loser gets INVALID_OR_EXPIRED. Infrastructure failures are
// logged with detail but reported opaquely so a broken redemption cannot be
// told apart from an invalid token by an enumerating caller.
func (s *InvitationService) Redeem(ctx context.Context, token string, userID int64) RedemptionResult {
	if !ValidTokenFormat(token) {
		return RedemptionResult{Code: CodeInvalidOrExpired}
	}

	membership, err := s.store.Redeem(ctx, HashToken(token), userID, s.clock())
	if err != nil {
		log.Error().Err(err).Int64("user", userID).Msg("Invitation redemption aborted")
		return RedemptionResult{Code: CodeRedemptionFailed}
	}

	if membership == nil {
		return RedemptionResult{Code: CodeInvalidOrExpired}
	}

	return RedemptionResult{Success: true, Membership: membership}
}

// AlreadyInvited reports whether a PENDING invitation exists for the email
// against the target. Emails are compared lowercased.
func (s *InvitationService) AlreadyInvited(ctx context.Context, email string, target Target) (bool, error) {
	return s.store.HasPending(ctx, strings.ToLower(strings.TrimSpace(email)), target)
}

// CleanupExpired removes invitations that sat PENDING past their expiry and
// returns how many went. Terminal rows survive no matter how old: status is
// authoritative over time once a state is terminal.
func (s *InvitationService) CleanupExpired(ctx context.Context) (int, error) {
	return s.store.DeleteExpired(ctx, s.clock())
}
