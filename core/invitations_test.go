package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeInvitationStore mimics the conditional-update semantics of the real
// store under a mutex, so race outcomes match what Postgres guarantees.
type fakeInvitationStore struct {
	mu          sync.Mutex
	invitations map[string]*InvitationRecord
	memberships []MembershipRecord
	nextId      int64
	failRedeem  error
}

func newFakeInvitationStore() *fakeInvitationStore {
	return &fakeInvitationStore{invitations: make(map[string]*InvitationRecord)}
}

func (f *fakeInvitationStore) seed(hash string, record InvitationRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextId++
	record.ID = f.nextId
	f.invitations[hash] = &record
}

func (f *fakeInvitationStore) ByTokenHash(_ context.Context, hash string) (*InvitationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	inv, ok := f.invitations[hash]
	if !ok {
		return nil, nil
	}

	copied := *inv
	return &copied, nil
}

func (f *fakeInvitationStore) HasPending(_ context.Context, email string, target Target) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, inv := range f.invitations {
		if inv.Email == email && inv.Status == StatusPending && inv.Target == target {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeInvitationStore) Redeem(_ context.Context, hash string, userId int64, now time.Time) (*MembershipRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRedeem != nil {
		return nil, f.failRedeem
	}

	inv, ok := f.invitations[hash]
	if !ok || inv.Status != StatusPending || !inv.ExpiresAt.After(now) {
		return nil, nil
	}

	inv.Status = StatusAccepted

	f.nextId++
	membership := MembershipRecord{
		ID:     f.nextId,
		UserID: userId,
		Role:   inv.Role,
		Target: inv.Target,
	}
	f.memberships = append(f.memberships, membership)

	return &membership, nil
}

func (f *fakeInvitationStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for hash, inv := range f.invitations {
		if inv.Status == StatusPending && !inv.ExpiresAt.After(now) {
			delete(f.invitations, hash)
			count++
		}
	}

	return count, nil
}

func pendingInvitation(expiresAt time.Time) InvitationRecord {
	return InvitationRecord{
		Email:     "invitee@example.com",
		Role:      RoleMember,
		Status:    StatusPending,
		Target:    Target{Kind: TargetOrganization, ID: 9},
		InviterID: 1,
		ExpiresAt: expiresAt,
	}
}

func TestValidateRoundTrip(t *testing.T) {
	store := newFakeInvitationStore()
	service := NewInvitationService(store)

	token := GenerateToken()
	store.seed(HashToken(token), pendingInvitation(time.Now().Add(time.Hour)))

	result, err := service.Validate(context.Background(), token)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Empty(t, result.Code)
	require.NotNil(t, result.Invitation)
	require.Equal(t, "invitee@example.com", result.Invitation.Email)
}

func TestValidateFormatRejectedBeforeLookup(t *testing.T) {
	service := NewInvitationService(nil) // a store call would panic

	for _, token := range []string{"", "nope", "ABCDEF", GenerateToken() + "00"} {
		result, err := service.Validate(context.Background(), token)
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.Equal(t, CodeInvalidFormat, result.Code)
	}
}

func TestValidateNotFound(t *testing.T) {
	service := NewInvitationService(newFakeInvitationStore())

	result, err := service.Validate(context.Background(), GenerateToken())
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, CodeNotFound, result.Code)
}

func TestValidateExpiredBeatsStatus(t *testing.T) {
	store := newFakeInvitationStore()
	service := NewInvitationService(store)

	// Still PENDING but past expiry.
	pendingToken := GenerateToken()
	store.seed(HashToken(pendingToken), pendingInvitation(time.Now().Add(-time.Hour)))

	result, err := service.Validate(context.Background(), pendingToken)
	require.NoError(t, err)
	require.Equal(t, CodeExpired, result.Code)

	// ACCEPTED and past expiry still reads EXPIRED, so a probe cannot
	// learn whether a stale token was ever redeemed.
	acceptedToken := GenerateToken()
	accepted := pendingInvitation(time.Now().Add(-time.Hour))
	accepted.Status = StatusAccepted
	store.seed(HashToken(acceptedToken), accepted)

	result, err = service.Validate(context.Background(), acceptedToken)
	require.NoError(t, err)
	require.Equal(t, CodeExpired, result.Code)
}

func TestValidateAlreadyProcessed(t *testing.T) {
	store := newFakeInvitationStore()
	service := NewInvitationService(store)

	token := GenerateToken()
	accepted := pendingInvitation(time.Now().Add(time.Hour))
	accepted.Status = StatusAccepted
	store.seed(HashToken(token), accepted)

	result, err := service.Validate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, CodeAlreadyProcessed, result.Code)

	revokedToken := GenerateToken()
	revoked := pendingInvitation(time.Now().Add(time.Hour))
	revoked.Status = StatusRevoked
	store.seed(HashToken(revokedToken), revoked)

	result, err = service.Validate(context.Background(), revokedToken)
	require.NoError(t, err)
	require.Equal(t, CodeAlreadyProcessed, result.Code)
}

func TestRedeem(t *testing.T) {
	store := newFakeInvitationStore()
	service := NewInvitationService(store)

	token := GenerateToken()
	store.seed(HashToken(token), pendingInvitation(time.Now().Add(time.Hour)))

	result := service.Redeem(context.Background(), token, 55)
	require.True(t, result.Success)
	require.NotNil(t, result.Membership)
	require.Equal(t, int64(55), result.Membership.UserID)
	require.Equal(t, RoleMember, result.Membership.Role)
	require.Equal(t, Target{Kind: TargetOrganization, ID: 9}, result.Membership.Target)

	// Second attempt hits a consumed token.
	result = service.Redeem(context.Background(), token, 55)
	require.False(t, result.Success)
	require.Equal(t, CodeInvalidOrExpired, result.Code)
	require.Len(t, store.memberships, 1)
}

func TestRedeemExpired(t *testing.T) {
	store := newFakeInvitationStore()
	service := NewInvitationService(store)

	token := GenerateToken()
	store.seed(HashToken(token), pendingInvitation(time.Now().Add(-time.Minute)))

	result := service.Redeem(context.Background(), token, 55)
	require.False(t, result.Success)
	require.Equal(t, CodeInvalidOrExpired, result.Code)
	require.Empty(t, store.memberships)
}

func TestRedeemBadFormat(t *testing.T) {
	service := NewInvitationService(nil)

	result := service.Redeem(context.Background(), "not-a-token", 55)
	require.False(t, result.Success)
	require.Equal(t, CodeInvalidOrExpired, result.Code)
}

func TestRedeemStoreFailureIsOpaque(t *testing.T) {
	store := newFakeInvitationStore()
	store.failRedeem = errors.New("connection reset")
	service := NewInvitationService(store)

	token := GenerateToken()

	result := service.Redeem(context.Background(), token, 55)
	require.False(t, result.Success)
	require.Equal(t, CodeRedemptionFailed, result.Code)
	require.Nil(t, result.Membership)
}

func TestRedeemConcurrent(t *testing.T) {
	store := newFakeInvitationStore()
	service := NewInvitationService(store)

	token := GenerateToken()
	store.seed(HashToken(token), pendingInvitation(time.Now().Add(time.Hour)))

	results := make([]RedemptionResult, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = service.Redeem(context.Background(), token, int64(100+i))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, result := range results {
		if result.Success {
			successes++
		} else {
			require.Equal(t, CodeInvalidOrExpired, result.Code)
		}
	}

	require.Equal(t, 1, successes, "exactly one tab wins the race")
	require.Len(t, store.memberships, 1, "membership created exactly once")
}

func TestCleanupExpired(t *testing.T) {
	store := newFakeInvitationStore()
	service := NewInvitationService(store)

	store.seed(HashToken(GenerateToken()), pendingInvitation(time.Now().Add(-time.Hour)))
	store.seed(HashToken(GenerateToken()), pendingInvitation(time.Now().Add(-time.Minute)))
	store.seed(HashToken(GenerateToken()), pendingInvitation(time.Now().Add(time.Hour)))

	accepted := pendingInvitation(time.Now().Add(-time.Hour))
	accepted.Status = StatusAccepted
	store.seed(HashToken(GenerateToken()), accepted)

	count, err := service.CleanupExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Len(t, store.invitations, 2, "future PENDING and expired ACCEPTED survive")
}

func TestAlreadyInvited(t *testing.T) {
	store := newFakeInvitationStore()
	service := NewInvitationService(store)

	store.seed(HashToken(GenerateToken()), pendingInvitation(time.Now().Add(time.Hour)))

	target := Target{Kind: TargetOrganization, ID: 9}

	invited, err := service.AlreadyInvited(context.Background(), "Invitee@Example.com ", target)
	require.NoError(t, err)
	require.True(t, invited, "email comparison is case-insensitive")

	invited, err = service.AlreadyInvited(context.Background(), "someone-else@example.com", target)
	require.NoError(t, err)
	require.False(t, invited)

	invited, err = service.AlreadyInvited(context.Background(), "invitee@example.com", Target{Kind: TargetProject, ID: 9})
	require.NoError(t, err)
	require.False(t, invited, "same email against a different target")
}
