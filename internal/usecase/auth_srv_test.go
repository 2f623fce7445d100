package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthService(tr *testRepo, mail *MockMailer, tokens *MockTokenIssuer) AuthService {
	config := utils.ConfirmationConfig{ExpiryMinutes: 60, Length: 8}
	return NewAuthService(tr.Repository, tokens, mail, config, testLogger())
}

func TestSignup_NewUser(t *testing.T) {
	tr := newTestRepo()
	mail := new(MockMailer)
	svc := newAuthService(tr, mail, new(MockTokenIssuer))
	ctx := context.Background()

	tr.users.On("FindByUsername", ctx, "alice").Return(nil, nil)
	tr.users.On("FindByEmail", ctx, "alice@example.com").Return(nil, nil)
	tr.users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "alice" && u.Role == entity.RoleUser && u.IsActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.User).ID = 7
	}).Return(nil)
	tr.codes.On("RevokeAllForUser", ctx, int64(7)).Return(nil)

	var storedHash string
	tr.codes.On("Create", ctx, mock.MatchedBy(func(c *entity.ConfirmationCode) bool {
		return c.UserID == 7 && c.ExpiresAt.After(time.Now())
	})).Run(func(args mock.Arguments) {
		storedHash = args.Get(1).(*entity.ConfirmationCode).CodeHash
	}).Return(nil)

	var body string
	mail.On("Send", mock.Anything, "alice@example.com", confirmationSubject, mock.Anything).
		Run(func(args mock.Arguments) { body = args.String(3) }).
		Return(nil)

	resp, err := svc.Signup(ctx, &request.SignupRequest{Email: "alice@example.com", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)

	// The mailed code matches the stored hash
	lines := strings.Split(body, "\n")
	require.True(t, len(lines) > 1)
	code := lines[1]
	assert.Len(t, code, 8)
	assert.True(t, utils.CheckCodeHash(code, storedHash))

	tr.assertExpectations(t)
	mail.AssertExpectations(t)
}

func TestSignup_ExistingPairResendsCode(t *testing.T) {
	tr := newTestRepo()
	mail := new(MockMailer)
	svc := newAuthService(tr, mail, new(MockTokenIssuer))
	ctx := context.Background()

	existing := &entity.User{Base: entity.Base{ID: 3}, Username: "bob", Email: "bob@example.com", IsActive: true}
	tr.users.On("FindByUsername", ctx, "bob").Return(existing, nil)
	tr.codes.On("RevokeAllForUser", ctx, int64(3)).Return(nil)
	tr.codes.On("Create", ctx, mock.AnythingOfType("*entity.ConfirmationCode")).Return(nil)
	mail.On("Send", mock.Anything, "bob@example.com", confirmationSubject, mock.Anything).Return(nil)

	resp, err := svc.Signup(ctx, &request.SignupRequest{Email: "bob@example.com", Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Username)

	tr.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	tr.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	tr.assertExpectations(t)
}

func TestSignup_Conflicts(t *testing.T) {
	ctx := context.Background()
	other := &entity.User{Base: entity.Base{ID: 9}, Username: "someone", Email: "taken@example.com"}

	tests := []struct {
		name       string
		byUsername *entity.User
		byEmail    *entity.User
		wantFields []string
	}{
		{
			name:       "email used by another user",
			byEmail:    other,
			wantFields: []string{"email"},
		},
		{
			name:       "username used with another email",
			byUsername: &entity.User{Base: entity.Base{ID: 4}, Username: "carol", Email: "carol@old.example.com"},
			wantFields: []string{"username"},
		},
		{
			name:       "both taken by different users",
			byUsername: &entity.User{Base: entity.Base{ID: 4}, Username: "carol", Email: "carol@old.example.com"},
			byEmail:    other,
			wantFields: []string{"email", "username"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestRepo()
			svc := newAuthService(tr, new(MockMailer), new(MockTokenIssuer))

			tr.users.On("FindByUsername", ctx, "carol").Return(tt.byUsername, nil)
			tr.users.On("FindByEmail", ctx, "carol@example.com").Return(tt.byEmail, nil)

			_, err := svc.Signup(ctx, &request.SignupRequest{Email: "carol@example.com", Username: "carol"})

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.Fields, field)
			}
			tr.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSignup_RejectsReservedUsername(t *testing.T) {
	tr := newTestRepo()
	svc := newAuthService(tr, new(MockMailer), new(MockTokenIssuer))

	_, err := svc.Signup(context.Background(), &request.SignupRequest{Email: "me@example.com", Username: "me"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "username")
	tr.users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestSignup_MailFailureIsSwallowed(t *testing.T) {
	tr := newTestRepo()
	mail := new(MockMailer)
	svc := newAuthService(tr, mail, new(MockTokenIssuer))
	ctx := context.Background()

	existing := &entity.User{Base: entity.Base{ID: 3}, Username: "bob", Email: "bob@example.com"}
	tr.users.On("FindByUsername", ctx, "bob").Return(existing, nil)
	tr.codes.On("RevokeAllForUser", ctx, int64(3)).Return(nil)
	tr.codes.On("Create", ctx, mock.Anything).Return(nil)
	mail.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	resp, err := svc.Signup(ctx, &request.SignupRequest{Email: "bob@example.com", Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", resp.Email)
}

func TestToken_Success(t *testing.T) {
	tr := newTestRepo()
	tokens := new(MockTokenIssuer)
	svc := newAuthService(tr, new(MockMailer), tokens)
	ctx := context.Background()

	hash, err := utils.HashCode("ABCD2345")
	require.NoError(t, err)

	user := &entity.User{Base: entity.Base{ID: 7}, Username: "alice", Role: entity.RoleModerator, IsActive: true}
	expiresAt := time.Now().Add(time.Hour)

	tr.users.On("FindByUsername", ctx, "alice").Return(user, nil)
	tr.codes.On("FindActiveByUser", ctx, int64(7), activeCodeWindow).Return([]*entity.ConfirmationCode{
		{Base: entity.Base{ID: 11}, UserID: 7, CodeHash: hash},
	}, nil)
	tr.codes.On("MarkUsed", ctx, int64(11)).Return(nil)
	tr.users.On("UpdateLastLogin", ctx, int64(7), mock.AnythingOfType("time.Time")).Return(nil)
	tokens.On("Generate", int64(7), "alice", "moderator").Return("signed.jwt", expiresAt, nil)

	resp, err := svc.Token(ctx, &request.TokenRequest{Username: "alice", ConfirmationCode: "ABCD2345"})
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt", resp.Token)
	assert.Equal(t, expiresAt, resp.ExpiresAt)

	tr.assertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestToken_Failures(t *testing.T) {
	ctx := context.Background()
	hash, err := utils.HashCode("ABCD2345")
	require.NoError(t, err)

	active := &entity.User{Base: entity.Base{ID: 7}, Username: "alice", Role: entity.RoleUser, IsActive: true}
	codes := []*entity.ConfirmationCode{{Base: entity.Base{ID: 11}, UserID: 7, CodeHash: hash}}

	t.Run("unknown user", func(t *testing.T) {
		tr := newTestRepo()
		svc := newAuthService(tr, new(MockMailer), new(MockTokenIssuer))
		tr.users.On("FindByUsername", ctx, "ghost").Return(nil, nil)

		_, err := svc.Token(ctx, &request.TokenRequest{Username: "ghost", ConfirmationCode: "X"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrong code", func(t *testing.T) {
		tr := newTestRepo()
		svc := newAuthService(tr, new(MockMailer), new(MockTokenIssuer))
		tr.users.On("FindByUsername", ctx, "alice").Return(active, nil)
		tr.codes.On("FindActiveByUser", ctx, int64(7), activeCodeWindow).Return(codes, nil)

		_, err := svc.Token(ctx, &request.TokenRequest{Username: "alice", ConfirmationCode: "WRONG123"})
		assert.ErrorIs(t, err, ErrInvalidCode)
		tr.codes.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything)
	})

	t.Run("no active codes", func(t *testing.T) {
		tr := newTestRepo()
		svc := newAuthService(tr, new(MockMailer), new(MockTokenIssuer))
		tr.users.On("FindByUsername", ctx, "alice").Return(active, nil)
		tr.codes.On("FindActiveByUser", ctx, int64(7), activeCodeWindow).Return(nil, nil)

		_, err := svc.Token(ctx, &request.TokenRequest{Username: "alice", ConfirmationCode: "ABCD2345"})
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("code consumed concurrently", func(t *testing.T) {
		tr := newTestRepo()
		svc := newAuthService(tr, new(MockMailer), new(MockTokenIssuer))
		tr.users.On("FindByUsername", ctx, "alice").Return(active, nil)
		tr.codes.On("FindActiveByUser", ctx, int64(7), activeCodeWindow).Return(codes, nil)
		tr.codes.On("MarkUsed", ctx, int64(11)).Return(fmt.Errorf("mark code 11 as used: %w", repository.ErrNotFound))

		_, err := svc.Token(ctx, &request.TokenRequest{Username: "alice", ConfirmationCode: "ABCD2345"})
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("inactive user", func(t *testing.T) {
		tr := newTestRepo()
		svc := newAuthService(tr, new(MockMailer), new(MockTokenIssuer))
		inactive := *active
		inactive.IsActive = false
		tr.users.On("FindByUsername", ctx, "alice").Return(&inactive, nil)

		_, err := svc.Token(ctx, &request.TokenRequest{Username: "alice", ConfirmationCode: "ABCD2345"})
		assert.ErrorIs(t, err, ErrInactive)
	})

	t.Run("missing code", func(t *testing.T) {
		tr := newTestRepo()
		svc := newAuthService(tr, new(MockMailer), new(MockTokenIssuer))

		_, err := svc.Token(ctx, &request.TokenRequest{Username: "alice"})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "confirmation_code")
	})
}
