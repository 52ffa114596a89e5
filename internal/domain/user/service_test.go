package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

type fakeUserRepo struct {
	byEmail    map[string]*User
	byUsername map[string]*User
	byPublicID map[uuid.UUID]*User
	created    *User
	updated    *User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:    map[string]*User{},
		byUsername: map[string]*User{},
		byPublicID: map[uuid.UUID]*User{},
	}
}

func (r *fakeUserRepo) add(account *User) {
	r.byEmail[account.Email] = account
	r.byUsername[account.Username] = account
	r.byPublicID[account.PublicID] = account
}

func (r *fakeUserRepo) Create(_ context.Context, account *User) (*User, error) {
	account.ID = uint(len(r.byEmail) + 1)
	r.created = account
	r.add(account)
	return account, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	return r.byUsername[username], nil
}

func (r *fakeUserRepo) FindByPublicID(_ context.Context, publicID uuid.UUID) (*User, error) {
	return r.byPublicID[publicID], nil
}

func (r *fakeUserRepo) Update(_ context.Context, account *User) (*User, error) {
	r.updated = account
	r.add(account)
	return account, nil
}

type fakeSessionRepo struct {
	byTokenHash map[string]*Session
	created     []*Session
	revoked     []uint
	revokedAll  []uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byTokenHash: map[string]*Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *Session) (*Session, error) {
	session.ID = uint(len(r.created) + 1)
	r.created = append(r.created, session)
	r.byTokenHash[session.RefreshTokenHash] = session
	return session, nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	return r.byTokenHash[tokenHash], nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, sessionID uint) error {
	r.revoked = append(r.revoked, sessionID)
	for _, session := range r.created {
		if session.ID == sessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllForUser(_ context.Context, userID uint) error {
	r.revokedAll = append(r.revokedAll, userID)
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	svc := NewService(users, sessions, AuthConfig{
		Secret:          []byte("test-signing-secret"),
		AccessLifetime:  30 * time.Minute,
		RefreshLifetime: 24 * time.Hour,
		Issuer:          "adogent-test",
	})
	return svc, users, sessions
}

func registerAccount(t *testing.T, svc *Service) *User {
	t.Helper()
	account, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Customer@Example.com",
		Username: "customer",
		Password: "super-secret-1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return account
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	svc, users, _ := newTestService()

	account := registerAccount(t, svc)

	if account.Email != "customer@example.com" {
		t.Errorf("email = %q, want lowercased", account.Email)
	}
	if account.Role != RoleCustomer {
		t.Errorf("role = %q, want customer", account.Role)
	}
	if account.PasswordHash == "super-secret-1" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("super-secret-1")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
	if users.created == nil {
		t.Fatal("account not persisted")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	registerAccount(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "customer@example.com",
		Username: "someone-else",
		Password: "another-pass-1",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
		t.Errorf("error type = %v, want conflict", err)
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, sessions := newTestService()
	registerAccount(t, svc)

	account, pair, err := svc.Login(context.Background(), "customer@example.com", "super-secret-1", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if account.LastLogin == nil {
		t.Error("last login not recorded")
	}
	if len(sessions.created) != 1 {
		t.Fatalf("sessions created = %d, want 1", len(sessions.created))
	}

	claims, err := svc.ParseToken(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("token type = %q, want access", claims.TokenType)
	}
	if claims.Subject != account.PublicID.String() {
		t.Errorf("subject = %q, want %s", claims.Subject, account.PublicID)
	}
}

func TestLoginWrongPasswordCountsFailure(t *testing.T) {
	svc, users, _ := newTestService()
	registerAccount(t, svc)

	_, _, err := svc.Login(context.Background(), "customer@example.com", "wrong", "", "")
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized) {
		t.Errorf("error type = %v, want unauthorized", err)
	}
	if users.updated == nil || users.updated.FailedLoginAttempts != 1 {
		t.Error("failed attempt not recorded")
	}
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	svc, users, _ := newTestService()
	registerAccount(t, svc)

	for i := 0; i < maxFailedLoginAttempts; i++ {
		_, _, _ = svc.Login(context.Background(), "customer@example.com", "wrong", "", "")
	}

	if users.updated.Status != StatusSuspended {
		t.Errorf("status = %q, want suspended", users.updated.Status)
	}

	_, _, err := svc.Login(context.Background(), "customer@example.com", "super-secret-1", "", "")
	if err == nil {
		t.Fatal("expected forbidden error for suspended account")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Errorf("error type = %v, want forbidden", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions := newTestService()
	registerAccount(t, svc)

	_, pair, err := svc.Login(context.Background(), "customer@example.com", "super-secret-1", "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	next, err := svc.Refresh(context.Background(), pair.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	if len(sessions.revoked) != 1 {
		t.Fatalf("revoked %d sessions, want 1", len(sessions.revoked))
	}

	// the old session is revoked, replaying the old token must fail
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken, "", ""); err == nil {
		t.Fatal("expected replayed refresh token to be rejected")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService()
	registerAccount(t, svc)

	_, pair, err := svc.Login(context.Background(), "customer@example.com", "super-secret-1", "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), pair.AccessToken, "", "")
	if err == nil {
		t.Fatal("expected access token to be rejected")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized) {
		t.Errorf("error type = %v, want unauthorized", err)
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	svc, _, _ := newTestService()
	other := NewService(newFakeUserRepo(), newFakeSessionRepo(), AuthConfig{
		Secret:          []byte("different-secret"),
		AccessLifetime:  time.Minute,
		RefreshLifetime: time.Hour,
	})
	registerAccount(t, svc)

	_, pair, err := svc.Login(context.Background(), "customer@example.com", "super-secret-1", "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := other.ParseToken(context.Background(), pair.AccessToken); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestLogoutRevokesAllSessions(t *testing.T) {
	svc, _, sessions := newTestService()
	account := registerAccount(t, svc)

	if _, _, err := svc.Login(context.Background(), "customer@example.com", "super-secret-1", "", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(context.Background(), account.PublicID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revokedAll) != 1 || sessions.revokedAll[0] != account.ID {
		t.Errorf("revokedAll = %v, want [%d]", sessions.revokedAll, account.ID)
	}
}
