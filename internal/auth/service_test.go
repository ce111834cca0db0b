package auth_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

type mockAuthRepository struct {
	users  map[string]credential
	actors map[int64]*auth.Actor
}

type credential struct {
	hash   string
	userID int64
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		users:  make(map[string]credential),
		actors: make(map[int64]*auth.Actor),
	}
}

func (m *mockAuthRepository) GetPasswordForEmail(email string) (string, int64, error) {
	cred, ok := m.users[email]
	if !ok {
		return "", 0, errors.New("user not found")
	}
	return cred.hash, cred.userID, nil
}

func (m *mockAuthRepository) GetActor(userID int64) (*auth.Actor, error) {
	actor, ok := m.actors[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return actor, nil
}

var _ = Describe("AuthService", func() {
	var (
		repo *mockAuthRepository
		svc  *auth.Service
	)

	const (
		accessSecret  = "test-access-secret-0123456789abcdef"
		refreshSecret = "test-refresh-secret-0123456789abcdef"
	)

	BeforeEach(func() {
		repo = newMockAuthRepository()
		tokenGen := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 7*24*time.Hour)
		svc = auth.NewService(repo, tokenGen, bcrypt.MinCost)

		hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
		Expect(err).ToNot(HaveOccurred())
		repo.users["clerk@records.gov"] = credential{hash: string(hash), userID: 7}
		repo.actors[7] = &auth.Actor{ID: 7, Email: "clerk@records.gov", AccessLevel: auth.LevelClerk}
	})

	Describe("Authenticate", func() {
		It("returns a token pair for valid credentials", func() {
			tokens, err := svc.Authenticate(auth.LoginDTO{
				Email:    "clerk@records.gov",
				Password: "correct-horse",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
		})

		It("rejects a wrong password without leaking the reason", func() {
			_, err := svc.Authenticate(auth.LoginDTO{
				Email:    "clerk@records.gov",
				Password: "wrong",
			})

			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same error", func() {
			_, err := svc.Authenticate(auth.LoginDTO{
				Email:    "ghost@records.gov",
				Password: "whatever",
			})

			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("rejects an invalid login form", func() {
			_, err := svc.Authenticate(auth.LoginDTO{Email: "", Password: ""})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("token validation", func() {
		It("round-trips the user id through the access token", func() {
			tokens, err := svc.Authenticate(auth.LoginDTO{
				Email:    "clerk@records.gov",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			claims, err := svc.ValidateAccessToken(tokens.AccessToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal("7"))
			Expect(claims.Email).To(Equal("clerk@records.gov"))
		})

		It("rejects garbage tokens", func() {
			_, err := svc.ValidateAccessToken("not-a-token")

			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("rejects expired tokens distinctly", func() {
			expiredGen := &auth.JWTTokenGenerator{
				AccessTokenSecret:  []byte(accessSecret),
				RefreshTokenSecret: []byte(refreshSecret),
				AccessTokenTTL:     -time.Minute,
				RefreshTokenTTL:    -time.Minute,
			}
			expiredSvc := auth.NewService(repo, expiredGen, bcrypt.MinCost)

			tokens, err := expiredSvc.Authenticate(auth.LoginDTO{
				Email:    "clerk@records.gov",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = expiredSvc.ValidateAccessToken(tokens.AccessToken)

			Expect(err).To(MatchError(internal.ErrTokenExpired))
		})
	})

	Describe("RefreshTokens", func() {
		It("rotates the pair from a valid refresh token", func() {
			tokens, err := svc.Authenticate(auth.LoginDTO{
				Email:    "clerk@records.gov",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			rotated, err := svc.RefreshTokens(tokens.RefreshToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(rotated.AccessToken).ToNot(BeEmpty())
			Expect(rotated.RefreshToken).ToNot(BeEmpty())
		})

		It("rejects an invalid refresh token", func() {
			_, err := svc.RefreshTokens("bogus")

			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})
	})

	Describe("GetActor", func() {
		It("returns the resolved actor", func() {
			actor, err := svc.GetActor(7)

			Expect(err).ToNot(HaveOccurred())
			Expect(actor.Email).To(Equal("clerk@records.gov"))
		})
	})
})
