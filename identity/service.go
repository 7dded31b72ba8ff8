package identity

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/voicedoc/auth/jwt"
	"github.com/kbukum/voicedoc/auth/password"
	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/event"
	"github.com/kbukum/voicedoc/kvstore"
	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/validation"
)

const invalidCredentials = "Invalid credentials"

var _ Provider = (*Service)(nil)

// Service is a local identity provider backed by a key-value store. It holds
// at most one session.
type Service struct {
	users  *kvstore.Typed[user]
	hasher password.Hasher
	tokens *jwt.Service[*Claims]
	log    *logger.Logger
	bus    *event.Bus[Event]

	mu      sync.RWMutex
	session *Session
}

// New creates the identity service.
func New(cfg Config, store kvstore.Store, log *logger.Logger) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigValidation("identity", err.Error())
	}
	log = log.WithComponent("identity")
	if cfg.Token.Secret == "" {
		secret, err := password.GenerateToken(32)
		if err != nil {
			return nil, err
		}
		cfg.Token.Secret = secret
		log.Warn("no token secret configured; sessions will not survive a restart")
	}
	tokens, err := jwt.NewService(cfg.Token, func() *Claims { return &Claims{} })
	if err != nil {
		return nil, err
	}
	return &Service{
		users:  kvstore.NewTyped[user](store, UserPrefix),
		hasher: password.NewHasher(cfg.Password),
		tokens: tokens,
		log:    log,
		bus:    event.NewBus[Event](),
	}, nil
}

// Register creates an account. It does not sign the user in.
func (s *Service) Register(ctx context.Context, email, pw string) error {
	creds, err := normalize(email, pw)
	if err != nil {
		return err
	}
	existing, err := s.users.Load(ctx, creds.Email)
	if err != nil {
		return errors.Internal(err)
	}
	if existing != nil {
		return errors.AlreadyExists("User already exists")
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return errors.InvalidInput("password", err.Error())
	}
	u := &user{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Save(ctx, creds.Email, u); err != nil {
		return errors.Internal(err)
	}
	s.log.Info("user registered", logger.Fields(logger.FieldEmail, u.Email, logger.FieldUserID, u.ID))
	return nil
}

// Authenticate verifies credentials and replaces the current session.
func (s *Service) Authenticate(ctx context.Context, email, pw string) error {
	creds, err := normalize(email, pw)
	if err != nil {
		return errors.Unauthorized(invalidCredentials)
	}
	u, err := s.users.Load(ctx, creds.Email)
	if err != nil {
		return errors.Internal(err)
	}
	if u == nil || s.hasher.Verify(creds.Password, u.PasswordHash) != nil {
		s.log.Warn("sign-in rejected", logger.Fields(logger.FieldEmail, creds.Email))
		return errors.Unauthorized(invalidCredentials)
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.ID, ID: uuid.NewString()},
		Email:            u.Email,
	}
	token, err := s.tokens.GenerateAccess(claims)
	if err != nil {
		return errors.Internal(err)
	}
	session := &Session{
		UserIdentifier: u.ID,
		Email:          u.Email,
		SignedInAt:     claims.IssuedAt.Time,
		ExpiresAt:      claims.ExpiresAt.Time,
		Token:          token,
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.log.Info("signed in", logger.Fields(logger.FieldUserID, u.ID))
	s.bus.Publish(Event{Type: SignedIn, Session: session.public()})
	return nil
}

// SignOut ends the current session. Signing out with no session is a no-op.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	prev := s.session
	s.session = nil
	s.mu.Unlock()

	if prev == nil {
		return nil
	}
	s.log.Info("signed out", logger.Fields(logger.FieldUserID, prev.UserIdentifier))
	s.bus.Publish(Event{Type: SignedOut})
	return nil
}

// CurrentSession returns a copy of the session, or nil.
func (s *Service) CurrentSession() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// OnSessionChange subscribes fn to SIGNED_IN and SIGNED_OUT events.
func (s *Service) OnSessionChange(fn func(Event)) *event.Subscription {
	return s.bus.Subscribe(fn)
}

// Verify checks a bearer token. It must be valid and belong to the current
// session; tokens from a signed-out session are rejected.
func (s *Service) Verify(token string) (*Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if stderrors.Is(err, gojwt.ErrTokenExpired) {
			return nil, errors.Unauthorized("Session expired.")
		}
		return nil, errors.Unauthorized("Invalid token.")
	}
	current := s.CurrentSession()
	if current == nil || current.Token != token {
		return nil, errors.Unauthorized("Session is no longer active.")
	}
	return claims, nil
}

func (s *Session) public() *Session {
	cp := *s
	cp.Token = ""
	return &cp
}

func normalize(email, pw string) (Credentials, error) {
	creds := Credentials{Email: strings.ToLower(strings.TrimSpace(email)), Password: pw}
	if err := validation.Validate(creds); err != nil {
		return creds, err
	}
	return creds, nil
}

func jwtDate(t time.Time) *gojwt.NumericDate {
	return gojwt.NewNumericDate(t)
}
