package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/homebarber/internal/audit"
	"github.com/BruksfildServices01/homebarber/internal/domain/identity"
	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/metrics"
	"github.com/BruksfildServices01/homebarber/internal/models"
	"github.com/BruksfildServices01/homebarber/internal/snapshot"
	"github.com/BruksfildServices01/homebarber/internal/validators"
)

// Session is the persisted state of one device.
type Session struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	Token           string       `json:"token,omitempty"`
}

// ProfileSync keeps the barber directory in step with barber accounts.
type ProfileSync interface {
	EnsureProfile(ctx context.Context, u models.User) error
	UpdateProfile(ctx context.Context, id, name, phone, avatar string) error
}

type EmailChecker interface {
	IsEmailDomainValid(ctx context.Context, email string) bool
}

type IdentityDeps struct {
	Users   identity.Repository
	Tokens  *identity.TokenIssuer
	Storage snapshot.Storage
	// Profiles and Emails are optional.
	Profiles ProfileSync
	Emails   EmailChecker
}

// Identity manages the authenticated session of a single device.
type Identity struct {
	deps IdentityDeps
	opts Options
	key  string

	mu       sync.RWMutex
	session  Session
	restored bool
	// persistMu serializes snapshot writes.
	persistMu sync.Mutex
}

func NewIdentity(deps IdentityDeps, key string, opts Options) *Identity {
	return &Identity{deps: deps, key: key, opts: opts.normalize()}
}

func (s *Identity) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.session
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// Restore reloads the persisted session so a restart does not log the
// device out.
func (s *Identity) Restore(ctx context.Context) error {
	var st Session
	ok, err := s.deps.Storage.Load(ctx, s.key, &st)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.session = st
	}
	s.restored = true
	return nil
}

// update edits the session under the write lock, then persists it.
func (s *Identity) update(ctx context.Context, edit func(st *Session)) {
	s.mu.Lock()
	edit(&s.session)
	s.mu.Unlock()

	s.persist(ctx)
}

// persist stores the session current at the time it runs, or removes the
// snapshot once signed out.
func (s *Identity) persist(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	st := s.Session()
	if !st.IsAuthenticated {
		if err := s.deps.Storage.Delete(ctx, s.key); err != nil {
			s.opts.Log.Warn().Err(err).Str("key", s.key).Msg("delete session snapshot failed")
		}
		return
	}
	if err := s.deps.Storage.Save(ctx, s.key, st); err != nil {
		s.opts.Log.Warn().Err(err).Str("key", s.key).Msg("persist session failed")
	}
}

func (s *Identity) start(ctx context.Context, u models.User) (models.User, error) {
	token, err := s.deps.Tokens.Issue(u, s.opts.Clock())
	if err != nil {
		return models.User{}, err
	}
	s.update(ctx, func(st *Session) {
		*st = Session{User: &u, IsAuthenticated: true, Token: token}
	})
	return u, nil
}

func (s *Identity) Login(ctx context.Context, email, password string, role identity.Role) (models.User, error) {
	u, err := s.login(ctx, email, password, role)
	if err != nil {
		if !isBusiness(err) {
			s.opts.Log.Error().Err(err).Str("op", "identity.login").Msg("login failed")
		}
		s.opts.Metrics.RecordAuth("login", rejectedOrFailed(err))
		return models.User{}, httperr.Wrap(httperr.KindAuth, err)
	}

	s.opts.Metrics.RecordAuth("login", metrics.OutcomeOK)
	s.opts.Audit.Dispatch(audit.Event{
		UserID:   u.ID,
		Action:   audit.ActionUserLoggedIn,
		Entity:   "user",
		EntityID: u.ID,
	})
	return u, nil
}

func (s *Identity) login(ctx context.Context, email, password string, role identity.Role) (models.User, error) {
	email = identity.NormalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, httperr.ErrBusiness("invalid_credentials")
	}

	var u *models.User
	err := s.opts.backend(ctx, "identity.find", func(ctx context.Context) error {
		var err error
		u, err = s.deps.Users.FindByEmail(ctx, email)
		return err
	})
	if errors.Is(err, identity.ErrNotFound) {
		return models.User{}, httperr.ErrBusiness("invalid_credentials")
	}
	if err != nil {
		return models.User{}, err
	}

	if err := identity.CheckPassword(u.PasswordHash, password); err != nil {
		return models.User{}, err
	}
	if identity.Role(u.Role) != role {
		return models.User{}, httperr.ErrBusiness("role_mismatch")
	}

	if role == identity.RoleBarber {
		s.ensureProfile(ctx, *u)
	}
	return s.start(ctx, *u)
}

func (s *Identity) Register(
	ctx context.Context,
	name, email, password string,
	role identity.Role,
) (models.User, error) {
	u, err := s.register(ctx, name, email, password, role)
	if err != nil {
		if !isBusiness(err) {
			s.opts.Log.Error().Err(err).Str("op", "identity.register").Msg("register failed")
		}
		s.opts.Metrics.RecordAuth("register", rejectedOrFailed(err))
		return models.User{}, httperr.Wrap(httperr.KindRegistration, err)
	}

	s.opts.Metrics.RecordAuth("register", metrics.OutcomeOK)
	s.opts.Audit.Dispatch(audit.Event{
		UserID:   u.ID,
		Action:   audit.ActionUserRegistered,
		Entity:   "user",
		EntityID: u.ID,
		Metadata: map[string]string{"role": u.Role},
	})
	return u, nil
}

func (s *Identity) register(
	ctx context.Context,
	name, email, password string,
	role identity.Role,
) (models.User, error) {
	name = validators.SanitizeText(name)
	if name == "" {
		return models.User{}, httperr.ErrBusiness("missing_name")
	}
	email = identity.NormalizeEmail(email)
	if err := identity.ValidateEmail(email); err != nil {
		return models.User{}, err
	}
	if err := identity.ValidatePassword(password); err != nil {
		return models.User{}, err
	}
	if !role.Valid() {
		return models.User{}, httperr.ErrBusiness("invalid_role")
	}
	if s.deps.Emails != nil && !s.deps.Emails.IsEmailDomainValid(ctx, email) {
		return models.User{}, httperr.ErrBusiness("invalid_email_domain")
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	u := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         string(role),
	}
	err = s.opts.backend(ctx, "identity.create", func(ctx context.Context) error {
		return s.deps.Users.CreateUser(ctx, &u)
	})
	if errors.Is(err, identity.ErrEmailTaken) {
		return models.User{}, httperr.ErrBusiness("email_already_registered")
	}
	if err != nil {
		return models.User{}, err
	}

	if role == identity.RoleBarber {
		s.ensureProfile(ctx, u)
	}
	return s.start(ctx, u)
}

// ensureProfile is retried on every barber login, so a failure here only
// gets logged.
func (s *Identity) ensureProfile(ctx context.Context, u models.User) {
	if s.deps.Profiles == nil {
		return
	}
	if err := s.deps.Profiles.EnsureProfile(ctx, u); err != nil {
		s.opts.Log.Warn().Err(err).Str("user_id", u.ID).Msg("ensure barber profile failed")
	}
}

// Logout clears the session and its snapshot. Calling it twice is fine.
func (s *Identity) Logout(ctx context.Context) error {
	s.update(ctx, func(st *Session) { *st = Session{} })
	return nil
}

func (s *Identity) current() (models.User, error) {
	st := s.Session()
	if !st.IsAuthenticated || st.User == nil {
		return models.User{}, httperr.ErrBusiness("not_authenticated")
	}
	return *st.User, nil
}

// UpdateProfile edits name and phone of the signed-in user.
func (s *Identity) UpdateProfile(ctx context.Context, name, phone string) (models.User, error) {
	u, err := s.current()
	if err != nil {
		return models.User{}, httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	u.Name = validators.SanitizeText(name)
	u.Phone = strings.TrimSpace(phone)
	if u.Name == "" {
		return models.User{}, httperr.Wrap(httperr.KindProfileUpdate, httperr.ErrBusiness("missing_name"))
	}
	return s.save(ctx, u)
}

// UpdateAvatar points the signed-in user's avatar at uri.
func (s *Identity) UpdateAvatar(ctx context.Context, uri string) (models.User, error) {
	u, err := s.current()
	if err != nil {
		return models.User{}, httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	u.Avatar = strings.TrimSpace(uri)
	return s.save(ctx, u)
}

func (s *Identity) save(ctx context.Context, u models.User) (models.User, error) {
	err := s.opts.backend(ctx, "identity.update", func(ctx context.Context) error {
		return s.deps.Users.UpdateUser(ctx, &u)
	})
	if errors.Is(err, identity.ErrNotFound) {
		err = httperr.ErrBusiness("user_not_found")
	}
	if err == nil && identity.Role(u.Role) == identity.RoleBarber && s.deps.Profiles != nil {
		err = s.deps.Profiles.UpdateProfile(ctx, u.ID, u.Name, u.Phone, u.Avatar)
	}
	if err != nil {
		s.opts.Log.Error().Err(err).Str("op", "identity.update").Str("user_id", u.ID).Msg("profile update failed")
		return models.User{}, httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	// A logout or another sign-in since current() keeps its session.
	s.update(ctx, func(st *Session) {
		if st.IsAuthenticated && st.User != nil && st.User.ID == u.ID {
			st.User = &u
		}
	})
	return u, nil
}

func rejectedOrFailed(err error) string {
	if isBusiness(err) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeFailed
}
