// Package service implements the identity lifecycle orchestrator. It
// coordinates status transitions on the profile record with the directory
// side effects that must accompany them, enforcing the cross-store
// consistency invariant: a managed directory entry exists iff the record is
// valid or active.
//
// Every transition that touches both stores follows a fixed order, directory
// write before status write, so a crash between the two leaves the directory
// ahead of the record. Recovery is an idempotent retry of the same
// transition: directory Conflict on activate and NotFound on delete signal
// "already done" and are absorbed.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"cloudid/internal/directory"
	"cloudid/internal/identity/metrics"
	"cloudid/internal/identity/models"
	idstore "cloudid/internal/identity/store/identity"
	"cloudid/internal/identity/uid"
	"cloudid/internal/login"
	"cloudid/internal/notify"
	dErrors "cloudid/pkg/domain-errors"
	"cloudid/pkg/platform/sentinel"
	"cloudid/pkg/requestcontext"
	"cloudid/pkg/secrets"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// secretAttempts bounds the regenerate-on-collision loop at insert.
const secretAttempts = 3

// IdentityStore is the relational persistence collaborator. Implementations
// return sentinel errors; the service translates them into coded domain
// errors at the boundary.
type IdentityStore interface {
	Create(ctx context.Context, record *models.Identity) error
	FindByID(ctx context.Context, id int64) (*models.Identity, error)
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	FindByConfirmationSecret(ctx context.Context, secret string) (*models.Identity, error)
	FindByResetSecret(ctx context.Context, secret string) (*models.Identity, error)
	FindByDirectoryDN(ctx context.Context, dn string) (*models.Identity, error)
	FindByLoginID(ctx context.Context, loginID string) (*models.Identity, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Identity, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.Status, opts ...idstore.StatusUpdateOption) (*models.Identity, error)
	Delete(ctx context.Context, id int64) error
}

// Directory is the directory service collaborator (see directory.Client).
type Directory interface {
	BindAs(ctx context.Context, dn, secret string) error
	CreateEntry(ctx context.Context, dn string, entry directory.Entry) error
	DeleteEntry(ctx context.Context, dn string) error
	SetPassword(ctx context.Context, dn, newSecret string) error
	ChangePassword(ctx context.Context, dn, oldSecret, newSecret string) error
}

// LoginAccounts is the login/session collaborator. The orchestrator only
// creates disabled placeholders, toggles the enabled flag, and deletes.
type LoginAccounts interface {
	CreateDisabled(ctx context.Context, username string) (login.Account, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
}

// Notifier publishes lifecycle events. Delivery is fire-and-forget.
type Notifier interface {
	Emit(ctx context.Context, event notify.Event) error
}

// Service is the lifecycle orchestrator.
type Service struct {
	store     IdentityStore
	directory Directory
	logins    LoginAccounts
	notifier  Notifier
	baseDN    string

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time

	locks keyedLocks
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLoginAccounts(accounts LoginAccounts) Option {
	return func(s *Service) {
		s.logins = accounts
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service. The login and notification collaborators are
// optional; without them registration skips the placeholder account and
// transitions emit no events.
func New(store IdentityStore, dir Directory, baseDN string, opts ...Option) *Service {
	s := &Service{
		store:     store,
		directory: dir,
		baseDN:    baseDN,
		logger:    slog.Default(),
		tracer:    otel.Tracer("cloudid/identity"),
		now:       time.Now,
		locks:     newKeyedLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a profile record in the created state, together with a
// disabled login placeholder. Secrets are generated here and regenerated on
// an insert collision, since they are looked up as unique keys from
// unauthenticated link paths.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Register")
	defer span.End()
	defer s.observe("register", s.now())

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		// The directory entry needs a display name; fall back to the
		// email local part.
		name, _, _ = strings.Cut(req.Email, "@")
	}

	var record *models.Identity
	for attempt := 0; attempt < secretAttempts; attempt++ {
		confirmationSecret, resetSecret, err := s.newSecretPair(req.Email)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate secrets")
		}

		record, err = models.New(req.Email, name, models.ParseCountry(req.Country), confirmationSecret, resetSecret, s.now())
		if err != nil {
			return nil, err
		}
		record.Phone = req.Phone
		record.Institution = req.Institution
		record.ResearchArea = req.ResearchArea
		record.Description = req.Description
		record.Resources = req.Resources

		if s.logins != nil {
			account, err := s.logins.CreateDisabled(ctx, req.Email)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "login collaborator unavailable")
			}
			record.LoginID = account.ID
		}

		err = s.store.Create(ctx, record)
		if err == nil {
			s.metrics.IncrementTransition(string(models.StatusCreated))
			s.logger.InfoContext(ctx, "identity registered",
				"identity_id", record.ID,
				"email", record.Email,
				"country", string(record.Country),
			)
			return record, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create identity")
		}

		// A conflict is either the email or a secret collision. Only the
		// latter is retryable with fresh secrets.
		if _, lookupErr := s.store.FindByEmail(ctx, req.Email); lookupErr == nil {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "could not generate unique secrets")
}

// Confirm applies the confirmation transition authorized by the secret from
// the confirmation link. The guard is re-evaluated by the store's
// conditional update, so a replayed link reports an invalid transition
// instead of silently succeeding.
func (s *Service) Confirm(ctx context.Context, req models.ConfirmRequest) (*models.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Confirm")
	defer span.End()
	defer s.observe("confirm", s.now())

	if err := req.Validate(); err != nil {
		return nil, err
	}

	record, err := s.store.FindByConfirmationSecret(ctx, req.Secret)
	if err != nil {
		return nil, s.lookupErr(err, "confirmation link invalid or already used")
	}

	unlock := s.locks.lock(record.ID)
	defer unlock()

	if err := record.CanConfirm(); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateStatus(ctx, record.ID, models.StatusCreated, models.StatusConfirmed)
	if err != nil {
		return nil, s.transitionErr(err, "identity is not awaiting confirmation")
	}

	s.metrics.IncrementTransition(string(models.StatusConfirmed))
	s.emit(ctx, notify.EventIdentityConfirmed, updated)
	s.logger.InfoContext(ctx, "identity confirmed", "identity_id", updated.ID, "email", updated.Email)
	return updated, nil
}

// Activate provisions the directory entry and moves the record to valid.
// Admin-only at the transport layer. The directory write happens before the
// status write; a Conflict from the directory means a previous attempt got
// that far and is absorbed so the retry can finish the transition. Two
// concurrent activations race on the status compare-and-swap: exactly one
// wins, the loser observes an invalid transition.
func (s *Service) Activate(ctx context.Context, id int64) (*models.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Activate")
	defer span.End()
	defer s.observe("activate", s.now())

	unlock := s.locks.lock(id)
	defer unlock()

	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(err, "identity not found")
	}
	if err := record.CanActivate(); err != nil {
		return nil, err
	}

	accountUID, err := uidFor(record)
	if err != nil {
		return nil, err
	}

	dn := record.DN(s.baseDN)
	entry := directory.Entry{
		LoginName:   record.Email,
		DisplayName: record.Name,
		UID:         accountUID,
	}
	if err := s.directory.CreateEntry(ctx, dn, entry); err != nil {
		if !errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementDirectoryError("create")
			return nil, s.directoryErr(err, "directory entry creation failed")
		}
		// Entry already present: a previous activation crashed between the
		// directory write and the status write. Proceed and finish it.
		s.logger.WarnContext(ctx, "directory entry already exists, resuming activation",
			"identity_id", record.ID, "dn", dn)
	}

	updateOpts := []idstore.StatusUpdateOption{idstore.WithDirectoryDN(dn)}
	if s.logins != nil {
		loginID := record.LoginID
		if loginID == "" {
			account, err := s.logins.CreateDisabled(ctx, record.Email)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "login collaborator unavailable")
			}
			loginID = account.ID
			updateOpts = append(updateOpts, idstore.WithLoginID(loginID))
		}
		if err := s.logins.SetEnabled(ctx, loginID, true); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "login collaborator unavailable")
		}
	}

	updated, err := s.store.UpdateStatus(ctx, record.ID, record.Status, models.StatusValid, updateOpts...)
	if err != nil {
		return nil, s.transitionErr(err, "identity cannot be activated from its current state")
	}

	s.metrics.IncrementTransition(string(models.StatusValid))
	s.emit(ctx, notify.EventIdentityActivated, updated)
	s.logger.InfoContext(ctx, "identity activated",
		"identity_id", updated.ID,
		"email", updated.Email,
		"dn", dn,
		"uid", accountUID,
		"admin", requestcontext.AdminSubject(ctx),
	)
	return updated, nil
}

// ResetPassword establishes a password through the reset-link secret. The
// directory password is overwritten by the service principal, then the
// record moves valid → active.
func (s *Service) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "identity.ResetPassword")
	defer span.End()
	defer s.observe("reset_password", s.now())

	if err := req.Validate(); err != nil {
		return nil, err
	}

	record, err := s.store.FindByResetSecret(ctx, req.Secret)
	if err != nil {
		return nil, s.lookupErr(err, "reset link invalid or already used")
	}

	unlock := s.locks.lock(record.ID)
	defer unlock()

	if err := record.CanResetPassword(); err != nil {
		s.metrics.IncrementPasswordOp("reset", "rejected")
		return nil, err
	}

	if err := s.directory.SetPassword(ctx, record.DirectoryDN, req.NewPassword); err != nil {
		s.metrics.IncrementDirectoryError("set_password")
		s.metrics.IncrementPasswordOp("reset", "error")
		return nil, s.directoryErr(err, "directory password update failed")
	}

	updated, err := s.store.UpdateStatus(ctx, record.ID, models.StatusValid, models.StatusActive)
	if err != nil {
		return nil, s.transitionErr(err, "identity is not awaiting password establishment")
	}

	s.metrics.IncrementTransition(string(models.StatusActive))
	s.metrics.IncrementPasswordOp("reset", "ok")
	s.logger.InfoContext(ctx, "password established", "identity_id", updated.ID, "email", updated.Email)
	return updated, nil
}

// ChangePassword is the self-service password change. The directory client
// binds as the identity with the old password first, so a wrong old password
// fails closed. No status change.
func (s *Service) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	ctx, span := s.tracer.Start(ctx, "identity.ChangePassword")
	defer span.End()
	defer s.observe("change_password", s.now())

	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	record, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		return s.lookupErr(err, "identity not found")
	}
	if record.DirectoryDN == "" {
		s.metrics.IncrementPasswordOp("change", "rejected")
		return dErrors.New(dErrors.CodeInvalidState, "identity has no directory account")
	}

	if err := s.directory.ChangePassword(ctx, record.DirectoryDN, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, sentinel.ErrAuthFailed) {
			s.metrics.IncrementPasswordOp("change", "auth_failed")
			return dErrors.New(dErrors.CodeAuthFailed, "incorrect current password")
		}
		s.metrics.IncrementDirectoryError("change_password")
		s.metrics.IncrementPasswordOp("change", "error")
		return s.directoryErr(err, "directory password update failed")
	}

	s.metrics.IncrementPasswordOp("change", "ok")
	s.logger.InfoContext(ctx, "password changed", "identity_id", record.ID, "email", record.Email)
	return nil
}

// CheckPassword verifies a password through a directory bind. A rejected
// bind is a negative answer, not an error; only transport failure is.
func (s *Service) CheckPassword(ctx context.Context, req models.CheckPasswordRequest) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "identity.CheckPassword")
	defer span.End()
	defer s.observe("check_password", s.now())

	req.Normalize()
	if err := req.Validate(); err != nil {
		return false, err
	}

	record, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		return false, s.lookupErr(err, "identity not found")
	}
	if record.DirectoryDN == "" {
		return false, dErrors.New(dErrors.CodeInvalidState, "identity has no directory account")
	}

	err = s.directory.BindAs(ctx, record.DirectoryDN, req.Password)
	switch {
	case err == nil:
		s.metrics.IncrementPasswordOp("check", "ok")
		return true, nil
	case errors.Is(err, sentinel.ErrAuthFailed):
		s.metrics.IncrementPasswordOp("check", "auth_failed")
		return false, nil
	default:
		s.metrics.IncrementDirectoryError("bind")
		return false, s.directoryErr(err, "directory bind failed")
	}
}

// Delete tears an identity down: directory entry first when one is owned,
// then the login principal, then the record. A missing directory entry on
// retry is absorbed as already deleted; the record survives any failure so
// the deletion can be replayed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "identity.Delete")
	defer span.End()
	defer s.observe("delete", s.now())

	unlock := s.locks.lock(id)
	defer unlock()

	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.lookupErr(err, "identity not found")
	}

	if record.OwnsDirectoryEntry() {
		if err := s.directory.DeleteEntry(ctx, record.DirectoryDN); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementDirectoryError("delete")
			return s.directoryErr(err, "directory entry removal failed")
		}
	}

	if s.logins != nil && record.LoginID != "" {
		if err := s.logins.Delete(ctx, record.LoginID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "login collaborator unavailable")
		}
	}

	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete identity")
	}

	s.logger.InfoContext(ctx, "identity deleted",
		"identity_id", record.ID,
		"email", record.Email,
		"admin", requestcontext.AdminSubject(ctx),
	)
	return nil
}

// Get fetches a record by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Identity, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(err, "identity not found")
	}
	return record, nil
}

// FindByDirectoryDN resolves an already-validated certificate subject to its
// record. Zero or multiple matches fail closed with NotFound; the resolver
// never picks arbitrarily.
func (s *Service) FindByDirectoryDN(ctx context.Context, dn string) (*models.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "identity.FindByDirectoryDN")
	defer span.End()

	if dn == "" {
		return nil, dErrors.New(dErrors.CodeNotFound, "no identity for subject")
	}
	record, err := s.store.FindByDirectoryDN(ctx, dn)
	if err != nil {
		return nil, s.lookupErr(err, "no identity for subject")
	}
	return record, nil
}

// FindByPrincipal resolves an external login principal to its record. It
// never creates; adoption is an explicit ProvisionExternal call.
func (s *Service) FindByPrincipal(ctx context.Context, loginID string) (*models.Identity, error) {
	record, err := s.store.FindByLoginID(ctx, loginID)
	if err != nil {
		return nil, s.lookupErr(err, "no identity for principal")
	}
	return record, nil
}

// ProvisionExternal adopts an already-authenticated external principal as an
// external-status record. No directory entry is ever created for it.
func (s *Service) ProvisionExternal(ctx context.Context, loginID, email, name string) (*models.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "identity.ProvisionExternal")
	defer span.End()
	defer s.observe("provision_external", s.now())

	email = strings.ToLower(strings.TrimSpace(email))
	if loginID == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "principal and email are required")
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	for attempt := 0; attempt < secretAttempts; attempt++ {
		confirmationSecret, resetSecret, err := s.newSecretPair(email)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate secrets")
		}

		record, err := models.NewExternal(email, name, loginID, confirmationSecret, resetSecret, s.now())
		if err != nil {
			return nil, err
		}

		err = s.store.Create(ctx, record)
		if err == nil {
			s.metrics.IncrementTransition(string(models.StatusExternal))
			s.logger.InfoContext(ctx, "external identity provisioned",
				"identity_id", record.ID, "email", record.Email, "login_id", loginID)
			return record, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create identity")
		}
		if _, lookupErr := s.store.FindByEmail(ctx, email); lookupErr == nil {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "could not generate unique secrets")
}

// ListByStatus returns the records currently in the given status.
func (s *Service) ListByStatus(ctx context.Context, status models.Status) ([]*models.Identity, error) {
	if !status.Valid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown status")
	}
	records, err := s.store.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list identities")
	}
	return records, nil
}

// uidFor computes the numeric account identifier for the record.
func uidFor(record *models.Identity) (int64, error) {
	return uid.Allocate(record.Country, record.ID)
}

func (s *Service) newSecretPair(email string) (string, string, error) {
	confirmationSecret, err := secrets.NewToken(email)
	if err != nil {
		return "", "", err
	}
	resetSecret, err := secrets.NewToken(email + ":reset")
	if err != nil {
		return "", "", err
	}
	return confirmationSecret, resetSecret, nil
}

// emit publishes a lifecycle event. Failures are logged and never affect the
// transition that triggered the event.
func (s *Service) emit(ctx context.Context, eventType notify.EventType, record *models.Identity) {
	if s.notifier == nil {
		return
	}
	event := notify.Event{
		Type:       eventType,
		IdentityID: record.ID,
		Email:      record.Email,
		Name:       record.Name,
		RequestID:  requestcontext.RequestID(ctx),
		OccurredAt: s.now(),
	}
	if err := s.notifier.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "notification emit failed",
			"type", string(eventType), "identity_id", record.ID, "error", err)
	}
}

func (s *Service) observe(operation string, start time.Time) {
	s.metrics.ObserveOperationLatency(operation, time.Since(start))
}

// lookupErr translates a store lookup failure.
func (s *Service) lookupErr(err error, notFoundMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "persistence unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "lookup failed")
}

// transitionErr translates a failed conditional status update. A lost
// compare-and-swap surfaces as an invalid transition, never as success.
func (s *Service) transitionErr(err error, invalidMsg string) error {
	switch {
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeInvalidState, invalidMsg)
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "identity not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update status")
	}
}

// directoryErr translates a directory client failure that is not handled
// specially by the calling operation.
func (s *Service) directoryErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	case errors.Is(err, sentinel.ErrAuthFailed):
		return dErrors.Wrap(err, dErrors.CodeAuthFailed, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
