package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"cloudid/internal/directory"
	"cloudid/internal/identity/models"
	"cloudid/internal/identity/service"
	idstore "cloudid/internal/identity/store/identity"
	"cloudid/internal/login"
	"cloudid/internal/notify"
	dErrors "cloudid/pkg/domain-errors"
)

const baseDN = "o=cloud,dc=ibergrid,dc=eu"

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Emit(ctx context.Context, event notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) byType(t notify.EventType) []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Event
	for _, e := range n.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// LifecycleSuite exercises the full registration → confirmation → activation
// → password-establishment → deletion flow against in-memory collaborators.
type LifecycleSuite struct {
	suite.Suite
	ctx      context.Context
	store    *idstore.InMemory
	dir      *directory.InMemory
	logins   *login.InMemory
	notifier *recordingNotifier
	svc      *service.Service
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = idstore.NewInMemory()
	s.dir = directory.NewInMemory()
	s.logins = login.NewInMemory()
	s.notifier = &recordingNotifier{}
	s.svc = service.New(s.store, s.dir, baseDN,
		service.WithLoginAccounts(s.logins),
		service.WithNotifier(s.notifier),
	)
}

func (s *LifecycleSuite) register(email, country string) *models.Identity {
	record, err := s.svc.Register(s.ctx, models.RegisterRequest{
		Email:   email,
		Name:    "Ada",
		Country: country,
	})
	s.Require().NoError(err)
	return record
}

func (s *LifecycleSuite) TestRegistrationCreatesNoDirectoryEntry() {
	record := s.register("a@example.org", "ES")

	s.Equal(models.StatusCreated, record.Status)
	s.NotEmpty(record.ConfirmationSecret)
	s.NotEmpty(record.ResetSecret)
	s.NotEqual(record.ConfirmationSecret, record.ResetSecret)
	s.False(s.dir.HasEntry(record.DN(baseDN)))

	account, err := s.logins.Find(s.ctx, record.LoginID)
	s.Require().NoError(err)
	s.False(account.Enabled)
}

func (s *LifecycleSuite) TestConfirmEmitsAdminNotificationOnce() {
	record := s.register("a@example.org", "ES")

	confirmed, err := s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: record.ConfirmationSecret})
	s.Require().NoError(err)
	s.Equal(models.StatusConfirmed, confirmed.Status)
	s.Len(s.notifier.byType(notify.EventIdentityConfirmed), 1)

	// Replaying the link reports an invalid transition, never a silent
	// success, and emits nothing further.
	_, err = s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: record.ConfirmationSecret})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	s.Len(s.notifier.byType(notify.EventIdentityConfirmed), 1)
}

func (s *LifecycleSuite) TestActivateProvisionsEntryAtExpectedDN() {
	// Burn 41 ids so the record under test lands on primary key 42.
	for i := 0; i < 41; i++ {
		s.register(fmt.Sprintf("user%d@example.org", i), "PT")
	}
	record := s.register("a@example.org", "ES")
	s.Require().Equal(int64(42), record.ID)

	_, err := s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: record.ConfirmationSecret})
	s.Require().NoError(err)

	activated, err := s.svc.Activate(s.ctx, record.ID)
	s.Require().NoError(err)

	wantDN := "uid=a@example.org,ou=users,c=es," + baseDN
	s.Equal(models.StatusValid, activated.Status)
	s.Equal(wantDN, activated.DirectoryDN)

	entry, ok := s.dir.EntryAt(wantDN)
	s.Require().True(ok)
	s.Equal(int64(1_000_042), entry.UID)
	s.Equal("a@example.org", entry.LoginName)

	account, err := s.logins.Find(s.ctx, activated.LoginID)
	s.Require().NoError(err)
	s.True(account.Enabled)

	events := s.notifier.byType(notify.EventIdentityActivated)
	s.Require().Len(events, 1)
	s.Equal("a@example.org", events[0].Email)
}

func (s *LifecycleSuite) TestResetEstablishesUsablePassword() {
	record := s.register("a@example.org", "ES")
	_, err := s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: record.ConfirmationSecret})
	s.Require().NoError(err)
	activated, err := s.svc.Activate(s.ctx, record.ID)
	s.Require().NoError(err)

	// The freshly provisioned entry has an unusable password.
	ok, err := s.svc.CheckPassword(s.ctx, models.CheckPasswordRequest{Email: "a@example.org", Password: ""})
	s.Require().NoError(err)
	s.False(ok)

	reset, err := s.svc.ResetPassword(s.ctx, models.ResetPasswordRequest{
		Secret:      activated.ResetSecret,
		NewPassword: "correct horse battery",
	})
	s.Require().NoError(err)
	s.Equal(models.StatusActive, reset.Status)

	ok, err = s.svc.CheckPassword(s.ctx, models.CheckPasswordRequest{Email: "a@example.org", Password: "correct horse battery"})
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.svc.CheckPassword(s.ctx, models.CheckPasswordRequest{Email: "a@example.org", Password: "wrong"})
	s.Require().NoError(err)
	s.False(ok)
}

func (s *LifecycleSuite) TestChangePasswordRequiresOldPassword() {
	record := s.register("a@example.org", "ES")
	_, err := s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: record.ConfirmationSecret})
	s.Require().NoError(err)
	activated, err := s.svc.Activate(s.ctx, record.ID)
	s.Require().NoError(err)
	_, err = s.svc.ResetPassword(s.ctx, models.ResetPasswordRequest{
		Secret:      activated.ResetSecret,
		NewPassword: "first password",
	})
	s.Require().NoError(err)

	err = s.svc.ChangePassword(s.ctx, models.ChangePasswordRequest{
		Email:       "a@example.org",
		OldPassword: "not the password",
		NewPassword: "second password",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeAuthFailed))

	s.Require().NoError(s.svc.ChangePassword(s.ctx, models.ChangePasswordRequest{
		Email:       "a@example.org",
		OldPassword: "first password",
		NewPassword: "second password",
	}))

	ok, err := s.svc.CheckPassword(s.ctx, models.CheckPasswordRequest{Email: "a@example.org", Password: "second password"})
	s.Require().NoError(err)
	s.True(ok)
}

func (s *LifecycleSuite) TestDeleteTearsDownDirectoryFirst() {
	record := s.register("a@example.org", "ES")
	_, err := s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: record.ConfirmationSecret})
	s.Require().NoError(err)
	activated, err := s.svc.Activate(s.ctx, record.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, record.ID))

	s.False(s.dir.HasEntry(activated.DirectoryDN))
	_, err = s.svc.Get(s.ctx, record.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.logins.Find(s.ctx, activated.LoginID)
	s.Error(err)
}

func (s *LifecycleSuite) TestDirectoryEntryExistsIffValidOrActive() {
	record := s.register("a@example.org", "ES")
	dn := record.DN(baseDN)
	s.False(s.dir.HasEntry(dn))

	confirmed, err := s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: record.ConfirmationSecret})
	s.Require().NoError(err)
	s.False(s.dir.HasEntry(dn))

	_, err = s.svc.Activate(s.ctx, confirmed.ID)
	s.Require().NoError(err)
	s.True(s.dir.HasEntry(dn))

	updated, err := s.svc.ResetPassword(s.ctx, models.ResetPasswordRequest{
		Secret:      record.ResetSecret,
		NewPassword: "correct horse battery",
	})
	s.Require().NoError(err)
	s.Equal(models.StatusActive, updated.Status)
	s.True(s.dir.HasEntry(dn))
}

func (s *LifecycleSuite) TestConcurrentActivationExactlyOneWins() {
	record := s.register("a@example.org", "ES")
	_, err := s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: record.ConfirmationSecret})
	s.Require().NoError(err)

	const workers = 8
	results := make(chan error, workers)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < workers; i++ {
		go func() {
			start.Wait()
			_, err := s.svc.Activate(s.ctx, record.ID)
			results <- err
		}()
	}
	start.Done()

	var wins, losses int
	for i := 0; i < workers; i++ {
		err := <-results
		switch {
		case err == nil:
			wins++
		case dErrors.HasCode(err, dErrors.CodeInvalidState):
			losses++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, wins)
	s.Equal(workers-1, losses)

	final, err := s.svc.Get(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusValid, final.Status)
	s.True(s.dir.HasEntry(final.DirectoryDN))
	s.Len(s.notifier.byType(notify.EventIdentityActivated), 1)
}

func (s *LifecycleSuite) TestResolveByDirectoryDN() {
	record := s.register("a@example.org", "ES")
	_, err := s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: record.ConfirmationSecret})
	s.Require().NoError(err)
	activated, err := s.svc.Activate(s.ctx, record.ID)
	s.Require().NoError(err)

	resolved, err := s.svc.FindByDirectoryDN(s.ctx, activated.DirectoryDN)
	s.Require().NoError(err)
	s.Equal(record.ID, resolved.ID)

	_, err = s.svc.FindByDirectoryDN(s.ctx, "uid=nobody,ou=users,c=es,"+baseDN)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *LifecycleSuite) TestProvisionExternalNeverCreatesDirectoryEntry() {
	record, err := s.svc.ProvisionExternal(s.ctx, "principal-1", "Ext@Example.org", "")
	s.Require().NoError(err)
	s.Equal(models.StatusExternal, record.Status)
	s.Equal("ext@example.org", record.Email)
	s.Equal("ext", record.Name)
	s.False(record.OwnsDirectoryEntry())
	s.False(s.dir.HasEntry(record.DN(baseDN)))

	resolved, err := s.svc.FindByPrincipal(s.ctx, "principal-1")
	s.Require().NoError(err)
	s.Equal(record.ID, resolved.ID)

	// Lookup never creates: an unknown principal is a plain miss.
	_, err = s.svc.FindByPrincipal(s.ctx, "principal-2")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *LifecycleSuite) TestListByStatus() {
	a := s.register("a@example.org", "ES")
	s.register("b@example.org", "PT")
	_, err := s.svc.Confirm(s.ctx, models.ConfirmRequest{Secret: a.ConfirmationSecret})
	s.Require().NoError(err)

	created, err := s.svc.ListByStatus(s.ctx, models.StatusCreated)
	s.Require().NoError(err)
	s.Len(created, 1)
	s.Equal("b@example.org", created[0].Email)

	_, err = s.svc.ListByStatus(s.ctx, models.Status("bogus"))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
