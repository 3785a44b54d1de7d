//go:build integration

package identity_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"cloudid/internal/identity/models"
	identitystore "cloudid/internal/identity/store/identity"
	"cloudid/pkg/platform/sentinel"
	"cloudid/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *identitystore.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = identitystore.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "identities")
	s.Require().NoError(err)
}

func newTestIdentity(email string) *models.Identity {
	record, err := models.New(
		email, "Test User", models.CountryES,
		"confirm-"+uuid.NewString(), "reset-"+uuid.NewString(), time.Now(),
	)
	if err != nil {
		panic(err)
	}
	return record
}

func (s *PostgresStoreSuite) TestCreateAssignsSequentialIDs() {
	ctx := context.Background()

	first := newTestIdentity("first@example.org")
	s.Require().NoError(s.store.Create(ctx, first))
	second := newTestIdentity("second@example.org")
	s.Require().NoError(s.store.Create(ctx, second))

	s.Greater(second.ID, first.ID)
}

func (s *PostgresStoreSuite) TestEmailUniquenessIsCaseInsensitive() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, newTestIdentity("dup@example.org")))

	err := s.store.Create(ctx, newTestIdentity("DUP@Example.org"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestSecretUniqueness() {
	ctx := context.Background()

	first := newTestIdentity("one@example.org")
	s.Require().NoError(s.store.Create(ctx, first))

	second := newTestIdentity("two@example.org")
	second.ConfirmationSecret = first.ConfirmationSecret

	err := s.store.Create(ctx, second)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestLookupsAndListByStatus() {
	ctx := context.Background()

	record := newTestIdentity("lookup@example.org")
	s.Require().NoError(s.store.Create(ctx, record))

	byEmail, err := s.store.FindByEmail(ctx, "Lookup@Example.org")
	s.Require().NoError(err)
	s.Equal(record.ID, byEmail.ID)

	byConfirm, err := s.store.FindByConfirmationSecret(ctx, record.ConfirmationSecret)
	s.Require().NoError(err)
	s.Equal(record.ID, byConfirm.ID)

	byReset, err := s.store.FindByResetSecret(ctx, record.ResetSecret)
	s.Require().NoError(err)
	s.Equal(record.ID, byReset.ID)

	created, err := s.store.ListByStatus(ctx, models.StatusCreated)
	s.Require().NoError(err)
	s.Len(created, 1)

	_, err = s.store.FindByID(ctx, record.ID+1000)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDirectoryDNFailsClosedOnAmbiguity() {
	ctx := context.Background()
	dn := "uid=shared,ou=users,c=es,o=cloud,dc=ibergrid,dc=eu"

	for i := 0; i < 2; i++ {
		record := newTestIdentity(fmt.Sprintf("dn%d@example.org", i))
		record.DirectoryDN = dn
		s.Require().NoError(s.store.Create(ctx, record))
	}

	_, err := s.store.FindByDirectoryDN(ctx, dn)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateStatusCAS() {
	ctx := context.Background()

	record := newTestIdentity("cas@example.org")
	s.Require().NoError(s.store.Create(ctx, record))

	dn := "uid=cas@example.org,ou=users,c=es,o=cloud,dc=ibergrid,dc=eu"
	updated, err := s.store.UpdateStatus(ctx, record.ID, models.StatusCreated, models.StatusValid,
		identitystore.WithDirectoryDN(dn))
	s.Require().NoError(err)
	s.Equal(models.StatusValid, updated.Status)
	s.Equal(dn, updated.DirectoryDN)

	_, err = s.store.UpdateStatus(ctx, record.ID, models.StatusCreated, models.StatusValid)
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)

	_, err = s.store.UpdateStatus(ctx, record.ID+1000, models.StatusCreated, models.StatusValid)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentActivationCAS verifies the row-level guard: of many racing
// transitions from the same source status exactly one commits.
func (s *PostgresStoreSuite) TestConcurrentActivationCAS() {
	ctx := context.Background()

	record := newTestIdentity("race@example.org")
	s.Require().NoError(s.store.Create(ctx, record))

	const goroutines = 20
	var wg sync.WaitGroup
	var wins, losses atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.UpdateStatus(ctx, record.ID, models.StatusCreated, models.StatusValid)
			if err == nil {
				wins.Add(1)
			} else if errors.Is(err, sentinel.ErrInvalidState) {
				losses.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load(), "exactly one activation should win")
	s.Equal(int32(goroutines-1), losses.Load(), "all others should lose the CAS")
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()

	record := newTestIdentity("delete@example.org")
	s.Require().NoError(s.store.Create(ctx, record))

	s.Require().NoError(s.store.Delete(ctx, record.ID))
	s.Require().ErrorIs(s.store.Delete(ctx, record.ID), sentinel.ErrNotFound)

	_, err := s.store.FindByID(ctx, record.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
