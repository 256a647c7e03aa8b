package db

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	addressdom "storefront/internal/domain/address"
)

// Runs against a real PostgreSQL; set TEST_DATABASE_URL.
type AddressPGSuite struct {
	suite.Suite
	ctx  context.Context
	db   *sql.DB
	repo *AddressRepositoryPG
	now  time.Time
}

func TestAddressPGSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	suite.Run(t, new(AddressPGSuite))
}

func (s *AddressPGSuite) SetupSuite() {
	s.ctx = context.Background()
	db, err := sql.Open("postgres", os.Getenv("TEST_DATABASE_URL"))
	require.NoError(s.T(), err)
	require.NoError(s.T(), db.PingContext(s.ctx))
	_, err = db.ExecContext(s.ctx, AddressDDL)
	require.NoError(s.T(), err)
	s.db = db
	s.repo = NewAddressRepositoryPG(db)
	s.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (s *AddressPGSuite) TearDownSuite() {
	_ = s.db.Close()
}

func (s *AddressPGSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, `DELETE FROM shipping_addresses WHERE user_id LIKE 'test-%'`)
	s.Require().NoError(err)
}

func fields(name string, isDefault bool) addressdom.Fields {
	return addressdom.Fields{
		FullName: name, MobileNumber: "9876543210", Email: name + "@example.com",
		ShippingAddress: "221 Residency Road", PinCode: "560025", City: "Bengaluru", State: "Karnataka",
		IsDefault: isDefault,
	}
}

func (s *AddressPGSuite) add(uid, id string, f addressdom.Fields, at time.Time) error {
	return s.repo.Atomically(s.ctx, uid, func(b *addressdom.Book) error {
		_, err := b.Add(id, f, at)
		return err
	})
}

func (s *AddressPGSuite) defaults(uid string) []string {
	list, err := s.repo.ListByUser(s.ctx, uid)
	s.Require().NoError(err)
	var out []string
	for _, a := range list {
		if a.IsDefault {
			out = append(out, a.ID)
		}
	}
	return out
}

func (s *AddressPGSuite) TestDefaultMovesAndPromotes() {
	uid := "test-u1"
	s.Require().NoError(s.add(uid, "a1", fields("asha", false), s.now))
	s.Equal([]string{"a1"}, s.defaults(uid))

	s.Require().NoError(s.add(uid, "a2", fields("ravi", true), s.now.Add(time.Minute)))
	s.Equal([]string{"a2"}, s.defaults(uid))

	s.Require().NoError(s.repo.Atomically(s.ctx, uid, func(b *addressdom.Book) error {
		_, err := b.SetDefault("a1", s.now.Add(2*time.Minute))
		return err
	}))
	s.Equal([]string{"a1"}, s.defaults(uid))

	s.Require().NoError(s.repo.Atomically(s.ctx, uid, func(b *addressdom.Book) error {
		_, err := b.Delete("a1", s.now.Add(3*time.Minute))
		return err
	}))
	s.Equal([]string{"a2"}, s.defaults(uid))
}

func (s *AddressPGSuite) TestFailingFnWritesNothing() {
	uid := "test-u2"
	err := s.repo.Atomically(s.ctx, uid, func(b *addressdom.Book) error {
		if _, err := b.Add("a1", fields("asha", true), s.now); err != nil {
			return err
		}
		return addressdom.ErrNotFound
	})
	s.ErrorIs(err, addressdom.ErrNotFound)

	list, err := s.repo.ListByUser(s.ctx, uid)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *AddressPGSuite) TestConcurrentDefaultsKeepOne() {
	uid := "test-u3"
	var wg sync.WaitGroup
	for i, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_ = s.add(uid, id, fields("user"+id, true), s.now.Add(time.Duration(i)*time.Second))
		}(i, id)
	}
	wg.Wait()

	list, err := s.repo.ListByUser(s.ctx, uid)
	s.Require().NoError(err)
	s.Len(list, 5)
	s.Len(s.defaults(uid), 1)
}
