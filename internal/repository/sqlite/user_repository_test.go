package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/testutil"
)

type UserRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewUserRepository(s.db)
}

func (s *UserRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *UserRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	u, err := s.repo.Create(ctx, "alice", []byte("hash1"))
	s.Require().NoError(err)
	s.NotZero(u.ID)
	s.Equal("alice", u.Username)

	byName, err := s.repo.GetByUsername(ctx, "alice")
	s.Require().NoError(err)
	s.Require().NotNil(byName)
	s.Equal(u.ID, byName.ID)
	s.Equal([]byte("hash1"), byName.PasswordHash)

	byID, err := s.repo.Get(ctx, u.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Equal("alice", byID.Username)
}

func (s *UserRepositorySuite) TestCreateDuplicate() {
	ctx := context.Background()
	_, err := s.repo.Create(ctx, "alice", []byte("h"))
	s.Require().NoError(err)

	_, err = s.repo.Create(ctx, "alice", []byte("h"))
	s.Error(err)
}

func (s *UserRepositorySuite) TestGetMissing() {
	u, err := s.repo.GetByUsername(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Nil(u)
}

func (s *UserRepositorySuite) TestUpdatePassword() {
	ctx := context.Background()
	u, err := s.repo.Create(ctx, "bob", []byte("old"))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.UpdatePassword(ctx, u.ID, []byte("new")))

	got, err := s.repo.Get(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal([]byte("new"), got.PasswordHash)

	s.ErrorIs(s.repo.UpdatePassword(ctx, 999, []byte("x")), sql.ErrNoRows)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
