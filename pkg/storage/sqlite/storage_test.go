package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadedpez/hatbot/pkg/entities"
	"github.com/fadedpez/hatbot/pkg/storage"
	"github.com/stretchr/testify/suite"
)

type SQLiteStorageTestSuite struct {
	suite.Suite
	tempDir string
	storage *Storage
}

func TestSQLiteStorage(t *testing.T) {
	suite.Run(t, new(SQLiteStorageTestSuite))
}

func (s *SQLiteStorageTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "hat-sqlite-test")
	s.Require().NoError(err)
	s.tempDir = tempDir

	store, err := New(filepath.Join(tempDir, "hat.db"))
	s.Require().NoError(err)
	s.storage = store
}

func (s *SQLiteStorageTestSuite) TearDownTest() {
	s.storage.Close()
	os.RemoveAll(s.tempDir)
}

func (s *SQLiteStorageTestSuite) TestLoadEmpty() {
	doc, err := s.storage.Load(context.Background())

	s.Require().NoError(err)
	s.Empty(doc.Guilds)
}

func (s *SQLiteStorageTestSuite) TestSaveAndLoadPreservesOrder() {
	// Setup
	ctx := context.Background()
	doc := entities.NewDocument()
	first := storage.GetOrCreateGuild(doc, "guild-1")
	first.Pool = []string{"Zed", "Alice", "Bob", "Alice"}
	first.PendingByUser["user-1"] = "Charlie"
	storage.GetOrCreateGuild(doc, "guild-2")

	// Execute
	s.Require().NoError(s.storage.Save(ctx, doc))
	loaded, err := s.storage.Load(ctx)

	// Assert
	s.Require().NoError(err)
	s.Equal(doc, loaded)
}

func (s *SQLiteStorageTestSuite) TestSaveOverwritesPreviousContents() {
	// Setup
	ctx := context.Background()
	doc := entities.NewDocument()
	guild := storage.GetOrCreateGuild(doc, "g")
	guild.Pool = []string{"A", "B"}
	guild.PendingByUser["u"] = "C"
	s.Require().NoError(s.storage.Save(ctx, doc))

	// Execute
	guild.Pool = []string{"B"}
	delete(guild.PendingByUser, "u")
	s.Require().NoError(s.storage.Save(ctx, doc))

	// Assert
	loaded, err := s.storage.Load(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"B"}, loaded.Guilds["g"].Pool)
	s.Empty(loaded.Guilds["g"].PendingByUser)
}
