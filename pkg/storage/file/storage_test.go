package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadedpez/hatbot/pkg/entities"
	"github.com/fadedpez/hatbot/pkg/storage"
	"github.com/stretchr/testify/suite"
)

type StorageTestSuite struct {
	suite.Suite
	tempDir string
	storage *Storage
}

func TestStorage(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func (s *StorageTestSuite) SetupTest() {
	// Create temp directory for test files
	tempDir, err := os.MkdirTemp("", "hat-storage-test")
	s.Require().NoError(err)
	s.tempDir = tempDir

	s.storage = New(filepath.Join(tempDir, "nested", "data.json"))
}

func (s *StorageTestSuite) TearDownTest() {
	os.RemoveAll(s.tempDir)
}

func (s *StorageTestSuite) TestLoadCreatesEmptyDocument() {
	// Execute
	doc, err := s.storage.Load(context.Background())

	// Assert
	s.Require().NoError(err)
	s.NotNil(doc.Guilds)
	s.Empty(doc.Guilds)

	data, err := os.ReadFile(s.storage.Path())
	s.Require().NoError(err, "Load should persist the empty document")
	s.JSONEq(`{"guilds":{}}`, string(data))
}

func (s *StorageTestSuite) TestSaveAndLoad() {
	// Setup
	ctx := context.Background()
	doc := entities.NewDocument()
	guild := storage.GetOrCreateGuild(doc, "guild-1")
	guild.Pool = []string{"Alice", "Bob", "Bob"}
	guild.PendingByUser["user-1"] = "Charlie"

	// Execute
	s.Require().NoError(s.storage.Save(ctx, doc))
	loaded, err := s.storage.Load(ctx)

	// Assert
	s.Require().NoError(err)
	s.Equal(doc, loaded)
}

func (s *StorageTestSuite) TestFileLayoutIsHumanReadable() {
	// Setup
	doc := entities.NewDocument()
	guild := storage.GetOrCreateGuild(doc, "g")
	guild.Pool = []string{"A"}
	guild.PendingByUser["u"] = "B"

	// Execute
	s.Require().NoError(s.storage.Save(context.Background(), doc))

	// Assert
	data, err := os.ReadFile(s.storage.Path())
	s.Require().NoError(err)
	s.JSONEq(`{"guilds":{"g":{"pool":["A"],"pendingByUser":{"u":"B"}}}}`, string(data))
	s.Contains(string(data), "\n  ", "document should be indented")
}

func (s *StorageTestSuite) TestLoadNormalizesMissingFields() {
	// Setup
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.storage.Path()), 0755))
	s.Require().NoError(os.WriteFile(s.storage.Path(), []byte(`{"guilds":{"g":{}}}`), 0644))

	// Execute
	doc, err := s.storage.Load(context.Background())

	// Assert
	s.Require().NoError(err)
	s.NotNil(doc.Guilds["g"].Pool)
	s.NotNil(doc.Guilds["g"].PendingByUser)
}

func (s *StorageTestSuite) TestLoadCorruptFile() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.storage.Path()), 0755))
	s.Require().NoError(os.WriteFile(s.storage.Path(), []byte(`not json`), 0644))

	_, err := s.storage.Load(context.Background())

	s.Error(err)
}

func (s *StorageTestSuite) TestLastWriteWins() {
	// Setup
	ctx := context.Background()
	first, err := s.storage.Load(ctx)
	s.Require().NoError(err)
	second, err := s.storage.Load(ctx)
	s.Require().NoError(err)

	storage.GetOrCreateGuild(first, "g").Pool = []string{"first"}
	storage.GetOrCreateGuild(second, "g").Pool = []string{"second"}

	// Execute
	s.Require().NoError(s.storage.Save(ctx, first))
	s.Require().NoError(s.storage.Save(ctx, second))

	// Assert
	loaded, err := s.storage.Load(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"second"}, loaded.Guilds["g"].Pool)
}
