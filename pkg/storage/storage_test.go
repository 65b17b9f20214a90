package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fadedpez/hatbot/internal/types"
	"github.com/fadedpez/hatbot/pkg/entities"
	"github.com/fadedpez/hatbot/pkg/storage"
	"github.com/fadedpez/hatbot/pkg/storage/memory"
	"github.com/fadedpez/hatbot/pkg/storage/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TransactorTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	store *mock.MockStore
	tx    *storage.Transactor
}

func TestTransactorSuite(t *testing.T) {
	suite.Run(t, new(TransactorTestSuite))
}

func (s *TransactorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mock.NewMockStore(s.ctrl)
	s.tx = storage.NewTransactor(s.store)
}

func (s *TransactorTestSuite) TestGetOrCreateGuild() {
	doc := &entities.Document{}

	state := storage.GetOrCreateGuild(doc, "g")
	state.Pool = append(state.Pool, "A")

	s.Same(state, storage.GetOrCreateGuild(doc, "g"))
	s.Equal([]string{"A"}, doc.Guilds["g"].Pool)
	s.NotNil(state.PendingByUser)
}

func (s *TransactorTestSuite) TestUpdateSavesOnSuccess() {
	// Setup
	ctx := context.Background()
	doc := entities.NewDocument()
	s.store.EXPECT().Load(ctx).Return(doc, nil)
	s.store.EXPECT().Save(ctx, doc).Return(nil)

	// Execute
	err := s.tx.Update(ctx, "g", func(state *entities.GuildState) error {
		state.Pool = append(state.Pool, "A")
		return nil
	})

	// Assert
	s.Require().NoError(err)
	s.Equal([]string{"A"}, doc.Guilds["g"].Pool)
}

func (s *TransactorTestSuite) TestUpdateSkipsSaveOnFailure() {
	// Setup
	ctx := context.Background()
	hatErr := types.NewHatError(types.ErrEmptyPool, "empty")
	s.store.EXPECT().Load(ctx).Return(entities.NewDocument(), nil)

	// Execute
	err := s.tx.Update(ctx, "g", func(state *entities.GuildState) error {
		return hatErr
	})

	// Assert
	s.Equal(hatErr, err)
}

func (s *TransactorTestSuite) TestUpdateWrapsLoadError() {
	ctx := context.Background()
	s.store.EXPECT().Load(ctx).Return(nil, errors.New("unreadable"))

	err := s.tx.Update(ctx, "g", func(state *entities.GuildState) error {
		s.Fail("mutation should not run")
		return nil
	})

	s.True(types.IsHatError(err, types.ErrStorage))
}

func (s *TransactorTestSuite) TestUpdateWrapsSaveError() {
	ctx := context.Background()
	s.store.EXPECT().Load(ctx).Return(entities.NewDocument(), nil)
	s.store.EXPECT().Save(ctx, gomock.Any()).Return(errors.New("read-only file system"))

	err := s.tx.Update(ctx, "g", func(state *entities.GuildState) error {
		return nil
	})

	s.True(types.IsHatError(err, types.ErrStorage))
}

func (s *TransactorTestSuite) TestViewNeverSaves() {
	ctx := context.Background()
	s.store.EXPECT().Load(ctx).Return(entities.NewDocument(), nil)

	var seen *entities.GuildState
	err := s.tx.View(ctx, "g", func(state *entities.GuildState) error {
		seen = state
		return nil
	})

	s.Require().NoError(err)
	s.NotNil(seen)
}

func (s *TransactorTestSuite) TestSnapshot() {
	ctx := context.Background()
	doc := entities.NewDocument()
	doc.Guilds["g"] = entities.NewGuildState()
	s.store.EXPECT().Load(ctx).Return(doc, nil)

	snapshot, err := s.tx.Snapshot(ctx)

	s.Require().NoError(err)
	s.Len(snapshot.Guilds, 1)
}

func (s *TransactorTestSuite) TestSnapshotWrapsLoadError() {
	ctx := context.Background()
	s.store.EXPECT().Load(ctx).Return(nil, errors.New("unreadable"))

	_, err := s.tx.Snapshot(ctx)

	s.True(types.IsHatError(err, types.ErrStorage))
}

func TestTransactorSerializesUpdates(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tx := storage.NewTransactor(store)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.Update(ctx, "g", func(state *entities.GuildState) error {
				state.Pool = append(state.Pool, "name")
				return nil
			})
			if err != nil {
				t.Errorf("update failed: %v", err)
			}
		}()
	}
	wg.Wait()

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := len(doc.Guilds["g"].Pool); got != writers {
		t.Errorf("expected %d entries, got %d (lost updates)", writers, got)
	}
}
