package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

type FileRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	path string
	logs *bytes.Buffer
}

func TestFileRepositoryLoading(t *testing.T) {
	suite.Run(t, new(FileRepositoryTestSuite))
}

func (s *FileRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "leaderboard.json")
	s.logs = &bytes.Buffer{}
}

func (s *FileRepositoryTestSuite) open() *FileRepository {
	return NewFileRepository(s.path, log.New(s.logs))
}

func (s *FileRepositoryTestSuite) write(content string) {
	s.Require().NoError(os.WriteFile(s.path, []byte(content), 0644))
}

func (s *FileRepositoryTestSuite) TestMissingFileIsEmpty() {
	all, err := s.open().GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
	s.NotContains(s.logs.String(), "Could not load")
}

func (s *FileRepositoryTestSuite) TestMalformedFileIsEmpty() {
	s.write(`{"Ana": {"wins": 3`)

	all, err := s.open().GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
	s.Contains(s.logs.String(), "Could not load player stats")
}

func (s *FileRepositoryTestSuite) TestWrongShapeIsEmpty() {
	s.write(`["Ana", "Bo"]`)

	all, err := s.open().GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *FileRepositoryTestSuite) TestLegacyIntegersAreMigrated() {
	s.write(`{
  "Ana": 4,
  "Bo": -2,
  "Cal": {"wins": 7, "badges": ["🍧"], "achievements": ["Cal earned the Ice Cream🍧 for getting 21 exactly!"]}
}`)

	all, err := s.open().GetAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(&entities.StatsRecord{Wins: 4, Badges: []string{}, Achievements: []string{}}, all["Ana"])
	s.Equal(0, all["Bo"].Wins)
	s.Equal(7, all["Cal"].Wins)
	s.Equal([]string{"🍧"}, all["Cal"].Badges)
}

func (s *FileRepositoryTestSuite) TestSaveWritesIndentedDocument() {
	repo := s.open()
	s.Require().NoError(repo.Save(s.ctx, "Ana", &entities.StatsRecord{Wins: 1, Badges: []string{"🌸"}}))

	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.Contains(string(data), "\n  \"Ana\": {\n    \"wins\": 1,")

	var decoded map[string]*entities.StatsRecord
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal([]string{"🌸"}, decoded["Ana"].Badges)

	entries, err := os.ReadDir(filepath.Dir(s.path))
	s.Require().NoError(err)
	s.Len(entries, 1, "no temp files left behind")
}

func (s *FileRepositoryTestSuite) TestReloadSeesSavedRecords() {
	s.Require().NoError(s.open().Save(s.ctx, "Ana", &entities.StatsRecord{Wins: 9}))

	rec, err := s.open().Get(s.ctx, "Ana")
	s.Require().NoError(err)
	s.Equal(9, rec.Wins)
}

func (s *FileRepositoryTestSuite) TestBadFileIsReplacedOnSave() {
	s.write(`not json`)
	repo := s.open()

	s.Require().NoError(repo.Save(s.ctx, "Ana", &entities.StatsRecord{Wins: 1}))

	rec, err := s.open().Get(s.ctx, "Ana")
	s.Require().NoError(err)
	s.Equal(1, rec.Wins)
}
