package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"yamdb/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockImportRepo struct{ mock.Mock }

func (m *MockImportRepo) ImportCategories(ctx context.Context, rows []*entity.Category) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportRepo) ImportGenres(ctx context.Context, rows []*entity.Genre) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportRepo) ImportUsers(ctx context.Context, rows []*entity.User) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportRepo) ImportTitles(ctx context.Context, rows []*entity.Title) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportRepo) ImportGenreTitles(ctx context.Context, rows []*entity.GenreTitle) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportRepo) ImportReviews(ctx context.Context, rows []*entity.Review) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportRepo) ImportComments(ctx context.Context, rows []*entity.Comment) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

var fixtures = map[string]string{
	"category.csv": "id,name,slug\n1,Фильм,movie\n2,Книга,book\n",
	"genre.csv":    "id,name,slug\n1,Драма,drama\n",
	"users.csv": "id,username,email,role,bio,first_name,last_name\n" +
		"100,bingobongo,bingobongo@yamdb.fake,user,,,\n" +
		"101,capt_obvious,capt_obvious@yamdb.fake,admin,\"Bio, with comma\",Cap,Obvious\n",
	"titles.csv":      "id,name,year,category\n1,Побег из Шоушенка,1994,1\n2,Без категории,2001,\n",
	"genre_title.csv": "id,title_id,genre_id\n1,1,1\n",
	"review.csv": "id,title_id,text,author,score,pub_date\n" +
		"1,1,Ещё раз,100,10,2019-09-24T21:08:21.567Z\n",
	"comments.csv": "id,review_id,text,author,pub_date\n1,1,Согласен,101,2019-09-24T21:08:21.567Z\n",
}

func writeFixtures(t *testing.T, override map[string]string, skip ...string) string {
	t.Helper()
	dir := t.TempDir()

	for name, content := range fixtures {
		if c, ok := override[name]; ok {
			content = c
		}
		skipped := false
		for _, s := range skip {
			skipped = skipped || s == name
		}
		if skipped {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestRun_ImportsInDependencyOrder(t *testing.T) {
	dir := writeFixtures(t, nil)
	repo := new(MockImportRepo)
	ctx := context.Background()

	var order []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, name) }
	}

	repo.On("ImportCategories", ctx, mock.MatchedBy(func(rows []*entity.Category) bool {
		return len(rows) == 2 && rows[0].Slug == "movie" && rows[1].ID == 2
	})).Run(record("category")).Return(int64(2), nil)
	repo.On("ImportGenres", ctx, mock.Anything).Run(record("genre")).Return(int64(1), nil)
	repo.On("ImportUsers", ctx, mock.MatchedBy(func(rows []*entity.User) bool {
		return len(rows) == 2 && rows[0].Role == entity.RoleUser && rows[0].IsActive &&
			rows[1].Role == entity.RoleAdmin && rows[1].Bio == "Bio, with comma"
	})).Run(record("users")).Return(int64(2), nil)
	repo.On("ImportTitles", ctx, mock.MatchedBy(func(rows []*entity.Title) bool {
		return len(rows) == 2 && *rows[0].CategoryID == 1 && rows[1].CategoryID == nil && rows[0].Year == 1994
	})).Run(record("titles")).Return(int64(2), nil)
	repo.On("ImportGenreTitles", ctx, mock.Anything).Run(record("genre_title")).Return(int64(1), nil)
	repo.On("ImportReviews", ctx, mock.MatchedBy(func(rows []*entity.Review) bool {
		want := time.Date(2019, 9, 24, 21, 8, 21, 567_000_000, time.UTC)
		return len(rows) == 1 && rows[0].AuthorID == 100 && rows[0].Score == 10 && rows[0].PubDate.Equal(want)
	})).Run(record("review")).Return(int64(0), nil)
	repo.On("ImportComments", ctx, mock.Anything).Run(record("comments")).Return(int64(1), nil)

	summaries, err := New(repo, dir, zap.NewNop()).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"category", "genre", "users", "titles", "genre_title", "review", "comments"}, order)
	require.Len(t, summaries, 7)
	assert.Equal(t, Summary{File: "review.csv", Rows: 1, Inserted: 0}, summaries[5])
	repo.AssertExpectations(t)
}

func TestRun_MissingFileAbortsBeforeWriting(t *testing.T) {
	dir := writeFixtures(t, nil, "comments.csv")
	repo := new(MockImportRepo)

	_, err := New(repo, dir, zap.NewNop()).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "file "+filepath.Join(dir, "comments.csv")+" not found", err.Error())
	repo.AssertNotCalled(t, "ImportCategories", mock.Anything, mock.Anything)
}

func TestRun_InvalidRows(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"bad slug", "category.csv", "id,name,slug\n1,Film,not a slug\n", "slug"},
		{"reserved username", "users.csv", "id,username,email,role,bio,first_name,last_name\n5,me,me@yamdb.fake,user,,,\n", "username"},
		{"unknown role", "users.csv", "id,username,email,role,bio,first_name,last_name\n5,joe,joe@yamdb.fake,king,,,\n", "role"},
		{"future year", "titles.csv", "id,name,year,category\n1,Soon,3000,1\n", "year"},
		{"score out of range", "review.csv", "id,title_id,text,author,score,pub_date\n1,1,Meh,100,11,2019-09-24T21:08:21Z\n", "score"},
		{"bad date", "comments.csv", "id,review_id,text,author,pub_date\n1,1,Hi,101,yesterday\n", "pub_date"},
		{"non numeric id", "genre.csv", "id,name,slug\nx,Drama,drama\n", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFixtures(t, map[string]string{tt.file: tt.content})
			repo := new(MockImportRepo)
			repo.On("ImportCategories", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
			repo.On("ImportGenres", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
			repo.On("ImportUsers", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
			repo.On("ImportTitles", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
			repo.On("ImportGenreTitles", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
			repo.On("ImportReviews", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()

			_, err := New(repo, dir, zap.NewNop()).Run(context.Background())
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), tt.file+": line 2"), err.Error())
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParse_ShortRowsAndBOM(t *testing.T) {
	records, err := parse(strings.NewReader("\ufeffid,name,slug\n1,Drama\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].get("slug"))
	assert.Equal(t, "Drama", records[0].get("name"))
	assert.Equal(t, "1", records[0].get("id"))

	_, err = parse(strings.NewReader(""))
	assert.Error(t, err)
}
