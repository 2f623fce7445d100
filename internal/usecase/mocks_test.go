package usecase

import (
	"context"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// ==================== REPOSITORY MOCKS ====================

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, search, limit, offset)
	users, _ := args.Get(0).([]*entity.User)
	return users, args.Error(1)
}

func (m *MockUserRepo) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCodeRepo struct{ mock.Mock }

func (m *MockCodeRepo) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCodeRepo) FindActiveByUser(ctx context.Context, userID int64, limit int) ([]*entity.ConfirmationCode, error) {
	args := m.Called(ctx, userID, limit)
	codes, _ := args.Get(0).([]*entity.ConfirmationCode)
	return codes, args.Error(1)
}

func (m *MockCodeRepo) MarkUsed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCodeRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockCategoryRepo struct{ mock.Mock }

func (m *MockCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	args := m.Called(ctx, slug)
	category, _ := args.Get(0).(*entity.Category)
	return category, args.Error(1)
}

func (m *MockCategoryRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	args := m.Called(ctx, search, limit, offset)
	categories, _ := args.Get(0).([]*entity.Category)
	return categories, args.Error(1)
}

func (m *MockCategoryRepo) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

type MockGenreRepo struct{ mock.Mock }

func (m *MockGenreRepo) Create(ctx context.Context, genre *entity.Genre) error {
	args := m.Called(ctx, genre)
	return args.Error(0)
}

func (m *MockGenreRepo) FindBySlug(ctx context.Context, slug string) (*entity.Genre, error) {
	args := m.Called(ctx, slug)
	genre, _ := args.Get(0).(*entity.Genre)
	return genre, args.Error(1)
}

func (m *MockGenreRepo) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	args := m.Called(ctx, slugs)
	genres, _ := args.Get(0).([]*entity.Genre)
	return genres, args.Error(1)
}

func (m *MockGenreRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	args := m.Called(ctx, search, limit, offset)
	genres, _ := args.Get(0).([]*entity.Genre)
	return genres, args.Error(1)
}

func (m *MockGenreRepo) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockGenreRepo) FindByTitleIDs(ctx context.Context, titleIDs []int64) (map[int64][]*entity.Genre, error) {
	args := m.Called(ctx, titleIDs)
	genres, _ := args.Get(0).(map[int64][]*entity.Genre)
	return genres, args.Error(1)
}

type MockTitleRepo struct{ mock.Mock }

func (m *MockTitleRepo) CreateWithGenres(ctx context.Context, title *entity.Title, genreIDs []int64) error {
	args := m.Called(ctx, title, genreIDs)
	return args.Error(0)
}

func (m *MockTitleRepo) FindByID(ctx context.Context, id int64) (*entity.Title, error) {
	args := m.Called(ctx, id)
	title, _ := args.Get(0).(*entity.Title)
	return title, args.Error(1)
}

func (m *MockTitleRepo) FindAll(ctx context.Context, filter entity.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	args := m.Called(ctx, filter, limit, offset)
	titles, _ := args.Get(0).([]*entity.Title)
	return titles, args.Error(1)
}

func (m *MockTitleRepo) CountAll(ctx context.Context, filter entity.TitleFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTitleRepo) UpdateWithGenres(ctx context.Context, title *entity.Title, genreIDs []int64) error {
	args := m.Called(ctx, title, genreIDs)
	return args.Error(0)
}

func (m *MockTitleRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTitleRepo) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockReviewRepo struct{ mock.Mock }

func (m *MockReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepo) FindByID(ctx context.Context, titleID, reviewID int64) (*entity.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	review, _ := args.Get(0).(*entity.Review)
	return review, args.Error(1)
}

func (m *MockReviewRepo) FindByTitleID(ctx context.Context, titleID int64, limit, offset int) ([]*entity.Review, error) {
	args := m.Called(ctx, titleID, limit, offset)
	reviews, _ := args.Get(0).([]*entity.Review)
	return reviews, args.Error(1)
}

func (m *MockReviewRepo) CountByTitleID(ctx context.Context, titleID int64) (int64, error) {
	args := m.Called(ctx, titleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepo) ExistsByAuthorAndTitle(ctx context.Context, authorID, titleID int64) (bool, error) {
	args := m.Called(ctx, authorID, titleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepo) GetTitleReviewStats(ctx context.Context, titleID int64) (float64, int64, error) {
	args := m.Called(ctx, titleID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

type MockCommentRepo struct{ mock.Mock }

func (m *MockCommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepo) FindByID(ctx context.Context, reviewID, commentID int64) (*entity.Comment, error) {
	args := m.Called(ctx, reviewID, commentID)
	comment, _ := args.Get(0).(*entity.Comment)
	return comment, args.Error(1)
}

func (m *MockCommentRepo) FindByReviewID(ctx context.Context, reviewID int64, limit, offset int) ([]*entity.Comment, error) {
	args := m.Called(ctx, reviewID, limit, offset)
	comments, _ := args.Get(0).([]*entity.Comment)
	return comments, args.Error(1)
}

func (m *MockCommentRepo) CountByReviewID(ctx context.Context, reviewID int64) (int64, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepo) Update(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ==================== COLLABORATOR MOCKS ====================

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) Generate(userID int64, username, role string) (string, time.Time, error) {
	args := m.Called(userID, username, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// testRepo bundles fresh mocks behind a Repository aggregate.
type testRepo struct {
	*repository.Repository
	users      *MockUserRepo
	codes      *MockCodeRepo
	categories *MockCategoryRepo
	genres     *MockGenreRepo
	titles     *MockTitleRepo
	reviews    *MockReviewRepo
	comments   *MockCommentRepo
}

func newTestRepo() *testRepo {
	tr := &testRepo{
		users:      new(MockUserRepo),
		codes:      new(MockCodeRepo),
		categories: new(MockCategoryRepo),
		genres:     new(MockGenreRepo),
		titles:     new(MockTitleRepo),
		reviews:    new(MockReviewRepo),
		comments:   new(MockCommentRepo),
	}
	tr.Repository = &repository.Repository{
		User:             tr.users,
		ConfirmationCode: tr.codes,
		Category:         tr.categories,
		Genre:            tr.genres,
		Title:            tr.titles,
		Review:           tr.reviews,
		Comment:          tr.comments,
	}
	return tr
}

func (tr *testRepo) assertExpectations(t mock.TestingT) {
	tr.users.AssertExpectations(t)
	tr.codes.AssertExpectations(t)
	tr.categories.AssertExpectations(t)
	tr.genres.AssertExpectations(t)
	tr.titles.AssertExpectations(t)
	tr.reviews.AssertExpectations(t)
	tr.comments.AssertExpectations(t)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
