package usecase

import (
	"time"

	"yamdb/internal/data/repository"
	"yamdb/pkg/mailer"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID int64, username, role string) (string, time.Time, error)
}

type Service struct {
	Auth     AuthService
	User     UserService
	Category CategoryService
	Genre    GenreService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
}

func NewService(
	repo *repository.Repository,
	tokens TokenIssuer,
	mail mailer.Mailer,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, tokens, mail, config.Confirmation, log),
		User:     NewUserService(repo.User, log),
		Category: NewCategoryService(repo.Category, log),
		Genre:    NewGenreService(repo.Genre, log),
		Title:    NewTitleService(repo, log),
		Review:   NewReviewService(repo, log),
		Comment:  NewCommentService(repo, log),
	}
}

func now() time.Time {
	return time.Now().UTC()
}
