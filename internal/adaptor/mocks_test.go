package adaptor

import (
	"context"

	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/utils"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.SignupResponse)
	return resp, args.Error(1)
}

func (m *MockAuthService) Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.TokenResponse)
	return resp, args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) GetAllUsers(ctx context.Context, req *request.SearchRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.UserResponse])
	return resp, args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.UserResponse)
	return resp, args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, username string) (*response.UserResponse, error) {
	args := m.Called(ctx, username)
	resp, _ := args.Get(0).(*response.UserResponse)
	return resp, args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, username string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	args := m.Called(ctx, username, req)
	resp, _ := args.Get(0).(*response.UserResponse)
	return resp, args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*response.UserResponse)
	return resp, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID int64, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*response.UserResponse)
	return resp, args.Error(1)
}

type MockTitleService struct{ mock.Mock }

func (m *MockTitleService) GetAllTitles(ctx context.Context, req *request.TitleListRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.TitleResponse])
	return resp, args.Error(1)
}

func (m *MockTitleService) GetTitle(ctx context.Context, id int64) (*response.TitleResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*response.TitleResponse)
	return resp, args.Error(1)
}

func (m *MockTitleService) CreateTitle(ctx context.Context, req *request.CreateTitleRequest) (*response.TitleResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.TitleResponse)
	return resp, args.Error(1)
}

func (m *MockTitleService) UpdateTitle(ctx context.Context, id int64, req *request.UpdateTitleRequest) (*response.TitleResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*response.TitleResponse)
	return resp, args.Error(1)
}

func (m *MockTitleService) DeleteTitle(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockReviewService struct{ mock.Mock }

func (m *MockReviewService) GetTitleReviews(ctx context.Context, titleID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	args := m.Called(ctx, titleID, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.ReviewResponse])
	return resp, args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*response.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	resp, _ := args.Get(0).(*response.ReviewResponse)
	return resp, args.Error(1)
}

func (m *MockReviewService) CreateReview(ctx context.Context, p utils.Principal, titleID int64, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	args := m.Called(ctx, p, titleID, req)
	resp, _ := args.Get(0).(*response.ReviewResponse)
	return resp, args.Error(1)
}

func (m *MockReviewService) UpdateReview(ctx context.Context, p utils.Principal, titleID, reviewID int64, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	args := m.Called(ctx, p, titleID, reviewID, req)
	resp, _ := args.Get(0).(*response.ReviewResponse)
	return resp, args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, p utils.Principal, titleID, reviewID int64) error {
	return m.Called(ctx, p, titleID, reviewID).Error(0)
}

func (m *MockReviewService) GetTitleReviewStats(ctx context.Context, titleID int64) (*response.TitleReviewStats, error) {
	args := m.Called(ctx, titleID)
	resp, _ := args.Get(0).(*response.TitleReviewStats)
	return resp, args.Error(1)
}
