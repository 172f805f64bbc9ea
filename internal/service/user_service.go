package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"otomo/internal/models"
	"otomo/internal/repository"
)

const (
	maxDisplayNameLen = 20
	maxFoodsLen       = 200
)

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type UpdateProfileInput struct {
	UserID        uint
	DisplayName   *string
	Bio           *string
	AvatarURL     *string
	FavoriteFoods *string
	DislikedFoods *string
}

// Profile is a user's public page: the user plus their recent posts.
type Profile struct {
	User  *models.User   `json:"user"`
	Posts []*models.Post `json:"posts"`
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, userID uint, limit, offset int, currentUserID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByUserID(ctx, userID, limit, offset, currentUserID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Posts: posts}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		displayName := strings.TrimSpace(*in.DisplayName)
		if displayName == "" {
			return nil, models.NewValidationError("表示名を入力してください")
		}
		if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("表示名は20文字以内で入力してください")
		}
		if displayName != user.DisplayName {
			existing, err := s.userRepo.GetByDisplayName(ctx, displayName)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewValidationError("この表示名は既に使用されています")
			}
		}
		user.DisplayName = displayName
	}
	if in.Bio != nil {
		user.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.AvatarURL != nil {
		if err := validateOptionalHTTPURL("アバターURL", *in.AvatarURL); err != nil {
			return nil, err
		}
		user.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}
	if in.FavoriteFoods != nil {
		foods := strings.TrimSpace(*in.FavoriteFoods)
		if utf8.RuneCountInString(foods) > maxFoodsLen {
			return nil, models.NewValidationError("好きな食べ物は200文字以内で入力してください")
		}
		user.FavoriteFoods = foods
	}
	if in.DislikedFoods != nil {
		foods := strings.TrimSpace(*in.DislikedFoods)
		if utf8.RuneCountInString(foods) > maxFoodsLen {
			return nil, models.NewValidationError("苦手な食べ物は200文字以内で入力してください")
		}
		user.DislikedFoods = foods
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
