package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otomo/internal/models"
)

func TestUpdateProfile(t *testing.T) {
	t.Run("updates display name and foods", func(t *testing.T) {
		var saved *models.User
		userRepo := &stubUserRepo{
			getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id, DisplayName: "old", Bio: "keep"}, nil
			},
			updateFn: func(ctx context.Context, user *models.User) error {
				saved = user
				return nil
			},
		}
		svc := NewUserService(userRepo, &stubPostRepo{})

		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:        1,
			DisplayName:   strPtr(" ごはん大好き "),
			FavoriteFoods: strPtr("明太子、海苔の佃煮"),
		})
		require.NoError(t, err)
		assert.Equal(t, "ごはん大好き", user.DisplayName)
		assert.Equal(t, "明太子、海苔の佃煮", user.FavoriteFoods)
		assert.Equal(t, "keep", saved.Bio)
	})

	t.Run("display name too long", func(t *testing.T) {
		svc := NewUserService(&stubUserRepo{}, &stubPostRepo{})
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:      1,
			DisplayName: strPtr(strings.Repeat("あ", 21)),
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "表示名は20文字以内で入力してください", appErr.Message)
	})

	t.Run("display name taken", func(t *testing.T) {
		userRepo := &stubUserRepo{
			getByDisplayNameFn: func(ctx context.Context, displayName string) (*models.User, error) {
				return &models.User{ID: 99, DisplayName: displayName}, nil
			},
		}
		svc := NewUserService(userRepo, &stubPostRepo{})

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:      1,
			DisplayName: strPtr("taken"),
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "この表示名は既に使用されています", appErr.Message)
	})

	t.Run("keeping own display name is not a conflict", func(t *testing.T) {
		userRepo := &stubUserRepo{
			getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id, DisplayName: "same"}, nil
			},
			getByDisplayNameFn: func(ctx context.Context, displayName string) (*models.User, error) {
				t.Fatal("uniqueness check should be skipped for unchanged name")
				return nil, nil
			},
		}
		svc := NewUserService(userRepo, &stubPostRepo{})

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:      1,
			DisplayName: strPtr("same"),
		})
		require.NoError(t, err)
	})

	t.Run("favorite foods too long", func(t *testing.T) {
		svc := NewUserService(&stubUserRepo{}, &stubPostRepo{})
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:        1,
			FavoriteFoods: strPtr(strings.Repeat("あ", 201)),
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "好きな食べ物は200文字以内で入力してください", appErr.Message)
	})
}

func TestGetProfile(t *testing.T) {
	userRepo := &stubUserRepo{
		getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, DisplayName: "farmer"}, nil
		},
	}
	postRepo := &stubPostRepo{
		listByUserIDFn: func(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
			return []*models.Post{{ID: 1, UserID: userID}}, nil
		},
	}
	svc := NewUserService(userRepo, postRepo)

	profile, err := svc.GetProfile(context.Background(), 3, 20, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "farmer", profile.User.DisplayName)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, uint(3), profile.Posts[0].UserID)
}
