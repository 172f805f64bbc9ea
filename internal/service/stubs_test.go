package service

import (
	"context"

	"otomo/internal/models"
)

// fn-field stubs let each test override only the calls it cares about.

type stubPostRepo struct {
	createFn       func(ctx context.Context, post *models.Post) error
	getByIDFn      func(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	listFn         func(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	listByUserIDFn func(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	updateFn       func(ctx context.Context, post *models.Post) error
	deleteFn       func(ctx context.Context, id uint) error
	isLikedFn      func(ctx context.Context, userID, postID uint) (bool, error)
	likeFn         func(ctx context.Context, userID, postID uint) error
	unlikeFn       func(ctx context.Context, userID, postID uint) error
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.Post) error {
	if s.createFn != nil {
		return s.createFn(ctx, post)
	}
	post.ID = 1
	return nil
}

func (s *stubPostRepo) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id, currentUserID)
	}
	return &models.Post{ID: id, Title: "post", Description: "desc", UserID: 1}, nil
}

func (s *stubPostRepo) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset, currentUserID)
	}
	return nil, nil
}

func (s *stubPostRepo) ListByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if s.listByUserIDFn != nil {
		return s.listByUserIDFn(ctx, userID, limit, offset, currentUserID)
	}
	return nil, nil
}

func (s *stubPostRepo) Update(ctx context.Context, post *models.Post) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, post)
	}
	return nil
}

func (s *stubPostRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubPostRepo) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	if s.isLikedFn != nil {
		return s.isLikedFn(ctx, userID, postID)
	}
	return false, nil
}

func (s *stubPostRepo) Like(ctx context.Context, userID, postID uint) error {
	if s.likeFn != nil {
		return s.likeFn(ctx, userID, postID)
	}
	return nil
}

func (s *stubPostRepo) Unlike(ctx context.Context, userID, postID uint) error {
	if s.unlikeFn != nil {
		return s.unlikeFn(ctx, userID, postID)
	}
	return nil
}

type stubCommentRepo struct {
	createFn     func(ctx context.Context, comment *models.Comment) error
	getByIDFn    func(ctx context.Context, id uint) (*models.Comment, error)
	listByPostFn func(ctx context.Context, postID uint) ([]*models.Comment, error)
	deleteFn     func(ctx context.Context, id uint) error
}

func (s *stubCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if s.createFn != nil {
		return s.createFn(ctx, comment)
	}
	comment.ID = 1
	return nil
}

func (s *stubCommentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.Comment{ID: id, Content: "comment", UserID: 1, PostID: 1}, nil
}

func (s *stubCommentRepo) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if s.listByPostFn != nil {
		return s.listByPostFn(ctx, postID)
	}
	return nil, nil
}

func (s *stubCommentRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type stubUserRepo struct {
	getByIDFn          func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn       func(ctx context.Context, email string) (*models.User, error)
	getByDisplayNameFn func(ctx context.Context, displayName string) (*models.User, error)
	createFn           func(ctx context.Context, user *models.User) error
	updateFn           func(ctx context.Context, user *models.User) error
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.User{ID: id, Email: "user@example.com", DisplayName: "user"}, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (s *stubUserRepo) GetByDisplayName(ctx context.Context, displayName string) (*models.User, error) {
	if s.getByDisplayNameFn != nil {
		return s.getByDisplayNameFn(ctx, displayName)
	}
	return nil, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return nil
}
