// Package service holds the application's business rules, between the
// HTTP handlers and the repositories.
package service

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"otomo/internal/models"
	"otomo/internal/repository"
)

const (
	maxPostTitleLen       = 100
	maxPostDescriptionLen = 200
	maxPostURLLen         = 500
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID      uint
	Title       string
	Description string
	Link        string
	ImageURL    string
}

type UpdatePostInput struct {
	UserID      uint
	PostID      uint
	Title       *string
	Description *string
	Link        *string
	ImageURL    *string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if title == "" {
		return nil, models.NewValidationError("タイトルを入力してください")
	}
	if utf8.RuneCountInString(title) > maxPostTitleLen {
		return nil, models.NewValidationError("タイトルは100文字以内で入力してください")
	}
	if description == "" {
		return nil, models.NewValidationError("説明を入力してください")
	}
	if utf8.RuneCountInString(description) > maxPostDescriptionLen {
		return nil, models.NewValidationError("説明は200文字以内で入力してください")
	}
	if err := validateOptionalHTTPURL("リンク", in.Link); err != nil {
		return nil, err
	}
	if err := validateOptionalHTTPURL("画像URL", in.ImageURL); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       title,
		Description: description,
		Link:        strings.TrimSpace(in.Link),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		ImageHash:   extractImageHash(in.ImageURL),
		UserID:      in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.ListByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("自分の投稿のみ編集できます")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("タイトルを入力してください")
		}
		if utf8.RuneCountInString(title) > maxPostTitleLen {
			return nil, models.NewValidationError("タイトルは100文字以内で入力してください")
		}
		post.Title = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, models.NewValidationError("説明を入力してください")
		}
		if utf8.RuneCountInString(description) > maxPostDescriptionLen {
			return nil, models.NewValidationError("説明は200文字以内で入力してください")
		}
		post.Description = description
	}
	if in.Link != nil {
		if err := validateOptionalHTTPURL("リンク", *in.Link); err != nil {
			return nil, err
		}
		post.Link = strings.TrimSpace(*in.Link)
	}
	if in.ImageURL != nil {
		if err := validateOptionalHTTPURL("画像URL", *in.ImageURL); err != nil {
			return nil, err
		}
		post.ImageURL = strings.TrimSpace(*in.ImageURL)
		post.ImageHash = extractImageHash(*in.ImageURL)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("自分の投稿のみ削除できます")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike likes the post if the user has not liked it yet and unlikes
// it otherwise, returning the post with refreshed counts.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if isLiked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// validateOptionalHTTPURL accepts blank values; a present value must be an
// http(s) URL no longer than 500 characters.
func validateOptionalHTTPURL(field, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if utf8.RuneCountInString(trimmed) > maxPostURLLen {
		return models.NewValidationError(field + "は500文字以内で入力してください")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return models.NewValidationError(field + "はhttpまたはhttpsのURLを入力してください")
	}
	return nil
}

// extractImageHash pulls the content hash out of an uploaded-image URL
// like /api/images/<sha256>/medium so posts can reference stored files.
func extractImageHash(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}

	path := trimmed
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Path != "" {
		path = parsed.Path
	}
	if strings.HasPrefix(path, "/api/images/") {
		parts := strings.Split(strings.TrimPrefix(path, "/api/images/"), "/")
		if len(parts) > 0 && isLikelySHA256(parts[0]) {
			return parts[0]
		}
	}
	return ""
}

func isLikelySHA256(v string) bool {
	if len(v) != 64 {
		return false
	}
	for _, r := range v {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
