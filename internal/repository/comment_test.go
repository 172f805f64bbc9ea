package repository

import (
	"context"
	"regexp"
	"testing"

	"otomo/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.Comment{
		Content: "これ気になってました!",
		UserID:  2,
		PostID:  1,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 AND "comments"."deleted_at" IS NULL ORDER BY created_at desc`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "user_id", "post_id"}).
			AddRow(2, "うちの定番です", 5, 1).
			AddRow(1, "最高でした", 4, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2) AND "users"."deleted_at" IS NULL`)).
		WithArgs(5, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name"}).
			AddRow(5, "おかず番長").
			AddRow(4, "白米一筋"))

	comments, err := repo.ListByPost(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "うちの定番です", comments[0].Content)
	assert.Equal(t, "おかず番長", comments[0].User.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	comment, err := repo.GetByID(context.Background(), 42)
	assert.Nil(t, comment)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
