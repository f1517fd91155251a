package repository

import (
	"blogapi/internal/models"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postRowColumns = []string{
	"post_id", "title", "category", "description", "creator_id", "thumbnail", "created_at", "updated_at",
}

func setupPostRepo(t *testing.T) (*PostRepositoryImpl, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return NewPostRepository(sqlxDB), mock
}

func TestNewPostRepository(t *testing.T) {
	repo, _ := setupPostRepo(t)

	assert.NotNil(t, repo)
	assert.NotNil(t, repo.DB)
}

func TestPostRepositoryImpl_Create(t *testing.T) {
	newPost := func() *models.Post {
		return &models.Post{
			Title:       "T",
			Category:    models.CategoryEducation,
			Description: "12+ chars long",
			CreatorID:   "alice",
			Thumbnail:   "thumb1234.png",
		}
	}

	tests := []struct {
		name        string
		setupMock   func(mock sqlmock.Sqlmock)
		expectError bool
		errorMsg    string
	}{
		{
			name: "inserts post and increments counter",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO posts`)).
					WithArgs(sqlmock.AnyArg(), "T", "Education", "12+ chars long", "alice", "thumb1234.png", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET posts = GREATEST(posts + $1, 0) WHERE user_id = $2`)).
					WithArgs(1, "alice").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "insert failure rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO posts`)).
					WillReturnError(errors.New("check constraint violated"))
				mock.ExpectRollback()
			},
			expectError: true,
			errorMsg:    "error creating post",
		},
		{
			name: "missing creator rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO posts`)).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET posts`)).
					WithArgs(1, "alice").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			expectError: true,
			errorMsg:    ErrNotFound.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupPostRepo(t)
			tt.setupMock(mock)

			post := newPost()
			err := repo.Create(context.Background(), post)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, post.PostID)
				assert.Equal(t, post.CreatedAt, post.UpdatedAt)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepositoryImpl_GetByID(t *testing.T) {
	repo, mock := setupPostRepo(t)
	query := regexp.QuoteMeta(`SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(postRowColumns).
			AddRow("p1", "T", "Art", "description!", "alice", "t.png", time.Now(), time.Now())
		mock.ExpectQuery(query).WithArgs("p1").WillReturnRows(rows)

		post, err := repo.GetByID(context.Background(), "p1")

		require.NoError(t, err)
		assert.Equal(t, "alice", post.CreatorID)
		assert.Equal(t, "Art", post.Category)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("missing").WillReturnError(sql.ErrNoRows)

		post, err := repo.GetByID(context.Background(), "missing")

		assert.Nil(t, post)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostRepositoryImpl_Find(t *testing.T) {
	tests := []struct {
		name   string
		filter PostFilter
		sortBy PostSort
		query  string
		args   []driver.Value
	}{
		{
			name:   "all posts by update time",
			sortBy: SortByUpdated,
			query:  `SELECT ` + postColumns + ` FROM posts ORDER BY updated_at DESC`,
		},
		{
			name:   "by category",
			filter: PostFilter{Category: "Weather"},
			sortBy: SortByCreated,
			query:  `SELECT ` + postColumns + ` FROM posts WHERE category = $1 ORDER BY created_at DESC`,
			args:   []driver.Value{"Weather"},
		},
		{
			name:   "by creator",
			filter: PostFilter{CreatorID: "alice"},
			sortBy: SortByCreated,
			query:  `SELECT ` + postColumns + ` FROM posts WHERE creator_id = $1 ORDER BY created_at DESC`,
			args:   []driver.Value{"alice"},
		},
		{
			name:   "by category and creator",
			filter: PostFilter{Category: "Art", CreatorID: "alice"},
			sortBy: SortByCreated,
			query:  `SELECT ` + postColumns + ` FROM posts WHERE category = $1 AND creator_id = $2 ORDER BY created_at DESC`,
			args:   []driver.Value{"Art", "alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupPostRepo(t)

			rows := sqlmock.NewRows(postRowColumns).
				AddRow("p2", "Newer", "Art", "description!", "alice", "b.png", time.Now(), time.Now()).
				AddRow("p1", "Older", "Art", "description!", "alice", "a.png", time.Now().Add(-time.Hour), time.Now().Add(-time.Hour))

			expectation := mock.ExpectQuery("^" + regexp.QuoteMeta(tt.query) + "$")
			if len(tt.args) > 0 {
				expectation = expectation.WithArgs(tt.args...)
			}
			expectation.WillReturnRows(rows)

			posts, err := repo.Find(context.Background(), tt.filter, tt.sortBy)

			require.NoError(t, err)
			require.Len(t, posts, 2)
			assert.Equal(t, "p2", posts[0].PostID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepositoryImpl_Find_RejectsUnknownSort(t *testing.T) {
	repo, _ := setupPostRepo(t)

	_, err := repo.Find(context.Background(), PostFilter{}, PostSort("title; DROP TABLE posts"))

	assert.Error(t, err)
}

func TestPostRepositoryImpl_Update(t *testing.T) {
	repo, mock := setupPostRepo(t)
	query := regexp.QuoteMeta(`WHERE post_id = $6 AND creator_id = $7`)

	post := &models.Post{
		PostID:      "p1",
		Title:       "New title",
		Category:    "Business",
		Description: "a longer description",
		CreatorID:   "alice",
		Thumbnail:   "t.png",
	}

	t.Run("owner updates", func(t *testing.T) {
		rows := sqlmock.NewRows(postRowColumns).
			AddRow("p1", "New title", "Business", "a longer description", "alice", "t.png", time.Now(), time.Now())
		mock.ExpectQuery(query).
			WithArgs("New title", "Business", "a longer description", "t.png", sqlmock.AnyArg(), "p1", "alice").
			WillReturnRows(rows)

		updated, err := repo.Update(context.Background(), post)

		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)
	})

	t.Run("non owner matches nothing", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnError(sql.ErrNoRows)

		updated, err := repo.Update(context.Background(), post)

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepositoryImpl_Delete(t *testing.T) {
	deleteQuery := regexp.QuoteMeta(`DELETE FROM posts WHERE post_id = $1 AND creator_id = $2`)
	counterQuery := regexp.QuoteMeta(`UPDATE users SET posts = GREATEST(posts + $1, 0) WHERE user_id = $2`)

	t.Run("deletes and decrements", func(t *testing.T) {
		repo, mock := setupPostRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(deleteQuery).WithArgs("p1", "alice").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(counterQuery).WithArgs(-1, "alice").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), "p1", "alice")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing deleted", func(t *testing.T) {
		repo, mock := setupPostRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(deleteQuery).WithArgs("p1", "bob").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), "p1", "bob")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
