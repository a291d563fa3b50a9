package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key"})

	err := repo.CreateUser(context.Background(), &model.User{ID: "u-1", Email: "a@b.c", Role: model.RoleUser, Status: model.UserActive})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetUserByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	ts := time.Now().UTC()
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "avatar_url", "role", "status", "created_at", "updated_at"}).
			AddRow("u-1", "ana@example.com", "Ana", "hash", nil, "ADMIN", "ACTIVE", ts, ts))

	u, err := repo.GetUserByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestListUsers_Query(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE \(name ILIKE \$1 OR email ILIKE \$1\)`).
		WithArgs("%ana%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
		WithArgs("%ana%", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	users, total, err := repo.ListUsers(context.Background(), "ana", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogFeedback_UnknownSearch(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`UPDATE search_logs`).
		WithArgs("s-1", "l-1", "click").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.LogFeedback(context.Background(), "s-1", "l-1", "click")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogSearch(t *testing.T) {
	repo, mock := newMockRepo(t)
	ts := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO search_logs`).
		WithArgs("s-1", "drill", nil, `{"drill"}`, 2, `{"l-1","l-2"}`, int64(12), ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.LogSearch(context.Background(), &model.SearchLog{
		ID: "s-1", Query: "drill", Keywords: pq.StringArray{"drill"}, ResultCount: 2,
		ReturnedListingIDs: pq.StringArray{"l-1", "l-2"}, ResponseTimeMs: 12, CreatedAt: ts,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMessage(t *testing.T) {
	msg := &model.Message{ID: "m-1", SenderID: "u-1", ReceiverID: "u-2", Content: "Is it free Friday?", CreatedAt: time.Now().UTC()}
	n := &model.Notification{ID: "n-1", UserID: "u-2", Type: model.NotificationMessage, Title: "New message", Body: msg.Content}

	t.Run("unknown receiver", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs("u-2").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.CreateMessage(context.Background(), msg, n), ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("message and notification commit together", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs("u-2").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`INSERT INTO messages`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateMessage(context.Background(), msg, n))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestThread_MarksIncomingRead(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`UPDATE messages SET read = TRUE WHERE receiver_id = \$1 AND sender_id = \$2`).
		WithArgs("me", "them").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`FROM messages`).
		WithArgs("me", "them").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "listing_id", "content", "read", "created_at"}).
			AddRow("m-1", "them", "me", nil, "hi", true, time.Now()))

	messages, err := repo.Thread(context.Background(), "me", "them")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Read)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var moderationRowColumns = []string{"id", "target_type", "target_id", "reason", "reporter_id", "status", "resolver_id", "resolution_note", "created_at", "resolved_at"}

func TestResolveModeration(t *testing.T) {
	notify := func(item *model.ModerationItem) *model.Notification {
		return &model.Notification{ID: "n-1", UserID: item.ReporterID, Type: model.NotificationModeration}
	}
	pendingRow := func(target string) *sqlmock.Rows {
		return sqlmock.NewRows(moderationRowColumns).
			AddRow("r-1", target, "t-1", "spam", "reporter", "PENDING", nil, nil, time.Now(), nil)
	}

	t.Run("block listing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM moderation_items WHERE id = \$1 FOR UPDATE`).WithArgs("r-1").WillReturnRows(pendingRow("LISTING"))
		mock.ExpectExec(`UPDATE listings SET status = \$2`).WithArgs("t-1", "BLOCKED", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE moderation_items`).WithArgs("r-1", "RESOLVED", "mod", "nope", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		item, n, err := repo.ResolveModeration(context.Background(), "r-1", Resolution{ResolverID: "mod", Block: true, Note: "nope"}, notify)
		require.NoError(t, err)
		assert.Equal(t, model.ModerationResolved, item.Status)
		assert.Equal(t, "reporter", n.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("block user suspends", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WithArgs("r-1").WillReturnRows(pendingRow("USER"))
		mock.ExpectExec(`UPDATE users SET status = \$2`).WithArgs("t-1", "SUSPENDED", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE moderation_items`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		_, _, err := repo.ResolveModeration(context.Background(), "r-1", Resolution{ResolverID: "mod", Block: true}, notify)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejected block rolls back", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WithArgs("r-1").WillReturnRows(pendingRow("USER"))
		mock.ExpectRollback()

		denied := errors.New("denied")
		var seen string
		res := Resolution{ResolverID: "mod", Block: true, Authorize: func(item *model.ModerationItem) error {
			seen = item.TargetID
			return denied
		}}
		_, _, err := repo.ResolveModeration(context.Background(), "r-1", res, notify)
		assert.ErrorIs(t, err, denied)
		assert.Equal(t, "t-1", seen)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("dismiss touches no target", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WithArgs("r-1").WillReturnRows(pendingRow("LISTING"))
		mock.ExpectExec(`UPDATE moderation_items`).WithArgs("r-1", "DISMISSED", "mod", "", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		item, _, err := repo.ResolveModeration(context.Background(), "r-1", Resolution{ResolverID: "mod"}, notify)
		require.NoError(t, err)
		assert.Equal(t, model.ModerationDismissed, item.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already resolved", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WithArgs("r-1").WillReturnRows(
			sqlmock.NewRows(moderationRowColumns).AddRow("r-1", "LISTING", "t-1", "spam", "reporter", "DISMISSED", "mod", "", time.Now(), time.Now()))
		mock.ExpectRollback()

		_, _, err := repo.ResolveModeration(context.Background(), "r-1", Resolution{ResolverID: "mod"}, notify)
		assert.ErrorIs(t, err, ErrAlreadyResolved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpsertSetting(t *testing.T) {
	repo, mock := newMockRepo(t)
	ts := time.Now().UTC()
	mock.ExpectExec(`ON CONFLICT \(key\) DO UPDATE`).
		WithArgs("maintenance_mode", "true", ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpsertSetting(context.Background(), &model.Setting{Key: "maintenance_mode", Value: model.JSONValue("true"), UpdatedAt: ts})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountListingsByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM listings GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("ACTIVE", 4).AddRow("BLOCKED", 1))

	counts, err := repo.CountListingsByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ACTIVE": 4, "BLOCKED": 1}, counts)
}

func TestMigrate(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`CREATE EXTENSION IF NOT EXISTS vector`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMalformedIDIsNotFound(t *testing.T) {
	badUUID := &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	ctx := context.Background()

	t.Run("get listing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`WHERE l.id = \$1`).WithArgs("abc").WillReturnError(badUUID)

		_, err := repo.GetListing(ctx, "abc")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get user", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("abc").WillReturnError(badUUID)

		_, err := repo.GetUserByID(ctx, "abc")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("booking on listing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM listings WHERE id = \$1 FOR UPDATE`).WillReturnError(badUUID)
		mock.ExpectRollback()

		_, _, err := repo.CreateBooking(ctx, model.NewBooking{ListingID: "abc", RenterID: "renter"},
			func(*model.Listing, *model.Booking) *model.Notification { return nil })
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking status", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF b`).WithArgs("abc").WillReturnError(badUUID)
		mock.ExpectRollback()

		_, _, err := repo.UpdateBookingStatus(ctx, "abc", func(*model.Booking) (*model.Notification, error) { return nil, nil })
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("message receiver", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs("abc").WillReturnError(badUUID)
		mock.ExpectRollback()

		err := repo.CreateMessage(ctx, &model.Message{ID: "m-1", SenderID: "u-1", ReceiverID: "abc", Content: "hi"}, &model.Notification{})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("feedback", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`UPDATE search_logs`).WillReturnError(badUUID)

		err := repo.LogFeedback(ctx, "abc", "l-1", "click")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("notification read", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE id = \$1`).WillReturnError(badUUID)

		err := repo.MarkNotificationRead(ctx, "abc", "u-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("moderation item", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM moderation_items WHERE id = \$1 FOR UPDATE`).WillReturnError(badUUID)
		mock.ExpectRollback()

		_, _, err := repo.ResolveModeration(ctx, "abc", Resolution{ResolverID: "mod"}, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other errors are not hidden", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`WHERE l.id = \$1`).WillReturnError(&pq.Error{Code: "57014", Message: "canceling statement"})

		_, err := repo.GetListing(ctx, "abc")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
