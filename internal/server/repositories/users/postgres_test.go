package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceID = "11111111-1111-1111-1111-111111111111"
	bobID   = "22222222-2222-2222-2222-222222222222"
)

var ts = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock, db
}

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "gender",
		"about", "skills", "profile_pic", "photo_key", "created_at", "updated_at"}).
		AddRow(aliceID, "Alice", "Smith", "alice@example.com", []byte("hash"), "female",
			"I am a developer", []byte(`["go","sql"]`), "http://pic", "", ts, ts)
}

func miniRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "first_name", "last_name", "gender", "about", "skills",
		"profile_pic", "photo_key", "created_at"})
}

func TestCreate_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*first_name,.*profile_pic\)\s*VALUES\s*\(\$1,.*\$8::jsonb,\s*\$9\)\s*RETURNING\s+created_at,\s*updated_at$`
	mock.ExpectQuery(q).
		WithArgs(aliceID, "Alice", "Smith", "alice@example.com", []byte("hash"), "female", "about", `["go"]`, "pic").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	u := &models.User{ID: aliceID, FirstName: "Alice", LastName: "Smith", Email: "alice@example.com",
		PasswordHash: []byte("hash"), Gender: "female", About: "about", Skills: []string{"go"}, ProfilePic: "pic"}
	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, ts, got.CreatedAt)
	assert.Equal(t, ts, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_GeneratesID(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs(sqlmock.AnyArg(), "Bob", "Jones", "bob@example.com", []byte("h"), "male", "", `[]`, "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	got, err := repo.Create(context.Background(), &models.User{FirstName: "Bob", LastName: "Jones",
		Email: "bob@example.com", PasswordHash: []byte("h"), Gender: "male"})
	require.NoError(t, err)
	assert.True(t, validID(got.ID))
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_uniq"})

	_, err := repo.Create(context.Background(), &models.User{ID: aliceID, Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: aliceID})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnavailable)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetByID(t *testing.T) {
	q := `(?s)^SELECT\s+id,.*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`

	t.Run("found", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(aliceID).WillReturnRows(userRow())

		u, err := repo.GetByID(context.Background(), aliceID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", u.FirstName)
		assert.Equal(t, []string{"go", "sql"}, u.Skills)
		assert.Equal(t, []byte("hash"), u.PasswordHash)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(aliceID).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), aliceID)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("malformed id never hits the database", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)

		_, err := repo.GetByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, common.ErrorNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByEmail(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)`).
		WithArgs("ALICE@example.com").
		WillReturnRows(userRow())

	u, err := repo.GetByEmail(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, aliceID, u.ID)
}

func TestExists(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE id = \$1\)`).
		WithArgs(aliceID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), aliceID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindMany_FilterAndOrder(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	q := regexp.QuoteMeta(`FROM users WHERE NOT (id = ANY($1::uuid[])) AND gender = $2 AND skills @> jsonb_build_array($3::text) ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5`)
	mock.ExpectQuery(q).
		WithArgs("{"+aliceID+","+bobID+"}", "female", "go", int64(10), int64(20)).
		WillReturnRows(miniRows().AddRow(bobID, "Bob", "Jones", "female", "", []byte(`["go"]`), "pic", "key", ts))

	items, err := repo.FindMany(context.Background(), models.UserFilter{
		ExcludeIDs: []string{aliceID, "garbage", bobID},
		Gender:     "female",
		Skill:      "go",
	}, 20, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, bobID, items[0].ID)
	assert.Equal(t, "key", items[0].PhotoKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	q := regexp.QuoteMeta(`SELECT count(*) FROM users WHERE NOT (id = ANY($1::uuid[]))`) + `$`
	mock.ExpectQuery(q).
		WithArgs("{" + aliceID + "}").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	n, err := repo.Count(context.Background(), models.UserFilter{ExcludeIDs: []string{aliceID}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestFindMiniByIDs(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	empty, err := repo.FindMiniByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = ANY($1::uuid[])`)).
		WithArgs("{" + aliceID + "," + bobID + "}").
		WillReturnRows(miniRows().
			AddRow(aliceID, "Alice", "Smith", "female", "", []byte(`[]`), "", "", ts).
			AddRow(bobID, "Bob", "Jones", "male", "", nil, "", "", ts))

	got, err := repo.FindMiniByIDs(context.Background(), []string{aliceID, bobID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bob", got[bobID].FirstName)
	assert.Equal(t, []string{}, got[bobID].Skills)
}

func TestUpdateProfile(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	name := "Alicia"
	skills := []string{"go"}
	q := regexp.QuoteMeta(`UPDATE users SET first_name = $2, skills = $3::jsonb, updated_at = now() WHERE id = $1 RETURNING id,`)
	mock.ExpectQuery(q).
		WithArgs(aliceID, "Alicia", `["go"]`).
		WillReturnRows(userRow())

	_, err := repo.UpdateProfile(context.Background(), aliceID, models.ProfileUpdate{FirstName: &name, Skills: &skills})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	about := "x"
	mock.ExpectQuery(`UPDATE users SET about`).WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateProfile(context.Background(), aliceID, models.ProfileUpdate{About: &about})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSetPhotoKey(t *testing.T) {
	q := regexp.QuoteMeta(`UPDATE users SET photo_key = $2, updated_at = now() WHERE id = $1`)

	t.Run("updated", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs(aliceID, "avatars/a").WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.SetPhotoKey(context.Background(), aliceID, "avatars/a"))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs(aliceID, "k").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.SetPhotoKey(context.Background(), aliceID, "k"), common.ErrorNotFound)
	})
}

func TestDelete(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	q := regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)

	mock.ExpectExec(q).WithArgs(aliceID).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), aliceID))

	mock.ExpectExec(q).WithArgs(bobID).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), bobID), common.ErrorNotFound)

	mock.ExpectExec(q).WithArgs(aliceID).WillReturnError(errors.New("conn reset"))
	assert.ErrorIs(t, repo.Delete(context.Background(), aliceID), common.ErrUnavailable)

	assert.ErrorIs(t, repo.Delete(context.Background(), "garbage"), common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
