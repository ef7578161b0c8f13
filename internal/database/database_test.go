package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"

	"github.com/bigredeye/temrin/internal/models"
)

func openTestDataBase(t *testing.T) *DataBase {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := OpenDataBase(zap.NewNop(), sqlite.Open(dsn))
	require.NoError(t, err)

	clock := time.UnixMilli(1700000000000)
	db.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func form(no, name string, scores ...int) models.StudentForm {
	f := models.StudentForm{StudentNo: no, FullName: name, Gender: models.GenderFemale}
	f.Scores = models.Scores{T1: scores[0], T2: scores[1], T3: scores[2], T4: scores[3], T5: scores[4]}
	return f
}

func TestCreateThenList(t *testing.T) {
	db := openTestDataBase(t)
	ctx := context.Background()

	first, err := db.AddStudent(ctx, form("1", "Ayşe Kaya", 80, 90, 70, 60, 50))
	require.NoError(t, err)
	second, err := db.AddStudent(ctx, form("2", "Mehmet Demir", 10, 20, 30, 40, 50))
	require.NoError(t, err)

	require.NotEmpty(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 70.0, first.Average)
	require.Less(t, first.CreatedAt, second.CreatedAt)

	students, err := db.ListStudents(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]models.Student{*second, *first}, students); diff != "" {
		t.Fatalf("unexpected students (-want +got):\n%s", diff)
	}
}

func TestAddClampsScores(t *testing.T) {
	db := openTestDataBase(t)

	student, err := db.AddStudent(context.Background(), form("7", "Ali Veli", -3, 250, 100, 0, 50))
	require.NoError(t, err)
	require.Equal(t, models.Scores{T1: 0, T2: 100, T3: 100, T4: 0, T5: 50}, student.Scores)
	require.Equal(t, 50.0, student.Average)
}

func TestUpdatePreservesIdentity(t *testing.T) {
	db := openTestDataBase(t)
	ctx := context.Background()

	created, err := db.AddStudent(ctx, form("1", "Ayşe Kaya", 80, 90, 70, 60, 50))
	require.NoError(t, err)

	updated, err := db.UpdateStudent(ctx, created.ID, form("1", "Ayşe Kaya Yıldız", 100, 100, 100, 100, 95))
	require.NoError(t, err)

	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.Equal(t, "Ayşe Kaya Yıldız", updated.FullName)
	require.Equal(t, 99.0, updated.Average)

	students, err := db.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, *updated, students[0])
}

func TestUpdateToZeroScores(t *testing.T) {
	db := openTestDataBase(t)
	ctx := context.Background()

	created, err := db.AddStudent(ctx, form("1", "Ayşe Kaya", 80, 90, 70, 60, 50))
	require.NoError(t, err)

	updated, err := db.UpdateStudent(ctx, created.ID, form("1", "Ayşe Kaya", 0, 0, 0, 0, 0))
	require.NoError(t, err)
	require.Equal(t, models.Scores{}, updated.Scores)
	require.Equal(t, 0.0, updated.Average)
}

func TestUpdateUnknown(t *testing.T) {
	db := openTestDataBase(t)

	_, err := db.UpdateStudent(context.Background(), "missing", form("1", "Nobody", 1, 2, 3, 4, 5))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := openTestDataBase(t)
	ctx := context.Background()

	created, err := db.AddStudent(ctx, form("1", "Ayşe Kaya", 80, 90, 70, 60, 50))
	require.NoError(t, err)

	require.NoError(t, db.DeleteStudent(ctx, created.ID))
	require.ErrorIs(t, db.DeleteStudent(ctx, created.ID), ErrNotFound)

	students, err := db.ListStudents(ctx)
	require.NoError(t, err)
	require.Empty(t, students)

	_, err = db.FindStudent(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateStudentNo(t *testing.T) {
	db := openTestDataBase(t)
	ctx := context.Background()

	_, err := db.AddStudent(ctx, form("42", "First", 1, 1, 1, 1, 1))
	require.NoError(t, err)
	_, err = db.AddStudent(ctx, form("42", "Second", 2, 2, 2, 2, 2))
	require.Error(t, err)
	require.True(t, IsDuplicateKey(err), "unexpected error %v", err)
}
