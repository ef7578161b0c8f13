package database

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"moul.io/zapgorm2"

	"github.com/bigredeye/temrin/internal/config"
	"github.com/bigredeye/temrin/internal/models"
)

var ErrNotFound = errors.New("student not found")

type DataBase struct {
	*gorm.DB

	now func() time.Time
}

type DuplicateKey struct {
	nested error
}

func (e *DuplicateKey) Error() string {
	return e.nested.Error()
}

func (e *DuplicateKey) Unwrap() error {
	return e.nested
}

func IsDuplicateKey(err error) bool {
	duplicateKey := &DuplicateKey{}
	return errors.As(err, &duplicateKey)
}

func wrapError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateKey{err}
	}
	return err
}

func Dialector(conf *config.Config) gorm.Dialector {
	if conf.DataBase.Driver == config.DriverSQLite {
		return sqlite.Open(conf.DataBase.Path)
	}
	return postgres.Open(conf.PostgresDSN())
}

// Connect opens the database, retrying with exponential backoff until timeout elapses.
func Connect(ctx context.Context, logger *zap.Logger, dialector gorm.Dialector, timeout time.Duration) (*DataBase, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = timeout

	var db *DataBase
	err := backoff.RetryNotify(func() (err error) {
		db, err = OpenDataBase(logger, dialector)
		return err
	}, backoff.WithContext(policy, ctx), func(err error, next time.Duration) {
		logger.Warn("Failed to open database, retrying", zap.Error(err), zap.Duration("next", next))
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func OpenDataBase(logger *zap.Logger, dialector gorm.Dialector) (*DataBase, error) {
	zapLogger := zapgorm2.New(logger.Named("gorm"))
	zapLogger.SetAsDefault()
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         zapLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.Student{})
	if err != nil {
		return nil, err
	}

	return &DataBase{DB: db, now: time.Now}, nil
}

func (db *DataBase) ListStudents(ctx context.Context) ([]models.Student, error) {
	students := make([]models.Student, 0)
	err := db.WithContext(ctx).Order("created_at DESC").Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (db *DataBase) FindStudent(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	err := db.WithContext(ctx).Take(&student, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (db *DataBase) AddStudent(ctx context.Context, form models.StudentForm) (*models.Student, error) {
	form = form.Normalize()
	student := &models.Student{
		ID:        uuid.New().String(),
		StudentNo: form.StudentNo,
		FullName:  form.FullName,
		Gender:    form.Gender,
		Scores:    form.Scores,
		Average:   form.Scores.Average(),
		CreatedAt: db.now().UnixMilli(),
	}
	if err := db.WithContext(ctx).Create(student).Error; err != nil {
		return nil, wrapError(err)
	}
	return student, nil
}

var updatableColumns = []string{
	"student_no", "full_name", "gender",
	"score_t1", "score_t2", "score_t3", "score_t4", "score_t5",
	"average",
}

func (db *DataBase) UpdateStudent(ctx context.Context, id string, form models.StudentForm) (*models.Student, error) {
	form = form.Normalize()
	res := db.WithContext(ctx).
		Model(&models.Student{ID: id}).
		Select(updatableColumns).
		Updates(&models.Student{
			StudentNo: form.StudentNo,
			FullName:  form.FullName,
			Gender:    form.Gender,
			Scores:    form.Scores,
			Average:   form.Scores.Average(),
		})
	if res.Error != nil {
		return nil, wrapError(res.Error)
	}
	if res.RowsAffected < 1 {
		return nil, ErrNotFound
	}
	return db.FindStudent(ctx, id)
}

func (db *DataBase) DeleteStudent(ctx context.Context, id string) error {
	res := db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected < 1 {
		return ErrNotFound
	}
	return nil
}
