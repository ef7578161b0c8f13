package students

import (
	"context"
	"strings"

	"github.com/alexsergivan/transliterator"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	lf "github.com/bigredeye/temrin/internal/logfield"
	"github.com/bigredeye/temrin/internal/models"
)

type Store interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	FindStudent(ctx context.Context, id string) (*models.Student, error)
	AddStudent(ctx context.Context, form models.StudentForm) (*models.Student, error)
	UpdateStudent(ctx context.Context, id string, form models.StudentForm) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

type Service struct {
	store    Store
	log      *zap.Logger
	translit *transliterator.Transliterator
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		log:      log.With(lf.Module("students")),
		translit: transliterator.NewTransliterator(nil),
	}
}

// List never fails: a store error is logged and reported as an empty class.
func (s *Service) List(ctx context.Context) []models.Student {
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		s.log.Error("Failed to list students", zap.Error(err))
		return []models.Student{}
	}
	return students
}

func (s *Service) Search(ctx context.Context, term string) []models.Student {
	students := s.List(ctx)
	if term == "" {
		return students
	}
	filtered := make([]models.Student, 0, len(students))
	for _, student := range students {
		if s.Matches(&student, term) {
			filtered = append(filtered, student)
		}
	}
	s.log.Debug("Filtered students", lf.Query(term), lf.Count(len(filtered)))
	return filtered
}

// Matches reports whether the full name contains term case-insensitively,
// or the student number contains term verbatim.
func (s *Service) Matches(student *models.Student, term string) bool {
	if strings.Contains(student.StudentNo, term) {
		return true
	}
	name := strings.ToLower(student.FullName)
	lowered := strings.ToLower(term)
	if strings.Contains(name, lowered) {
		return true
	}
	return strings.Contains(s.fold(name), s.fold(lowered))
}

func (s *Service) fold(text string) string {
	return strings.ToLower(s.translit.Transliterate(text, "en"))
}

func (s *Service) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.store.FindStudent(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to find student %s", id)
	}
	return student, nil
}

func (s *Service) Create(ctx context.Context, form models.StudentForm) (*models.Student, error) {
	student, err := s.store.AddStudent(ctx, form)
	if err != nil {
		s.log.Warn("Failed to add student", lf.StudentNo(form.StudentNo), zap.Error(err))
		return nil, errors.Wrap(err, "Failed to add student")
	}
	s.log.Info("Added student", lf.StudentID(student.ID), lf.StudentNo(student.StudentNo))
	return student, nil
}

func (s *Service) Update(ctx context.Context, id string, form models.StudentForm) (*models.Student, error) {
	student, err := s.store.UpdateStudent(ctx, id, form)
	if err != nil {
		s.log.Warn("Failed to update student", lf.StudentID(id), zap.Error(err))
		return nil, errors.Wrapf(err, "Failed to update student %s", id)
	}
	s.log.Info("Updated student", lf.StudentID(student.ID), zap.Float64("average", student.Average))
	return student, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteStudent(ctx, id); err != nil {
		s.log.Warn("Failed to delete student", lf.StudentID(id), zap.Error(err))
		return errors.Wrapf(err, "Failed to delete student %s", id)
	}
	s.log.Info("Deleted student", lf.StudentID(id))
	return nil
}
