package stats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/bigredeye/temrin/internal/models"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func makeStudent(gender models.Gender, scores ...int) models.Student {
	s := models.Scores{T1: scores[0], T2: scores[1], T3: scores[2], T4: scores[3], T5: scores[4]}
	return models.Student{Gender: gender, Scores: s, Average: s.Average()}
}

func TestEmptyClass(t *testing.T) {
	if Compute(nil) != nil {
		t.Fatal("expected nil stats for an empty class")
	}
	if Compute([]models.Student{}) != nil {
		t.Fatal("expected nil stats for an empty class")
	}
}

func TestCompute(t *testing.T) {
	students := []models.Student{
		makeStudent(models.GenderMale, 100, 80, 60, 40, 20),   // 60
		makeStudent(models.GenderFemale, 50, 50, 50, 50, 49),  // 49.8
		makeStudent(models.GenderFemale, 90, 91, 92, 93, 100), // 93.2
		makeStudent(models.GenderMale, 0, 0, 1, 0, 0),         // 0.2
	}

	got := Compute(students)
	expected := &ClassStats{
		TotalStudents: 4,
		ClassAverage:  (60 + 49.8 + 93.2 + 0.2) / 4,
		Exercises: []ExerciseAverage{
			{"Temrin 1", 60},
			{"Temrin 2", 55},
			{"Temrin 3", 51},
			{"Temrin 4", 46},
			{"Temrin 5", 42},
		},
		Genders: []GenderCount{
			{models.GenderMale, 2},
			{models.GenderFemale, 2},
		},
		Passed:      2,
		PassRate:    50,
		TopExercise: "Temrin 1",
	}

	if diff := cmp.Diff(expected, got, approx); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}
}

func TestPassBoundary(t *testing.T) {
	students := []models.Student{
		makeStudent(models.GenderMale, 50, 50, 50, 50, 50),
		makeStudent(models.GenderMale, 50, 50, 50, 50, 49),
		makeStudent(models.GenderMale, 50, 50, 50, 50, 49),
	}

	got := Compute(students)
	if got.Passed != 1 {
		t.Fatalf("Invalid passed count: %d, expected: 1", got.Passed)
	}
	if diff := cmp.Diff(100.0/3, got.PassRate, approx); diff != "" {
		t.Fatalf("Invalid pass rate: %s", diff)
	}
}

func TestExerciseRoundingHalfUp(t *testing.T) {
	students := []models.Student{
		makeStudent(models.GenderMale, 1, 0, 3, 0, 0),
		makeStudent(models.GenderFemale, 0, 0, 0, 0, 0),
	}

	got := Compute(students)
	if got.Exercises[0].Score != 1 {
		t.Fatalf("Invalid rounding of 0.5: %d", got.Exercises[0].Score)
	}
	if got.Exercises[2].Score != 2 {
		t.Fatalf("Invalid rounding of 1.5: %d", got.Exercises[2].Score)
	}
}

func TestTopExerciseTiePrefersLater(t *testing.T) {
	students := []models.Student{
		makeStudent(models.GenderMale, 70, 90, 90, 10, 90),
	}

	got := Compute(students)
	if got.TopExercise != "Temrin 5" {
		t.Fatalf("Invalid top exercise: %s", got.TopExercise)
	}
}

func TestGenderCountIgnoresUnknown(t *testing.T) {
	students := []models.Student{
		makeStudent(models.GenderFemale, 1, 2, 3, 4, 5),
		makeStudent("", 1, 2, 3, 4, 5),
	}

	got := Compute(students)
	if got.GenderCount(models.GenderFemale) != 1 || got.GenderCount(models.GenderMale) != 0 {
		t.Fatalf("Invalid gender split: %+v", got.Genders)
	}
	if got.TotalStudents != 2 {
		t.Fatalf("Invalid total: %d", got.TotalStudents)
	}
}
