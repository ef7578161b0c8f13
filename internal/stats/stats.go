package stats

import (
	"fmt"
	"math"

	"github.com/bigredeye/temrin/internal/models"
)

const PassThreshold = 50.0

type ExerciseAverage struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type GenderCount struct {
	Gender models.Gender `json:"gender"`
	Count  int           `json:"count"`
}

type StudentAverage struct {
	Name    string  `json:"name"`
	Average float64 `json:"avg"`
}

type ClassStats struct {
	TotalStudents int               `json:"totalStudents"`
	ClassAverage  float64           `json:"classAverage"`
	Exercises     []ExerciseAverage `json:"exercises"`
	Genders       []GenderCount     `json:"genders"`
	Passed        int               `json:"passed"`
	PassRate      float64           `json:"passRate"`
	TopExercise   string            `json:"topExercise"`
}

func ExerciseName(i int) string {
	return fmt.Sprintf("%s %d", models.ExercisePrefix, i+1)
}

func Passed(student *models.Student) bool {
	return student.Average >= PassThreshold
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Compute reduces the class list to dashboard statistics; it returns nil for an empty class.
func Compute(students []models.Student) *ClassStats {
	if len(students) == 0 {
		return nil
	}

	total := len(students)
	var averageSum float64
	var exerciseSums [models.ExerciseCount]int
	genders := make(map[models.Gender]int, len(models.Genders))
	passed := 0

	for i := range students {
		student := &students[i]
		averageSum += student.Average
		for j, score := range student.Scores.Values() {
			exerciseSums[j] += score
		}
		genders[student.Gender]++
		if Passed(student) {
			passed++
		}
	}

	res := &ClassStats{
		TotalStudents: total,
		ClassAverage:  averageSum / float64(total),
		Exercises:     make([]ExerciseAverage, 0, models.ExerciseCount),
		Genders:       make([]GenderCount, 0, len(models.Genders)),
		Passed:        passed,
		PassRate:      float64(passed) / float64(total) * 100,
	}

	var top *ExerciseAverage
	for i, sum := range exerciseSums {
		res.Exercises = append(res.Exercises, ExerciseAverage{
			Name:  ExerciseName(i),
			Score: roundHalfUp(float64(sum) / float64(total)),
		})
		cur := &res.Exercises[i]
		if top == nil || cur.Score >= top.Score {
			top = cur
		}
	}
	res.TopExercise = top.Name

	for _, gender := range models.Genders {
		res.Genders = append(res.Genders, GenderCount{Gender: gender, Count: genders[gender]})
	}

	return res
}

func StudentAverages(students []models.Student) []StudentAverage {
	res := make([]StudentAverage, 0, len(students))
	for _, student := range students {
		res = append(res, StudentAverage{Name: student.FullName, Average: student.Average})
	}
	return res
}

func (s *ClassStats) GenderCount(gender models.Gender) int {
	for _, g := range s.Genders {
		if g.Gender == gender {
			return g.Count
		}
	}
	return 0
}
