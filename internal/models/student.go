package models

import (
	"math"
	"strings"

	"golang.org/x/exp/constraints"
)

const (
	GenderMale   Gender = "Erkek"
	GenderFemale Gender = "Kadın"
)

type Gender = string

var Genders = []Gender{GenderMale, GenderFemale}

const (
	MinScore       = 0
	MaxScore       = 100
	ExerciseCount  = 5
	ExercisePrefix = "Temrin"
)

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampScore(score int) int {
	return Clamp(score, MinScore, MaxScore)
}

type Scores struct {
	T1 int `json:"t1" form:"t1" yaml:"t1"`
	T2 int `json:"t2" form:"t2" yaml:"t2"`
	T3 int `json:"t3" form:"t3" yaml:"t3"`
	T4 int `json:"t4" form:"t4" yaml:"t4"`
	T5 int `json:"t5" form:"t5" yaml:"t5"`
}

// Values returns the scores in exercise order.
func (s Scores) Values() [ExerciseCount]int {
	return [ExerciseCount]int{s.T1, s.T2, s.T3, s.T4, s.T5}
}

func (s Scores) Normalize() Scores {
	return Scores{
		T1: ClampScore(s.T1),
		T2: ClampScore(s.T2),
		T3: ClampScore(s.T3),
		T4: ClampScore(s.T4),
		T5: ClampScore(s.T5),
	}
}

// Average is the mean of the five scores rounded to one decimal place.
func (s Scores) Average() float64 {
	sum := 0
	for _, v := range s.Values() {
		sum += v
	}
	return math.Round(float64(sum)*10/ExerciseCount) / 10
}

type Student struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	StudentNo string  `gorm:"uniqueIndex;size:64" json:"studentNo"`
	FullName  string  `json:"fullName"`
	Gender    Gender  `gorm:"size:16" json:"gender"`
	Scores    Scores  `gorm:"embedded;embeddedPrefix:score_" json:"scores"`
	Average   float64 `json:"average"`
	CreatedAt int64   `gorm:"autoCreateTime:milli;index" json:"createdAt"`
}

func (s *Student) Form() StudentForm {
	return StudentForm{
		StudentNo: s.StudentNo,
		FullName:  s.FullName,
		Gender:    s.Gender,
		Scores:    s.Scores,
	}
}

type StudentForm struct {
	StudentNo string `json:"studentNo" form:"studentNo" yaml:"studentNo" binding:"required"`
	FullName  string `json:"fullName" form:"fullName" yaml:"fullName" binding:"required"`
	Gender    Gender `json:"gender" form:"gender" yaml:"gender" binding:"omitempty,oneof=Erkek Kadın"`
	Scores    Scores `json:"scores" yaml:"scores"`
}

func EmptyForm() StudentForm {
	return StudentForm{Gender: GenderMale}
}

func (f StudentForm) Normalize() StudentForm {
	f.StudentNo = strings.TrimSpace(f.StudentNo)
	f.FullName = strings.TrimSpace(f.FullName)
	if f.Gender == "" {
		f.Gender = GenderMale
	}
	f.Scores = f.Scores.Normalize()
	return f
}
