package api

import "github.com/bigredeye/temrin/internal/models"

type ListStudentsRequest struct {
	Query string `json:"q" form:"q"`
}

type ListStudentsResponse struct {
	Status

	Students []models.Student `json:"students"`
}

// StudentRequest carries the editable fields for both create and update.
type StudentRequest = models.StudentForm

type StudentResponse struct {
	Status

	Student *models.Student `json:"student,omitempty"`
}

type DeleteStudentResponse struct {
	Status
}
