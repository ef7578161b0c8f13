package temrin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/bigredeye/temrin/api"
	"github.com/bigredeye/temrin/internal/models"
)

func TestListStudents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/students", r.URL.Path)
		require.Equal(t, "ali", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ListStudentsResponse{
			Status:   api.Status{Ok: true},
			Students: []models.Student{{ID: "x", FullName: "Ali Veli"}},
		})
	}))
	defer server.Close()

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	students, err := c.ListStudents("ali")
	require.NoError(t, err)
	require.Equal(t, []models.Student{{ID: "x", FullName: "Ali Veli"}}, students)
}

func TestAddStudentConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form := models.StudentForm{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		require.Equal(t, "7", form.StudentNo)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(api.Status{Error: "duplicated key"})
	}))
	defer server.Close()

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = c.AddStudent(models.StudentForm{StudentNo: "7", FullName: "Yedi"})
	require.EqualError(t, err, "failed to add student: duplicated key")
}

func TestLoadStatsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	st, err := c.LoadStats()
	require.NoError(t, err)
	require.Nil(t, st)
}

func TestAddStudentNotRetried(t *testing.T) {
	calls := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(api.Status{Error: "boom"})
	}))
	defer server.Close()

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = c.AddStudent(models.StudentForm{StudentNo: "7", FullName: "Yedi"})
	require.EqualError(t, err, "failed to add student: boom")
	require.EqualValues(t, 1, calls.Load())
}

func TestGetStudentRetried(t *testing.T) {
	calls := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Inc() == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(api.Status{Error: "starting"})
			return
		}
		_ = json.NewEncoder(w).Encode(api.StudentResponse{
			Status:  api.Status{Ok: true},
			Student: &models.Student{ID: "x"},
		})
	}))
	defer server.Close()

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	student, err := c.GetStudent("x")
	require.NoError(t, err)
	require.Equal(t, "x", student.ID)
	require.EqualValues(t, 2, calls.Load())
}

func TestAnalyzeFresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/analysis", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("fresh"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "analysis": {"summary": "iyi"}}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	res, err := c.Analyze(true)
	require.NoError(t, err)
	require.Equal(t, "iyi", res.Summary)
}
