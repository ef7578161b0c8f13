package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bigredeye/temrin/internal/analysis"
	"github.com/bigredeye/temrin/internal/database"
	lf "github.com/bigredeye/temrin/internal/logfield"
	"github.com/bigredeye/temrin/internal/models"
	"github.com/bigredeye/temrin/internal/stats"
)

type pageService struct {
	webService
}

func setupPageService(server *server, r *gin.Engine) {
	s := pageService{webService{server, server.config, server.logger.With(lf.Module("pages"))}}

	r.GET("/", s.dashboard)
	r.POST("/analysis", s.analyze)
	r.GET("/students", s.list)
	r.GET("/students/new", s.newStudent)
	r.POST("/students", s.createStudent)
	r.GET("/students/:id/edit", s.editStudent)
	r.POST("/students/:id", s.updateStudent)
	r.POST("/students/:id/delete", s.deleteStudent)
}

func (s pageService) render(c *gin.Context, code int, name string, data gin.H) {
	data["Tab"] = s.tab(c)
	data["Flashes"] = s.popFlashes(c)
	c.HTML(code, name, data)
}

func (s pageService) dashboard(c *gin.Context) {
	s.setTab(c, tabDashboard)
	list := s.server.students.List(c.Request.Context())
	s.render(c, http.StatusOK, "dashboard.tmpl", gin.H{
		"Title":           "Sınıf Analizi",
		"Stats":           stats.Compute(list),
		"Analysis":        s.server.analyzer.Latest(),
		"AnalysisEnabled": s.server.analyzer.Enabled(),
		"Analyzing":       s.server.analyzer.Running(),
		"Male":            models.GenderMale,
		"Female":          models.GenderFemale,
	})
}

// analyze never surfaces failures: the dashboard keeps showing the previous analysis.
func (s pageService) analyze(c *gin.Context) {
	list := s.server.students.List(c.Request.Context())
	run := s.server.analyzer.Analyze
	if fresh, _ := strconv.ParseBool(c.PostForm("fresh")); fresh {
		run = s.server.analyzer.Refresh
	}
	if _, err := run(c.Request.Context(), list); err != nil {
		s.log.Warn("Analysis request failed", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s pageService) list(c *gin.Context) {
	s.setTab(c, tabStudents)
	query := strings.TrimSpace(c.Query("q"))
	s.render(c, http.StatusOK, "students.tmpl", gin.H{
		"Title":    "Öğrenci Yönetimi",
		"Query":    query,
		"Students": s.server.students.Search(c.Request.Context(), query),
	})
}

func (s pageService) renderForm(c *gin.Context, code int, id string, form models.StudentForm, formErr string) {
	title := "Yeni Öğrenci Ekle"
	action := "/students"
	if id != "" {
		title = "Öğrenci Düzenle"
		action = "/students/" + id
	}
	s.render(c, code, "form.tmpl", gin.H{
		"Title":        title,
		"Action":       action,
		"Editing":      id != "",
		"Form":         form,
		"Genders":      models.Genders,
		"Exercises":    exerciseFields(form.Scores),
		"CancelURL":    s.tabURL(c),
		"ErrorMessage": formErr,
	})
}

const invalidFormMessage = "Öğrenci no, ad soyad ve cinsiyet alanlarını kontrol edin."

type exerciseField struct {
	Name  string
	Label string
	Value int
}

func exerciseFields(scores models.Scores) []exerciseField {
	fields := make([]exerciseField, 0, models.ExerciseCount)
	for i, v := range scores.Values() {
		fields = append(fields, exerciseField{
			Name:  "t" + strconv.Itoa(i+1),
			Label: stats.ExerciseName(i),
			Value: v,
		})
	}
	return fields
}

func scoreValue(c *gin.Context, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.PostForm(name)))
	if err != nil {
		return 0
	}
	return models.ClampScore(v)
}

func (s pageService) parseForm(c *gin.Context) (models.StudentForm, error) {
	form := models.StudentForm{
		StudentNo: c.PostForm("studentNo"),
		FullName:  c.PostForm("fullName"),
		Gender:    c.PostForm("gender"),
		Scores: models.Scores{
			T1: scoreValue(c, "t1"),
			T2: scoreValue(c, "t2"),
			T3: scoreValue(c, "t3"),
			T4: scoreValue(c, "t4"),
			T5: scoreValue(c, "t5"),
		},
	}.Normalize()
	return form, binding.Validator.ValidateStruct(&form)
}

func (s pageService) newStudent(c *gin.Context) {
	s.renderForm(c, http.StatusOK, "", models.EmptyForm(), "")
}

func (s pageService) editStudent(c *gin.Context) {
	student, err := s.server.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.notFoundOrFail(c, err)
		return
	}
	s.renderForm(c, http.StatusOK, student.ID, student.Form(), "")
}

func (s pageService) createStudent(c *gin.Context) {
	form, err := s.parseForm(c)
	if err != nil {
		s.renderForm(c, http.StatusBadRequest, "", form, invalidFormMessage)
		return
	}
	if _, err := s.server.students.Create(c.Request.Context(), form); err != nil {
		s.renderForm(c, statusOf(err), "", form, formErrorMessage(err))
		return
	}
	s.flash(c, "Öğrenci kaydedildi.")
	c.Redirect(http.StatusSeeOther, s.tabURL(c))
}

func (s pageService) updateStudent(c *gin.Context) {
	id := c.Param("id")
	form, err := s.parseForm(c)
	if err != nil {
		s.renderForm(c, http.StatusBadRequest, id, form, invalidFormMessage)
		return
	}
	if _, err := s.server.students.Update(c.Request.Context(), id, form); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.notFoundOrFail(c, err)
			return
		}
		s.renderForm(c, statusOf(err), id, form, formErrorMessage(err))
		return
	}
	s.flash(c, "Öğrenci güncellendi.")
	c.Redirect(http.StatusSeeOther, s.tabURL(c))
}

func (s pageService) deleteStudent(c *gin.Context) {
	if err := s.server.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.notFoundOrFail(c, err)
		return
	}
	s.flash(c, "Öğrenci silindi.")
	c.Redirect(http.StatusSeeOther, "/students")
}

func (s pageService) notFoundOrFail(c *gin.Context, err error) {
	code := statusOf(err)
	message := "Bir hata oluştu, lütfen tekrar deneyin."
	if code == http.StatusNotFound {
		message = "Öğrenci bulunamadı."
	}
	s.render(c, code, "error.tmpl", gin.H{
		"Title":        "Hata",
		"ErrorMessage": message,
	})
}

func formErrorMessage(err error) string {
	if database.IsDuplicateKey(err) {
		return "Bu öğrenci numarası zaten kayıtlı."
	}
	return "Kayıt başarısız oldu, lütfen tekrar deneyin."
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case database.IsDuplicateKey(err):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrNoData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analysis.ErrInProgress):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
