package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/bigredeye/temrin/api"
	lf "github.com/bigredeye/temrin/internal/logfield"
	"github.com/bigredeye/temrin/internal/stats"
)

type apiService struct {
	webService
}

func setupApiService(server *server, r *gin.Engine) {
	s := apiService{webService{server, server.config, server.logger.With(lf.Module("api"))}}

	g := r.Group("/api")
	g.GET("/students", s.listStudents)
	g.POST("/students", s.createStudent)
	g.GET("/students/:id", s.getStudent)
	g.PUT("/students/:id", s.updateStudent)
	g.DELETE("/students/:id", s.deleteStudent)
	g.GET("/stats", s.stats)
	g.GET("/analysis", s.latestAnalysis)
	g.POST("/analysis", s.analyze)
}

func (s apiService) fail(c *gin.Context, code int, err error) {
	s.log.Warn("API request failed", zap.String("path", c.FullPath()), zap.Int("code", code), zap.Error(err))
	c.JSON(code, &api.Status{
		Ok:    false,
		Error: err.Error(),
	})
}

func (s apiService) listStudents(c *gin.Context) {
	req := api.ListStudentsRequest{}
	if err := c.ShouldBindQuery(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, &api.ListStudentsResponse{
		Status:   api.Status{Ok: true},
		Students: s.server.students.Search(c.Request.Context(), strings.TrimSpace(req.Query)),
	})
}

func (s apiService) getStudent(c *gin.Context) {
	student, err := s.server.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, &api.StudentResponse{
		Status:  api.Status{Ok: true},
		Student: student,
	})
}

// bindStudent trims the request before validating it.
func (s apiService) bindStudent(c *gin.Context) (api.StudentRequest, error) {
	req := api.StudentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req = req.Normalize()
	return req, binding.Validator.ValidateStruct(&req)
}

func (s apiService) createStudent(c *gin.Context) {
	req, err := s.bindStudent(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	student, err := s.server.students.Create(c.Request.Context(), req)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusCreated, &api.StudentResponse{
		Status:  api.Status{Ok: true},
		Student: student,
	})
}

func (s apiService) updateStudent(c *gin.Context) {
	req, err := s.bindStudent(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	student, err := s.server.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, &api.StudentResponse{
		Status:  api.Status{Ok: true},
		Student: student,
	})
}

func (s apiService) deleteStudent(c *gin.Context) {
	if err := s.server.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, &api.DeleteStudentResponse{
		Status: api.Status{Ok: true},
	})
}

func (s apiService) stats(c *gin.Context) {
	list := s.server.students.List(c.Request.Context())
	c.JSON(http.StatusOK, &api.StatsResponse{
		Status: api.Status{Ok: true},
		Stats:  stats.Compute(list),
	})
}

func (s apiService) latestAnalysis(c *gin.Context) {
	c.JSON(http.StatusOK, &api.AnalysisResponse{
		Status:   api.Status{Ok: true},
		Analysis: s.server.analyzer.Latest(),
	})
}

func (s apiService) analyze(c *gin.Context) {
	req := api.AnalyzeRequest{}
	if err := c.ShouldBindQuery(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	list := s.server.students.List(c.Request.Context())
	run := s.server.analyzer.Analyze
	if req.Fresh {
		run = s.server.analyzer.Refresh
	}
	res, err := run(c.Request.Context(), list)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, &api.AnalysisResponse{
		Status:   api.Status{Ok: true},
		Analysis: res,
	})
}
