package web

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/docker/go-units"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bigredeye/temrin/internal/analysis"
	"github.com/bigredeye/temrin/internal/config"
	"github.com/bigredeye/temrin/internal/models"
	"github.com/bigredeye/temrin/internal/stats"
	"github.com/bigredeye/temrin/internal/students"
	"github.com/bigredeye/temrin/web"
)

type server struct {
	config *config.Config
	logger *zap.Logger

	students *students.Service
	analyzer *analysis.Analyzer
}

func newServer(
	config *config.Config,
	logger *zap.Logger,
	students *students.Service,
	analyzer *analysis.Analyzer,
) (*server, error) {
	return &server{
		config:   config,
		logger:   logger,
		students: students,
		analyzer: analyzer,
	}, nil
}

func buildHTMLTemplates(tfs fs.FS, funcMap template.FuncMap) (*template.Template, error) {
	tmpl := template.New("").Funcs(funcMap)
	err := fs.WalkDir(tfs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			bytes, err := fs.ReadFile(tfs, path)
			if err != nil {
				return err
			}

			if _, err := tmpl.New(path).Parse(string(bytes)); err != nil {
				return errors.Wrapf(err, "Failed to parse template %s", path)
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to collect html templates")
	}

	return tmpl, nil
}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int {
		return i + 1
	},
	"passed": func(student models.Student) bool {
		return stats.Passed(&student)
	},
	"percent": func(part, total int) float64 {
		if total == 0 {
			return 0
		}
		return float64(part) / float64(total) * 100
	},
}

func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func (s *server) engine() (*gin.Engine, error) {
	tmpl, err := buildHTMLTemplates(web.StaticTemplates, templateFuncs)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to build html templates")
	}

	maxBody, err := units.FromHumanSize(s.config.Server.MaxBodySize)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid max body size %q", s.config.Server.MaxBodySize)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(s.logger, true))
	r.Use(bodyLimit(maxBody))

	r.SetHTMLTemplate(tmpl)

	if err := setupSessions(s, r); err != nil {
		return nil, err
	}
	setupPageService(s, r)
	setupApiService(s, r)

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong "+fmt.Sprint(time.Now().Unix()))
	})

	r.StaticFS("/static", http.FS(web.StaticContent))

	return r, nil
}

func (s *server) run(ctx context.Context) error {
	r, err := s.engine()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    s.config.Server.ListenAddress,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown server", zap.Error(err))
		}
	}()

	s.logger.Info("Starting server", zap.String("bind_address", s.config.Server.ListenAddress))
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
