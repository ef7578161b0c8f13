package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	tabDashboard = "dashboard"
	tabStudents  = "students"

	sessionTab = "tab"
)

func decodeKey(s *server, name, value string) ([]byte, error) {
	if value == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, errors.Wrapf(err, "Failed to generate %s", name)
		}
		s.logger.Warn("Cookie key is not configured, sessions will not survive restarts", zap.String("key", name))
		return key, nil
	}
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode hex %s", name)
	}
	return key, nil
}

func setupSessions(s *server, r *gin.Engine) error {
	authKey, err := decodeKey(s, "authenticationKey", s.config.Server.Cookies.AuthenticationKey)
	if err != nil {
		return err
	}
	encryptKey, err := decodeKey(s, "encryptionKey", s.config.Server.Cookies.EncryptionKey)
	if err != nil {
		return err
	}
	store := cookie.NewStore(authKey, encryptKey)
	store.Options(sessions.Options{
		Path:     "/",
		Secure:   s.config.Server.Cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("session", store))
	return nil
}

func (s webService) saveSession(session sessions.Session) {
	if err := session.Save(); err != nil {
		s.log.Error("Failed to save session", zap.Error(err))
	}
}

func (s webService) flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	s.saveSession(session)
}

func (s webService) popFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	s.saveSession(session)

	messages := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

func (s webService) setTab(c *gin.Context, tab string) {
	session := sessions.Default(c)
	if session.Get(sessionTab) == tab {
		return
	}
	session.Set(sessionTab, tab)
	s.saveSession(session)
}

func (s webService) tab(c *gin.Context) string {
	if tab, ok := sessions.Default(c).Get(sessionTab).(string); ok && tab == tabStudents {
		return tabStudents
	}
	return tabDashboard
}

// tabURL is where the UI returns after closing the student form.
func (s webService) tabURL(c *gin.Context) string {
	if s.tab(c) == tabStudents {
		return "/students"
	}
	return "/"
}
