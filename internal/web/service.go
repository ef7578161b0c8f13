package web

import (
	"github.com/bigredeye/temrin/internal/config"
	"go.uber.org/zap"
)

type webService struct {
	server *server
	config *config.Config
	log    *zap.Logger
}
