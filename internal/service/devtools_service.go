package service

import (
	"buildhub-state/internal/appstate"
	"buildhub-state/internal/pkg/logger"
)

type IDevToolsService interface {
	State() *appstate.RootState
	Logs(level string, limit, offset int) ([]logger.LogEntry, error)
	Log(id string) (*logger.LogEntry, error)
	Reset() *appstate.RootState
}

type devToolsService struct {
	app    *appstate.App
	logger logger.ILogger
}

func NewDevToolsService(app *appstate.App, log logger.ILogger) IDevToolsService {
	return &devToolsService{app: app, logger: log}
}

func (s *devToolsService) State() *appstate.RootState {
	return s.app.State()
}

func (s *devToolsService) Logs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return s.logger.GetLogs(level, limit, offset)
}

func (s *devToolsService) Log(id string) (*logger.LogEntry, error) {
	return s.logger.GetLogById(id)
}

func (s *devToolsService) Reset() *appstate.RootState {
	s.app.Reset()
	return s.app.State()
}
