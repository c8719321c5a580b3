package internal

import (
	"archivist/internal/providers"
	"archivist/internal/services"
	"archivist/internal/structures"
)

// Toolkit bundles what one-shot CLI commands need. The service is opened
// by Open and flushed by Close.
type Toolkit struct {
	Config  *structures.Config
	Logger  providers.Logger
	Service services.PersistenceServiceInterface
}

func NewToolkit(conf *structures.Config, logger providers.Logger, service services.PersistenceServiceInterface) *Toolkit {
	return &Toolkit{
		Config:  conf,
		Logger:  logger,
		Service: service,
	}
}

func (t *Toolkit) Open() error {
	return t.Service.Open()
}

func (t *Toolkit) Close() error {
	err := t.Service.Close()
	t.Logger.Close()
	return err
}
