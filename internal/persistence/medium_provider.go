package persistence

import (
	"fmt"
	"personad/internal/persistence/interfaces"
	"personad/internal/providers"
	"personad/internal/structures"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// NewMediumProvider opens the medium selected by storage.driver and wraps it
// with the quota and metrics decorators.
func NewMediumProvider(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) (interfaces.MediumInterface, error) {
	var (
		medium interfaces.MediumInterface
		err    error
	)

	switch conf.Storage.Driver {
	case DriverFile:
		if !conf.Storage.Compress {
			compressor.Close()
			compressor = plainCompression{}
		}
		medium, err = NewFileMedium(conf.Storage.Path, compressor)
	case DriverSQLite:
		compressor.Close()
		medium, err = OpenSQLiteMedium(conf.Storage.Path)
	case DriverMemory:
		compressor.Close()
		medium = NewMemoryMedium()
	case DriverNone:
		compressor.Close()
		logger.Warnf(providers.TypeStore, "Durable storage disabled, serving seed data only")
		return unavailableMedium{}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Infof(providers.TypeStore, "Storage opened: driver=%s path=%s", conf.Storage.Driver, conf.Storage.Path)
	medium = NewQuotaMedium(medium, conf.Storage.QuotaBytes)
	return NewInstrumentedMedium(medium, metrics), nil
}
