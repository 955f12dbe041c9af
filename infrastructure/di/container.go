package di

import (
	"memebrowser/application/ports"
	querybus "memebrowser/application/queries/bus"
	"memebrowser/application/services"
	"memebrowser/infrastructure/config"
	"memebrowser/infrastructure/persistence/filesystem"
	"memebrowser/interfaces/http/rest"
	"memebrowser/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *filesystem.RecordStore
	MemeRepo ports.MemeStore
	Settings *config.Settings
	Loader   *services.MemeLoader
	QueryBus *querybus.QueryBus
	Metrics  *observability.Collector
	Router   *rest.Router
}
