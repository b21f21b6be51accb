package handler

import (
	"net/http"

	"github.com/ziaflow/marketing-lens/internal/api/handler/router"
	"github.com/ziaflow/marketing-lens/internal/usecases/analyzing"
	"github.com/ziaflow/marketing-lens/internal/usecases/ingesting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Ingestion(dispatcher ingesting.Dispatcher) []router.Route {
	return []router.Route{
		{
			Path:    "/ingest",
			Method:  http.MethodGet,
			Handler: Ingest(dispatcher),
		},
	}
}

func Insights(analyzer analyzing.Analyzer) []router.Route {
	return []router.Route{
		{
			Path:    "/insights",
			Method:  http.MethodGet,
			Handler: GetInsights(analyzer),
		},
	}
}

func Dashboard(service DashboardService) []router.Route {
	return []router.Route{
		{
			Path:    "/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
