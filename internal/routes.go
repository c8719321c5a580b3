package internal

import (
	"archivist/internal/controllers"
	"archivist/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/store/get", http.HandlerFunc(apiController.StoreGet))
	routers.Post("/store/set", http.HandlerFunc(apiController.StoreSet))
	routers.Post("/store/delete", http.HandlerFunc(apiController.StoreDelete))
	routers.Post("/store/has", http.HandlerFunc(apiController.StoreHas))
	routers.Post("/store/clear", http.HandlerFunc(apiController.StoreClear))
	routers.Get("/store/size", http.HandlerFunc(apiController.StoreSize))

	routers.Post("/settings/get", http.HandlerFunc(apiController.SettingsGet))
	routers.Post("/settings/set", http.HandlerFunc(apiController.SettingsSet))

	routers.Post("/backup/create", http.HandlerFunc(apiController.CreateBackup))
	routers.Post("/backup/restore", http.HandlerFunc(apiController.RestoreBackup))
	routers.Get("/backup/list", http.HandlerFunc(apiController.ListBackups))
	routers.Post("/backup/delete", http.HandlerFunc(apiController.DeleteBackup))

	routers.Get("/data/export", http.HandlerFunc(apiController.ExportData))
	routers.Post("/data/import", http.HandlerFunc(apiController.ImportData))
	routers.Post("/data/reset", http.HandlerFunc(apiController.ResetData))
	routers.Get("/data/validate", http.HandlerFunc(apiController.ValidateData))
	routers.Post("/maintenance", http.HandlerFunc(apiController.PerformMaintenance))

	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	routers.Post("/stats/update", http.HandlerFunc(apiController.UpdateStats))

	routers.Get("/window", http.HandlerFunc(apiController.GetWindowState))
	routers.Post("/window", http.HandlerFunc(apiController.SaveWindowState))
	routers.Post("/window/save", http.HandlerFunc(apiController.SaveWindowState))
	return routers
}
