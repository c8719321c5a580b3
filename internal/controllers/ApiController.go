package controllers

import (
	"archivist/internal/models"
	"archivist/internal/providers"
	"archivist/internal/services"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const (
	maxRequestBodySize = 1 << 20  // 1 MB
	maxImportBodySize  = 32 << 20 // 32 MB
)

type ApiController struct {
	logger  providers.Logger
	service services.PersistenceServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.PersistenceServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type keyRequest struct {
	Key     string `json:"key" validate:"required"`
	Default any    `json:"default"`
}

type valueRequest struct {
	Key   string `json:"key" validate:"required"`
	Value any    `json:"value"`
}

type idRequest struct {
	ID string `json:"id" validate:"required"`
}

type windowRequest struct {
	X         *int `json:"x"`
	Y         *int `json:"y"`
	Width     int  `json:"width" validate:"required|min:1"`
	Height    int  `json:"height" validate:"required|min:1"`
	Maximized bool `json:"maximized"`
}

// decodeRequest reads a JSON body into dst and validates it. It writes a
// 400 response and returns false when either step fails.
func (ac *ApiController) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	v := validate.Struct(dst)
	if !v.Validate() {
		http.Error(w, v.Errors.One(), http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		ac.logger.Errorf(providers.TypeApp, "Encode response: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// writeResult reports err as a failed envelope. Failures are answered with
// 200 so callers only inspect the envelope.
func (ac *ApiController) writeResult(w http.ResponseWriter, r *http.Request, result models.Result, err error) {
	if err != nil {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s failed: %s", r.URL.Path, err)
		result = models.Failure(err)
	}
	ac.writeJSON(w, result)
}

// serveFromCacheOrCompute caches responses per store revision, so any
// mutation invalidates them.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, prefix string, compute func() (any, error)) {
	cacheKey := prefix + ":" + strconv.FormatUint(ac.service.Revision(), 10)
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Compute %s: %s", prefix, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) StoreGet(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !ac.decodeRequest(w, r, &req) {
		return
	}
	ac.writeJSON(w, ac.service.Get(req.Key, req.Default))
}

func (ac *ApiController) StoreSet(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !ac.decodeRequest(w, r, &req) {
		return
	}
	ac.writeResult(w, r, models.Result{Success: true}, ac.service.Set(req.Key, req.Value))
}

func (ac *ApiController) StoreDelete(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !ac.decodeRequest(w, r, &req) {
		return
	}
	ac.writeResult(w, r, models.Result{Success: true}, ac.service.Delete(req.Key))
}

func (ac *ApiController) StoreHas(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !ac.decodeRequest(w, r, &req) {
		return
	}
	ac.writeJSON(w, ac.service.Has(req.Key))
}

func (ac *ApiController) StoreClear(w http.ResponseWriter, r *http.Request) {
	ac.writeResult(w, r, models.Result{Success: true}, ac.service.Clear())
}

func (ac *ApiController) StoreSize(w http.ResponseWriter, _ *http.Request) {
	ac.writeJSON(w, ac.service.Size())
}

func (ac *ApiController) SettingsGet(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !ac.decodeRequest(w, r, &req) {
		return
	}
	ac.writeJSON(w, ac.service.GetSetting(req.Key, req.Default))
}

func (ac *ApiController) SettingsSet(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !ac.decodeRequest(w, r, &req) {
		return
	}
	ac.writeResult(w, r, models.Result{Success: true}, ac.service.SetSetting(req.Key, req.Value))
}

func (ac *ApiController) GetWindowState(w http.ResponseWriter, _ *http.Request) {
	ac.writeJSON(w, ac.service.WindowState())
}

func (ac *ApiController) SaveWindowState(w http.ResponseWriter, r *http.Request) {
	var req windowRequest
	if !ac.decodeRequest(w, r, &req) {
		return
	}
	state := models.WindowState{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height, Maximized: req.Maximized}
	ac.writeResult(w, r, models.Result{Success: true}, ac.service.SaveWindowState(state))
}

func (ac *ApiController) GetStats(w http.ResponseWriter, _ *http.Request) {
	ac.serveFromCacheOrCompute(w, "stats", func() (any, error) {
		stats, err := ac.service.GetStats()
		return stats, err
	})
}

func (ac *ApiController) UpdateStats(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	stats, err := ac.service.UpdateStats(partial)
	if err != nil {
		ac.writeResult(w, r, models.Result{}, err)
		return
	}
	ac.writeJSON(w, stats)
}
