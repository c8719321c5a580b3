package controllers

import (
	"archivist/internal/models"
	"fmt"
	"io"
	"net/http"
)

func (ac *ApiController) CreateBackup(w http.ResponseWriter, r *http.Request) {
	id, err := ac.service.CreateBackup()
	result := models.Success("Backup created successfully")
	result.BackupID = id
	ac.writeResult(w, r, result, err)
}

func (ac *ApiController) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !ac.decodeRequest(w, r, &req) {
		return
	}
	ac.writeResult(w, r, models.Success("Backup restored successfully"), ac.service.RestoreBackup(req.ID))
}

func (ac *ApiController) ListBackups(w http.ResponseWriter, _ *http.Request) {
	ac.serveFromCacheOrCompute(w, "backups", func() (any, error) {
		return ac.service.ListBackups(), nil
	})
}

func (ac *ApiController) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !ac.decodeRequest(w, r, &req) {
		return
	}
	ac.writeResult(w, r, models.Success("Backup deleted successfully"), ac.service.DeleteBackup(req.ID))
}

func (ac *ApiController) ExportData(w http.ResponseWriter, r *http.Request) {
	exported, err := ac.service.ExportData()
	result := models.Result{Success: true}
	if err == nil {
		result.Data = exported.Data
		result.Filename = exported.Filename
	}
	ac.writeResult(w, r, result, err)
}

// ImportData takes the export envelope as the raw request body.
func (ac *ApiController) ImportData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	imported, err := ac.service.ImportData(body)
	var result models.Result
	if err == nil {
		result = models.Success(fmt.Sprintf("Successfully imported %d prompts", imported.Imported))
		result.Imported = &imported.Imported
		result.Total = &imported.Total
	}
	ac.writeResult(w, r, result, err)
}

func (ac *ApiController) ResetData(w http.ResponseWriter, r *http.Request) {
	ac.writeResult(w, r, models.Success("Data reset successfully"), ac.service.ResetData())
}

func (ac *ApiController) ValidateData(w http.ResponseWriter, _ *http.Request) {
	ac.writeJSON(w, ac.service.ValidateData())
}

func (ac *ApiController) PerformMaintenance(w http.ResponseWriter, r *http.Request) {
	report, err := ac.service.PerformMaintenance()
	if err != nil {
		ac.writeResult(w, r, models.Result{}, err)
		return
	}
	ac.writeJSON(w, report)
}
