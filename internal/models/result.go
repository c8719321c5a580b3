package models

// Result is the envelope returned to UI callers for every backup and data
// operation. Failures never escape as transport errors.
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	BackupID string `json:"backupId,omitempty"`
	Data     any    `json:"data,omitempty"`
	Filename string `json:"filename,omitempty"`
	Imported *int   `json:"imported,omitempty"`
	Total    *int   `json:"total,omitempty"`
}

func Success(message string) Result {
	return Result{Success: true, Message: message}
}

func Failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}
