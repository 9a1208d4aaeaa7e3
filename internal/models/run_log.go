package models

// RunStatus is the outcome of a provider run
type RunStatus string

const (
	RunSucceeded RunStatus = "success"
	RunFailed    RunStatus = "failed"
)

// RunLog is a persisted RunReport with its outcome
type RunLog struct {
	RunReport
	Status RunStatus `json:"status"`
	Error  *string   `json:"error,omitempty"`
}

// NewRunLog builds the log entry of a finished run
func NewRunLog(report RunReport, err error) *RunLog {
	log := &RunLog{RunReport: report, Status: RunSucceeded}
	if err != nil {
		msg := err.Error()
		log.Status = RunFailed
		log.Error = &msg
	}
	return log
}
