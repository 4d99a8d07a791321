package scout

// Tool results carry a status field instead of failing the run: the model
// reads the error message and works around missing data conversationally.

const (
	statusSuccess = "success"
	statusError   = "error"
)

type status struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func okStatus() status {
	return status{Status: statusSuccess}
}

func errStatus(err error) status {
	return status{Status: statusError, ErrorMessage: err.Error()}
}

func errMessage(msg string) status {
	return status{Status: statusError, ErrorMessage: msg}
}
