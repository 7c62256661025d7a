package error

import (
	"encoding/json"
	"fmt"
	"net/http"

	logger "github.com/TykTechnologies/asana-mock/log"
	"github.com/sirupsen/logrus"
)

var log = logger.Get()

const helpText = "For more information on API status codes and how to handle them, read the docs on errors: https://developers.asana.com/docs/errors"

// ErrorObject is a single entry of the errors list returned to API clients
type ErrorObject struct {
	Message string `json:"message"`
	Help    string `json:"help,omitempty"`
}

// APIErrorMessage is the envelope written when a request fails
type APIErrorMessage struct {
	Errors []ErrorObject `json:"errors"`
}

// HandleError is a generic error handler
func HandleError(tag string, errorMsg string, rawErr error, code int, w http.ResponseWriter, r *http.Request) {
	entry := log.WithFields(logrus.Fields{
		"prefix":   tag,
		"errorMsg": errorMsg,
		"code":     code,
	})
	if r != nil {
		entry = entry.WithField("path", r.URL.Path)
	}
	if code >= http.StatusInternalServerError {
		entry.Error(rawErr)
	} else {
		entry.Debug(rawErr)
	}

	errorObj := APIErrorMessage{Errors: []ErrorObject{{Message: errorMsg, Help: helpText}}}
	responseMsg, err := json.Marshal(&errorObj)

	if err != nil {
		log.WithField("prefix", tag).Error("[Error Handler] Couldn't marshal error stats: ", err)
		fmt.Fprintf(w, "System Error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(responseMsg)
}
