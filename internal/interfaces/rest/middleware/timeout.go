package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/rest"
)

var timeoutBody = func() string {
	timeoutErr := application.NewTimeoutError()
	body, _ := json.Marshal(rest.Response{
		Error: &rest.ErrorDetail{Code: timeoutErr.Code, Message: timeoutErr.Message},
	})
	return string(body)
}()

// Timeout bounds each request. A zero duration disables it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}
