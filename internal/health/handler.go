package health

import "net/http"

// TextHandler answers every request with 200 and message as a plain text body.
func TextHandler(message string) http.HandlerFunc {
	body := []byte(message)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
