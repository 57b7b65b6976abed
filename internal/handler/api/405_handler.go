package api

import "net/http"

func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: r.Method + " is not allowed on " + r.URL.Path})
	}
}
