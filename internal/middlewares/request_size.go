package middlewares

import (
	"net/http"
)

// RequestSizeLimitMiddleware caps bodies of POST, PUT and PATCH requests at maxRequestSize bytes.
// A declared Content-Length over the cap is refused before the handler runs;
// undeclared bodies are cut off by http.MaxBytesReader and reported by the handler's decoder.
func RequestSizeLimitMiddleware(maxRequestSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !carriesBody(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > maxRequestSize {
				WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			next.ServeHTTP(w, r)
		})
	}
}

func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
