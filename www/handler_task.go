package www

import "net/http"

// NewTaskHandler runs task before answering.
func NewTaskHandler(task func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task()
		w.WriteHeader(http.StatusAccepted)
	}
}
