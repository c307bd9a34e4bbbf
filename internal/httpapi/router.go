package httpapi

import "net/http"

// NewMux routes the jobs backend.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	jh := JobsHandler{DB: d.DB, Hub: d.Hub, Now: d.Now}
	mux.HandleFunc(JobsPath, MethodMux(map[string]http.HandlerFunc{
		http.MethodGet:  jh.List,
		http.MethodPost: jh.Create,
		http.MethodPut:  jh.Update,
	}))
	mux.HandleFunc(JobsPath+"/", jh.ByPath)

	hh := HealthHandler{DB: d.DB}
	mux.HandleFunc("/health", MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	if d.Hub != nil {
		eh := EventsHandler{Hub: d.Hub}
		mux.HandleFunc("/events", MethodMux(map[string]http.HandlerFunc{
			http.MethodGet: eh.ServeSSE,
		}))
	}
	return mux
}

// NewHandler is NewMux behind the standard middleware.
func NewHandler(d Deps) http.Handler {
	return Standard(NewMux(d))
}
