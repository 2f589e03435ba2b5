package providers

import (
	"journald/internal/structures"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
	NotFound(handler http.Handler)
	Handler() http.Handler
}

type RouterProvider struct {
	routes []structures.Route
	mux    *chi.Mux
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Method:  method,
		Handler: handler,
	})
	rp.mux.Method(method, url, handler)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

// Handler returns the mux with every registered route. Unknown paths fall
// through to NotFound, which the app replaces with the static file server.
func (rp *RouterProvider) Handler() http.Handler {
	return rp.mux
}

// NotFound installs the handler used for paths with no registered route.
func (rp *RouterProvider) NotFound(handler http.Handler) {
	rp.mux.NotFound(handler.ServeHTTP)
}

func NewRouterProvider() RouterProviderInterface {
	mux := chi.NewRouter()
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"Method Not Allowed"}`))
	})
	return &RouterProvider{mux: mux}
}
