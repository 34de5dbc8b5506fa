package providers

import (
	"net/http"

	"babylog/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Put(url string, handler http.Handler)
	Delete(url string, handler http.Handler)
	NotFound(handler http.Handler)
	GetRoutes() []structures.Route
	GetNotFound() http.Handler
}

type RouterProvider struct {
	routes   []structures.Route
	notFound http.Handler
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Method:  method,
		Url:     url,
		Handler: handler,
	})
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) Put(url string, handler http.Handler) {
	rp.add(http.MethodPut, url, handler)
}

func (rp *RouterProvider) Delete(url string, handler http.Handler) {
	rp.add(http.MethodDelete, url, handler)
}

// NotFound sets the handler for requests no route matches.
func (rp *RouterProvider) NotFound(handler http.Handler) {
	rp.notFound = handler
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func (rp *RouterProvider) GetNotFound() http.Handler {
	return rp.notFound
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}
