// Package routes holds the route table for the API. Handlers are registered
// from it and hypermedia links are rendered from it, so the two cannot drift
// apart when a path changes.
package routes

import (
	"net/url"
	"regexp"
	"strings"
)

type Route struct {
	Name   string
	Method string
	Path   string
}

var (
	CustomersList  = Route{Name: "customers.list", Method: "GET", Path: "/api/customers"}
	CustomerGet    = Route{Name: "customers.get", Method: "GET", Path: "/api/customers/{email}"}
	CustomerCreate = Route{Name: "customers.create", Method: "POST", Path: "/api/customers"}
	CustomerUpdate = Route{Name: "customers.update", Method: "PUT", Path: "/api/customers"}
	CustomerDelete = Route{Name: "customers.delete", Method: "DELETE", Path: "/api/customers/{email}"}

	OrdersList  = Route{Name: "orders.list", Method: "GET", Path: "/api/orders"}
	OrderGet    = Route{Name: "orders.get", Method: "GET", Path: "/api/orders/{orderId}"}
	OrderCreate = Route{Name: "orders.create", Method: "POST", Path: "/api/orders"}
	OrderUpdate = Route{Name: "orders.update", Method: "PUT", Path: "/api/orders/{orderId}"}
	OrderDelete = Route{Name: "orders.delete", Method: "DELETE", Path: "/api/orders/{orderId}"}

	ProductsList          = Route{Name: "products.list", Method: "GET", Path: "/api/products"}
	ProductGet            = Route{Name: "products.get", Method: "GET", Path: "/api/products/{productId}"}
	ProductCreate         = Route{Name: "products.create", Method: "POST", Path: "/api/products"}
	ProductCreateMultiple = Route{Name: "products.create_multiple", Method: "POST", Path: "/api/products/multiple"}
	ProductUpdate         = Route{Name: "products.update", Method: "PUT", Path: "/api/products"}
	ProductDelete         = Route{Name: "products.delete", Method: "DELETE", Path: "/api/products/{productId}"}
)

var Table = []Route{
	CustomersList, CustomerGet, CustomerCreate, CustomerUpdate, CustomerDelete,
	OrdersList, OrderGet, OrderCreate, OrderUpdate, OrderDelete,
	ProductsList, ProductGet, ProductCreate, ProductCreateMultiple, ProductUpdate, ProductDelete,
}

// Pattern returns the ServeMux registration pattern, e.g. "GET /api/orders/{orderId}".
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

var placeholder = regexp.MustCompile(`\{[^{}]+\}`)

// Href renders a concrete URL path by substituting path parameters in
// declaration order. Parameters beyond the placeholders are ignored.
func (r Route) Href(params ...string) string {
	href := r.Path
	for _, p := range params {
		loc := placeholder.FindStringIndex(href)
		if loc == nil {
			break
		}
		href = href[:loc[0]] + url.PathEscape(p) + href[loc[1]:]
	}
	return href
}

// Params lists the placeholder names of the route path.
func (r Route) Params() []string {
	var names []string
	for _, m := range placeholder.FindAllString(r.Path, -1) {
		names = append(names, strings.Trim(m, "{}"))
	}
	return names
}
