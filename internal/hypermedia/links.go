// Package hypermedia builds the action-discovery links embedded in product
// responses. Which links a response carries depends on the verb that
// produced it, so a client always sees the transitions still available.
package hypermedia

import (
	"fmt"
	"net/http"

	"github.com/mkrogh/shop-backend/internal/routes"
)

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// BuildProductLinks returns the link set for a product response produced by
// the given verb. An unrecognized verb is a programming error, not user
// input, and yields an error the handler must treat as fatal to the request.
func BuildProductLinks(productID, verb string) ([]Link, error) {
	self := Link{
		Href:   routes.ProductGet.Href(productID),
		Rel:    "self",
		Method: http.MethodGet,
	}
	del := Link{
		Href:   routes.ProductDelete.Href(productID),
		Rel:    "delete_product",
		Method: http.MethodDelete,
	}
	update := Link{
		Href:   routes.ProductUpdate.Href(),
		Rel:    "update_product",
		Method: http.MethodPut,
	}

	switch verb {
	case http.MethodGet:
		return []Link{del, update}, nil
	case http.MethodPut:
		return []Link{self, del}, nil
	case http.MethodPost:
		return []Link{self, del, update}, nil
	default:
		return nil, fmt.Errorf("hypermedia: unsupported verb %q", verb)
	}
}
