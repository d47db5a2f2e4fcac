package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/startupsl/backend/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads ?ordering=-created_at,name: a leading "-" sorts descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindQuery binds the query string of a GET request into filter and returns the requested ordering and page.
func bindQuery(ctx echo.Context, filter interface{}) ([]core.DBOrdering, core.Pagination, error) {
	var page core.Pagination
	if filter != nil {
		if err := ctx.Bind(filter); err != nil {
			return nil, page, err
		}
	}
	if err := ctx.Bind(&page); err != nil {
		return nil, page, err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)
	return ordering.Orderings, page, nil
}

// PageResponse is the envelope of paginated listings.
type PageResponse struct {
	Count    int         `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  interface{} `json:"results"`
}

func newPageResponse(results interface{}, count int, page core.Pagination) PageResponse {
	page.Clean()
	return PageResponse{Count: count, Page: page.Page, PageSize: page.PageSize, Results: results}
}
