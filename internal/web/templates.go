package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// storefrontPage is the view data for index.html.
type storefrontPage struct {
	Badge    string
	Products []productCard
}

type productCard struct {
	ID          string
	Name        string
	Description string
	// PriceText is the formatted amount the page displays; the add flow
	// posts it back and re-parses it.
	PriceText string
}

// cartPage is the view data for cart.html.
type cartPage struct {
	Badge      string
	Rows       []cartRow
	TotalText  string
	Status     string
	StatusOK   bool
	Processing bool
}

type cartRow struct {
	ID        string
	Name      string
	PriceText string
	Qty       int
}

// ordersPage is the view data for orders.html.
type ordersPage struct {
	Badge  string
	Orders []orderView
}

type orderView struct {
	ID        string
	Status    string
	CreatedAt string
	TotalText string
	Lines     []orderLineView
}

type orderLineView struct {
	Name          string
	Qty           int
	LineTotalText string
}
