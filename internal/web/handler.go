package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	cartapp "github.com/dgquintero/carrito/internal/cart/app"
	cartdomain "github.com/dgquintero/carrito/internal/cart/domain"
	catalogapp "github.com/dgquintero/carrito/internal/catalog/app"
	checkoutapp "github.com/dgquintero/carrito/internal/checkout/app"
)

// Handler projects cart state into HTML pages and translates form posts
// into service calls.
type Handler struct {
	cart     *cartapp.Service
	catalog  *catalogapp.Service
	checkout *checkoutapp.Service
	log      *slog.Logger
}

func NewHandler(cart *cartapp.Service, catalog *catalogapp.Service, checkout *checkoutapp.Service, log *slog.Logger) *Handler {
	return &Handler{cart: cart, catalog: catalog, checkout: checkout, log: log}
}

// Router wires one route per interaction kind.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", h.storefront).Methods(http.MethodGet)
	r.HandleFunc("/cart", h.cartView).Methods(http.MethodGet)
	r.HandleFunc("/cart/badge", h.badge).Methods(http.MethodGet)
	r.HandleFunc("/cart/items", h.addItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}/increment", h.increment).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}/decrement", h.decrement).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}/quantity", h.setQuantity).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}/remove", h.removeItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/clear", h.clearCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/checkout", h.doCheckout).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.orders).Methods(http.MethodGet)

	return r
}

func (h *Handler) storefront(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.log.Error("list products", slog.Any("err", err))
	}

	page := storefrontPage{Badge: h.badgeText()}
	for _, p := range products {
		page.Products = append(page.Products, productCard{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			PriceText:   cartdomain.FormatPrice(float64(p.Price.Amount)),
		})
	}
	h.render(w, "index.html", page)
}

func (h *Handler) cartView(w http.ResponseWriter, r *http.Request) {
	h.renderCart(w, "", false, false)
}

// badge writes the item count, or an empty body when the cart is empty.
func (h *Handler) badge(w http.ResponseWriter, r *http.Request) {
	count := h.cart.Summary().Count
	text := ""
	if count > 0 {
		text = strconv.Itoa(count)
	}
	h.writeFragment(w, text)
}

// addItem accepts the same attribute fallbacks the storefront markup
// carries: id|product_id|name, name|title|product, price|price_text.
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	id := firstValue(r, "id", "product_id", "name")
	name := firstValue(r, "name", "title", "product")

	var price float64
	if raw := r.PostFormValue("price"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			p = cartdomain.ParsePrice(raw)
		}
		price = p
	} else {
		price = cartdomain.ParsePrice(r.PostFormValue("price_text"))
	}

	qty, err := strconv.Atoi(r.PostFormValue("qty"))
	if err != nil {
		qty = 1
	}

	err = h.cart.AddItem(r.Context(), cartapp.AddItemInput{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Price: price,
		Qty:   qty,
	})
	if errors.Is(err, cartapp.ErrInvalidInput) {
		http.Error(w, "item id or name is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.fail(w, "add item", err)
		return
	}

	back := r.Referer()
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) increment(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, +1)
}

func (h *Handler) decrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, -1)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request, delta int) {
	if err := h.cart.AdjustQuantity(r.Context(), mux.Vars(r)["id"], delta); err != nil {
		h.fail(w, "adjust quantity", err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(r.PostFormValue("qty"))
	if err != nil {
		qty = 1
	}
	if err := h.cart.UpdateQuantity(r.Context(), mux.Vars(r)["id"], qty); err != nil {
		h.fail(w, "update quantity", err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.RemoveItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, "remove item", err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		h.fail(w, "clear cart", err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) doCheckout(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.Checkout(r.Context())
	switch {
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		h.renderCart(w, "El carrito está vacío.", false, false)
	case errors.Is(err, checkoutapp.ErrInProgress):
		h.renderCart(w, "Procesando compra...", false, true)
	case err != nil:
		h.log.Error("checkout", slog.Any("err", err))
		h.renderCart(w, "No se pudo completar la compra.", false, false)
	default:
		msg := fmt.Sprintf("Compra realizada con éxito. Pedido %s. ¡Gracias por tu compra!", order.ID)
		h.renderCart(w, msg, true, false)
	}
}

func (h *Handler) orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkout.ListOrders(r.Context())
	if err != nil {
		h.log.Error("list orders", slog.Any("err", err))
	}

	page := ordersPage{Badge: h.badgeText()}
	for _, o := range orders {
		view := orderView{
			ID:        o.ID,
			Status:    o.Status,
			CreatedAt: o.CreatedAt.Format("2006-01-02 15:04"),
			TotalText: cartdomain.FormatPrice(o.Total),
		}
		for _, line := range o.Lines {
			view.Lines = append(view.Lines, orderLineView{
				Name:          line.Name,
				Qty:           line.Qty,
				LineTotalText: cartdomain.FormatPrice(line.LineTotal),
			})
		}
		page.Orders = append(page.Orders, view)
	}
	h.render(w, "orders.html", page)
}

func (h *Handler) renderCart(w http.ResponseWriter, status string, ok, processing bool) {
	summary := h.cart.Summary()

	page := cartPage{
		Badge:      h.badgeText(),
		TotalText:  cartdomain.FormatPrice(summary.Total),
		Status:     status,
		StatusOK:   ok,
		Processing: processing,
	}
	for _, it := range summary.Items {
		page.Rows = append(page.Rows, cartRow{
			ID:        it.ID,
			Name:      it.Name,
			PriceText: cartdomain.FormatPrice(it.Price),
			Qty:       it.Qty,
		})
	}
	h.render(w, "cart.html", page)
}

func (h *Handler) badgeText() string {
	if count := h.cart.Summary().Count; count > 0 {
		return strconv.Itoa(count)
	}
	return ""
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("render", slog.String("template", name), slog.Any("err", err))
	}
}

// writeFragment emits a bare HTML fragment. Text goes through escapeText
// because nothing else escapes it on this path.
func (h *Handler) writeFragment(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(escapeText(text))); err != nil {
		h.log.Error("write fragment", slog.Any("err", err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.log.Error(op, slog.Any("err", err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// firstValue returns the first non-empty form field among names.
func firstValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.PostFormValue(name); v != "" {
			return v
		}
	}
	return ""
}
