package domain

import (
	"strconv"
	"strings"
)

// LineItem is one product entry in the cart.
type LineItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Cart is the ordered list of line items, keyed by normalized ID.
// Insertion order is preserved; the JSON form is the persisted wire form.
type Cart []LineItem

// Summary aggregates the cart for display and checkout.
type Summary struct {
	Items Cart
	Total float64
	Count int
}

// Find returns the index of the line with the given normalized id, or -1.
func (c Cart) Find(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) Summarize() Summary {
	s := Summary{Items: c}
	for _, it := range c {
		s.Total += it.Price * float64(it.Qty)
		s.Count += it.Qty
	}
	return s
}

// NormalizeID canonicalizes an identifier: trimmed, internal whitespace
// runs collapsed to a single hyphen, lowercased. Empty input stays empty.
func NormalizeID(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), "-"))
}

// ParsePrice extracts a number from displayed price text. The text is
// expected in es-CO style: "." groups thousands, "," marks decimals, so
// "$1.234,56" parses to 1234.56. Unparsable input yields 0.
func ParsePrice(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatPrice is the inverse of ParsePrice: "." groups thousands and ","
// marks decimals. Whole values render without a decimal part.
func FormatPrice(v float64) string {
	fixed := strconv.FormatFloat(v, 'f', 2, 64)

	intPart, frac, _ := strings.Cut(fixed, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ".")
	if neg {
		out = "-" + out
	}
	if frac != "00" {
		out += "," + frac
	}
	return out
}
