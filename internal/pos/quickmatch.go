package pos

import (
	"strings"

	"github.com/mrodal/stockpos/internal/core/domain"
)

// MaxSuggestions caps the suggestion list exposed after an ambiguous
// query.
const MaxSuggestions = 5

// Resolver turns a single text input into a product selection action.
// An exact SKU match wins over a fuzzy name match, so barcode-scanner
// input resolves in one step while manual search falls back to a
// suggestion list.
type Resolver struct {
	catalog *Catalog
	cart    *Cart

	query       string
	suggestions []domain.Product
	active      int
}

func NewResolver(catalog *Catalog, cart *Cart) *Resolver {
	return &Resolver{catalog: catalog, cart: cart}
}

// Resolve runs the full resolution algorithm on the input.
//
// Zero candidates signal domain.ErrNoMatch. A single candidate is added
// to the cart directly, unless it is out of stock. Two or more
// candidates open the suggestion list, in catalog order, without
// touching the cart.
func (r *Resolver) Resolve(input string) error {
	r.query = input
	r.closeList()

	needle := fold(input)
	if needle == "" {
		return domain.ErrNoMatch
	}

	if p, ok := r.matchSKU(needle); ok {
		return r.take(p)
	}

	candidates := r.matchName(needle)
	switch len(candidates) {
	case 0:
		return domain.ErrNoMatch
	case 1:
		return r.take(candidates[0])
	}

	if len(candidates) > MaxSuggestions {
		candidates = candidates[:MaxSuggestions]
	}
	r.suggestions = candidates
	r.active = 0
	return nil
}

// Submit models the enter key: with an open suggestion list it selects
// the active suggestion, otherwise it resolves the current text.
func (r *Resolver) Submit(input string) error {
	if r.Open() {
		return r.SelectActive()
	}
	return r.Resolve(input)
}

// Select picks one suggestion. Selecting an out-of-stock product keeps
// the list open; otherwise the product is added, the query cleared and
// the list closed.
func (r *Resolver) Select(i int) error {
	if i < 0 || i >= len(r.suggestions) {
		return domain.ErrNoMatch
	}
	return r.take(r.suggestions[i])
}

func (r *Resolver) SelectActive() error {
	return r.Select(r.active)
}

// MoveDown advances the active suggestion, wrapping from last to first.
func (r *Resolver) MoveDown() {
	if n := len(r.suggestions); n > 0 {
		r.active = (r.active + 1) % n
	}
}

// MoveUp retreats the active suggestion, wrapping from first to last.
func (r *Resolver) MoveUp() {
	if n := len(r.suggestions); n > 0 {
		r.active = (r.active - 1 + n) % n
	}
}

// Close discards the suggestion list without adding anything.
func (r *Resolver) Close() {
	r.closeList()
}

func (r *Resolver) Open() bool {
	return len(r.suggestions) > 0
}

func (r *Resolver) Suggestions() []domain.Product {
	out := make([]domain.Product, len(r.suggestions))
	copy(out, r.suggestions)
	return out
}

func (r *Resolver) Active() int {
	return r.active
}

// Query returns the pending input text, empty after a successful add.
func (r *Resolver) Query() string {
	return r.query
}

func (r *Resolver) take(p domain.Product) error {
	if !p.InStock() {
		return domain.ErrOutOfStock
	}
	r.cart.AddItem(p.ID)
	r.query = ""
	r.closeList()
	return nil
}

// matchSKU reports the unique product whose SKU equals the folded
// input. Empty SKUs never match; a duplicated SKU falls back to the
// name search.
func (r *Resolver) matchSKU(needle string) (domain.Product, bool) {
	var (
		found domain.Product
		n     int
	)
	for _, p := range r.catalog.Products() {
		if p.SKU != "" && fold(p.SKU) == needle {
			found = p
			n++
		}
	}
	return found, n == 1
}

func (r *Resolver) matchName(needle string) []domain.Product {
	var out []domain.Product
	for _, p := range r.catalog.Products() {
		if strings.Contains(fold(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Resolver) closeList() {
	r.suggestions = nil
	r.active = 0
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
