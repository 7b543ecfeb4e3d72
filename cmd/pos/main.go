// Command pos is a line-driven point-of-sale terminal. It keeps a local
// catalog cache and cart, resolves operator input against the catalog
// and submits confirmed sales to the stockpos server.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mrodal/stockpos/internal/adapter/apiclient"
	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/pos"
	"github.com/mrodal/stockpos/pkg/sigctx"
	"github.com/spf13/pflag"
)

func main() {
	serverURL := pflag.String("server", "http://localhost:8080", "stockpos server URL")
	pflag.Parse()

	ctx, cancel := sigctx.NotifyContext()
	defer cancel()

	client, err := apiclient.New(*serverURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid server URL: %v\n", err)
		os.Exit(2)
	}

	term := newTerminal(client)
	if err := term.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type terminal struct {
	catalog  *pos.Catalog
	cart     *pos.Cart
	resolver *pos.Resolver
	history  *pos.History
	checkout *pos.Checkout
}

func newTerminal(client *apiclient.Client) *terminal {
	catalog := pos.NewCatalog(client)
	cart := pos.NewCart(catalog)
	history := pos.NewHistory(client)
	return &terminal{
		catalog:  catalog,
		cart:     cart,
		resolver: pos.NewResolver(catalog, cart),
		history:  history,
		checkout: pos.NewCheckout(cart, catalog, client, history),
	}
}

func (t *terminal) run(ctx context.Context) error {
	if err := t.catalog.Refresh(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	fmt.Printf("catalog loaded: %d products\n", t.catalog.Len())
	fmt.Println(`type a SKU or product name to add an item, "help" for commands`)

	sc := bufio.NewScanner(os.Stdin)
	for {
		t.prompt()
		if !sc.Scan() {
			return sc.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		t.dispatch(ctx, line)
	}
}

func (t *terminal) prompt() {
	if t.checkout.State() == pos.StateAwaitingConfirmation {
		fmt.Printf("confirm sale of %.2f via %s? (confirm/cancel) ",
			t.cart.Total(), t.checkout.PaymentMethod())
		return
	}
	fmt.Print("> ")
}

func (t *terminal) dispatch(ctx context.Context, line string) {
	cmd, rest, _ := strings.Cut(line, " ")

	switch cmd {
	case "help":
		t.printHelp()
	case "cart":
		t.printCart()
	case "up":
		t.resolver.MoveUp()
		t.printSuggestions()
	case "down":
		t.resolver.MoveDown()
		t.printSuggestions()
	case "esc":
		t.resolver.Close()
	case "qty":
		t.updateQuantity(rest)
	case "rm":
		t.removeLine(rest)
	case "pay":
		t.setPayment(rest)
	case "checkout":
		t.beginCheckout()
	case "confirm":
		t.confirmCheckout(ctx)
	case "cancel":
		t.cancelCheckout()
	case "refresh":
		t.refresh(ctx)
	case "sales":
		t.printSales(ctx)
	default:
		t.scan(line)
	}
}

func (t *terminal) scan(input string) {
	err := t.resolver.Submit(input)
	switch {
	case err == nil:
		if t.resolver.Open() {
			t.printSuggestions()
			return
		}
		t.printCart()
	case errors.Is(err, domain.ErrNoMatch):
		fmt.Printf("no product matches %q\n", input)
	case errors.Is(err, domain.ErrOutOfStock):
		fmt.Println("product is out of stock")
	default:
		fmt.Printf("error: %v\n", err)
	}
}

func (t *terminal) printSuggestions() {
	if !t.resolver.Open() {
		return
	}
	for i, p := range t.resolver.Suggestions() {
		marker := "  "
		if i == t.resolver.Active() {
			marker = "> "
		}
		fmt.Printf("%s%d. %s (%s) %.2f, stock %d\n",
			marker, i+1, p.Name, p.SKU, p.Price, p.Stock)
	}
	fmt.Println(`use "up"/"down" to move, enter the query again to take, "esc" to dismiss`)
}

func (t *terminal) printCart() {
	if t.cart.Len() == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range t.cart.Lines() {
		fmt.Printf("  #%d %s x%d @ %.2f = %.2f\n",
			l.ProductID, l.Name, l.Qty, l.UnitPrice, l.Subtotal())
	}
	fmt.Printf("total: %.2f\n", t.cart.Total())
}

func (t *terminal) updateQuantity(rest string) {
	idRaw, qtyRaw, ok := strings.Cut(strings.TrimSpace(rest), " ")
	if !ok {
		fmt.Println("usage: qty <product-id> <quantity>")
		return
	}
	id, err := parseID(idRaw)
	if err != nil {
		fmt.Println("invalid product id")
		return
	}
	t.cart.UpdateQuantityInput(id, strings.TrimSpace(qtyRaw))
	t.printCart()
}

func (t *terminal) removeLine(rest string) {
	id, err := parseID(strings.TrimSpace(rest))
	if err != nil {
		fmt.Println("usage: rm <product-id>")
		return
	}
	t.cart.RemoveItem(id)
	t.printCart()
}

func (t *terminal) setPayment(rest string) {
	m := domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(rest)))
	if err := t.checkout.SetPaymentMethod(m); err != nil {
		fmt.Printf("unknown payment method, expected one of: %s\n",
			joinMethods())
		return
	}
	fmt.Printf("payment method: %s\n", m)
}

func (t *terminal) beginCheckout() {
	if err := t.checkout.Begin(); err != nil {
		if errors.Is(err, domain.ErrCartEmpty) {
			fmt.Println("cart is empty, nothing to check out")
			return
		}
		fmt.Printf("error: %v\n", err)
	}
}

func (t *terminal) confirmCheckout(ctx context.Context) {
	sale, err := t.checkout.Confirm(ctx)
	switch {
	case err == nil:
		fmt.Printf("sale #%d committed, total %.2f\n", sale.ID, sale.Total)
	case errors.Is(err, pos.ErrNotConfirming):
		fmt.Println(`nothing to confirm, run "checkout" first`)
	case errors.Is(err, pos.ErrRefresh):
		// The sale went through; only the resync failed.
		fmt.Printf("sale #%d committed, total %.2f\n", sale.ID, sale.Total)
		fmt.Printf("warning: resync failed: %v\n", err)
	default:
		var remote *domain.RemoteError
		if errors.As(err, &remote) {
			fmt.Printf("sale rejected: %s\n", remote.Detail)
			return
		}
		fmt.Printf("sale failed: %v\n", err)
	}
}

func (t *terminal) cancelCheckout() {
	if err := t.checkout.Cancel(); err != nil {
		fmt.Println("nothing to cancel")
	}
}

func (t *terminal) refresh(ctx context.Context) {
	if err := t.catalog.Refresh(ctx); err != nil {
		fmt.Printf("refresh failed: %v\n", err)
		return
	}
	fmt.Printf("catalog refreshed: %d products\n", t.catalog.Len())
}

func (t *terminal) printSales(ctx context.Context) {
	if err := t.history.Refresh(ctx); err != nil {
		fmt.Printf("load sales failed: %v\n", err)
		return
	}
	sales := t.history.Sales()
	if len(sales) == 0 {
		fmt.Println("no sales yet")
		return
	}
	for _, s := range sales {
		fmt.Printf("  #%d %s %.2f %s\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Total, s.PaymentMethod)
	}
}

func (t *terminal) printHelp() {
	fmt.Print(`commands:
  <text>           add product by SKU or name
  up / down / esc  navigate or dismiss suggestions
  qty <id> <n>     set line quantity
  rm <id>          remove line
  cart             show cart
  pay <method>     set payment method (` + joinMethods() + `)
  checkout         start checkout
  confirm / cancel finish or abort checkout
  refresh          reload catalog
  sales            show recent sales
  quit             exit
`)
}

func parseID(s string) (int64, error) {
	var id int64
	_, err := fmt.Sscanf(s, "%d", &id)
	return id, err
}

func joinMethods() string {
	ms := domain.PaymentMethods()
	ss := make([]string, len(ms))
	for i, m := range ms {
		ss[i] = string(m)
	}
	return strings.Join(ss, ", ")
}
