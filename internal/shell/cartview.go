package shell

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/swadseva/ordering/internal/service/models/order"
)

func (m Model) updateCart(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	items := m.cart.Items()
	m.cartCursor = min(m.cartCursor, max(len(items)-1, 0))

	switch key.String() {
	case "esc":
		m.view = viewRestaurants
		if len(m.menu.MenuItems) > 0 {
			m.view = viewMenu
		}
	case "up", "k":
		m.cartCursor = max(m.cartCursor-1, 0)
	case "down", "j":
		m.cartCursor = min(m.cartCursor+1, max(len(items)-1, 0))
	case "+", "=":
		if len(items) > 0 {
			m.cart.Increment(items[m.cartCursor].ID)
		}
	case "-":
		if len(items) > 0 {
			m.cart.Decrement(items[m.cartCursor].ID)
		}
	case "d", "backspace":
		if len(items) > 0 {
			m.cart.Remove(items[m.cartCursor].ID)
			m.cartCursor = max(m.cartCursor-1, 0)
		}
	case "x":
		m.cart.Clear()
		m.cartCursor = 0
	case "enter":
		if m.cart.IsEmpty() {
			m.status = "Your cart is empty"

			return m, nil
		}
		m.status = ""
		m.view = viewCheckout
		if r := m.cart.Restaurant(); r.ID == m.menu.Restaurant.ID && m.menu.Restaurant.IsCanteen {
			m.checkout.orderType = order.TypeTakeaway
		}

		return m, m.checkout.focus(0)
	}

	return m, nil
}

func (m Model) cartView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Your cart"))
	b.WriteString("\n\n")

	items := m.cart.Items()
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("Nothing here yet. Pick a restaurant and add a few dishes."))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("esc: back"))

		return b.String()
	}

	fmt.Fprintf(&b, "From %s\n\n", selectedStyle.Render(m.cart.Restaurant().Name))
	for i, it := range items {
		line := fmt.Sprintf("%-28s ₹%8s × %-2d = ₹%9s",
			it.Name,
			it.Price.StringFixed(2),
			it.Quantity,
			it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2),
		)
		if i == m.cartCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	subtotal := m.cart.TotalPrice()
	total := m.cart.TotalWithTax()
	fmt.Fprintf(&b, "\n  %-44s ₹%9s\n", fmt.Sprintf("Subtotal (%d items)", m.cart.TotalItems()), subtotal.StringFixed(2))
	fmt.Fprintf(&b, "  %-44s ₹%9s\n", "Tax (5%)", total.Sub(subtotal).StringFixed(2))
	fmt.Fprintf(&b, "  %-44s ₹%9s\n\n", "Total", total.StringFixed(2))
	b.WriteString(mutedStyle.Render("+/-: quantity · d: remove · x: clear · enter: checkout · esc: back"))

	return b.String()
}
