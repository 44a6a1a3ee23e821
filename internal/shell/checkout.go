package shell

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/swadseva/ordering/internal/client"
	"github.com/swadseva/ordering/internal/service/models/currency"
	"github.com/swadseva/ordering/internal/service/models/order"
)

const (
	fieldName = iota
	fieldPhone
	fieldEmail
	fieldAddress
	fieldNotes
	fieldCount
)

type checkoutForm struct {
	inputs    []textinput.Model
	focused   int
	orderType order.Type
}

func newCheckoutForm() checkoutForm {
	placeholders := [fieldCount]string{
		fieldName:    "Full name",
		fieldPhone:   "Phone number",
		fieldEmail:   "Email (optional)",
		fieldAddress: "Delivery address",
		fieldNotes:   "Notes for the kitchen (optional)",
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.Width = 48
		inputs[i] = in
	}
	inputs[fieldPhone].CharLimit = 15

	return checkoutForm{inputs: inputs, orderType: order.TypeDelivery}
}

// skipped reports whether field i is hidden for the current order type.
func (f *checkoutForm) skipped(i int) bool {
	return i == fieldAddress && f.orderType == order.TypeTakeaway
}

func (f *checkoutForm) focus(i int) tea.Cmd {
	if f.skipped(i) {
		i = fieldNotes
	}
	f.focused = i

	for j := range f.inputs {
		f.inputs[j].Blur()
	}

	return f.inputs[f.focused].Focus()
}

// move shifts focus by delta, wrapping around and stepping over hidden fields.
func (f *checkoutForm) move(delta int) tea.Cmd {
	next := (f.focused + delta + fieldCount) % fieldCount
	if f.skipped(next) {
		next = (next + delta + fieldCount) % fieldCount
	}

	return f.focus(next)
}

func (f *checkoutForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// request builds the order request, or an error naming the first missing field.
func (f *checkoutForm) request(m Model) (client.CheckoutRequest, error) {
	req := client.CheckoutRequest{
		CustomerName:  f.value(fieldName),
		CustomerPhone: f.value(fieldPhone),
		CustomerEmail: f.value(fieldEmail),
		RestaurantID:  m.cart.Restaurant().ID,
		OrderType:     f.orderType,
		Items:         m.cart.CheckoutLines(),
		Notes:         f.value(fieldNotes),
	}
	if f.orderType == order.TypeDelivery {
		req.DeliveryAddress = f.value(fieldAddress)
	}

	switch {
	case req.CustomerName == "":
		return req, errors.New("please enter your name")
	case req.CustomerPhone == "":
		return req, errors.New("please enter your phone number")
	case req.OrderType == order.TypeDelivery && req.DeliveryAddress == "":
		return req, errors.New("please enter a delivery address")
	case len(req.Items) == 0:
		return req, errors.New("your cart is empty")
	}

	return req, nil
}

func (m Model) updateCheckout(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.loading {
		switch key.String() {
		case "esc":
			m.view = viewCart
			m.err = nil

			return m, nil
		case "tab", "down":
			return m, m.checkout.move(1)
		case "shift+tab", "up":
			return m, m.checkout.move(-1)
		case "ctrl+t":
			if m.checkout.orderType == order.TypeDelivery {
				m.checkout.orderType = order.TypeTakeaway
			} else {
				m.checkout.orderType = order.TypeDelivery
			}

			return m, m.checkout.focus(m.checkout.focused)
		case "enter":
			if m.checkout.focused != fieldNotes {
				return m, m.checkout.move(1)
			}

			return m.submit()
		case "ctrl+s":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	f := m.checkout.focused
	m.checkout.inputs[f], cmd = m.checkout.inputs[f].Update(msg)

	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.checkout.request(m)
	if err != nil {
		m.err = err

		return m, nil
	}

	m.err = nil
	m.loading = true
	apiClient := m.api

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		o, err := apiClient.CreateOrder(ctx, req)
		if err != nil {
			return errMsg{err: err}
		}

		return orderPlacedMsg{order: o}
	}
}

func (m Model) checkoutView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Checkout"))
	b.WriteString("\n\n")

	kind := "Home delivery"
	if m.checkout.orderType == order.TypeTakeaway {
		kind = "Takeaway"
	}
	b.WriteString("Order type: " + selectedStyle.Render(kind) + mutedStyle.Render("  (ctrl+t to switch)") + "\n\n")

	for i, in := range m.checkout.inputs {
		if i == fieldAddress && m.checkout.orderType == order.TypeTakeaway {
			continue
		}
		b.WriteString(in.View() + "\n")
	}

	b.WriteString("\nTotal: " + selectedStyle.Render(currency.Default.Format(m.cart.TotalWithTax())) + " incl. 5% tax\n\n")
	b.WriteString(mutedStyle.Render("tab: next field · enter on notes or ctrl+s: place order · esc: back to cart"))

	return b.String()
}
