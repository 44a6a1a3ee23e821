package shell

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/swadseva/ordering/internal/cart"
	"github.com/swadseva/ordering/internal/service/models/currency"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
)

type menuEntry struct {
	item menuitem.MenuItem
}

func (e menuEntry) Title() string {
	if !e.item.IsAvailable {
		return e.item.Name + " (sold out)"
	}

	return e.item.Name
}

func (e menuEntry) Description() string {
	desc := currency.Default.Format(e.item.Price)
	if e.item.Category != "" {
		desc += " · " + e.item.Category
	}
	if e.item.Description != "" {
		desc += " · " + e.item.Description
	}

	return desc
}

func (e menuEntry) FilterValue() string { return e.item.Name }

func menuItems(items []menuitem.MenuItem) []list.Item {
	entries := make([]list.Item, len(items))
	for i, it := range items {
		entries[i] = menuEntry{item: it}
	}

	return entries
}

// cartItem snapshots a menu item into a cart line.
func (m Model) cartItem(it menuitem.MenuItem) cart.Item {
	return cart.Item{
		ID:             it.ID,
		Name:           it.Name,
		Price:          it.Price,
		RestaurantID:   m.menu.Restaurant.ID,
		RestaurantName: m.menu.Restaurant.Name,
		ImageURL:       it.ImageURL,
		Category:       it.Category,
	}
}

func (m Model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.view = viewRestaurants
			m.status = ""

			return m, nil
		case "c":
			m.view = viewCart
			m.status = ""

			return m, nil
		case "enter", "a":
			selected, ok := m.menuList.SelectedItem().(menuEntry)
			if !ok {
				return m, nil
			}
			if !selected.item.IsAvailable {
				m.status = selected.item.Name + " is sold out"

				return m, nil
			}

			item := m.cartItem(selected.item)
			if m.cart.NeedsConfirmation(item) {
				m.pending = &item
				m.view = viewConfirm

				return m, nil
			}

			m.cart.Add(item, 1, nil)
			m.status = fmt.Sprintf("Added %s · cart has %d items", item.Name, m.cart.TotalItems())

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.menuList, cmd = m.menuList.Update(msg)

	return m, cmd
}

func (m Model) menuView() string {
	help := mutedStyle.Render("enter: add to cart · c: cart · esc: back · ctrl+c: quit")

	return m.menuList.View() + "\n" + help
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.pending == nil {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		item := *m.pending
		m.cart.Add(item, 1, func(string, string) bool { return true })
		m.status = fmt.Sprintf("Cart cleared · added %s from %s", item.Name, item.RestaurantName)
	case "n", "N", "esc":
		m.status = "Kept your cart"
	default:
		return m, nil
	}

	m.pending = nil
	m.view = viewMenu

	return m, nil
}

func (m Model) confirmView() string {
	if m.pending == nil {
		return ""
	}

	return fmt.Sprintf(
		"%s\n\nYour cart has items from %s.\nClear it and add %s from %s? (y/n)",
		titleStyle.Render("Replace cart?"),
		selectedStyle.Render(m.cart.Restaurant().Name),
		m.pending.Name,
		selectedStyle.Render(m.pending.RestaurantName),
	)
}
