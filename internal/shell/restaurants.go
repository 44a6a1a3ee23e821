package shell

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

type restaurantItem struct {
	restaurant restaurant.Restaurant
}

func (i restaurantItem) Title() string { return i.restaurant.Name }

func (i restaurantItem) Description() string {
	desc := fmt.Sprintf("★ %s", i.restaurant.Rating.StringFixed(1))
	if i.restaurant.CuisineType != "" {
		desc += " · " + i.restaurant.CuisineType
	}
	if i.restaurant.OperatingHours != "" {
		desc += " · " + i.restaurant.OperatingHours
	}

	return desc
}

func (i restaurantItem) FilterValue() string { return i.restaurant.Name }

func restaurantItems(restaurants []restaurant.Restaurant) []list.Item {
	items := make([]list.Item, len(restaurants))
	for i, r := range restaurants {
		items[i] = restaurantItem{restaurant: r}
	}

	return items
}

func (m Model) updateRestaurants(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.canteen = !m.canteen
			if m.canteen {
				m.restaurants.Title = "Campus canteen"
			} else {
				m.restaurants.Title = "Restaurants"
			}
			m.loading = true

			return m, m.loadRestaurants()
		case "r":
			m.loading = true

			return m, m.loadRestaurants()
		case "c":
			m.view = viewCart
			m.status = ""

			return m, nil
		case "enter":
			selected, ok := m.restaurants.SelectedItem().(restaurantItem)
			if !ok {
				return m, nil
			}
			m.loading = true
			m.status = ""

			return m, m.loadMenu(selected.restaurant.ID)
		}
	}

	var cmd tea.Cmd
	m.restaurants, cmd = m.restaurants.Update(msg)

	return m, cmd
}

func (m Model) restaurantsView() string {
	help := mutedStyle.Render("enter: menu · tab: restaurants/canteen · c: cart · r: refresh · q: quit")
	if n := m.cart.TotalItems(); n > 0 {
		help = fmt.Sprintf("%s\n%s", infoStyle.Render(fmt.Sprintf("Cart: %d items", n)), help)
	}

	return m.restaurants.View() + "\n" + help
}
