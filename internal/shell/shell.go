// Package shell is the terminal storefront: browse restaurants, fill the cart, check out and track the order.
package shell

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/cart"
	"github.com/swadseva/ordering/internal/client"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

const requestTimeout = 10 * time.Second

type api interface {
	ListRestaurants(ctx context.Context, canteen bool) ([]restaurant.Restaurant, error)
	GetMenu(ctx context.Context, restaurantID uuid.UUID) (menuitem.Menu, error)
	CreateOrder(ctx context.Context, req client.CheckoutRequest) (order.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (order.Order, error)
}

type view int

const (
	viewRestaurants view = iota
	viewMenu
	viewConfirm
	viewCart
	viewCheckout
	viewTracking
)

// Model is the root bubbletea model.
type Model struct {
	api          api
	cart         *cart.Cart
	pollInterval time.Duration

	view    view
	canteen bool
	width   int
	height  int
	loading bool
	spinner spinner.Model
	status  string
	err     error

	restaurants list.Model
	menu        menuitem.Menu
	menuList    list.Model
	pending     *cart.Item
	cartCursor  int
	checkout    checkoutForm
	tracking    tracking
}

// New creates the shell. pollInterval is how often a placed order is refreshed.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func New(apiClient api, c *cart.Cart, pollInterval time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		api:          apiClient,
		cart:         c,
		pollInterval: pollInterval,
		view:         viewRestaurants,
		spinner:      s,
		restaurants:  newList("Restaurants"),
		menuList:     newList("Menu"),
		checkout:     newCheckoutForm(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadRestaurants())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.restaurants.SetSize(msg.Width-4, msg.Height-6)
		m.menuList.SetSize(msg.Width-4, msg.Height-8)

		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.tracking.stop()

			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case errMsg:
		m.loading = false
		m.err = msg.err

		return m, nil

	case restaurantsMsg:
		m.loading = false
		m.err = nil
		cmd := m.restaurants.SetItems(restaurantItems(msg.restaurants))

		return m, cmd

	case menuMsg:
		m.loading = false
		m.err = nil
		m.menu = msg.menu
		m.menuList.Title = msg.menu.Restaurant.Name
		m.view = viewMenu
		cmd := m.menuList.SetItems(menuItems(msg.menu.MenuItems))

		return m, cmd

	case orderPlacedMsg:
		m.loading = false
		m.err = nil
		m.cart.Clear()
		m.checkout = newCheckoutForm()
		m.view = viewTracking
		cmd := m.startTracking(msg.order)

		return m, cmd

	case orderUpdateMsg:
		if msg.updates != m.tracking.updates {
			return m, nil
		}
		m.tracking.order = msg.order
		m.tracking.refreshed = time.Now()

		return m, m.tracking.wait()
	}

	switch m.view {
	case viewMenu:
		return m.updateMenu(msg)
	case viewConfirm:
		return m.updateConfirm(msg)
	case viewCart:
		return m.updateCart(msg)
	case viewCheckout:
		return m.updateCheckout(msg)
	case viewTracking:
		return m.updateTracking(msg)
	default:
		return m.updateRestaurants(msg)
	}
}

func (m Model) View() string {
	var body string
	switch m.view {
	case viewMenu:
		body = m.menuView()
	case viewConfirm:
		body = m.confirmView()
	case viewCart:
		body = m.cartView()
	case viewCheckout:
		body = m.checkoutView()
	case viewTracking:
		body = m.trackingView()
	default:
		body = m.restaurantsView()
	}

	return docStyle.Render(body + "\n" + m.footer())
}

func (m Model) footer() string {
	switch {
	case m.loading:
		return m.spinner.View() + " Loading..."
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.status != "":
		return infoStyle.Render(m.status)
	default:
		return ""
	}
}

func (m Model) loadRestaurants() tea.Cmd {
	apiClient, canteen := m.api, m.canteen

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		restaurants, err := apiClient.ListRestaurants(ctx, canteen)
		if err != nil {
			return errMsg{err: err}
		}

		return restaurantsMsg{restaurants: restaurants}
	}
}

func (m Model) loadMenu(restaurantID uuid.UUID) tea.Cmd {
	apiClient := m.api

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		menu, err := apiClient.GetMenu(ctx, restaurantID)
		if err != nil {
			return errMsg{err: err}
		}

		return menuMsg{menu: menu}
	}
}

type errMsg struct{ err error }

type restaurantsMsg struct{ restaurants []restaurant.Restaurant }

type menuMsg struct{ menu menuitem.Menu }

type orderPlacedMsg struct{ order order.Order }

type orderUpdateMsg struct {
	order   order.Order
	updates <-chan order.Order
}
