package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fjod/vetcart/internal/cart"
	"github.com/fjod/vetcart/internal/checkout"
	"github.com/fjod/vetcart/internal/domain"
	"github.com/fjod/vetcart/internal/session"
)

type Screen int

const (
	ScreenCatalog Screen = iota
	ScreenCart
	ScreenOrders
	screenCount
)

func (s Screen) String() string {
	switch s {
	case ScreenCatalog:
		return "Shop"
	case ScreenCart:
		return "Cart"
	case ScreenOrders:
		return "Orders"
	}
	return "?"
}

// CatalogSource is the part of the catalog service the UI reads.
type CatalogSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Invalidate(ctx context.Context) error
}

// Checkouter places an order; implemented by checkout.Flow.
type Checkouter interface {
	Place(ctx context.Context, opts domain.CheckoutOptions) (*checkout.Result, error)
}

const requestTimeout = 15 * time.Second

type Model struct {
	store    *cart.Store
	catalog  CatalogSource
	checkout Checkouter
	session  session.Session

	screen   Screen
	products []domain.Product
	state    cart.State
	table    table.Model
	spinner  spinner.Model

	loading  bool
	placing  bool
	notice   *cart.Notice
	status   string
	err      error
	quitting bool

	width  int
	height int
	styles Styles
}

func NewModel(store *cart.Store, catalog CatalogSource, flow Checkouter, sess session.Session) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	t := table.New(table.WithFocused(true), table.WithHeight(12))

	m := Model{
		store:    store,
		catalog:  catalog,
		checkout: flow,
		session:  sess,
		screen:   ScreenCatalog,
		state:    store.State(),
		table:    t,
		spinner:  sp,
		loading:  true,
		styles:   DefaultStyles(),
	}
	m.refreshTable()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadProducts())
}

func (m Model) loadProducts() tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		products, err := catalog.Products(ctx)
		return productsMsg{products: products, err: err}
	}
}

func (m Model) reloadProducts() tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := catalog.Invalidate(ctx); err != nil {
			return productsMsg{err: err}
		}
		products, err := catalog.Products(ctx)
		return productsMsg{products: products, err: err}
	}
}

func (m Model) placeOrder() tea.Cmd {
	flow := m.checkout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := flow.Place(ctx, domain.CheckoutOptions{})
		return checkoutMsg{result: res, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width)
		if h := msg.Height - 10; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case productsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = fmt.Errorf("could not load products: %w", msg.err)
			return m, nil
		}
		m.err = nil
		m.products = msg.products
		m.refreshTable()
		return m, nil

	case storeChangedMsg:
		m.syncState()
		return m, nil

	case noticeMsg:
		n := cart.Notice(msg)
		m.notice = &n
		return m, nil

	case checkoutMsg:
		m.placing = false
		m.syncState()
		switch {
		case errors.Is(msg.err, cart.ErrEmptyCart):
			// the store already raised a notice
		case errors.Is(msg.err, checkout.ErrCartChanged):
			m.status = fmt.Sprintf("Order %s placed for %s as submitted; later cart changes were kept",
				shortID(msg.result.Order.ID), money(msg.result.Order.Total))
		case msg.err != nil:
			m.err = fmt.Errorf("checkout failed: %w", msg.err)
		default:
			m.status = fmt.Sprintf("Order %s placed, total %s", shortID(msg.result.Order.ID), money(msg.result.Order.Total))
			m.screen = ScreenOrders
			m.refreshTable()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// any key dismisses the current banner
	m.notice = nil

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.setScreen((m.screen + 1) % screenCount)
		return m, nil
	case "shift+tab":
		m.setScreen((m.screen + screenCount - 1) % screenCount)
		return m, nil
	case "up", "down", "k", "j":
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.reloadProducts())
	case "c":
		if m.placing {
			return m, nil
		}
		m.placing = true
		m.status = ""
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.placeOrder())
	}

	switch m.screen {
	case ScreenCatalog:
		m.handleCatalogKey(msg)
	case ScreenCart:
		m.handleCartKey(msg)
	}
	return m, nil
}

func (m *Model) handleCatalogKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "enter", "a":
		p, ok := m.selectedProduct()
		if !ok {
			return
		}
		m.store.AddItem(p.Descriptor(), 0)
		m.status = fmt.Sprintf("Added %s", p.Name)
		m.syncState()
	}
}

func (m *Model) handleCartKey(msg tea.KeyMsg) {
	item, ok := m.selectedItem()
	switch msg.String() {
	case "+", "=":
		if ok {
			m.store.UpdateQty(item.ProductID, item.Quantity+1)
		}
	case "-":
		if ok {
			m.store.UpdateQty(item.ProductID, item.Quantity-1)
		}
	case "d", "delete", "backspace":
		if ok {
			m.store.RemoveItem(item.ProductID)
		}
	case "x":
		m.store.ClearCart()
	default:
		return
	}
	m.syncState()
}

func (m *Model) setScreen(s Screen) {
	m.screen = s
	m.table.SetCursor(0)
	m.refreshTable()
}

func (m *Model) syncState() {
	m.state = m.store.State()
	m.refreshTable()
}

func (m Model) selectedProduct() (domain.Product, bool) {
	i := m.table.Cursor()
	if m.screen != ScreenCatalog || i < 0 || i >= len(m.products) {
		return domain.Product{}, false
	}
	return m.products[i], true
}

func (m Model) selectedItem() (domain.CartLineItem, bool) {
	i := m.table.Cursor()
	if m.screen != ScreenCart || i < 0 || i >= len(m.state.Items) {
		return domain.CartLineItem{}, false
	}
	return m.state.Items[i], true
}

func (m *Model) refreshTable() {
	var cols []table.Column
	var rows []table.Row

	switch m.screen {
	case ScreenCatalog:
		cols = []table.Column{
			{Title: "Product", Width: 28},
			{Title: "Category", Width: 12},
			{Title: "Price", Width: 10},
			{Title: "Stock", Width: 7},
			{Title: "In cart", Width: 8},
		}
		inCart := make(map[string]int, len(m.state.Items))
		for _, item := range m.state.Items {
			inCart[item.ProductID] = item.Quantity
		}
		for _, p := range m.products {
			stock := fmt.Sprint(p.Stock)
			if !p.InStock() {
				stock = "out"
			}
			rows = append(rows, table.Row{p.Name, p.Category, money(p.Price), stock, qty(inCart[p.ID])})
		}
	case ScreenCart:
		cols = []table.Column{
			{Title: "Product", Width: 28},
			{Title: "Price", Width: 10},
			{Title: "Qty", Width: 5},
			{Title: "Subtotal", Width: 10},
		}
		for _, item := range m.state.Items {
			rows = append(rows, table.Row{item.Name, money(item.Price), fmt.Sprint(item.Quantity), money(item.Subtotal())})
		}
	case ScreenOrders:
		cols = []table.Column{
			{Title: "Order", Width: 10},
			{Title: "Placed", Width: 17},
			{Title: "Items", Width: 6},
			{Title: "Total", Width: 10},
			{Title: "Status", Width: 8},
		}
		for _, o := range m.state.Orders {
			rows = append(rows, table.Row{
				shortID(o.ID),
				o.CreatedAt.Format("2006-01-02 15:04"),
				fmt.Sprint(o.ItemCount()),
				money(o.Total),
				o.Status.String(),
			})
		}
	}

	// rows must shrink before columns change or the table indexes past the new width
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "VetCart"
	if m.session.User != nil {
		title = fmt.Sprintf("VetCart · %s (%s)", m.session.User.Name, m.session.User.Role)
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	tabs := make([]string, 0, screenCount)
	for s := ScreenCatalog; s < screenCount; s++ {
		label := s.String()
		if s == ScreenCart && len(m.state.Items) > 0 {
			label = fmt.Sprintf("%s (%d)", label, len(m.state.Items))
		}
		if s == m.screen {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if m.notice != nil {
		b.WriteString(m.styles.Notice.Render(m.notice.Title + "\n" + m.notice.Message))
		b.WriteString("\n")
	}

	switch {
	case m.loading && m.screen == ScreenCatalog:
		b.WriteString(m.spinner.View() + " Loading products...")
	case m.screen == ScreenCart && len(m.state.Items) == 0:
		b.WriteString("Your cart is empty.")
	case m.screen == ScreenOrders && len(m.state.Orders) == 0:
		b.WriteString("No orders yet.")
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.Total.Render("Total: " + money(m.state.Total)))
	if m.placing {
		b.WriteString("  " + m.spinner.View() + " Placing order...")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Success.Render(m.status) + "\n")
	}

	b.WriteString(m.styles.Help.Render(helpFor(m.screen)))
	return b.String()
}

func helpFor(s Screen) string {
	switch s {
	case ScreenCatalog:
		return "↑/↓ move · enter/a add · r reload · c checkout · tab switch · q quit"
	case ScreenCart:
		return "↑/↓ move · +/- qty · d remove · x clear · c checkout · tab switch · q quit"
	default:
		return "↑/↓ move · tab switch · q quit"
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func qty(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprint(n)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
