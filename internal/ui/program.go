package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fjod/vetcart/internal/cart"
	"github.com/fjod/vetcart/internal/domain"
)

// NoticeRelay forwards store notices to a running program. It is created before
// the store so it can be passed as the store's Notifier.
type NoticeRelay struct {
	mu      sync.Mutex
	program *tea.Program
	pending []cart.Notice
}

func (r *NoticeRelay) Notify(n cart.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.program == nil {
		r.pending = append(r.pending, n)
		return
	}
	// Send blocks until the event loop reads; the store may notify from inside Update.
	go r.program.Send(noticeMsg(n))
}

func (r *NoticeRelay) attach(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = p
	for _, n := range r.pending {
		go p.Send(noticeMsg(n))
	}
	r.pending = nil
}

// CatalogWatcher pushes fresh catalog listings until ctx is done.
type CatalogWatcher interface {
	Run(ctx context.Context, onUpdate func([]domain.Product))
}

// Run starts the interactive shop and blocks until the user quits or ctx ends.
// watcher may be nil.
func Run(ctx context.Context, m Model, relay *NoticeRelay, watcher CatalogWatcher, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)

	if relay != nil {
		relay.attach(p)
	}
	unsubscribe := m.store.Subscribe(func(cart.State) {
		go p.Send(storeChangedMsg{})
	})
	defer unsubscribe()

	if watcher != nil {
		go watcher.Run(ctx, func(products []domain.Product) {
			p.Send(productsMsg{products: products})
		})
	}

	_, err := p.Run()
	return err
}
