package service

import (
	"fmt"
	"slices"
	"sync"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// Navigator tracks the active tab and the stack of every tab for one session.
// The reachable graph is rebuilt from the session state on every identity
// change.
type Navigator struct {
	mu      sync.Mutex
	tree    domain.Tree
	tab     string
	stacks  map[string][]string
	onLeave []func(screens []string)
}

func NewNavigator() *Navigator {
	n := &Navigator{}
	n.reset(domain.BuildTree(false, ""))
	return n
}

// OnLeave registers fn to be told which screens were popped or dropped.
func (n *Navigator) OnLeave(fn func(screens []string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onLeave = append(n.onLeave, fn)
}

// Rebuild selects the tree for state and returns to its entry screen.
func (n *Navigator) Rebuild(state domain.SessionState) {
	n.mu.Lock()
	left := n.mounted()
	n.reset(domain.BuildTree(state.LoggedIn(), state.Role()))
	n.mu.Unlock()
	n.leave(left)
}

// Reset navigates to the root entry of the current tree.
func (n *Navigator) Reset() {
	n.mu.Lock()
	left := n.mounted()
	n.reset(n.tree)
	n.mu.Unlock()
	n.leave(left)
}

func (n *Navigator) Tree() domain.Tree {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tree
}

// Navigate focuses tab and replaces its stack with the path leading to screen.
func (n *Navigator) Navigate(tab, screen string) error {
	n.mu.Lock()
	path, ok := n.tree.Path(tab, screen)
	if !ok {
		n.mu.Unlock()
		return fmt.Errorf("navigate to %s/%s: %w", tab, screen, domain.ErrScreenUnreachable)
	}
	var left []string
	for _, s := range n.stacks[tab] {
		if !slices.Contains(path, s) {
			left = append(left, s)
		}
	}
	n.tab = tab
	n.stacks[tab] = path
	n.mu.Unlock()

	n.leave(left)
	return nil
}

// Back pops the focused screen of the active tab. It reports false at the root.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	stack := n.stacks[n.tab]
	if len(stack) < 2 {
		n.mu.Unlock()
		return false
	}
	top := stack[len(stack)-1]
	n.stacks[n.tab] = stack[:len(stack)-1]
	n.mu.Unlock()

	n.leave([]string{top})
	return true
}

func (n *Navigator) Position() ports.Position {
	n.mu.Lock()
	defer n.mu.Unlock()

	stack := slices.Clone(n.stacks[n.tab])
	if len(stack) == 0 {
		if tab, ok := n.tree.Tab(n.tab); ok {
			stack = []string{tab.Root}
		}
	}
	focused := domain.FocusedRouteName(n.route())
	return ports.Position{
		Tab:           n.tab,
		Stack:         stack,
		Focused:       focused,
		TabBarVisible: n.tree.ShowTabs && domain.TabBarVisible(focused),
	}
}

// TabBarVisible reports whether the tab chrome is shown for the active tab.
func (n *Navigator) TabBarVisible() bool {
	return n.Position().TabBarVisible
}

func (n *Navigator) route() domain.Route {
	r := domain.Route{Name: n.tab}
	stack := n.stacks[n.tab]
	if len(stack) == 0 {
		return r
	}
	routes := make([]domain.Route, len(stack))
	for i, s := range stack {
		routes[i] = domain.Route{Name: s}
	}
	r.State = &domain.NavState{Index: len(routes) - 1, Routes: routes}
	return r
}

func (n *Navigator) reset(tree domain.Tree) {
	n.tree = tree
	n.tab = tree.Tabs[0].Name
	n.stacks = make(map[string][]string)
}

func (n *Navigator) mounted() []string {
	var all []string
	for _, stack := range n.stacks {
		all = append(all, stack...)
	}
	return all
}

func (n *Navigator) leave(screens []string) {
	if len(screens) == 0 {
		return
	}
	n.mu.Lock()
	listeners := slices.Clone(n.onLeave)
	n.mu.Unlock()
	for _, fn := range listeners {
		fn(screens)
	}
}
