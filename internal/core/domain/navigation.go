package domain

// Screen and tab names. They double as the route names a renderer navigates to.
const (
	ScreenLogin = "login"

	TabHome    = "index"
	TabChat    = "chat"
	TabProfile = "profile"

	ScreenHome                    = "home"
	ScreenChangePasswordAndAvatar = "ChangePasswordAndAvatar"

	ScreenMyInvoices   = "MyInvoices"
	ScreenMyLockers    = "MyLockers"
	ScreenMyComplaints = "MyComplaints"

	ScreenSubMenu         = "SubMenu"
	ScreenResidents       = "Residents"
	ScreenResidentDetails = "ResidentDetails"
	ScreenGuests          = "Guests"
	ScreenGuestDetails    = "GuestDetails"
	ScreenAccounts        = "Accounts"
	ScreenCreateAccount   = "CreateAccount"
	ScreenPayments        = "Payments"
	ScreenLockers         = "Lockers"
	ScreenLockerDetails   = "LockerDetails"
	ScreenComplaints      = "Complaints"
	ScreenSurveys         = "Surveys"
	ScreenSurveyDetail    = "SurveyDetail"

	ScreenChatPerm = "ChatPerm"
	ScreenMainChat = "MainChat"
	ScreenChat     = "Chat"

	ScreenProfile = "profile"
)

// DefaultFocusedRoute is assumed when the focused leaf cannot be determined.
const DefaultFocusedRoute = ScreenHome

var tabBarHidden = map[string]struct{}{
	ScreenResidents:               {},
	ScreenResidentDetails:         {},
	ScreenGuests:                  {},
	ScreenGuestDetails:            {},
	ScreenLockers:                 {},
	ScreenLockerDetails:           {},
	ScreenMyLockers:               {},
	ScreenComplaints:              {},
	ScreenMyComplaints:            {},
	ScreenPayments:                {},
	ScreenMyInvoices:              {},
	ScreenAccounts:                {},
	ScreenCreateAccount:           {},
	ScreenSurveys:                 {},
	ScreenSurveyDetail:            {},
	ScreenChangePasswordAndAvatar: {},
}

// TabBarVisible applies the hidden-screen set to the focused leaf route name.
func TabBarVisible(focused string) bool {
	if focused == "" {
		focused = DefaultFocusedRoute
	}
	_, hidden := tabBarHidden[focused]
	return !hidden
}

// Screen is a node of a tab's stack. Parent names the screen it is pushed
// from; the root has no parent.
type Screen struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Parent string `json:"parent,omitempty"`
}

// Tab is one entry of the bottom tab bar and the stack it hosts.
type Tab struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Root    string   `json:"root"`
	Screens []Screen `json:"screens"`
}

// Tree is the set of screens reachable for a given session.
type Tree struct {
	LoggedIn bool   `json:"logged_in"`
	Role     Role   `json:"role,omitempty"`
	ShowTabs bool   `json:"show_tabs"`
	Tabs     []Tab  `json:"tabs"`
	Entry    string `json:"entry"`
}

// BuildTree selects the navigation graph for (loggedIn, role). It is pure.
func BuildTree(loggedIn bool, role Role) Tree {
	if !loggedIn {
		return Tree{
			Entry: ScreenLogin,
			Tabs: []Tab{{
				Name:    ScreenLogin,
				Title:   "Login",
				Root:    ScreenLogin,
				Screens: []Screen{{Name: ScreenLogin, Title: "Login"}},
			}},
		}
	}

	home := Tab{Name: TabHome, Title: "Home", Root: ScreenHome}
	chat := Tab{Name: TabChat, Title: "Chat", Root: ScreenChatPerm}
	if role == RoleAdmin {
		home.Screens = adminHomeScreens()
		chat.Screens = []Screen{
			{Name: ScreenChatPerm, Title: "Chat"},
			{Name: ScreenMainChat, Title: "Conversations", Parent: ScreenChatPerm},
			{Name: ScreenChat, Title: "Chat", Parent: ScreenMainChat},
		}
	} else {
		home.Screens = residentHomeScreens()
		chat.Screens = []Screen{
			{Name: ScreenChatPerm, Title: "Chat"},
			{Name: ScreenChat, Title: "Chat", Parent: ScreenChatPerm},
		}
	}

	return Tree{
		LoggedIn: true,
		Role:     role,
		ShowTabs: true,
		Entry:    ScreenHome,
		Tabs: []Tab{
			home,
			chat,
			{
				Name:    TabProfile,
				Title:   "Account",
				Root:    ScreenProfile,
				Screens: []Screen{{Name: ScreenProfile, Title: "Account"}},
			},
		},
	}
}

func residentHomeScreens() []Screen {
	return []Screen{
		{Name: ScreenHome, Title: "Home"},
		{Name: ScreenMyInvoices, Title: "My invoices", Parent: ScreenHome},
		{Name: ScreenMyLockers, Title: "My locker", Parent: ScreenHome},
		{Name: ScreenMyComplaints, Title: "Send feedback", Parent: ScreenHome},
		{Name: ScreenChangePasswordAndAvatar, Title: "Password and avatar", Parent: ScreenHome},
	}
}

func adminHomeScreens() []Screen {
	return []Screen{
		{Name: ScreenHome, Title: "Home"},
		{Name: ScreenSubMenu, Title: "Residents and guests", Parent: ScreenHome},
		{Name: ScreenResidents, Title: "Residents", Parent: ScreenSubMenu},
		{Name: ScreenResidentDetails, Title: "Resident", Parent: ScreenResidents},
		{Name: ScreenGuests, Title: "Guests", Parent: ScreenSubMenu},
		{Name: ScreenGuestDetails, Title: "Guest", Parent: ScreenGuests},
		{Name: ScreenAccounts, Title: "Accounts", Parent: ScreenHome},
		{Name: ScreenCreateAccount, Title: "Account", Parent: ScreenAccounts},
		{Name: ScreenPayments, Title: "Payments", Parent: ScreenHome},
		{Name: ScreenLockers, Title: "Lockers", Parent: ScreenHome},
		{Name: ScreenLockerDetails, Title: "Locker", Parent: ScreenLockers},
		{Name: ScreenComplaints, Title: "Complaints", Parent: ScreenHome},
		{Name: ScreenSurveys, Title: "Surveys", Parent: ScreenHome},
		{Name: ScreenSurveyDetail, Title: "Survey", Parent: ScreenSurveys},
		{Name: ScreenChangePasswordAndAvatar, Title: "Password and avatar", Parent: ScreenHome},
	}
}

// Tab returns the tab called name.
func (t Tree) Tab(name string) (Tab, bool) {
	for _, tab := range t.Tabs {
		if tab.Name == name {
			return tab, true
		}
	}
	return Tab{}, false
}

// Reachable reports whether screen exists in tab.
func (t Tree) Reachable(tab, screen string) bool {
	_, ok := t.find(tab, screen)
	return ok
}

// Path returns the stack a navigation to screen in tab produces, root first.
func (t Tree) Path(tab, screen string) ([]string, bool) {
	tb, ok := t.Tab(tab)
	if !ok {
		return nil, false
	}
	byName := make(map[string]Screen, len(tb.Screens))
	for _, s := range tb.Screens {
		byName[s.Name] = s
	}

	var rev []string
	for name := screen; name != ""; {
		s, ok := byName[name]
		if !ok {
			return nil, false
		}
		rev = append(rev, s.Name)
		name = s.Parent
		if len(rev) > len(tb.Screens) {
			return nil, false
		}
	}

	path := make([]string, len(rev))
	for i, name := range rev {
		path[len(rev)-1-i] = name
	}
	return path, true
}

func (t Tree) find(tab, screen string) (Screen, bool) {
	tb, ok := t.Tab(tab)
	if !ok {
		return Screen{}, false
	}
	for _, s := range tb.Screens {
		if s.Name == screen {
			return s, true
		}
	}
	return Screen{}, false
}

// Route mirrors a navigator's state: a named route that may host a nested
// navigator whose Index selects the active child.
type Route struct {
	Name  string    `json:"name"`
	State *NavState `json:"state,omitempty"`
}

type NavState struct {
	Index  int     `json:"index"`
	Routes []Route `json:"routes"`
}

// FocusedRouteName walks nested state down to the focused leaf. A route
// without nested state yields DefaultFocusedRoute, as a stack that has never
// been navigated shows its root.
func FocusedRouteName(r Route) string {
	if r.State == nil || len(r.State.Routes) == 0 {
		return DefaultFocusedRoute
	}
	idx := r.State.Index
	if idx < 0 || idx >= len(r.State.Routes) {
		idx = len(r.State.Routes) - 1
	}
	child := r.State.Routes[idx]
	if child.State == nil {
		return child.Name
	}
	return FocusedRouteName(child)
}
