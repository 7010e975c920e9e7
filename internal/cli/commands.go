package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oubuilding/apartment-client/internal/core/aggregate"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// Root builds the apartctl command tree over env.
func Root(env *Env) *Command {
	return &Command{
		Name:    "apartctl",
		Summary: "Apartment management client",
		Subcommands: []*Command{
			loginCommand(env),
			logoutCommand(env),
			whoamiCommand(env),
			navCommand(env),
			residentsCommand(env),
			guestsCommand(env),
			lockersCommand(env),
			complaintsCommand(env),
			surveysCommand(env),
			paymentsCommand(env),
			accountsCommand(env),
			invoicesCommand(env),
			lockerCommand(env),
			complainCommand(env),
			profileCommand(env),
			chatCommand(env),
		},
	}
}

func loginCommand(env *Env) *Command {
	var username, password string
	return &Command{
		Name:    "login",
		Summary: "Log in and keep the access token",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
			fs.StringVarP(&username, "username", "u", "", "account username")
			fs.StringVarP(&password, "password", "p", "", "account password")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			id, err := env.Client.Session().Login(ctx, username, password)
			if err != nil {
				return fail("log in", err)
			}
			env.printer().ok("logged in as %s (%s)", id.FullName(), id.Role())
			return nil
		},
	}
}

func logoutCommand(env *Env) *Command {
	return &Command{
		Name:    "logout",
		Summary: "Log out and forget the access token",
		Run: func(ctx context.Context, _ []string) error {
			if _, err := env.Client.Session().Restore(ctx); err != nil && errors.Is(err, ports.ErrNoToken) {
				env.printer().muted("not logged in")
				return nil
			}
			// A rejected token is still cleared.
			if err := env.Client.Session().Logout(ctx); err != nil {
				return fail("log out", err)
			}
			env.printer().ok("logged out")
			return nil
		},
	}
}

func whoamiCommand(env *Env) *Command {
	return &Command{
		Name:    "whoami",
		Summary: "Show the logged-in account",
		Run: func(ctx context.Context, _ []string) error {
			id, err := env.restore(ctx)
			if err != nil {
				return err
			}
			p := env.printer()
			p.header(id.FullName())
			p.table(nil, [][]string{
				{"username", id.Username},
				{"role", string(id.Role())},
				{"apartment", orUnknown(id.Resident.ApartmentNumber())},
				{"avatar", orUnknown(id.Avatar)},
			})
			return nil
		},
	}
}

func navCommand(env *Env) *Command {
	var tab, screen string
	return &Command{
		Name:    "nav",
		Summary: "Show the screens reachable by the logged-in account",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("nav", pflag.ContinueOnError)
			fs.StringVar(&tab, "tab", domain.TabHome, "tab to open")
			fs.StringVar(&screen, "screen", "", "screen to open in the tab")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if _, err := env.Client.Session().Restore(ctx); err != nil && !errors.Is(err, ports.ErrNoToken) {
				return fail("restore the session", err)
			}
			nav := env.Client.Navigation()
			if screen != "" {
				if err := nav.Navigate(tab, screen); err != nil {
					return fail("open "+screen, err)
				}
			}
			printTree(env.printer(), nav.Tree(), nav.Position())
			return nil
		},
	}
}

func printTree(p printer, tree domain.Tree, pos ports.Position) {
	for _, tab := range tree.Tabs {
		p.group(tab.Title)
		for _, s := range tab.Screens {
			depth := 0
			for parent := s.Parent; parent != ""; depth++ {
				parent = parentOf(tab, parent)
			}
			marker := " "
			if tab.Name == pos.Tab && s.Name == pos.Focused {
				marker = ">"
			}
			p.line("%s %s%s", marker, strings.Repeat("  ", depth), s.Name)
		}
	}
	if !pos.TabBarVisible {
		p.muted("tab bar hidden")
	}
}

func parentOf(tab domain.Tab, name string) string {
	for _, s := range tab.Screens {
		if s.Name == name {
			return s.Parent
		}
	}
	return ""
}

func pageFlag(name string, page *int) func() *pflag.FlagSet {
	return func() *pflag.FlagSet {
		fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
		fs.IntVar(page, "page", 1, "page to show")
		return fs
	}
}

func residentsCommand(env *Env) *Command {
	var page int
	return &Command{
		Name:    "residents",
		Summary: "List residents grouped by apartment",
		Flags:   pageFlag("residents", &page),
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabHome, domain.ScreenResidents, func(ctx context.Context) error {
				groups, err := env.Client.Directory().Residents(ctx)
				if err != nil {
					return err
				}
				pg := aggregate.Paginate(groups, aggregate.ApartmentGroupsPerPage, page)
				p := env.printer()
				if pg.TotalItems == 0 {
					p.empty("residents")
					return nil
				}
				for _, g := range pg.Items {
					p.group("Apartment " + g.Key)
					rows := make([][]string, 0, len(g.Members))
					for _, m := range g.Members {
						account := "-"
						if m.Account != nil {
							account = m.Account.Username
						}
						rows = append(rows, []string{strconv.Itoa(m.ID), m.Name, m.RelationshipToHead.Label(), account})
					}
					p.table([]string{"ID", "NAME", "RELATIONSHIP", "ACCOUNT"}, rows)
				}
				printPage(p, pg.Number, pg.TotalPages)
				return nil
			})
		},
	}
}

func printPage(p printer, number, total int) {
	p.muted("page %d of %d", number, total)
}

func guestsCommand(env *Env) *Command {
	return &Command{
		Name:    "guests",
		Summary: "List registered guests",
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabHome, domain.ScreenGuests, func(ctx context.Context) error {
				guests, err := env.Client.Directory().Guests(ctx)
				if err != nil {
					return err
				}
				p := env.printer()
				if len(guests) == 0 {
					p.empty("guests")
					return nil
				}
				rows := make([][]string, 0, len(guests))
				for _, g := range guests {
					card := "-"
					if g.ParkingCard != nil {
						card = g.ParkingCard.CardNumber
					}
					rows = append(rows, []string{strconv.Itoa(g.ID), g.Name, g.Resident.Name, card})
				}
				p.table([]string{"ID", "NAME", "HOST", "CARD"}, rows)
				return nil
			})
		},
	}
}

func lockersCommand(env *Env) *Command {
	var page int
	return &Command{
		Name:    "lockers",
		Summary: "List parcel lockers",
		Flags:   pageFlag("lockers", &page),
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabHome, domain.ScreenLockers, func(ctx context.Context) error {
				lockers, err := env.Client.Directory().Lockers(ctx)
				if err != nil {
					return err
				}
				pg := aggregate.Paginate(lockers, aggregate.LockersPerPage, page)
				p := env.printer()
				if pg.TotalItems == 0 {
					p.empty("lockers")
					return nil
				}
				rows := make([][]string, 0, len(pg.Items))
				for _, l := range pg.Items {
					rows = append(rows, []string{l.Number, l.ResidentName, strings.Join(l.ItemNames, ", ")})
				}
				p.table([]string{"LOCKER", "RESIDENT", "ITEMS"}, rows)
				printPage(p, pg.Number, pg.TotalPages)
				return nil
			})
		},
	}
}

func complaintsCommand(env *Env) *Command {
	return &Command{
		Name:    "complaints",
		Summary: "List resident complaints",
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabHome, domain.ScreenComplaints, func(ctx context.Context) error {
				complaints, err := env.Client.Directory().Complaints(ctx)
				if err != nil {
					return err
				}
				p := env.printer()
				if len(complaints) == 0 {
					p.empty("complaints")
					return nil
				}
				rows := make([][]string, 0, len(complaints))
				for _, c := range complaints {
					status := "open"
					if c.IsResolved {
						status = "resolved"
					}
					rows = append(rows, []string{c.ResidentName, status, c.Description})
				}
				p.table([]string{"RESIDENT", "STATUS", "DESCRIPTION"}, rows)
				return nil
			})
		},
	}
}

func surveysCommand(env *Env) *Command {
	return &Command{
		Name:    "surveys",
		Summary: "List surveys",
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabHome, domain.ScreenSurveys, func(ctx context.Context) error {
				surveys, err := env.Client.Directory().Surveys(ctx)
				if err != nil {
					return err
				}
				p := env.printer()
				if len(surveys) == 0 {
					p.empty("surveys")
					return nil
				}
				rows := make([][]string, 0, len(surveys))
				for _, s := range surveys {
					rows = append(rows, []string{s.CreateTime.Format("2006-01-02"), s.Title})
				}
				p.table([]string{"DATE", "TITLE"}, rows)
				return nil
			})
		},
	}
}

func paymentsCommand(env *Env) *Command {
	return &Command{
		Name:    "payments",
		Summary: "List every invoice",
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabHome, domain.ScreenPayments, func(ctx context.Context) error {
				invoices, err := env.Client.Directory().Payments(ctx)
				if err != nil {
					return err
				}
				printInvoices(env.printer(), invoices)
				return nil
			})
		},
	}
}

func printInvoices(p printer, invoices []domain.Invoice) {
	if len(invoices) == 0 {
		p.empty("invoices")
		return
	}
	rows := make([][]string, 0, len(invoices))
	for _, in := range invoices {
		status := "due"
		if in.IsPaid {
			status = "paid"
		}
		rows = append(rows, []string{
			strconv.Itoa(in.ID),
			in.FeeType.Name,
			strconv.FormatFloat(in.Amount, 'f', 2, 64),
			status,
		})
	}
	p.table([]string{"ID", "FEE", "AMOUNT", "STATUS"}, rows)
}

func accountsCommand(env *Env) *Command {
	return &Command{
		Name:    "accounts",
		Summary: "List user accounts",
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabHome, domain.ScreenAccounts, func(ctx context.Context) error {
				view, err := env.Client.Directory().Accounts(ctx)
				if err != nil {
					return err
				}
				p := env.printer()
				if len(view.Accounts) == 0 {
					p.empty("accounts")
					return nil
				}
				rows := make([][]string, 0, len(view.Accounts))
				for _, a := range view.Accounts {
					active := "inactive"
					if a.IsActive {
						active = "active"
					}
					rows = append(rows, []string{strconv.Itoa(a.ID), a.Username, a.FullName(), active})
				}
				p.table([]string{"ID", "USERNAME", "NAME", "STATUS"}, rows)
				return nil
			})
		},
	}
}

func invoicesCommand(env *Env) *Command {
	return &Command{
		Name:    "invoices",
		Summary: "List your invoices",
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabHome, domain.ScreenMyInvoices, func(ctx context.Context) error {
				invoices, err := env.Client.Residents().MyInvoices(ctx)
				if err != nil {
					return err
				}
				printInvoices(env.printer(), invoices)
				return nil
			})
		},
	}
}

func lockerCommand(env *Env) *Command {
	return &Command{
		Name:    "locker",
		Summary: "Show your locker and parcel status",
		Run: func(ctx context.Context, _ []string) error {
			return env.open(ctx, domain.TabHome, domain.ScreenMyLockers, func(ctx context.Context) error {
				detail, err := env.Client.Residents().MyLocker(ctx)
				if err != nil {
					return err
				}
				p := env.printer()
				p.header("Locker " + detail.Locker.Number)
				if len(detail.Items) == 0 {
					p.empty("parcels")
					return nil
				}
				rows := make([][]string, 0, len(detail.Items))
				for _, it := range detail.Items {
					rows = append(rows, []string{it.Name, string(it.Status)})
				}
				p.table([]string{"PARCEL", "STATUS"}, rows)
				return nil
			})
		},
	}
}

func complainCommand(env *Env) *Command {
	var text string
	return &Command{
		Name:    "complain",
		Summary: "Send feedback to the administration",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("complain", pflag.ContinueOnError)
			fs.StringVarP(&text, "text", "t", "", "feedback text")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if text == "" {
				text = strings.Join(args, " ")
			}
			if _, err := env.restore(ctx); err != nil {
				return err
			}
			if err := env.Client.Navigation().Navigate(domain.TabHome, domain.ScreenMyComplaints); err != nil {
				return fail("open "+domain.ScreenMyComplaints, err)
			}
			if err := env.Client.Residents().SubmitComplaint(ctx, text); err != nil {
				return fail("send feedback", err)
			}
			env.printer().ok("feedback sent")
			return nil
		},
	}
}

func profileCommand(env *Env) *Command {
	var password, confirm, avatar string
	return &Command{
		Name:    "profile",
		Summary: "Change your password and avatar",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("profile", pflag.ContinueOnError)
			fs.StringVar(&password, "password", "", "new password")
			fs.StringVar(&confirm, "confirm", "", "new password again")
			fs.StringVar(&avatar, "avatar", "", "picture file to upload")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if _, err := env.restore(ctx); err != nil {
				return err
			}
			if err := env.Client.Navigation().Navigate(domain.TabHome, domain.ScreenChangePasswordAndAvatar); err != nil {
				return fail("open "+domain.ScreenChangePasswordAndAvatar, err)
			}

			form := ports.ProfileForm{Password: password, Confirm: confirm}
			if avatar != "" {
				f, err := os.Open(avatar)
				if err != nil {
					return usageError("cannot read %s", avatar)
				}
				defer f.Close()
				form.Avatar = &ports.Avatar{Filename: filepath.Base(avatar), Content: f}
			}
			id, err := env.Client.Accounts().ChangePasswordAndAvatar(ctx, form)
			if err != nil {
				return fail("update the profile", err)
			}
			env.printer().ok("profile updated for %s", id.Username)
			return nil
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return domain.Unknown
	}
	return s
}

func usageError(format string, args ...any) error {
	return &noticeError{notice: fmt.Sprintf(format, args...), err: domain.ErrValidation}
}
