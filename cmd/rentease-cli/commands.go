package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/muhammedanshif/rentEase/client"
	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/spf13/cobra"
)

func table(header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	return w
}

func row(w *tabwriter.Writer, cols ...interface{}) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func openFile(path string) (client.File, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return client.File{}, func() {}, err
	}
	return client.File{Name: filepath.Base(path), Reader: f}, func() { f.Close() }, nil
}

// confirmer answers from --yes or asks on stdin.
func (a *cli) confirmer() client.Confirmer {
	return client.ConfirmFunc(func(prompt string) bool {
		if a.yes {
			return true
		}
		fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	})
}

func (a *cli) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("RENTEASE_PASSWORD")
			}
			identity, err := client.Login(a.ctx(), a.api, args[0], password)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in, opening %s\n", client.Route(identity))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (or RENTEASE_PASSWORD)")
	return cmd
}

func (a *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Logout(a.ctx(), a.api); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func (a *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity and its dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := a.api.Session().Current()
			view := client.Route(identity)
			switch id := identity.(type) {
			case client.AdminSession:
				fmt.Printf("%s (admin)\n", id.User.Username)
			case client.TenantSession:
				fmt.Printf("%s (tenant %s)\n", id.User.Username, id.TenantID)
			default:
				fmt.Println("Not logged in")
			}
			fmt.Printf("View: %s\n", view)
			if sections := view.Sections(); len(sections) > 0 {
				fmt.Printf("Sections: %s\n", strings.Join(sections, ", "))
			}
			return nil
		},
	}
}

func (a *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Admin overview numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := client.FetchStats(a.ctx(), a.api)
			if err != nil {
				return err
			}
			w := table("METRIC", "VALUE")
			row(w, "Buildings", s.TotalBuildings)
			row(w, "Rooms", s.TotalRooms)
			row(w, "Occupied", s.OccupiedRooms)
			row(w, "Vacant", s.VacantRooms)
			row(w, "Tenants", s.TotalTenants)
			row(w, "Pending bills", s.PendingBills)
			row(w, "Awaiting approval", s.PendingApproval)
			row(w, "Overdue bills", s.OverdueBills)
			row(w, "Open complaints", s.OpenComplaints)
			row(w, "Rent billed "+s.BillingMonth, s.MonthlyRevenue)
			row(w, "Rent collected "+s.BillingMonth, s.CollectedRevenue)
			return w.Flush()
		},
	}
}

func (a *cli) buildingsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "buildings", Short: "Manage buildings"}

	list := &cobra.Command{
		Use: "list",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := client.NewBuildingsManager(a.api, a.notifier)
			if err := m.List(a.ctx()); err != nil {
				return err
			}
			w := table("ID", "NAME", "TYPE", "ROOMS", "OCCUPIED", "ADDRESS")
			for _, b := range m.Items() {
				row(w, b.ID, b.Name, b.BuildingType, b.RoomCount, b.OccupiedCount, b.Address)
			}
			return w.Flush()
		},
	}

	var name, address, buildingType string
	var floors int
	create := &cobra.Command{
		Use: "create",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := client.Fields{"name": name, "address": address, "building_type": buildingType}
			if floors > 0 {
				fields["total_floors"] = floors
			}
			return client.NewBuildingsManager(a.api, a.notifier).Create(a.ctx(), fields)
		},
	}
	create.Flags().StringVar(&name, "name", "", "building name")
	create.Flags().StringVar(&address, "address", "", "street address")
	create.Flags().StringVar(&buildingType, "type", "residential", "residential, commercial or mixed")
	create.Flags().IntVar(&floors, "floors", 0, "number of floors")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a building with its rooms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.NewBuildingsManager(a.api, a.notifier).Delete(a.ctx(), args[0], a.confirmer())
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}

func (a *cli) roomsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "rooms", Short: "Manage rooms"}

	var building string
	list := &cobra.Command{
		Use: "list",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := client.NewRoomsManager(a.api, a.notifier)
			m.SetBuildingFilter(building)
			if err := m.List(a.ctx()); err != nil {
				return err
			}
			w := table("ID", "BUILDING", "ROOM", "TYPE", "RENT", "STATUS", "TENANT")
			for _, r := range m.Items() {
				row(w, r.ID, r.BuildingName, r.RoomNumber, r.RoomType, r.RentAmount.StringFixed(2), r.Status, deref(r.TenantName))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&building, "building", "", "only rooms in this building")

	var number, roomType, rent string
	create := &cobra.Command{
		Use: "create",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.NewRoomsManager(a.api, a.notifier).Create(a.ctx(), client.Fields{
				"building_id": building,
				"room_number": number,
				"room_type":   roomType,
				"rent_amount": rent,
			})
		},
	}
	create.Flags().StringVar(&building, "building", "", "building id")
	create.Flags().StringVar(&number, "number", "", "room number")
	create.Flags().StringVar(&roomType, "type", "1BHK", "room type")
	create.Flags().StringVar(&rent, "rent", "", "monthly rent")

	remove := &cobra.Command{
		Use:  "delete <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := client.NewRoomsManager(a.api, a.notifier)
			if err := m.List(a.ctx()); err != nil {
				return err
			}
			return m.Delete(a.ctx(), args[0], a.confirmer())
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}

func (a *cli) tenantsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tenants", Short: "Manage tenants"}

	list := &cobra.Command{
		Use: "list",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := client.NewTenantsManager(a.api, a.notifier)
			if err := m.List(a.ctx()); err != nil {
				return err
			}
			w := table("ID", "NAME", "USERNAME", "EMAIL", "ROOM", "BUILDING")
			for _, t := range m.Items() {
				row(w, t.ID, t.FullName, t.Username, t.Email, deref(t.RoomNumber), deref(t.BuildingName))
			}
			return w.Flush()
		},
	}

	search := &cobra.Command{
		Use:  "search <query>",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits, err := client.NewTenantsManager(a.api, a.notifier).Search(a.ctx(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			w := table("ID", "NAME", "EMAIL", "ROOM", "SCORE")
			for _, h := range hits {
				row(w, h.ID, h.FullName, h.Email, h.RoomNumber, fmt.Sprintf("%.2f", h.Score))
			}
			return w.Flush()
		},
	}

	var fullName, email, username, password, room string
	create := &cobra.Command{
		Use: "create",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := client.Fields{
				"full_name": fullName,
				"email":     email,
				"username":  username,
				"password":  password,
			}
			if room != "" {
				fields["room_id"] = room
			}
			return client.NewTenantsManager(a.api, a.notifier).Create(a.ctx(), fields)
		},
	}
	create.Flags().StringVar(&fullName, "name", "", "full name")
	create.Flags().StringVar(&email, "email", "", "email address")
	create.Flags().StringVar(&username, "username", "", "login name")
	create.Flags().StringVar(&password, "password", "", "initial password")
	create.Flags().StringVar(&room, "room", "", "room id to assign")

	photo := &cobra.Command{
		Use:  "photo <id> <file>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, closeFile, err := openFile(args[1])
			if err != nil {
				return err
			}
			defer closeFile()
			return client.NewTenantsManager(a.api, a.notifier).AssignPhoto(a.ctx(), args[0], f)
		},
	}

	documents := &cobra.Command{
		Use:  "documents <id> <file>...",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]client.File, 0, len(args)-1)
			for _, path := range args[1:] {
				f, closeFile, err := openFile(path)
				if err != nil {
					return err
				}
				defer closeFile()
				files = append(files, f)
			}
			return client.NewTenantsManager(a.api, a.notifier).AssignDocuments(a.ctx(), args[0], files)
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tenant with their bills and complaints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.NewTenantsManager(a.api, a.notifier).Delete(a.ctx(), args[0], a.confirmer())
		},
	}

	me := &cobra.Command{
		Use:   "me",
		Short: "Show your own tenant profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client.NewTenantsManager(a.api, a.notifier).MyProfile(a.ctx())
			if err != nil {
				return err
			}
			w := table("FIELD", "VALUE")
			row(w, "Name", t.FullName)
			row(w, "Email", t.Email)
			row(w, "Phone", deref(t.Phone))
			row(w, "Room", deref(t.RoomNumber))
			row(w, "Building", deref(t.BuildingName))
			if t.RentAmount != nil {
				row(w, "Rent", t.RentAmount.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(list, search, create, photo, documents, remove, me)
	return cmd
}

func (a *cli) billsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "bills", Short: "Bills and payments"}
	manager := func() *client.BillsManager { return client.NewBillsManager(a.api, a.notifier) }

	var status, month string
	list := &cobra.Command{
		Use: "list",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manager()
			m.SetStatusFilter(models.BillStatus(status))
			m.SetMonthFilter(month)
			if err := m.List(a.ctx()); err != nil {
				return err
			}
			w := table("ID", "TENANT", "ROOM", "TYPE", "MONTH", "AMOUNT", "DUE", "STATUS")
			for _, b := range m.Items() {
				row(w, b.ID, deref(b.TenantName), deref(b.RoomNumber), b.BillType, b.BillingMonth, b.Amount.StringFixed(2), b.DueDate, b.Status)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&status, "status", "", "pending, pending_approval, paid or overdue")
	list.Flags().StringVar(&month, "month", "", "billing month YYYY-MM")

	generate := &cobra.Command{
		Use:   "generate-rent",
		Short: "Create this month's rent bills for every occupied room",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := manager().GenerateRent(a.ctx(), month)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d created, %d already billed\n", result.BillingMonth, result.Created, result.Skipped)
			return nil
		},
	}
	generate.Flags().StringVar(&month, "month", "", "billing month YYYY-MM (default current)")

	upload := &cobra.Command{
		Use:  "upload-screenshot <id> <file>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, closeFile, err := openFile(args[1])
			if err != nil {
				return err
			}
			defer closeFile()
			return manager().UploadScreenshot(a.ctx(), args[0], f)
		},
	}

	verify := &cobra.Command{
		Use:  "verify <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().Verify(a.ctx(), args[0])
		},
	}

	var reference string
	record := &cobra.Command{
		Use:   "record-payment <id>",
		Short: "Mark a pending bill paid without proof",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().RecordPayment(a.ctx(), args[0], reference)
		},
	}
	record.Flags().StringVar(&reference, "reference", "", "payment reference")

	markPaid := &cobra.Command{
		Use:   "mark-paid <id>",
		Short: "Ask the admin to confirm your payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manager()
			if err := m.List(a.ctx()); err != nil {
				return err
			}
			return m.MarkPaid(a.ctx(), args[0])
		},
	}

	var pdfOut string
	receipt := &cobra.Command{
		Use:  "receipt <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manager()
			if pdfOut != "" {
				pdf, err := m.ReceiptPDF(a.ctx(), args[0])
				if err != nil {
					return err
				}
				return os.WriteFile(pdfOut, pdf, 0o644)
			}
			r, err := m.Receipt(a.ctx(), args[0])
			if err != nil {
				return err
			}
			w := table("FIELD", "VALUE")
			row(w, "Receipt", r.ReceiptNumber)
			row(w, "Tenant", r.TenantName)
			row(w, "Building", r.BuildingName)
			row(w, "Room", r.RoomNumber)
			row(w, "Type", r.BillTypeLabel)
			row(w, "Month", r.BillingMonth)
			row(w, "Due", r.DueDate)
			row(w, "Paid", r.PaidDate)
			row(w, "Amount", r.Amount)
			return w.Flush()
		},
	}
	receipt.Flags().StringVar(&pdfOut, "pdf", "", "write the PDF receipt to this file")

	var exportOut string
	export := &cobra.Command{
		Use: "export",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manager()
			m.SetMonthFilter(month)
			sheet, err := m.Export(a.ctx())
			if err != nil {
				return err
			}
			return os.WriteFile(exportOut, sheet, 0o644)
		},
	}
	export.Flags().StringVar(&month, "month", "", "billing month YYYY-MM")
	export.Flags().StringVarP(&exportOut, "output", "o", "bills.xlsx", "output file")

	pay := &cobra.Command{
		Use:   "pay <id>",
		Short: "Start an online payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := manager().PayOnline(a.ctx(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Order %s for %s %s\n", order.OrderID, order.Amount, order.Currency)
			if order.RedirectURL != "" {
				fmt.Printf("Complete payment at %s\n", order.RedirectURL)
			}
			if order.Mock {
				fmt.Println("Gateway is in mock mode; confirm with any transaction id starting with mock_")
			}
			return nil
		},
	}

	confirm := &cobra.Command{
		Use:  "confirm-payment <id> <order-id> <transaction-id>",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().ConfirmOnline(a.ctx(), args[0], args[1], args[2])
		},
	}

	remove := &cobra.Command{
		Use:  "delete <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().Delete(a.ctx(), args[0], a.confirmer())
		},
	}

	cmd.AddCommand(list, generate, upload, verify, record, markPaid, receipt, export, pay, confirm, remove)
	return cmd
}

func (a *cli) complaintsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "complaints", Short: "Tenant complaints"}
	manager := func() *client.ComplaintsManager { return client.NewComplaintsManager(a.api, a.notifier) }

	list := &cobra.Command{
		Use: "list",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manager()
			if err := m.List(a.ctx()); err != nil {
				return err
			}
			w := table("ID", "TENANT", "ROOM", "CATEGORY", "STATUS", "SUBJECT")
			for _, c := range m.Items() {
				row(w, c.ID, deref(c.TenantName), deref(c.RoomNumber), c.Category, c.Status, c.Subject)
			}
			return w.Flush()
		},
	}

	var subject, description, category string
	submit := &cobra.Command{
		Use: "submit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().Submit(a.ctx(), client.Fields{
				"subject":     subject,
				"description": description,
				"category":    category,
			})
		},
	}
	submit.Flags().StringVar(&subject, "subject", "", "short summary")
	submit.Flags().StringVar(&description, "description", "", "what happened")
	submit.Flags().StringVar(&category, "category", "other", strings.Join(models.ComplaintCategories, ", "))

	var status string
	reply := &cobra.Command{
		Use:  "reply <id> <message>",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().Reply(a.ctx(), args[0], strings.Join(args[1:], " "), models.ComplaintStatus(status))
		},
	}
	reply.Flags().StringVar(&status, "status", string(models.ComplaintInProgress), "new status")

	closeCmd := &cobra.Command{
		Use:  "close <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().Close(a.ctx(), args[0])
		},
	}

	cmd.AddCommand(list, submit, reply, closeCmd)
	return cmd
}

func (a *cli) announcementsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "announcements", Short: "Notice board"}

	list := &cobra.Command{
		Use: "list",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := client.NewAnnouncementsManager(a.api, a.notifier)
			if err := m.List(a.ctx()); err != nil {
				return err
			}
			w := table("ID", "PRIORITY", "POSTED", "TITLE")
			for _, n := range m.Items() {
				row(w, n.ID, n.Priority, n.CreatedAt.Format("2006-01-02 15:04"), n.Title)
			}
			return w.Flush()
		},
	}

	var title, message, priority string
	post := &cobra.Command{
		Use: "post",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.NewAnnouncementsManager(a.api, a.notifier).Create(a.ctx(), client.Fields{
				"title":    title,
				"message":  message,
				"priority": priority,
			})
		},
	}
	post.Flags().StringVar(&title, "title", "", "headline")
	post.Flags().StringVar(&message, "message", "", "body text")
	post.Flags().StringVar(&priority, "priority", "normal", "low, normal, high or urgent")

	remove := &cobra.Command{
		Use:  "delete <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.NewAnnouncementsManager(a.api, a.notifier).Delete(a.ctx(), args[0], a.confirmer())
		},
	}

	cmd.AddCommand(list, post, remove)
	return cmd
}

func (a *cli) emergencyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "emergency", Short: "Emergency contacts"}

	list := &cobra.Command{
		Use: "list",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := client.NewEmergencyContactsManager(a.api, a.notifier)
			if err := m.List(a.ctx()); err != nil {
				return err
			}
			w := table("ID", "SERVICE", "NAME", "PHONE", "ALTERNATE", "24x7")
			for _, c := range m.Items() {
				row(w, c.ID, c.ServiceType, deref(c.ContactName), c.PhoneNumber, deref(c.AlternatePhone), c.Available24x7)
			}
			return w.Flush()
		},
	}

	var service, name, phone string
	add := &cobra.Command{
		Use: "add",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.NewEmergencyContactsManager(a.api, a.notifier).Create(a.ctx(), client.Fields{
				"service_type": service,
				"contact_name": name,
				"phone_number": phone,
			})
		},
	}
	add.Flags().StringVar(&service, "service", "", "service type")
	add.Flags().StringVar(&name, "name", "", "contact name")
	add.Flags().StringVar(&phone, "phone", "", "phone number")

	cmd.AddCommand(list, add)
	return cmd
}

func (a *cli) paymentSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "payment-settings", Short: "UPI details shown to tenants"}
	manager := func() *client.PaymentSettingsManager { return client.NewPaymentSettingsManager(a.api, a.notifier) }

	show := &cobra.Command{
		Use: "show",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manager()
			if err := m.Load(a.ctx()); err != nil {
				return err
			}
			s := m.Settings()
			fmt.Printf("UPI ID:  %s\n", deref(s.UpiID))
			if url := m.QRCodeURL(); url != "" {
				fmt.Printf("QR code: %s\n", url)
			}
			return nil
		},
	}

	setUpi := &cobra.Command{
		Use:  "set-upi <upi-id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().SetUpiID(a.ctx(), args[0])
		},
	}

	setQR := &cobra.Command{
		Use:  "set-qr <image>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, closeFile, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer closeFile()
			return manager().SetQRCode(a.ctx(), f)
		},
	}

	cmd.AddCommand(show, setUpi, setQR)
	return cmd
}
