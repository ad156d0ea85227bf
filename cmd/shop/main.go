package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/luxemart/storefront/internal/admin"
	"github.com/luxemart/storefront/internal/app"
	"github.com/luxemart/storefront/internal/catalog"
	"github.com/luxemart/storefront/internal/checkout"
	"github.com/luxemart/storefront/internal/orders"
	"github.com/luxemart/storefront/internal/tui"
	"github.com/luxemart/storefront/pkg/config"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/types"
)

const usage = `usage: shop <command> [flags]

storefront:
  products              list the catalog (-category, -page, -limit)
  cart add              add a product to the cart (-id, or -name -price)
  cart list             show the cart
  cart set-qty          change a line's quantity (-id -qty)
  cart remove           drop a line (-id)
  checkout              submit the cart as an order
  buy                   order one product directly, skipping the cart (-id)
  orders                show your order history
  browse                interactive storefront

account:
  register              create an account (-name -email -password)
  login                 sign in (-email -password)
  logout                clear the stored credential

admin:
  admin login           sign in to the admin console (-email -password)
  admin product-add     create a product (-name -price -category ...)
  admin product-update  update a product (-id -name -price -category ...)
  admin product-delete  remove a product (-id)
  admin users           list accounts
  admin user-set-admin  toggle the admin flag (-id -admin)
  admin user-delete     remove an account (-id)
  admin order-status    set an order's status (-id -status)
  admin reports         show the sales reports
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "shop",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	application, err := app.New(cfg, logg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()

	var runErr error
	switch args[0] {
	case "products":
		runErr = cmdProducts(ctx, application, args[1:])
	case "cart":
		runErr = cmdCart(application, args[1:])
	case "checkout":
		runErr = cmdCheckout(ctx, application)
	case "buy":
		runErr = cmdBuy(ctx, application, args[1:])
	case "orders":
		runErr = cmdOrders(ctx, application)
	case "register":
		runErr = cmdRegister(ctx, application, args[1:])
	case "login":
		runErr = cmdLogin(ctx, application, args[1:], false)
	case "logout":
		runErr = application.Auth.Logout()
		if runErr == nil {
			fmt.Println("logged out")
		}
	case "admin":
		runErr = cmdAdmin(ctx, application, args[1:])
	case "browse":
		runErr = runBrowse(application)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", pkgerrors.UserMessage(runErr))
		os.Exit(1)
	}
}

func cmdProducts(ctx context.Context, application *app.App, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	category := fs.String("category", "", "filter by category")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 12, "page size")
	fs.Parse(args)

	result, err := application.Catalog.List(ctx, catalog.ListParams{
		Category: *category,
		Page:     *page,
		Limit:    *limit,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY")
	for _, p := range result.Products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID(), p.Name, p.Price.Display(), p.Category)
	}
	w.Flush()
	fmt.Printf("page %d of %d (%d products)\n", result.Page, result.Pages, result.Total)
	return nil
}

func cmdCart(application *app.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("cart needs a subcommand: add, list, set-qty, remove")
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("cart add", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		name := fs.String("name", "", "product name (with -price, skips the catalog lookup)")
		price := fs.String("price", "", "unit price")
		fs.Parse(args[1:])

		if *name != "" && *price != "" {
			unit, err := types.MoneyFromString(*price)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
			}
			if err := application.Cart.AddItem(*id, *name, unit); err != nil {
				return err
			}
			fmt.Println("added to cart")
			return nil
		}

		if *id == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "-id is required")
		}
		product, err := application.Catalog.Get(context.Background(), *id)
		if err != nil {
			return err
		}
		if err := application.Cart.AddItem(product.ID(), product.Name, product.Price); err != nil {
			return err
		}
		fmt.Printf("added %s to cart\n", product.Name)
		return nil

	case "list":
		items := application.Cart.Load()
		if len(items) == 0 {
			fmt.Println("cart is empty")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", item.ProductID, item.Name, item.Price.Display(), item.Quantity, item.Subtotal().Display())
		}
		w.Flush()
		fmt.Printf("total: %s\n", application.Cart.Subtotal().Display())
		return nil

	case "set-qty":
		fs := flag.NewFlagSet("cart set-qty", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		qty := fs.Int("qty", 1, "new quantity; below 1 removes the line")
		fs.Parse(args[1:])
		if *id == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "-id is required")
		}
		if err := application.Cart.SetQuantity(*id, *qty); err != nil {
			return err
		}
		fmt.Println("cart updated")
		return nil

	case "remove":
		fs := flag.NewFlagSet("cart remove", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		fs.Parse(args[1:])
		if *id == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "-id is required")
		}
		if err := application.Cart.RemoveItem(*id); err != nil {
			return err
		}
		fmt.Println("removed from cart")
		return nil
	}

	return fmt.Errorf("unknown cart subcommand %q", args[0])
}

func cmdCheckout(ctx context.Context, application *app.App) error {
	placed, err := application.Checkout.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("order %s placed, total %s\n", placed.ID, placed.Total.Display())

	// The success state lingers briefly before the flow returns to idle,
	// mirroring the storefront's confirmation screen.
	time.Sleep(checkout.SuccessDisplayDelay)
	application.Checkout.Reset()
	return nil
}

func cmdBuy(ctx context.Context, application *app.App, args []string) error {
	fs := flag.NewFlagSet("buy", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	fs.Parse(args)
	if *id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "-id is required")
	}

	product, err := application.Catalog.Get(ctx, *id)
	if err != nil {
		return err
	}
	placed, err := application.Checkout.BuyNow(ctx, orders.ItemPayload{
		ProductID: product.ID(),
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	})
	if err != nil {
		return err
	}
	fmt.Printf("order placed: %s  total %s  status %s\n", placed.ID, placed.Total.Display(), placed.Status)
	return nil
}

func cmdOrders(ctx context.Context, application *app.App) error {
	history, err := application.Orders.History(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no orders yet")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSTATUS\tTOTAL\tITEMS")
	for _, order := range history {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			order.ID, order.CreatedAt.Format("2006-01-02"), order.Status, order.Total.Display(), len(order.Items))
	}
	return w.Flush()
}

func cmdRegister(ctx context.Context, application *app.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if err := application.Auth.Register(ctx, *name, *email, *password); err != nil {
		return err
	}
	fmt.Println("registered; run `shop login` to sign in")
	return nil
}

func cmdLogin(ctx context.Context, application *app.App, args []string, asAdmin bool) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	var err error
	if asAdmin {
		err = application.Auth.AdminLogin(ctx, *email, *password)
	} else {
		err = application.Auth.Login(ctx, *email, *password)
	}
	if err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func cmdAdmin(ctx context.Context, application *app.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("admin needs a subcommand")
	}

	switch args[0] {
	case "login":
		return cmdLogin(ctx, application, args[1:], true)

	case "product-add", "product-update":
		fs := flag.NewFlagSet("admin "+args[0], flag.ExitOnError)
		id := fs.String("id", "", "product id (update only)")
		name := fs.String("name", "", "product name")
		price := fs.String("price", "0", "unit price")
		category := fs.String("category", "", "category")
		description := fs.String("description", "", "description")
		images := fs.String("images", "", "comma-separated image URLs")
		fs.Parse(args[1:])

		unit, err := types.MoneyFromString(*price)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input := adminProductInput(*name, unit, *category, *description, *images)

		if args[0] == "product-add" {
			product, err := application.Admin.CreateProduct(ctx, input)
			if err != nil {
				return err
			}
			fmt.Printf("created product %s\n", product.ID())
			return nil
		}

		if *id == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "-id is required")
		}
		product, err := application.Admin.UpdateProduct(ctx, *id, input)
		if err != nil {
			return err
		}
		fmt.Printf("updated product %s\n", product.ID())
		return nil

	case "product-delete":
		fs := flag.NewFlagSet("admin product-delete", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		fs.Parse(args[1:])
		if *id == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "-id is required")
		}
		if err := application.Admin.DeleteProduct(ctx, *id); err != nil {
			return err
		}
		fmt.Println("product removed")
		return nil

	case "users":
		users, err := application.Admin.ListUsers(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tADMIN")
		for _, user := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", user.ID, user.Name, user.Email, user.IsAdmin)
		}
		return w.Flush()

	case "user-set-admin":
		fs := flag.NewFlagSet("admin user-set-admin", flag.ExitOnError)
		id := fs.String("id", "", "user id")
		isAdmin := fs.Bool("admin", true, "grant or revoke the flag")
		fs.Parse(args[1:])
		if *id == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "-id is required")
		}
		if err := application.Admin.SetUserAdmin(ctx, *id, *isAdmin); err != nil {
			return err
		}
		fmt.Println("user updated")
		return nil

	case "user-delete":
		fs := flag.NewFlagSet("admin user-delete", flag.ExitOnError)
		id := fs.String("id", "", "user id")
		fs.Parse(args[1:])
		if *id == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "-id is required")
		}
		if err := application.Admin.DeleteUser(ctx, *id); err != nil {
			return err
		}
		fmt.Println("user removed")
		return nil

	case "order-status":
		fs := flag.NewFlagSet("admin order-status", flag.ExitOnError)
		id := fs.String("id", "", "order id")
		status := fs.String("status", "", "pending|processing|shipped|delivered|cancelled")
		fs.Parse(args[1:])
		if *id == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "-id is required")
		}
		if err := application.Admin.SetOrderStatus(ctx, *id, *status); err != nil {
			return err
		}
		fmt.Println("order status updated")
		return nil

	case "reports":
		report, err := application.Admin.Reports(ctx)
		if err != nil {
			return err
		}
		fmt.Println("daily revenue:")
		for _, row := range report.DailyRevenue {
			fmt.Printf("  %s  %s  (%d orders)\n", row.Date, row.Revenue.Display(), row.Orders)
		}
		fmt.Println("top customers:")
		for _, row := range report.TopCustomers {
			fmt.Printf("  %s <%s>  %s\n", row.Name, row.Email, row.Total.Display())
		}
		fmt.Println("category sales:")
		for _, row := range report.CategorySales {
			fmt.Printf("  %s  %s  (%d units)\n", row.Category, row.Revenue.Display(), row.Units)
		}
		return nil
	}

	return fmt.Errorf("unknown admin subcommand %q", args[0])
}

func adminProductInput(name string, price types.Money, category, description, images string) (input admin.ProductInput) {
	input.Name = name
	input.Price = price
	input.Category = category
	input.Description = description
	if images != "" {
		for _, img := range strings.Split(images, ",") {
			if trimmed := strings.TrimSpace(img); trimmed != "" {
				input.Images = append(input.Images, trimmed)
			}
		}
	}
	return input
}

func runBrowse(application *app.App) error {
	p := tea.NewProgram(tui.New(application), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running storefront: %w", err)
	}
	return nil
}
