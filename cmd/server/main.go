package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alextreichler/tiendamanzana/internal/checkout"
	"github.com/alextreichler/tiendamanzana/internal/config"
	"github.com/alextreichler/tiendamanzana/internal/handlers"
	"github.com/alextreichler/tiendamanzana/internal/session"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/gorilla/csrf"
)

func main() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// TextHandler for console readability; JSONHandler would suit production.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessions := session.NewCookieStore(session.CookieOptions{
		Key:    cfg.SessionKey,
		Secure: cfg.CookieSecure,
		Domain: cfg.CookieDomain,
	})

	// 4. Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Handlers
	app := &handlers.App{
		Store:     db,
		Templates: templates,
		Sessions:  sessions,
	}
	shopHandler := &handlers.ShopHandler{App: app}
	authHandler := &handlers.AuthHandler{App: app}
	cartHandler := &handlers.CartHandler{App: app}
	checkoutHandler := &handlers.CheckoutHandler{
		App:          app,
		Materializer: &checkout.Materializer{Catalog: db, Orders: db},
	}
	adminHandler := &handlers.AdminHandler{App: app}

	rateLimiter := handlers.NewRateLimiter(3 * time.Second)
	mux := routes(shopHandler, authHandler, cartHandler, checkoutHandler, adminHandler, rateLimiter)

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}

// routes builds the full route table. The dashboard is registered with an
// exact-match pattern so it cannot overlap the {categoria} wildcards below.
func routes(
	shopHandler *handlers.ShopHandler,
	authHandler *handlers.AuthHandler,
	cartHandler *handlers.CartHandler,
	checkoutHandler *handlers.CheckoutHandler,
	adminHandler *handlers.AdminHandler,
	rateLimiter *handlers.RateLimiter,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Storefront
	mux.HandleFunc("/", shopHandler.Index)
	mux.HandleFunc("GET /productos/{categoria}/", shopHandler.Category)
	mux.HandleFunc("GET /login/", authHandler.LoginGet)
	mux.HandleFunc("POST /login/", rateLimiter.Middleware(authHandler.LoginPost))
	mux.HandleFunc("/logout/", authHandler.Logout)
	mux.HandleFunc("GET /registro/", authHandler.RegisterGet)
	mux.HandleFunc("POST /registro/", authHandler.RegisterPost)
	mux.HandleFunc("GET /mis-pedidos/", shopHandler.MyOrders)

	// Cart
	mux.HandleFunc("GET /carrito/", cartHandler.View)
	mux.HandleFunc("POST /carrito/agregar/", cartHandler.Add)
	mux.HandleFunc("POST /carrito/eliminar/{key}/", cartHandler.Remove)
	mux.HandleFunc("POST /carrito/actualizar/{key}/", cartHandler.Update)

	// Checkout: direccion -> pago -> resumen -> finalizar
	mux.HandleFunc("GET /checkout/direccion/", checkoutHandler.AddressForm)
	mux.HandleFunc("POST /checkout/guardar_direccion/", checkoutHandler.SaveAddress)
	mux.HandleFunc("GET /checkout/pago/", checkoutHandler.PaymentForm)
	mux.HandleFunc("POST /checkout/pago/guardar/", checkoutHandler.SavePayment)
	mux.HandleFunc("GET /checkout/resumen/", checkoutHandler.Summary)
	mux.HandleFunc("POST /checkout/finalizar/", rateLimiter.Middleware(checkoutHandler.Finalize))

	// Admin console
	mux.HandleFunc("/admin/inicio/{$}", adminHandler.RequireAdmin(adminHandler.Dashboard))

	mux.HandleFunc("GET /admin/usuario/ver/", adminHandler.RequireAdmin(adminHandler.ListUsers))
	mux.HandleFunc("GET /admin/usuario/agregar/", adminHandler.RequireAdmin(adminHandler.NewUserForm))
	mux.HandleFunc("POST /admin/usuario/agregar/", adminHandler.RequireAdmin(adminHandler.CreateUser))
	mux.HandleFunc("GET /admin/usuario/actualizar/{id}/", adminHandler.RequireAdmin(adminHandler.EditUserForm))
	mux.HandleFunc("POST /admin/usuario/realizar_actualizacion/{id}/", adminHandler.RequireAdmin(adminHandler.UpdateUser))
	mux.HandleFunc("GET /admin/usuario/borrar/{id}/", adminHandler.RequireAdmin(adminHandler.DeleteUserConfirm))
	mux.HandleFunc("POST /admin/usuario/borrar/{id}/", adminHandler.RequireAdmin(adminHandler.DeleteUser))

	mux.HandleFunc("GET /admin/pedido/ver/", adminHandler.RequireAdmin(adminHandler.ListOrders))
	mux.HandleFunc("GET /admin/pedido/actualizar/{id}/", adminHandler.RequireAdmin(adminHandler.EditOrderForm))
	mux.HandleFunc("POST /admin/pedido/actualizar/{id}/", adminHandler.RequireAdmin(adminHandler.UpdateOrder))
	mux.HandleFunc("GET /admin/pedido/borrar/{id}/", adminHandler.RequireAdmin(adminHandler.DeleteOrderConfirm))
	mux.HandleFunc("POST /admin/pedido/borrar/{id}/", adminHandler.RequireAdmin(adminHandler.DeleteOrder))

	// Per-category catalog CRUD: /admin/celular/..., /admin/laptop/..., etc.
	mux.HandleFunc("GET /admin/{categoria}/ver/", adminHandler.RequireAdmin(adminHandler.ListProducts))
	mux.HandleFunc("GET /admin/{categoria}/agregar/", adminHandler.RequireAdmin(adminHandler.NewProductForm))
	mux.HandleFunc("POST /admin/{categoria}/agregar/", adminHandler.RequireAdmin(adminHandler.CreateProduct))
	mux.HandleFunc("GET /admin/{categoria}/actualizar/{id}/", adminHandler.RequireAdmin(adminHandler.EditProductForm))
	mux.HandleFunc("POST /admin/{categoria}/realizar_actualizacion/{id}/", adminHandler.RequireAdmin(adminHandler.UpdateProduct))
	mux.HandleFunc("GET /admin/{categoria}/borrar/{id}/", adminHandler.RequireAdmin(adminHandler.DeleteProductConfirm))
	mux.HandleFunc("POST /admin/{categoria}/borrar/{id}/", adminHandler.RequireAdmin(adminHandler.DeleteProduct))

	return mux
}
