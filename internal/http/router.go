package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/cartcookie"
	"ugiot.co.il/app/internal/http/handlers"
	"ugiot.co.il/app/internal/http/handlers/admin"
	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/modules/cart"
	"ugiot.co.il/app/internal/modules/profiles"
)

// Deps is everything the router needs; cmd/web builds it.
type Deps struct {
	Log         *slog.Logger
	DefaultLang validation.Lang
	CartCookie  *cartcookie.Codec
	Session     middleware.SessionCfg
	DB          handlers.Pinger

	// TrustedProxies may set X-Forwarded-For; nil trusts none.
	TrustedProxies []string

	// Static serves local uploads when set (URL prefix → directory).
	UploadsURLPrefix string
	UploadsDir       string

	Auth         handlers.Authenticator
	Catalog      CatalogService
	Checkout     handlers.CheckoutSubmitter
	Profiles     handlers.ProfileStore
	ProfileCache *profiles.Cache
	Passwords    handlers.PasswordChanger
	Orders       OrdersRepo
	OrderAdmin   admin.Transitioner
	Reviews      ReviewsService
	Newsletter   handlers.Subscriber
	NewNumber    cart.OrderNumberFunc
}

// CatalogService is the storefront and admin view of the cookie catalog.
type CatalogService interface {
	handlers.CartCatalog
	handlers.ProductCatalog
	admin.CatalogAdmin
}

type OrdersRepo interface {
	handlers.CustomerOrders
	admin.OrderLister
}

type ReviewsService interface {
	handlers.ReviewService
	admin.ReviewApprover
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	// ClientIP keys the guest checkout rate limit.
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		d.Log.Error("trusted proxies rejected, trusting none", "err", err)
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Lang(d.DefaultLang),
		middleware.Logger(d.Log, "/healthz"),
		middleware.Recovery(d.Log),
		middleware.ErrorHandler(d.Log),
		middleware.SessionMiddleware(d.Session),
		middleware.CartCount(d.CartCookie),
	)

	r.GET("/healthz", handlers.Healthz(d.DB))
	if d.UploadsURLPrefix != "" && d.UploadsDir != "" {
		r.Static(d.UploadsURLPrefix, d.UploadsDir)
	}

	cartH := handlers.NewCartHandler(d.CartCookie, d.Catalog, d.NewNumber)
	checkoutH := handlers.NewCheckoutHandler(d.CartCookie, d.Checkout)
	productsH := handlers.NewProductsHandler(d.Catalog)
	authH := handlers.NewAuthHandlers(d.Auth, d.Session)
	accountH := handlers.NewAccountHandler(d.Profiles, d.ProfileCache, d.Passwords)
	accountOrdersH := handlers.NewAccountOrdersHandler(d.Orders, d.Profiles, d.ProfileCache)
	communityH := handlers.NewCommunityHandler(d.Reviews, d.Newsletter)
	adminOrdersH := admin.NewOrdersHandler(d.Orders, d.OrderAdmin)
	adminCatalogH := admin.NewCatalogHandler(d.Catalog, d.Reviews)

	api := r.Group("/api")
	{
		api.GET("/products", productsH.List)
		api.GET("/products/:slug", productsH.Detail)
		api.GET("/packages", productsH.Packages)
		api.POST("/packages/quote", productsH.Quote)

		api.GET("/cart", cartH.Get)
		api.GET("/cart/count", cartH.Count)
		api.POST("/cart/items", cartH.Add)
		api.PATCH("/cart/items/:name", cartH.Update)
		api.DELETE("/cart/items/:name", cartH.Remove)
		api.DELETE("/cart", cartH.Clear)

		api.GET("/checkout/summary", checkoutH.Summary)
		api.POST("/checkout", checkoutH.Submit)

		api.POST("/auth/signup", authH.Signup)
		api.POST("/auth/login", authH.Login)
		api.POST("/auth/logout", authH.Logout)
		api.GET("/auth/me", authH.Me)

		api.GET("/reviews", communityH.ListReviews)
		api.POST("/reviews", communityH.SubmitReview)
		api.POST("/newsletter", communityH.Subscribe)
	}

	account := api.Group("", middleware.RequireAuth())
	{
		account.GET("/profile", accountH.GetProfile)
		account.PUT("/profile", accountH.PutProfile)
		account.POST("/account/password", accountH.ChangePassword)
		account.GET("/account/orders", accountOrdersH.List)
		account.GET("/account/orders/:id", accountOrdersH.Detail)
	}

	adm := api.Group("/admin", middleware.RequireAdmin())
	{
		adm.GET("/orders", adminOrdersH.List)
		adm.GET("/orders/:id", adminOrdersH.Detail)
		adm.POST("/orders/:id/transition", adminOrdersH.Transition)
		adm.POST("/products/:slug/image", adminCatalogH.UploadImage)
		adm.PUT("/products/:slug/weekly", adminCatalogH.SetWeekly)
		adm.POST("/reviews/:id/approve", adminCatalogH.ApproveReview)
	}

	return r
}
