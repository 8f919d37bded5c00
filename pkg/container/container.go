package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookmarket-backend/internal/config"
	"bookmarket-backend/internal/infrastructure/cache"
	"bookmarket-backend/internal/infrastructure/database"
	"bookmarket-backend/internal/shared/authz"
	"bookmarket-backend/pkg/identity"

	bookHandler "bookmarket-backend/internal/domains/book/handler"
	bookRepo "bookmarket-backend/internal/domains/book/repository"
	bookService "bookmarket-backend/internal/domains/book/service"
	orderHandler "bookmarket-backend/internal/domains/order/handler"
	orderRepo "bookmarket-backend/internal/domains/order/repository"
	orderService "bookmarket-backend/internal/domains/order/service"
	"bookmarket-backend/internal/domains/payment/gateway"
	paymentHandler "bookmarket-backend/internal/domains/payment/handler"
	paymentService "bookmarket-backend/internal/domains/payment/service"
	reviewHandler "bookmarket-backend/internal/domains/review/handler"
	reviewRepo "bookmarket-backend/internal/domains/review/repository"
	reviewService "bookmarket-backend/internal/domains/review/service"
	userHandler "bookmarket-backend/internal/domains/user/handler"
	userRepo "bookmarket-backend/internal/domains/user/repository"
	userService "bookmarket-backend/internal/domains/user/service"
	wishlistHandler "bookmarket-backend/internal/domains/wishlist/handler"
	wishlistRepo "bookmarket-backend/internal/domains/wishlist/repository"
	wishlistService "bookmarket-backend/internal/domains/wishlist/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the whole process.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB
	Redis  *cache.RedisClient
	Locker cache.Locker

	Verifier identity.Verifier
	Policy   *authz.Policy
	Gateway  gateway.CheckoutGateway

	UserRepo     userRepo.UserRepository
	BookRepo     bookRepo.BookRepository
	OrderRepo    orderRepo.OrderRepository
	WishlistRepo wishlistRepo.WishlistRepository
	ReviewRepo   reviewRepo.ReviewRepository

	UserService     userService.UserService
	BookService     bookService.BookService
	OrderService    orderService.OrderService
	CheckoutService paymentService.CheckoutService
	WishlistService wishlistService.WishlistService
	ReviewService   reviewService.ReviewService

	UserHandler     *userHandler.UserHandler
	BookHandler     *bookHandler.BookHandler
	OrderHandler    *orderHandler.OrderHandler
	CheckoutHandler *paymentHandler.CheckoutHandler
	WishlistHandler *wishlistHandler.WishlistHandler
	ReviewHandler   *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the whole dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE REDIS + LOCKER
	// ========================================
	// Redis only backs the per-book rating lock; losing it degrades to
	// lock-free recomputes, so a failed connection is not fatal.
	log.Println("🔴 Connecting to Redis...")

	redisClient := cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(context.Background()); err != nil {
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		c.Locker = cache.NoopLocker{}
	} else {
		log.Println("✅ Redis connected")
		c.Redis = redisClient
		c.Locker = cache.NewRedisLocker(redisClient.Client)
	}

	// ========================================
	// STEP 4: IDENTITY + CHECKOUT GATEWAY
	// ========================================
	c.Verifier = identity.NewJWTVerifier(cfg.Identity.Secret)

	gw, err := gateway.NewHTTPGateway(gateway.Config{
		SecretKey: cfg.Checkout.SecretKey,
		APIURL:    cfg.Checkout.APIURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init checkout gateway: %w", err)
	}
	c.Gateway = gw

	// ========================================
	// STEP 5: REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.BookRepo = bookRepo.NewPostgresBookRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresOrderRepository(pool)
	c.WishlistRepo = wishlistRepo.NewPostgresWishlistRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo)

	// The user service doubles as the role source for authorization and
	// for cross-domain ownership checks.
	roleLookup := authz.RoleLookup(c.UserService.RoleLookup)
	c.Policy = authz.NewPolicy(roleLookup)

	c.BookService = bookService.NewBookService(c.BookRepo, c.OrderRepo, roleLookup)
	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.BookRepo, c.Gateway, roleLookup)
	c.CheckoutService = paymentService.NewCheckoutService(
		c.Gateway,
		c.BookRepo,
		c.Config.Checkout.SuccessURL,
		c.Config.Checkout.CancelURL,
	)
	c.WishlistService = wishlistService.NewWishlistService(c.WishlistRepo, c.BookRepo)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.BookRepo, c.OrderRepo, c.Locker)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.CheckoutHandler = paymentHandler.NewCheckoutHandler(c.CheckoutService)
	c.WishlistHandler = wishlistHandler.NewWishlistHandler(c.WishlistService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
}

// ========================================
// HELPER METHODS
// ========================================

// Cleanup releases infrastructure resources during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
