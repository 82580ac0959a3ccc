package server

import (
	"context"
	"time"

	announcement_controllers "github.com/muhammedanshif/rentEase/announcements/controllers"
	announcement_repositories "github.com/muhammedanshif/rentEase/announcements/repositories"
	announcement_routes "github.com/muhammedanshif/rentEase/announcements/routes"
	bill_controllers "github.com/muhammedanshif/rentEase/bills/controllers"
	bill_repositories "github.com/muhammedanshif/rentEase/bills/repositories"
	bill_routes "github.com/muhammedanshif/rentEase/bills/routes"
	bill_services "github.com/muhammedanshif/rentEase/bills/services"
	bleveControllers "github.com/muhammedanshif/rentEase/bleve/controllers"
	bleveRepositories "github.com/muhammedanshif/rentEase/bleve/repositories"
	bleveRoutes "github.com/muhammedanshif/rentEase/bleve/routes"
	bleveServices "github.com/muhammedanshif/rentEase/bleve/services"
	building_controllers "github.com/muhammedanshif/rentEase/buildings/controllers"
	building_repositories "github.com/muhammedanshif/rentEase/buildings/repositories"
	building_routes "github.com/muhammedanshif/rentEase/buildings/routes"
	complaint_controllers "github.com/muhammedanshif/rentEase/complaints/controllers"
	complaint_repositories "github.com/muhammedanshif/rentEase/complaints/repositories"
	complaint_routes "github.com/muhammedanshif/rentEase/complaints/routes"
	"github.com/muhammedanshif/rentEase/config"
	dashboard_controllers "github.com/muhammedanshif/rentEase/dashboard/controllers"
	dashboard_repositories "github.com/muhammedanshif/rentEase/dashboard/repositories"
	dashboard_routes "github.com/muhammedanshif/rentEase/dashboard/routes"
	emergency_controllers "github.com/muhammedanshif/rentEase/emergency/controllers"
	emergency_repositories "github.com/muhammedanshif/rentEase/emergency/repositories"
	emergency_routes "github.com/muhammedanshif/rentEase/emergency/routes"
	"github.com/muhammedanshif/rentEase/middleware"
	payment_controllers "github.com/muhammedanshif/rentEase/payments/controllers"
	payment_repositories "github.com/muhammedanshif/rentEase/payments/repositories"
	payment_routes "github.com/muhammedanshif/rentEase/payments/routes"
	payment_services "github.com/muhammedanshif/rentEase/payments/services"
	room_controllers "github.com/muhammedanshif/rentEase/rooms/controllers"
	room_repositories "github.com/muhammedanshif/rentEase/rooms/repositories"
	room_routes "github.com/muhammedanshif/rentEase/rooms/routes"
	"github.com/muhammedanshif/rentEase/tasks"
	tenant_controllers "github.com/muhammedanshif/rentEase/tenants/controllers"
	tenant_repositories "github.com/muhammedanshif/rentEase/tenants/repositories"
	tenant_routes "github.com/muhammedanshif/rentEase/tenants/routes"
	"github.com/muhammedanshif/rentEase/token"
	user_controllers "github.com/muhammedanshif/rentEase/users/controllers"
	user_repositories "github.com/muhammedanshif/rentEase/users/repositories"
	user_routes "github.com/muhammedanshif/rentEase/users/routes"
	"github.com/muhammedanshif/rentEase/utils"
	"github.com/muhammedanshif/rentEase/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const APIPrefix = "/api/v1"

// Deps is everything the HTTP layer needs from main. Hub, Queue and Redis may
// be nil; the features that use them degrade quietly.
type Deps struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	TokenMaker    token.Maker
	TokenDuration time.Duration
	Storage       *utils.LocalFileStorage
	Indexer       bleveServices.IndexingServiceInterface
	Hub           *websocket.Hub
	Queue         tasks.Enqueuer
	Gateway       payment_services.Gateway
	RentDueDay    int
	RenderPDF     func(ctx context.Context, html string) ([]byte, error)
}

// Server is the assembled app plus the pieces main also hands to background workers.
type Server struct {
	App        *fiber.App
	Generator  *bill_services.RentGenerator
	TenantRepo tenant_repositories.TenantRepository
	BleveRepo  bleveRepositories.BleveRepositoryInterface
}

func NewApp(d Deps) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message, "data": nil, "error": fe.Message})
			}
			config.Logger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			return utils.RespondError(c, err)
		},
	})
	app.Use(recover.New())
	middleware.InitCors(app)

	app.Static("/uploads", d.Storage.Root())

	var publisher websocket.Publisher
	if d.Hub != nil {
		publisher = d.Hub
	}
	gateway := d.Gateway
	if gateway == nil {
		gateway = payment_services.NewMockGateway()
	}

	appCtx := &middleware.AppContext{
		PasetoMaker: d.TokenMaker,
		Ctx:         context.Background(),
		RedisClient: d.RedisClient,
		DB:          d.DB,
	}

	// Repositories
	userRepo := user_repositories.NewUserRepository(d.DB)
	buildingRepo := building_repositories.NewBuildingRepository(d.DB)
	roomRepo := room_repositories.NewRoomRepository(d.DB)
	tenantRepo := tenant_repositories.NewTenantRepository(d.DB)
	billRepo := bill_repositories.NewBillRepository(d.DB)
	complaintRepo := complaint_repositories.NewComplaintRepository(d.DB)
	announcementRepo := announcement_repositories.NewAnnouncementRepository(d.DB)
	contactRepo := emergency_repositories.NewEmergencyContactRepository(d.DB)
	settingsRepo := payment_repositories.NewPaymentSettingsRepository(d.DB)
	statsRepo := dashboard_repositories.NewStatsRepository(d.DB)
	bleveRepo := bleveRepositories.NewBleveRepository(d.Indexer)

	// Services
	billService := bill_services.NewBillService(billRepo)
	generator := bill_services.NewRentGenerator(d.DB, billRepo, d.RentDueDay)

	// Controllers
	loginController := &user_controllers.LoginController{
		UserRepo:      userRepo,
		PasetoMaker:   d.TokenMaker,
		RedisClient:   d.RedisClient,
		TokenDuration: d.TokenDuration,
	}
	buildingController := &building_controllers.BuildingController{
		BuildingRepo: buildingRepo,
		RoomRepo:     roomRepo,
		TenantRepo:   tenantRepo,
		DB:           d.DB,
		RedisClient:  d.RedisClient,
		BleveRepo:    bleveRepo,
	}
	roomController := &room_controllers.RoomController{
		RoomRepo:    roomRepo,
		DB:          d.DB,
		Storage:     d.Storage,
		RedisClient: d.RedisClient,
	}
	tenantController := &tenant_controllers.TenantController{
		TenantRepo:  tenantRepo,
		UserRepo:    userRepo,
		DB:          d.DB,
		Storage:     d.Storage,
		RedisClient: d.RedisClient,
		BleveRepo:   bleveRepo,
	}
	billController := &bill_controllers.BillController{
		BillRepo:    billRepo,
		DB:          d.DB,
		Service:     billService,
		Generator:   generator,
		Storage:     d.Storage,
		Queue:       d.Queue,
		Hub:         publisher,
		RedisClient: d.RedisClient,
		RenderPDF:   d.RenderPDF,
	}
	complaintController := &complaint_controllers.ComplaintController{
		ComplaintRepo: complaintRepo,
		DB:            d.DB,
		Queue:         d.Queue,
		Hub:           publisher,
		RedisClient:   d.RedisClient,
	}
	announcementController := &announcement_controllers.AnnouncementController{
		AnnouncementRepo: announcementRepo,
		DB:               d.DB,
		Hub:              publisher,
	}
	contactController := &emergency_controllers.EmergencyContactController{
		ContactRepo: contactRepo,
		DB:          d.DB,
	}
	paymentController := &payment_controllers.PaymentController{
		SettingsRepo: settingsRepo,
		Gateway:      gateway,
		BillService:  billService,
		DB:           d.DB,
		Storage:      d.Storage,
		OnPaid:       billController.AfterPaid,
	}
	dashboardController := &dashboard_controllers.DashboardController{
		StatsRepo:   statsRepo,
		DB:          d.DB,
		RedisClient: d.RedisClient,
	}

	// Routes
	api := app.Group(APIPrefix)
	api.Get("/health", func(c *fiber.Ctx) error {
		return utils.RespondOK(c, fiber.StatusOK, "ok", fiber.Map{"time": time.Now()})
	})

	user_routes.InitRoutes(api, appCtx, loginController)
	building_routes.BuildingRouterInit(api, appCtx, buildingController)
	room_routes.RoomRouterInit(api, appCtx, roomController)
	bleveRoutes.InitBleveRoutes(api, appCtx, bleveControllers.NewSearchController(bleveRepo))
	tenant_routes.TenantRouterInit(api, appCtx, tenantController)
	bill_routes.BillRouterInit(api, appCtx, billController)
	complaint_routes.ComplaintRouterInit(api, appCtx, complaintController)
	announcement_routes.AnnouncementRouterInit(api, appCtx, announcementController)
	emergency_routes.EmergencyContactRouterInit(api, appCtx, contactController)
	payment_routes.PaymentRouterInit(api, appCtx, paymentController)
	dashboard_routes.DashboardRouterInit(api, appCtx, dashboardController)

	if d.Hub != nil {
		wsHandler := websocket.NewWsHandler(d.Hub, d.TokenMaker)
		app.Get("/ws", wsHandler.HandleWebSocket)
	}

	return &Server{
		App:        app,
		Generator:  generator,
		TenantRepo: tenantRepo,
		BleveRepo:  bleveRepo,
	}
}
