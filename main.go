package main

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/config"
	"github.com/sagebistro/reservation-app/router"
	"github.com/sagebistro/reservation-app/session"
	"github.com/sagebistro/reservation-app/store"
	"github.com/sagebistro/reservation-app/stubbackend"
	"github.com/sagebistro/reservation-app/utils"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	upstreamURL := cfg.UpstreamURL
	if cfg.LocalBackend {
		// Development mode: run the whole stack in one process against the
		// in-memory stub upstream.
		stub, err := stubbackend.New("local-dev-secret")
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to start local backend: %v", err)
		}
		if err := stub.SeedAdmin("admin@example.com", "secret123"); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed local admin: %v", err)
		}
		if _, err := stub.SeedTable("A1", 4); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed local table: %v", err)
		}
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to listen for local backend: %v", err)
		}
		go func() {
			if err := http.Serve(ln, stub.Router()); err != nil {
				utils.ErrorLogger.Printf("Local backend stopped: %v", err)
			}
		}()
		upstreamURL = "http://" + ln.Addr().String()
		utils.InfoLogger.Printf("Local backend running at %s", upstreamURL)
	}

	tokens := client.NewMemoryTokenStore(cfg.AdminToken)
	api := client.New(upstreamURL, tokens)
	sessions := session.NewManager(tokens, cfg.SessionIdle)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tables := store.NewTableStore(api, cfg.CustomerPoll)
	bookings := store.NewBookingStore(api, cfg.CustomerPoll)
	bookings.OnError = func(err error) {
		utils.ErrorLogger.Printf("Warning: booking list is stale: %v", err)
	}

	// Poll faster while the dashboard is in use, back off once it isn't.
	sessions.OnLogin = func() {
		tables.SetInterval(cfg.AdminPoll)
		bookings.SetInterval(cfg.AdminPoll)
	}
	relax := func() {
		tables.SetInterval(cfg.CustomerPoll)
		bookings.SetInterval(cfg.CustomerPoll)
	}
	sessions.OnLogout = relax
	sessions.OnExpire = relax

	tables.Start(ctx)
	bookings.Start(ctx)
	defer tables.Stop()
	defer bookings.Stop()

	r := router.SetupRouter(router.Deps{
		API:       api,
		Tables:    tables,
		Bookings:  bookings,
		Sessions:  sessions,
		RateLimit: cfg.RateLimit,
	})

	utils.InfoLogger.Printf("Listening on port %s (upstream %s)", cfg.Port, upstreamURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
