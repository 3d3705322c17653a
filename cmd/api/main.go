package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/leavedesk/leavedesk-backend-go/internal/config"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	appHTTP "github.com/leavedesk/leavedesk-backend-go/internal/handler/http"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/database"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/jwt"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/oauth"
	"github.com/leavedesk/leavedesk-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/leavedesk/leavedesk-backend-go/internal/service/auth"
	serviceDepartment "github.com/leavedesk/leavedesk-backend-go/internal/service/department"
	serviceLeave "github.com/leavedesk/leavedesk-backend-go/internal/service/leave"
	serviceUser "github.com/leavedesk/leavedesk-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "leavedesk"),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	roleEntitlementRepo := postgresql.NewRoleEntitlementRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	authService := serviceAuth.NewAuthService(userRepo, refreshTokenRepo, jwtService, googleService)
	userService := serviceUser.NewUserService(userRepo, refreshTokenRepo)
	departmentService := serviceDepartment.NewDepartmentService(departmentRepo)
	leaveService := serviceLeave.NewLeaveService(
		db,
		userRepo,
		leaveTypeRepo,
		leaveBalanceRepo,
		leaveRequestRepo,
		roleEntitlementRepo,
		leave.NewHolidaySet(cfg.App.Holidays),
		logger,
	)

	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := refreshTokenRepo.DeleteExpired(context.Background())
			if err != nil {
				logger.Error("refresh token cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("expired refresh tokens deleted", "count", deleted)
			}
		}
	}()

	authHandler := appHTTP.NewAuthHandler(authService, jwtService)
	userHandler := appHTTP.NewUserHandler(userService)
	departmentHandler := appHTTP.NewDepartmentHandler(departmentService)
	leaveHandler := appHTTP.NewLeaveHandler(leaveService)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		userHandler,
		departmentHandler,
		leaveHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
