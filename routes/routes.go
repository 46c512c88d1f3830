package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/academy"
	"github.com/omarhassan900/wattar-academy/config"
	"github.com/omarhassan900/wattar-academy/handlers"
	"github.com/omarhassan900/wattar-academy/middlewares"
)

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	svc := academy.NewService(db)

	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(db, cfg.JWTSecret)
	std := handlers.NewStudentHandler(db, svc)
	att := handlers.NewAttendanceHandler(db, svc)
	ses := handlers.NewSessionHandler(db, svc)
	trn := handlers.NewTrainerHandler(db)
	cls := handlers.NewClassHandler(db)
	cash := handlers.NewCashHandler(db)
	usr := handlers.NewUserHandler(db)
	exp := handlers.NewExportHandler(db, svc)
	rep := handlers.NewReportHandler(db)

	// ===== Public =====
	e.GET("/health", handlers.Health)
	e.POST("/auth/login", auth.Login)

	// ===== Protected Groups =====
	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// Any authenticated staff member: read data, mark attendance.
	staff := e.Group("/api", authMW)
	staff.GET("/auth/me", auth.Me)

	staff.GET("/students", std.List)
	staff.GET("/students/:id", std.Get)

	staff.GET("/sessions", ses.List)

	staff.GET("/attendance/grid", att.Grid)
	staff.POST("/attendance/save-all", att.SaveAll)
	staff.POST("/attendance/mark", att.Mark)
	staff.POST("/attendance/clear", att.Clear)
	staff.GET("/attendance/summary", att.Summary)

	staff.GET("/export/attendance.csv", exp.AttendanceCSV)
	staff.GET("/reports/attendance", rep.Attendance)

	staff.GET("/trainers", trn.List)
	staff.GET("/trainers/:id", trn.Get)

	staff.GET("/classes", cls.List)
	staff.GET("/classes/:id", cls.Get)

	// Front-desk operations: manager or reception.
	desk := e.Group("/api", authMW, middlewares.RequireRole("manager", "reception"))
	desk.POST("/students", std.Create)
	desk.PUT("/students/:id", std.Update)
	desk.DELETE("/students/:id", std.Delete)
	desk.PUT("/students/:id/level", std.SetLevel)

	desk.PUT("/sessions/:id/date", ses.SetDate)
	desk.PUT("/sessions/:id/status", ses.SetStatus)

	desk.GET("/cash", cash.List)
	desk.POST("/cash", cash.Create)
	desk.PUT("/cash/:id", cash.Update)
	desk.DELETE("/cash/:id", cash.Delete)
	desk.GET("/cash/categories", cash.Categories)

	desk.GET("/reports/dashboard", rep.Dashboard)

	desk.GET("/users", usr.List)
	desk.POST("/users", usr.Create)
	desk.PUT("/users/:id", usr.Update)
	desk.DELETE("/users/:id", usr.Delete)

	// Manager only: trainer and class administration.
	mgr := e.Group("/api", authMW, middlewares.RequireRole("manager"))
	mgr.POST("/cash/categories", cash.CreateCategory)

	mgr.POST("/trainers", trn.Create)
	mgr.PUT("/trainers/:id", trn.Update)
	mgr.DELETE("/trainers/:id", trn.Delete)

	mgr.POST("/classes", cls.Create)
	mgr.PUT("/classes/:id", cls.Update)
	mgr.DELETE("/classes/:id", cls.Delete)
	mgr.POST("/classes/:id/students", cls.Enroll)
	mgr.DELETE("/classes/:id/students/:studentID", cls.Unenroll)
}
