package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"github.com/otabek-dev/tutor_center/cache"
	"github.com/otabek-dev/tutor_center/calendar"
	config "github.com/otabek-dev/tutor_center/configs"
	"github.com/otabek-dev/tutor_center/database"
	"github.com/otabek-dev/tutor_center/handlers"
	"github.com/otabek-dev/tutor_center/jobs"
	"github.com/otabek-dev/tutor_center/middleware"
	"github.com/otabek-dev/tutor_center/notifications"
	"github.com/otabek-dev/tutor_center/repository"
	"github.com/otabek-dev/tutor_center/routes"
	"github.com/otabek-dev/tutor_center/services"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()

	cacheSvc := cache.New(config.Config("REDIS_ADDR"), config.Config("REDIS_PASSWORD"))
	if !cacheSvc.Healthy(context.Background()) {
		log.Println("⚠️ Redis is unreachable, caching and rate limiting are disabled")
		cacheSvc = nil
	}

	calendarSvc := calendar.NewGoogleService(
		config.Config("GOOGLE_CLIENT_ID"),
		config.Config("GOOGLE_CLIENT_SECRET"),
	)

	var telegramSender notifications.Sender
	telegramSvc, err := notifications.NewTelegramService(config.Config("TELEGRAM_BOT_TOKEN"))
	if err != nil {
		log.Printf("⚠️ Telegram disabled: %v", err)
	} else {
		telegramSender = telegramSvc
	}

	lessonRepo := repository.NewLessonRepository(database.DB)
	teacherRepo := repository.NewTeacherRepository(database.DB)
	studentRepo := repository.NewStudentRepository(database.DB)
	transactionRepo := repository.NewTransactionRepository(database.DB)

	lessonSvc := services.NewLessonService(lessonRepo, teacherRepo, studentRepo, calendarSvc, cacheSvc)
	transactionSvc := services.NewTransactionService(transactionRepo, lessonRepo)

	lessonHandler := handlers.NewLessonHandler(lessonSvc)
	transactionHandler := handlers.NewTransactionHandler(transactionSvc)
	notificationHandler := handlers.NewNotificationHandler(telegramSender)

	if telegramSender != nil {
		reminderJob := jobs.NewReminderJob(lessonRepo, telegramSender)
		c := cron.New()
		if _, err := c.AddFunc("*/10 * * * *", reminderJob.Run); err != nil {
			log.Fatalf("🔥 Failed to schedule reminder job: %v", err)
		}
		go c.Start()
		log.Println("✅ Lesson reminder job scheduled successfully.")
	} else {
		log.Println("⚠️ Lesson reminder job disabled: no Telegram sender")
	}

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Tutor Center",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization, Content-Disposition",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Tashkent",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(middleware.RateLimit(cacheSvc))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Tutor Center API",
		})
	})

	routes.AuthRoutes(app)
	routes.LessonRoutes(app, lessonHandler)
	routes.TransactionRoutes(app, transactionHandler)
	routes.NotificationRoutes(app, notificationHandler)
	routes.AdminRoutes(app, lessonHandler)
	routes.UploadRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
