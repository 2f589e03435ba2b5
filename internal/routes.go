package internal

import (
	"journald/internal/controllers"
	"journald/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, authController *controllers.AuthController, mailController *controllers.MailController, digestController *controllers.DigestController, healthController *controllers.HealthController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/health", http.HandlerFunc(healthController.Health))

	routers.Post("/saveEntry", http.HandlerFunc(apiController.SaveEntry))
	routers.Post("/getEntries", http.HandlerFunc(apiController.GetEntries))
	routers.Post("/generateSummary", http.HandlerFunc(apiController.GenerateSummary))
	routers.Post("/get-user-summary", http.HandlerFunc(apiController.GetUserSummary))
	routers.Post("/transcribeAudio", http.HandlerFunc(apiController.TranscribeAudio))

	routers.Post("/register", http.HandlerFunc(authController.Register))
	routers.Post("/checkUser", http.HandlerFunc(authController.CheckUser))
	routers.Post("/update-timezone", http.HandlerFunc(authController.UpdateTimezone))

	routers.Post("/send-credentials", http.HandlerFunc(mailController.SendCredentials))
	routers.Post("/send-bulk-credentials", http.HandlerFunc(mailController.SendBulkCredentials))
	routers.Post("/test-email", http.HandlerFunc(mailController.TestEmail))

	routers.Post("/test-daily-summaries", http.HandlerFunc(digestController.TestDailySummaries))
	routers.Post("/test-timezone-summaries", http.HandlerFunc(digestController.TestTimezoneSummaries))
	return routers
}
