package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/littlerefugees/shelter-backend/internal/config"
	"github.com/littlerefugees/shelter-backend/internal/handlers"
	"github.com/littlerefugees/shelter-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	shelterHandler *handlers.ShelterHandler,
	animalHandler *handlers.AnimalHandler,
	photoHandler *handlers.PhotoHandler,
	adoptionHandler *handlers.AdoptionHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	protected := middleware.JWTProtected(cfg)

	api.Get("/auth/me", protected, authHandler.Me)
	api.Patch("/auth/first-login-completed", protected, authHandler.FirstLoginCompleted)

	// Adoption requests
	adoptions := api.Group("/adoptions", protected)
	adoptions.Post("/", adoptionHandler.Create)
	adoptions.Get("/my-requests", adoptionHandler.ListMine)
	adoptions.Get("/shelter", adoptionHandler.ListForShelter)
	adoptions.Get("/request/:id", adoptionHandler.GetByID)
	adoptions.Put("/:id/status", adoptionHandler.UpdateStatus)
	adoptions.Delete("/:id", adoptionHandler.Delete)

	// Animals. The admin subtree is registered before the public :id route so
	// /animals/admin never matches as an animal id.
	animals := api.Group("/animals", protected)
	animals.Post("/admin", animalHandler.Create)
	animals.Get("/admin", animalHandler.ListForShelter)
	animals.Get("/admin/:id", animalHandler.GetForShelter)
	animals.Put("/admin/:id", animalHandler.Update)
	animals.Delete("/admin/:id", animalHandler.Delete)
	animals.Post("/admin/:id/photos", photoHandler.Upload)
	animals.Get("/admin/:id/photos", photoHandler.ListForShelter)
	animals.Delete("/admin/:animalId/photos/:photoId", photoHandler.DeleteOne)
	animals.Delete("/admin/:animalId/photos", photoHandler.DeleteAll)
	animals.Get("/", animalHandler.ListPublic)
	animals.Get("/:id", animalHandler.GetPublic)

	// Photos addressed directly
	photos := api.Group("/photos", protected)
	photos.Post("/", photoHandler.CreateFromURL)
	photos.Get("/animal/:animalId", photoHandler.ListByAnimal)
	photos.Delete("/:id", photoHandler.DeleteByID)

	// Shelters. List and detail are public; everything else needs a token.
	shelters := api.Group("/shelters")
	shelters.Post("/", protected, shelterHandler.Create)
	shelters.Get("/admin/:id", protected, shelterHandler.Summary)
	shelters.Get("/me/admins", protected, shelterHandler.ListAdmins)
	shelters.Post("/admins", protected, shelterHandler.AddAdmin)
	shelters.Delete("/admins", protected, shelterHandler.RemoveAdmin)
	shelters.Get("/", shelterHandler.List)
	shelters.Get("/:id", shelterHandler.GetByID)
	shelters.Put("/:id", protected, shelterHandler.Update)
	shelters.Delete("/:id", protected, shelterHandler.Delete)

	// Account self-service
	users := api.Group("/users", protected)
	users.Put("/me", userHandler.UpdateProfile)
	users.Patch("/me/first-login", authHandler.FirstLoginCompleted)
	users.Delete("/me", userHandler.DeleteAccount)
	users.Delete("/:id", userHandler.DeleteByOwner)
}
