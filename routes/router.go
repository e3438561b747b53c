package routes

import (
	"github.com/euduvido/challenge_backend/controllers"
	"github.com/euduvido/challenge_backend/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter wires every endpoint of the challenge service. Exposed so
// tests can run the full stack against an in-memory database.
func SetupRouter() *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/challenges/invite/:code", controllers.ValidateShareCode)
	}

	// Protected routes
	api := router.Group("/api")
	api.Use(middleware.JWTAuth())
	{
		// Challenge creation and queries
		api.POST("/challenges", controllers.PrepareChallenge)
		api.POST("/challenges/prepare", controllers.PrepareChallenge)
		api.POST("/challenges/create", controllers.CreateChallengeAfterPayment)
		api.POST("/challenges/create-without-payment", controllers.CreateChallengeWithoutPayment)
		api.GET("/challenges", controllers.GetChallenges)
		api.GET("/challenges/stats", controllers.GetStats)
		api.GET("/challenges/:id", controllers.GetChallenge)
		api.PATCH("/challenges/:id/icon", controllers.UpdateIcon)
		api.GET("/dashboard", controllers.GetDashboard)

		// Lifecycle
		api.POST("/challenges/:id/accept", controllers.AcceptChallenge)
		api.POST("/challenges/:id/pay", controllers.PayChallenge)
		api.POST("/challenges/:id/start", controllers.StartChallenge)
		api.POST("/challenges/:id/cancel", controllers.ResignChallenge)
		api.POST("/challenges/:id/kick/:userId", controllers.KickParticipant)
		api.POST("/challenges/:id/ban/:userId", controllers.BanParticipant)
		api.POST("/challenges/:id/cancel-challenge", controllers.CancelChallengeByCreator)

		// Finish consensus
		api.POST("/challenges/:id/finish-request", controllers.RequestFinish)
		api.GET("/challenges/:id/finish-request", controllers.GetFinishRequest)
		api.POST("/challenges/:id/finish-request/respond", controllers.RespondFinish)

		// Invites
		api.POST("/challenges/:id/invite", controllers.InviteFriend)
		api.GET("/challenges/:id/invites", controllers.ListChallengeInvites)
		api.GET("/challenges/invites", controllers.ListMyInvites)
		api.POST("/challenges/invites/:inviteId/respond", controllers.RespondToInvite)
		api.DELETE("/challenges/invites/:inviteId", controllers.CancelInvite)
		api.GET("/challenges/:id/share-link", controllers.GetShareLink)
		api.POST("/challenges/invite/:code/join", controllers.JoinByShareCode)
	}

	return router
}
