package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the registry API on an /api/v1 group.
func RegisterRoutes(v1 *gin.RouterGroup, parcels *ParcelHandler, expropriations *ExpropriationHandler, inheritance *InheritanceHandler) {
	RegisterValidators()

	parcelRoutes := v1.Group("/parcels")
	{
		parcelRoutes.GET("", parcels.List)
		parcelRoutes.GET("/at-point", parcels.AtPoint)
		parcelRoutes.GET("/nearby", parcels.Nearby)
		parcelRoutes.GET("/stats", parcels.Stats)
		parcelRoutes.GET("/:parcelId", parcels.Get)
	}

	expropriationRoutes := v1.Group("/expropriations")
	{
		expropriationRoutes.GET("", expropriations.List)
		expropriationRoutes.GET("/:id", expropriations.Get)
	}

	inheritanceRoutes := v1.Group("/inheritance-requests")
	{
		inheritanceRoutes.POST("", inheritance.Create)
		inheritanceRoutes.GET("", inheritance.List)
		inheritanceRoutes.GET("/:id", inheritance.Get)
		inheritanceRoutes.PATCH("/:id", inheritance.Update)
		inheritanceRoutes.POST("/:id/verify", inheritance.Verify)
		inheritanceRoutes.POST("/:id/execute", inheritance.Execute)
		inheritanceRoutes.POST("/:id/cancel", inheritance.Cancel)
	}
}
