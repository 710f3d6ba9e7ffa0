package handler

import "github.com/labstack/echo/v4"

// RegisterRoutes は /api/v1 以下のルートを登録する
func RegisterRoutes(e *echo.Echo, championships *ChampionshipHandler, shows *ShowHandler) {
	v1 := e.Group("/api/v1")

	cg := v1.Group("/championships")
	cg.POST("", championships.Create)
	cg.GET("", championships.List)
	cg.GET("/:id", championships.GetByID)
	cg.DELETE("/:id", championships.Delete)
	cg.POST("/:id/holder", championships.SetHolder)
	cg.POST("/:id/defenses", championships.RecordDefense)
	cg.POST("/:id/vacate", championships.Vacate)
	cg.POST("/:id/deactivate", championships.Deactivate)

	sg := v1.Group("/shows")
	sg.POST("", shows.Create)
	sg.GET("", shows.List)
	sg.GET("/:id", shows.GetByID)
	sg.DELETE("/:id", shows.Delete)
	sg.POST("/:id/matches", shows.AddMatch)
	sg.PUT("/:id/matches/:match_id", shows.UpdateMatch)
	sg.DELETE("/:id/matches/:match_id", shows.RemoveMatch)
	sg.POST("/:id/segments", shows.AddSegment)
	sg.PUT("/:id/segments/:segment_id", shows.UpdateSegment)
	sg.DELETE("/:id/segments/:segment_id", shows.RemoveSegment)
	sg.POST("/:id/schedule", shows.Schedule)
	sg.POST("/:id/start", shows.Start)
	sg.POST("/:id/complete", shows.Complete)
	sg.POST("/:id/cancel", shows.Cancel)
}
