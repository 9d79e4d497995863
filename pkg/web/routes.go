// Package web provides API routes for the web server.
package web

import (
	"net/http"

	"github.com/PancyStudios/StrikeTrackerBot/internal/striker"
	"github.com/PancyStudios/StrikeTrackerBot/internal/tracker"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/database"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

// ChiefSource lists chief summaries
type ChiefSource interface {
	Summaries() []striker.Summary
}

// TrackerSource lists a guild's trackers
type TrackerSource interface {
	List(guildID string) []tracker.Tracker
}

// API holds what the routes read from
type API struct {
	Chiefs         ChiefSource
	Trackers       TrackerSource
	StorageBackend string
}

// trackerView is a tracker with its formatted progress
type trackerView struct {
	tracker.Tracker
	Percent  int    `json:"percent"`
	Progress string `json:"progress"`
	Reached  bool   `json:"reached"`
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, api *API) {
	group := s.Group("/api")
	{
		group.GET("/health", healthHandler)
		group.GET("/status", api.statusHandler)
		group.GET("/guilds/:guildId/trackers", api.trackersHandler)
		group.GET("/chiefs", api.chiefsHandler)
		group.GET("/chiefs/export", api.exportHandler)
	}
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "StrikeTracker Bot is running",
	})
}

// statusHandler returns the bot and storage status
func (api *API) statusHandler(c *gin.Context) {
	client := discord.Get()
	dbStatus, dbOnline := database.Get().GetStatus()

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"storage": gin.H{
			"backend": api.StorageBackend,
		},
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": client.IsReady(),
			"guilds":   client.GuildCount(),
		},
	})
}

func (api *API) trackersHandler(c *gin.Context) {
	list := api.Trackers.List(c.Param("guildId"))
	views := make([]trackerView, 0, len(list))
	for _, t := range list {
		views = append(views, trackerView{
			Tracker:  t,
			Percent:  t.Percent(),
			Progress: t.Progress(),
			Reached:  t.Reached(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"guildId":  c.Param("guildId"),
		"trackers": views,
	})
}

func (api *API) chiefsHandler(c *gin.Context) {
	rows := api.Chiefs.Summaries()
	if rows == nil {
		rows = []striker.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"chiefs": rows})
}

func (api *API) exportHandler(c *gin.Context) {
	rows := api.Chiefs.Summaries()
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="chiefs.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
