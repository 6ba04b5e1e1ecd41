package handler

import (
	"net/http"

	"ebucks/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ReplayDeadLetters godoc
// @Summary      Re-queue failed print and email jobs
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Router       /v1/jobs/replay [post]
func ReplayDeadLetters(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		replayed := gin.H{}
		for _, q := range []string{worker.QueuePrint, worker.QueueEmail} {
			n, err := worker.ReplayDLQ(c.Request.Context(), rdb, q, 0)
			if err != nil {
				_ = c.Error(err)
				return
			}
			replayed[q] = n
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "replayed": replayed})
	}
}
