package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-video-service/utils"
)

func (ctrl *Controller) Health(c *gin.Context) {
	utils.JSON200(c, gin.H{"status": "ok"})
}
