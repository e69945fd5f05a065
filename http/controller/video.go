package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-video-service/http/controller/dto"
	"github.com/tnqbao/gau-video-service/service"
	"github.com/tnqbao/gau-video-service/utils"
)

func (ctrl *Controller) CreateVideo(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateVideoRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Video] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	video, err := ctrl.Service.Video.Create(ctx, service.CreateVideoInput{
		Title:          req.Title,
		Description:    req.Description,
		VideoURL:       req.VideoURL,
		ThumbnailURL:   req.ThumbnailURL,
		Transformation: req.Transformation,
		CreatedBy:      c.GetString("user_id"),
	})
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Video] Rejected video: %s", validationErr.Reason)
			utils.JSON400(c, validationErr.Reason)
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to create video: %v", err)
		utils.JSON500(c, "Failed to create video")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Video] Created video %s", video.ID)
	utils.JSON201(c, video)
}

func (ctrl *Controller) GetVideoByID(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	video, err := ctrl.Service.Video.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.JSON404(c, "Video not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to fetch video %s: %v", id, err)
		utils.JSON500(c, "Failed to fetch video")
		return
	}

	utils.JSON200(c, video)
}

func (ctrl *Controller) ListVideos(c *gin.Context) {
	ctx := c.Request.Context()

	videos, err := ctrl.Service.Video.ListAll(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to list videos: %v", err)
		utils.JSON500(c, "Failed to fetch videos")
		return
	}

	utils.JSON200(c, videos)
}
