package roomimage

import (
	"hotel/infras/otel"
	"hotel/internal/domains/roomimage/model/dto"
	"hotel/internal/domains/roomimage/service"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.RoomImage
	otel    otel.Otel
}

func New(service service.RoomImage, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms/{id}/images", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetImages)
		routerGroup.Post("/", handler.AddImage)
		routerGroup.Post("/reorder", handler.ReorderImages)
		routerGroup.Put("/{image}", handler.UpdateImage)
		routerGroup.Delete("/{image}", handler.DeleteImage)
		routerGroup.Post("/{image}/set-primary", handler.SetPrimaryImage)
	})
}

func params(r *http.Request, withImage bool) (roomID, imageID string, err error) {
	roomID = chi.URLParam(r, constant.RequestParamID)
	if err = validator.ValidateVar(roomID, "uuid"); err != nil {
		return roomID, imageID, err
	}

	if !withImage {
		return roomID, imageID, nil
	}

	imageID = chi.URLParam(r, constant.RequestParamImageID)
	if err = validator.ValidateVar(imageID, "uuid"); err != nil {
		return roomID, imageID, err
	}

	return roomID, imageID, nil
}

// GetImages lists a room's images, lowest order first.
// @Summary List room images
// @Tags Room Image
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomImagesResponse]
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id}/images [get]
// @Security BearerAuth
func (handler *Handler) GetImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetImages")
	defer scope.End()

	roomID, _, err := params(r, false)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.List(ctx, roomID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room images")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// AddImage uploads an image for a room.
// @Summary Upload a room image
// @Description The first image of a room becomes primary regardless of is_primary.
// @Tags Room Image
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param file formData file true "Image file (png, jpg, jpeg or webp, up to 5 MB)"
// @Param is_primary formData boolean false "Make this the primary image"
// @Param order formData integer false "Display order"
// @Success 201 {object} response.Data[dto.RoomImageResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/images [post]
// @Security BearerAuth
func (handler *Handler) AddImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddImage")
	defer scope.End()

	roomID, _, err := params(r, false)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err = r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, failure.BadRequestFromString("file is required"))

		return
	}
	defer file.Close()

	req := dto.AddImageRequest{
		RoomID:  roomID,
		File:    fileHeader,
		Content: file,
	}

	if raw := r.FormValue("is_primary"); raw != constant.Empty {
		if req.IsPrimary, err = strconv.ParseBool(raw); err != nil {
			response.WithError(w, failure.BadRequestFromString("is_primary must be a boolean"))

			return
		}
	}

	if raw := r.FormValue("order"); raw != constant.Empty {
		order, err := strconv.Atoi(raw)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("order must be an integer"))

			return
		}

		req.Order = &order
	}

	if err = validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate room image")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Add(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add room image")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room image uploaded by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// UpdateImage changes an image's order or makes it primary.
// @Summary Update a room image
// @Tags Room Image
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param image path string true "Image ID"
// @Param request body dto.UpdateImageRequest true "Image changes"
// @Success 200 {object} response.Data[dto.RoomImageResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id}/images/{image} [put]
// @Security BearerAuth
func (handler *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateImage")
	defer scope.End()

	roomID, imageID, err := params(r, true)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.UpdateImageRequest{}

	if err = validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, roomID, imageID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room image")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteImage removes an image and its stored file.
// @Summary Delete a room image
// @Tags Room Image
// @Produce json
// @Param id path string true "Room ID"
// @Param image path string true "Image ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/images/{image} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteImage")
	defer scope.End()

	roomID, imageID, err := params(r, true)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err = handler.service.Delete(ctx, roomID, imageID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room image")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Room image deleted successfully")
}

// SetPrimaryImage makes an image the room's only primary image.
// @Summary Set the primary room image
// @Tags Room Image
// @Produce json
// @Param id path string true "Room ID"
// @Param image path string true "Image ID"
// @Success 200 {object} response.Data[dto.RoomImageResponse]
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id}/images/{image}/set-primary [post]
// @Security BearerAuth
func (handler *Handler) SetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetPrimaryImage")
	defer scope.End()

	roomID, imageID, err := params(r, true)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.SetPrimary(ctx, roomID, imageID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set primary room image")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ReorderImages assigns new display orders to a room's images.
// @Summary Reorder room images
// @Tags Room Image
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.ReorderRequest true "New orders"
// @Success 200 {object} response.Data[dto.RoomImagesResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id}/images/reorder [post]
// @Security BearerAuth
func (handler *Handler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReorderImages")
	defer scope.End()

	roomID, _, err := params(r, false)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.ReorderRequest{}

	if err = validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Reorder(ctx, roomID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reorder room images")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
