package services

import (
	"io"

	"miimaker/internal/audio"
	"miimaker/internal/maker"
	"miimaker/types"
	"miimaker/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (a *Api) CreateSession() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		logger := HttpLogger("create-session", ctx)

		id := uuid.NewString()
		sound := audio.NewSoundtrack(audio.MakerTrack, a.hub.Sink(id))

		opts := maker.OptionsFromConfig(a.upload)
		opts.Sound = sound
		opts.OnChange = func(s maker.Snapshot) {
			a.hub.SendTo(id, stateEvent(s))
		}

		session := maker.NewSession(id, a.gen, a.previews, opts)
		if err := a.sessions.Add(session, sound); err != nil {
			session.Close()
			return writeError(ctx, err)
		}

		logger.Info("session created", "session", id)
		return ctx.Status(fiber.StatusCreated).JSON(types.CreateSessionResponse{SessionID: id})
	}
}

func (a *Api) GetSession() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		e, err := a.sessions.Get(ctx.Params("id"))
		if err != nil {
			return writeError(ctx, err)
		}
		return ctx.Status(fiber.StatusOK).JSON(sessionResponse(e.session.Snapshot()))
	}
}

func (a *Api) DeleteSession() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := ctx.Params("id")
		if !a.sessions.Remove(id) {
			return writeError(ctx, ErrSessionNotFound)
		}
		HttpLogger("delete-session", ctx).Info("session closed")
		return ctx.SendStatus(fiber.StatusNoContent)
	}
}

func (a *Api) UploadImage() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		logger := HttpLogger("upload-image", ctx)

		e, err := a.sessions.Get(ctx.Params("id"))
		if err != nil {
			return writeError(ctx, err)
		}

		drop := ctx.Query("source") == "drop"

		header, err := ctx.FormFile("file")
		if err != nil {
			if drop {
				// Something that is not a file was dropped. The session still
				// reports it and clears the drag flag.
				if err := e.session.Drop(maker.Upload{}); err != nil {
					logger.Warn("drop without file", "err", err)
					return writeError(ctx, err)
				}
				return ctx.Status(fiber.StatusOK).JSON(sessionResponse(e.session.Snapshot()))
			}
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Error:   err.Error(),
				Message: "missing file",
			})
		}

		file, err := header.Open()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Error:   err.Error(),
				Message: "unreadable file",
			})
		}
		defer file.Close()

		// One byte past the limit is enough for the session to reject it.
		data, err := io.ReadAll(io.LimitReader(file, a.upload.MaxBytes+1))
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Error:   err.Error(),
				Message: "unreadable file",
			})
		}

		upload := maker.Upload{
			Name:      header.Filename,
			MediaType: header.Header.Get(fiber.HeaderContentType),
			Data:      data,
		}

		if drop {
			err = e.session.Drop(upload)
		} else {
			err = e.session.Select(upload)
		}
		if err != nil {
			logger.Warn("image rejected", "file", header.Filename, "size", header.Size, "err", err)
			return writeError(ctx, err)
		}

		return ctx.Status(fiber.StatusOK).JSON(sessionResponse(e.session.Snapshot()))
	}
}

func (a *Api) Drag() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		e, err := a.sessions.Get(ctx.Params("id"))
		if err != nil {
			return writeError(ctx, err)
		}

		var requestBody types.DragRequest
		if err := ctx.BodyParser(&requestBody); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Error:   err.Error(),
				Message: "invalid body",
			})
		}

		if err := e.session.SetDragging(requestBody.Active); err != nil {
			return writeError(ctx, err)
		}
		return ctx.Status(fiber.StatusOK).JSON(sessionResponse(e.session.Snapshot()))
	}
}

func (a *Api) Generate() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		e, err := a.sessions.Get(ctx.Params("id"))
		if err != nil {
			return writeError(ctx, err)
		}

		if err := e.session.Start(a.ctx); err != nil {
			HttpLogger("generate", ctx).Warn("generation not started", "err", err)
			return writeError(ctx, err)
		}

		snap := e.session.Snapshot()
		return ctx.Status(fiber.StatusAccepted).JSON(types.GenerateResponse{
			SessionID: snap.ID,
			Phase:     snap.Phase.String(),
		})
	}
}

func (a *Api) Reset() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		e, err := a.sessions.Get(ctx.Params("id"))
		if err != nil {
			return writeError(ctx, err)
		}
		if err := e.session.Reset(); err != nil {
			return writeError(ctx, err)
		}
		return ctx.Status(fiber.StatusOK).JSON(sessionResponse(e.session.Snapshot()))
	}
}

func (a *Api) Download() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		e, err := a.sessions.Get(ctx.Params("id"))
		if err != nil {
			return writeError(ctx, err)
		}

		name, data, err := e.session.Download()
		if err != nil {
			return writeError(ctx, err)
		}

		ctx.Set(fiber.HeaderContentType, "image/png")
		ctx.Set(fiber.HeaderContentDisposition, utils.Attachment(name))
		return ctx.Status(fiber.StatusOK).Send(data)
	}
}

func (a *Api) Preview() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		mediaType, data, ok := a.previews.Get(ctx.Params("handle"))
		if !ok {
			return ctx.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
				Error:   "preview not found",
				Message: "preview released or unknown",
			})
		}

		ctx.Set(fiber.HeaderContentType, mediaType)
		ctx.Set(fiber.HeaderCacheControl, "no-store")
		return ctx.Status(fiber.StatusOK).Send(data)
	}
}
