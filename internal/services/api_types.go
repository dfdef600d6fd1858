package services

import (
	"errors"

	"miimaker/internal/maker"
	"miimaker/types"

	"github.com/gofiber/fiber/v2"
)

const previewRoute = "/api/previews/"

func sessionResponse(s maker.Snapshot) types.SessionResponse {
	resp := types.SessionResponse{
		SessionID: s.ID,
		Phase:     s.Phase.String(),
		Dragging:  s.Dragging,
		Progress:  s.Progress,
		MiiImage:  s.Result,
	}
	if s.Err != nil {
		resp.Error = s.Err.Message
		resp.ErrorKind = s.Err.Kind.String()
	}
	if s.Image != nil {
		resp.FileName = s.Image.Name
		resp.MediaType = s.Image.MediaType
		resp.Size = s.Image.Size
		resp.PreviewURL = previewRoute + s.Image.Preview
	}
	return resp
}

func stateEvent(s maker.Snapshot) WSEvent {
	resp := sessionResponse(s)
	typ := EventState
	if s.Phase == maker.PhaseLoading {
		typ = EventProgress
	}
	return WSEvent{Type: typ, State: &resp}
}

// errorResponse maps session errors onto HTTP statuses.
func errorResponse(err error) (int, types.ErrorResponse) {
	var mErr *maker.Error
	switch {
	case errors.As(err, &mErr):
		return fiber.StatusBadRequest, types.ErrorResponse{Error: mErr.Kind.String(), Message: mErr.Message}
	case errors.Is(err, ErrSessionNotFound):
		return fiber.StatusNotFound, types.ErrorResponse{Error: err.Error(), Message: "unknown session"}
	case errors.Is(err, maker.ErrBusy):
		return fiber.StatusConflict, types.ErrorResponse{Error: err.Error(), Message: "wait for the current generation to finish"}
	case errors.Is(err, maker.ErrClosed):
		return fiber.StatusGone, types.ErrorResponse{Error: err.Error(), Message: "session closed"}
	case errors.Is(err, maker.ErrNoResult):
		return fiber.StatusNotFound, types.ErrorResponse{Error: err.Error(), Message: "nothing to download yet"}
	case errors.Is(err, ErrRegistryShuttingDown):
		return fiber.StatusServiceUnavailable, types.ErrorResponse{Error: err.Error(), Message: "service unavailable"}
	default:
		return fiber.StatusInternalServerError, types.ErrorResponse{Error: err.Error(), Message: "internal error"}
	}
}

func writeError(ctx *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	return ctx.Status(status).JSON(body)
}
