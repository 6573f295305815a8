package bridge

import (
	"errors"
	"net/http"

	"github.com/camtang26/cre8tiveCA/handler"
	"github.com/camtang26/cre8tiveCA/pkg/logger"
	"github.com/camtang26/cre8tiveCA/pkg/timeinfo"
)

type timeRequest struct {
	Timezone string `json:"timezone" query:"timezone"`
}

func (s *Service) currentTime(ctx handler.Context, req timeRequest) handler.Response {
	snap, err := timeinfo.Lookup(s.now(), req.Timezone)
	if err != nil {
		if errors.Is(err, timeinfo.ErrUnknownTimezone) {
			return handler.Fail(http.StatusBadRequest, "Invalid timezone", err.Error())
		}
		s.log.ErrorContext(ctx, "time lookup failed", logger.Error(err))
		return handler.Fail(http.StatusInternalServerError, "Failed to get current time", nil)
	}
	return handler.JSON(snap, handler.WithHeader("Cache-Control", "no-cache, no-store, must-revalidate"))
}
