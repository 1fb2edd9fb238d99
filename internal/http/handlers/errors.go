package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/http/response"
	"github.com/yungbote/travelplanner-backend/internal/platform/apierr"
	"github.com/yungbote/travelplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/travelplanner-backend/internal/services"
	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

var (
	errForbiddenActor = errors.New("token subject does not match the requested user")
	errNotOwner       = errors.New("itinerary belongs to another user")
)

// toAPIError maps service errors onto HTTP statuses.
func toAPIError(err error) *apierr.Error {
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apierr.NotFound("not_found", err)
	case errors.Is(err, store.ErrInvalidArgument), errors.Is(err, toggle.ErrEmptyKey):
		return apierr.BadRequest("invalid_argument", err)
	case errors.Is(err, store.ErrConflict):
		return apierr.New(http.StatusConflict, "conflict", err)
	case errors.Is(err, services.ErrSelfEdge):
		return apierr.New(http.StatusUnprocessableEntity, "self_edge", err)
	case errors.Is(err, errForbiddenActor), errors.Is(err, errNotOwner):
		return apierr.New(http.StatusForbidden, "forbidden", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}

func respondErr(c *gin.Context, err error) {
	ae := toAPIError(err)
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.RespondError(c, ae.Status, ae.Code, ae.Err)
}

func badRequest(c *gin.Context, err error) {
	response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
}

// actingUser resolves who performs a mutation. With auth enabled the token
// subject is the actor and must match any id named by the request.
func actingUser(c *gin.Context, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		if requested == "" {
			return "", apierr.BadRequest("invalid_argument", errors.New("user_id required"))
		}
		return requested, nil
	}
	if requested != "" && requested != rd.UserID {
		return "", errForbiddenActor
	}
	return rd.UserID, nil
}

// splitList accepts repeated query params and comma separated values.
func splitList(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
