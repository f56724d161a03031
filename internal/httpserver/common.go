package httpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"log/slog"

	"storefront/internal/mykafka"
	"storefront/internal/service"
)

// getUserID reads the authenticated user id set by the auth middleware.
func getUserID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}

	return userID, nil
}

func parseID(c echo.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, fmt.Errorf("Invalid id: %w", service.ErrValidation)
	}
	return id, nil
}

// publish sends a domain event without blocking the request on the broker.
func publish(ctx context.Context, l *slog.Logger, p *mykafka.Producer, topic, key string, event any) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(pubCtx, topic, key, event); err != nil {
		l.Warn("publish_event_error", "topic", topic, "error", err)
	}
}
