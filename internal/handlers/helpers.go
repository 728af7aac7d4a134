package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adiprasetyo/tokoku/internal/mykafka"
)

type Response struct {
	Msg string `json:"msg"`
}

func errorResponse(c echo.Context, code int, msg string) error {
	return c.JSON(code, Response{Msg: msg})
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func publish(c echo.Context, p *mykafka.Producer, topic string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(event["type"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func internalError(c echo.Context, err error) error {
	c.Logger().Errorf("internal error: %v", err)
	return errorResponse(c, http.StatusInternalServerError, "internal server error")
}
