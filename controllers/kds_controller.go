package controllers

import (
	"fmt"
	"io"
	"time"

	"restopos/services"

	"github.com/gin-gonic/gin"
)

type KDSController struct {
	Feed      *services.KitchenFeed
	KeepAlive time.Duration
}

func NewKDSController(feed *services.KitchenFeed, keepAlive time.Duration) *KDSController {
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}
	return &KDSController{Feed: feed, KeepAlive: keepAlive}
}

// GET /api/kds/events (text/event-stream)
func (kc *KDSController) Events(c *gin.Context) {
	events, unsubscribe := kc.Feed.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	keepAlive := time.NewTicker(kc.KeepAlive)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			if ev.Err != nil {
				c.SSEvent("error", gin.H{"message": "kitchen feed unavailable, reconnect later"})
				return false
			}
			c.SSEvent("orders", gin.H{"orders": ev.Orders, "at": ev.At})
			return true
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			return true
		}
	})
}
