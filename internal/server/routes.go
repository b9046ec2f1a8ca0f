package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/portfolio"
	"github.com/Zachkp/portfolio/internal/session"
	"github.com/Zachkp/portfolio/internal/web"
)

const (
	viewKey       = "view"
	submitNotice  = "Thanks! Your message has been logged."
	sessionMaxAge = 0 // browser session
)

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "views": s.sessions.Len()})
	})

	// Each page load starts over from the initial state.
	r.GET("/", func(c *gin.Context) {
		cookie, _ := c.Cookie(session.CookieName)
		id, view := s.sessions.Start(cookie)
		c.SetCookie(session.CookieName, id, sessionMaxAge, "/", "", false, true)
		c.HTML(http.StatusOK, "index.html", web.NewPage(view.Snapshot(), true))
	})

	fragments := r.Group("/")
	fragments.Use(s.viewMiddleware())

	fragments.POST("/nav/menu", func(c *gin.Context) {
		view := currentView(c)
		view.ToggleMenu()
		c.HTML(http.StatusOK, "header", web.NewPage(view.Snapshot(), true))
	})

	fragments.POST("/nav/:section", func(c *gin.Context) {
		section, err := portfolio.ParseSection(c.Param("section"))
		if err != nil {
			c.String(http.StatusNotFound, err.Error())
			return
		}
		view := currentView(c)
		effect := view.Select(section)
		setScrollTrigger(c, effect)
		c.HTML(http.StatusOK, "header", web.NewPage(view.Snapshot(), true))
	})

	fragments.POST("/contact/field/:field", func(c *gin.Context) {
		field, err := portfolio.ParseField(c.Param("field"))
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		currentView(c).Input(field, c.PostForm(string(field)))
		c.Status(http.StatusNoContent)
	})

	// Submitting only logs the form. Plain form posts get the whole page back
	// instead of a redirect so the visitor stays where they are.
	fragments.POST("/contact", func(c *gin.Context) {
		view := currentView(c)
		for _, field := range []portfolio.Field{portfolio.FieldName, portfolio.FieldEmail, portfolio.FieldMessage} {
			if value, ok := c.GetPostForm(string(field)); ok {
				view.Input(field, value)
			}
		}
		view.Submit(c.Request.Context())

		page := web.NewPage(view.Snapshot(), true)
		page.Notice = submitNotice
		if c.GetHeader("HX-Request") == "true" {
			c.HTML(http.StatusOK, "contact", page)
			return
		}
		c.HTML(http.StatusOK, "index.html", page)
	})

	fragments.GET("/ws/viewport", s.handleViewport)
}

// viewMiddleware loads the visitor's view. When it has expired, htmx
// requests are told to reload the page and everything else gets a 401.
func (s *Server) viewMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(session.CookieName)
		var view *portfolio.View
		ok := false
		if err == nil {
			view, ok = s.sessions.Get(id)
		}
		if !ok {
			if c.GetHeader("HX-Request") == "true" {
				c.Header("HX-Refresh", "true")
				c.AbortWithStatus(http.StatusOK)
				return
			}
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(viewKey, view)
		c.Next()
	}
}

func currentView(c *gin.Context) *portfolio.View {
	return c.MustGet(viewKey).(*portfolio.View)
}

// setScrollTrigger asks the page to smooth-scroll to the selected anchor.
func setScrollTrigger(c *gin.Context, effect portfolio.ScrollEffect) {
	payload, err := json.Marshal(map[string]string{"scrollToSection": effect.Anchor.ID})
	if err != nil {
		log.Printf("server: encoding scroll trigger: %v", err)
		return
	}
	c.Header("HX-Trigger", string(payload))
}
