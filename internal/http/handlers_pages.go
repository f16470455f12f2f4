package http

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/quantumauth-io/caviar-manager/internal/httpui"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// Index needs an unlocked identity; everyone else is sent to the login page.
func (s *Server) Index(c *gin.Context) {
	if !s.session.IsIdentityUnlocked() {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	s.servePage(c, httpui.IndexPage)
}

func (s *Server) Login(c *gin.Context) {
	if s.session.IsIdentityUnlocked() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	s.servePage(c, httpui.LoginPage)
}

func (s *Server) Favicon(c *gin.Context) {
	s.servePage(c, httpui.Favicon)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) servePage(c *gin.Context, name string) {
	b, err := s.pages.Page(name)
	if err != nil {
		log.Error("read page", "page", name, "error", err)
		respond(c, http.StatusInternalServerError, "page unavailable")
		return
	}

	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	httpui.SetCacheHeaders(c.Writer, name)
	c.Data(http.StatusOK, ct, b)
}
