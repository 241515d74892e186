package webapp

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const indexFile = "index.html"

// Controller раздаёт собранное мини-приложение; неизвестные пути отдают index.html (клиентский роутинг)
type Controller struct {
	dir string
}

func New(dir string) *Controller {
	return &Controller{dir: dir}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.NoRoute(c.serve)
}

func (c *Controller) serve(ctx *gin.Context) {
	if ctx.Request.Method != http.MethodGet && ctx.Request.Method != http.MethodHead {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	name := filepath.Join(c.dir, filepath.FromSlash(path.Clean("/"+ctx.Request.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		ctx.File(name)
		return
	}

	ctx.File(filepath.Join(c.dir, indexFile))
}
