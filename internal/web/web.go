package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var content embed.FS

// Register serves the dashboard at / and its assets under /static.
func Register(r gin.IRoutes) {
	assets, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}

	r.StaticFS("/static", http.FS(assets))
	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", http.FS(assets))
	})
}
