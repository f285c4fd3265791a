package httpresp

import "github.com/gin-gonic/gin"

// Every success body carries result_code mirroring the HTTP status; the
// web and CLI clients key off it.

func OK(c *gin.Context, payload gin.H) {
	write(c, 200, payload)
}

func Created(c *gin.Context, payload gin.H) {
	write(c, 201, payload)
}

func write(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"result_code": status}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
