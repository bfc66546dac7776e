package binding

import (
	"github.com/gin-gonic/gin"
)

// BindGin decodes the request body of c into v. On failure the error is
// written, attached to the context and the chain is aborted.
func (b *Binder) BindGin(c *gin.Context, v any) error {
	if _, err := b.Decode(c.Request, v); err != nil {
		b.AbortGin(c, err)
		return err
	}
	return nil
}

// RenderGin writes v in the representation negotiated for c.
func (b *Binder) RenderGin(c *gin.Context, status int, v any) {
	err := b.Encode(c.Writer, c.Request, status, v)
	if err == nil {
		return
	}
	if c.Writer.Written() {
		_ = c.Error(err)
		return
	}
	b.AbortGin(c, err)
}

// AbortGin writes err with the status it maps to and aborts the chain.
func (b *Binder) AbortGin(c *gin.Context, err error) {
	_ = c.Error(err)
	b.WriteError(c.Writer, err)
	c.Abort()
}
