package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/audit"
)

// maxAuditedBody caps how much of a request body goes into the journal.
// Larger bodies are journaled without payload and flagged truncated.
const maxAuditedBody = 1 << 20

// AuditMiddleware journals every successful write handled after it. The
// request body is buffered and handed back to the handler unchanged.
func AuditMiddleware(auditor *audit.Auditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auditor == nil {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			// one byte past the cap tells a full body from a cut one
			body, err = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditedBody+1))
			if err != nil {
				log.Printf("Audit: failed to read request body: %v", err)
			}
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))
		}
		entry := journalEntry(body)

		c.Next()

		status := c.Writer.Status()
		if status >= 400 {
			return
		}
		entry.Method = c.Request.Method
		entry.Path = c.Request.URL.Path
		entry.Status = status
		auditor.RecordAsync(entry)
	}
}

func journalEntry(body []byte) audit.Entry {
	if len(body) > maxAuditedBody {
		return audit.Entry{Truncated: true, BodySize: int64(len(body))}
	}
	return audit.Entry{Payload: json.RawMessage(body)}
}
