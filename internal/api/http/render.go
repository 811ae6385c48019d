package http

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

const errorPageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Compilation failed</title>
<style>
body{margin:0;padding:24px;background:#1e1e1e;color:#f48771;font-family:ui-monospace,Menlo,Consolas,monospace}
h1{font-size:16px;margin:0 0 12px}
pre{white-space:pre-wrap;word-break:break-word;color:#d4d4d4}
.loc{color:#9cdcfe}
</style>
</head>
<body>
<h1>Compilation failed</h1>
%s<pre>%s</pre>
</body>
</html>`

// errorPage renders a compile error as a standalone document. Every piece of
// user-controlled text passes through the strict sanitizer.
func (h *Handlers) errorPage(e types.CompileError) string {
	var loc string
	if e.File != "" {
		where := e.File
		if e.Line > 0 {
			where = fmt.Sprintf("%s:%d", where, e.Line)
			if e.Column > 0 {
				where = fmt.Sprintf("%s:%d", where, e.Column)
			}
		}
		loc = `<div class="loc">` + h.sanitizer.Sanitize(where) + "</div>\n"
	}
	message := strings.TrimSpace(e.Message)
	if message == "" {
		message = "unknown error"
	}
	return fmt.Sprintf(errorPageTemplate, loc, h.sanitizer.Sanitize(message))
}
