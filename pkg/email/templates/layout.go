package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const layoutHead = `<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
.content { margin: 20px 0; }
.footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; color: #777; }
</style>
</head>
<body>
<div class="container">
<div class="content">
`

// Layout wraps content in the branded email shell. content is trusted HTML
// produced by the caller and is written unescaped, with line breaks turned
// into <br>. footer is plain text and is escaped; an empty footer omits the
// footer block.
func Layout(content, footer string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, layoutHead); err != nil {
			return err
		}
		if err := templ.Raw(withLineBreaks(content)).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n</div>\n"); err != nil {
			return err
		}
		if footer != "" {
			if _, err := io.WriteString(w, `<div class="footer"><p>`+templ.EscapeString(footer)+"</p></div>\n"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>\n</body>\n</html>\n")
		return err
	})
}

var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\n", "<br>")

func withLineBreaks(s string) string {
	return lineBreaks.Replace(s)
}
