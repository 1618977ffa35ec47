package utils

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderAndPrintMarkdown renders a markdown report to the terminal with
// syntax highlighting, used by `prolific run --preview`. Rendering failures
// degrade to plain output instead of failing the cycle.
func RenderAndPrintMarkdown(content string, theme string) {
	for _, line := range strings.Split(content, "\n") {
		if err := quick.Highlight(os.Stdout, line+"\n", "markdown", "terminal256", theme); err != nil {
			os.Stdout.WriteString(line + "\n")
		}
	}
}
