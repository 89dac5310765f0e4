package tui

import (
	"strings"

	"arbor-cli/internal/docs"
)

var helpTopic = "keys"

func helpBody(topic string) string {
	if body, ok := docs.Get(topic); ok {
		return body
	}
	return "# Help\n\nNo help available for `" + topic + "`. Press ? to close.\n"
}

func (m appModel) helpView() string {
	out := renderMarkdown(helpBody(helpTopic), min(m.width, 100)-2)
	lines := strings.Split(out, "\n")
	if h := m.height - 1; h > 0 && len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}
