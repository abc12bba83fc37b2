package tui

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// pageSize is the default number of items fetched per API call.
const pageSize = 50

// maxInputLen is the maximum number of runes allowed in inline inputs.
const maxInputLen = 2000

// editRune applies a keystroke to an inline text input. Backspace removes
// the last rune; typed or pasted runes are appended, clamped to maxInputLen
// runes. Other keys leave the text unchanged.
func editRune(text string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case tea.KeySpace:
		return appendClamped(text, " ")
	case tea.KeyRunes:
		if msg.Alt {
			return text
		}
		return appendClamped(text, string(msg.Runes))
	}
	return text
}

// appendClamped appends s to text, keeping at most maxInputLen runes.
func appendClamped(text, s string) string {
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	if utf8.RuneCountInString(s) > room {
		s = string([]rune(s)[:room])
	}
	return text + s
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders a one-line inline input with a prompt label, a block
// cursor and a placeholder when empty.
func renderInput(label, input, placeholder string) string {
	prompt := " " + inputPromptStyle.Render(label+" > ")
	if input == "" {
		return prompt + accentStyle.Render("█") + inputPlaceholderStyle.Render(" "+placeholder)
	}
	return prompt + inputTextStyle.Render(input) + accentStyle.Render("█")
}
