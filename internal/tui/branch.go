package tui

import (
	"fmt"
	"strings"

	"github.com/shortbar/shortbar/internal/shortcut"
)

const branchSlugMax = 50

// branchName derives a git branch name for a story, like
// "jane/sc-123/fix-login-flow".
func branchName(mention string, story shortcut.Story) string {
	if mention == "" {
		mention = "user"
	}
	return fmt.Sprintf("%s/sc-%d/%s", mention, story.ID, branchSlug(story.Name))
}

// checkoutCommand derives the matching `git checkout -b` invocation.
func checkoutCommand(mention string, story shortcut.Story) string {
	return "git checkout -b " + branchName(mention, story)
}

// branchSlug lowercases the story name, turns spaces into dashes, drops
// everything outside [a-z0-9-], and truncates to branchSlugMax bytes.
func branchSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	slug := b.String()
	if len(slug) > branchSlugMax {
		slug = slug[:branchSlugMax]
	}
	return slug
}
