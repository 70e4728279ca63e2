// Package markdown loads post files from disk, extracts their front matter,
// and renders Markdown bodies into HTML.
package markdown
