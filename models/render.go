package models

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var htmlPolicy = bluemonday.UGCPolicy()

// RenderHTML turns stored text into markup that is safe to embed in a page.
// Text is kept verbatim in the store; only this rendition is sanitised.
func RenderHTML(text string) string {
	return strings.ReplaceAll(htmlPolicy.Sanitize(text), "\n", "<br>")
}

// AfterFind fills the rendered form of the post text.
func (p *Post) AfterFind(tx *gorm.DB) error {
	p.HTML = RenderHTML(p.Text)
	return nil
}

// AfterFind fills the rendered form of the comment text.
func (c *Comment) AfterFind(tx *gorm.DB) error {
	c.HTML = RenderHTML(c.Text)
	return nil
}
