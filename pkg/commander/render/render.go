// Package render builds the task-pane result fragments.
// Untrusted text (user input and service error messages) is HTML-escaped;
// success and default fragments carry service-controlled markup verbatim.
package render

import (
	"fmt"
	"html"
	"strings"
)

// Kind selects one of the fixed output fragment shapes.
type Kind string

const (
	KindFormula     Kind = "formula"
	KindExplanation Kind = "explanation"
	KindSuccess     Kind = "success"
	KindError       Kind = "error"
	KindDefault     Kind = "default"
)

// defaultFragment is the static hint shown before any action runs.
const defaultFragment = `<div class="result-default"><p>Bir komut yazın veya yukarıdaki butonlardan birini seçin.</p></div>`

// helpFragment is the static instructional panel.
const helpFragment = `<div class="result-default"><h3>📖 Nasıl Kullanılır?</h3><ul>` +
	`<li><b>Formül Oluştur:</b> Yapmak istediğinizi yazın, formül aktif hücreye yazılır.</li>` +
	`<li><b>Formül Açıkla:</b> Formül içeren bir hücre seçin, açıklamasını görün.</li>` +
	`<li><b>Veri Temizle:</b> Bir aralık seçin, boşluklar ve büyük/küçük harf düzeltilir.</li>` +
	`<li><b>Sunum Oluştur:</b> Başlık satırı dahil veri seçin, PowerPoint hazırlanır.</li>` +
	`</ul></div>`

// Render returns the fragment for kind. primary and secondary are escaped for
// the formula, explanation and error kinds; the success and default kinds
// insert their content verbatim.
func Render(kind Kind, primary, secondary string) string {
	switch kind {
	case KindFormula:
		return fmt.Sprintf(
			`<div class="result-formula"><code>%s</code><p>%s</p></div>`,
			html.EscapeString(primary), html.EscapeString(secondary))
	case KindExplanation:
		return fmt.Sprintf(
			`<div class="result-explanation"><h3>💡 Formül Açıklaması</h3><p>%s</p></div>`,
			html.EscapeString(primary))
	case KindSuccess:
		return fmt.Sprintf(
			`<div class="result-success"><h3>✅ %s</h3>%s</div>`,
			primary, secondary)
	case KindError:
		return fmt.Sprintf(
			`<div class="result-error">⚠️ %s</div>`,
			html.EscapeString(primary))
	case KindDefault:
		return defaultFragment
	}
	return defaultFragment
}

// Help returns the static instructional fragment.
func Help() string {
	return helpFragment
}

// SlideBody builds the trusted body of a presentation success fragment:
// a download link plus an optional list of insights. The URL and each
// insight string are escaped individually.
func SlideBody(downloadURL string, insights []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<a href="%s" target="_blank" class="download-link">📥 Sunumu İndir</a>`,
		html.EscapeString(downloadURL))
	if len(insights) > 0 {
		b.WriteString("<ul>")
		for _, insight := range insights {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(insight))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}

// Panel holds the single visible output fragment. Set replaces the prior
// fragment wholesale; exactly one fragment is shown at a time.
type Panel struct {
	fragment string
}

// NewPanel returns a panel showing the default fragment.
func NewPanel() *Panel {
	return &Panel{fragment: defaultFragment}
}

// Set replaces the panel content.
func (p *Panel) Set(fragment string) {
	p.fragment = fragment
}

// HTML returns the current fragment.
func (p *Panel) HTML() string {
	return p.fragment
}
