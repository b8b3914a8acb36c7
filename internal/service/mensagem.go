package service

import "strings"

// RenderMensagem fills a cobrança template by straight substitution of the
// known placeholders in valores. Unknown {{placeholders}} are left as literal
// text — never an error — so clinics can keep free-form braces in their
// templates.
func RenderMensagem(template string, valores map[string]string) string {
	out := template
	for chave, valor := range valores {
		out = strings.ReplaceAll(out, "{{"+chave+"}}", valor)
	}
	return out
}
