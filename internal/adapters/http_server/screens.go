package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AlexSkos/drinkmap/internal/i18n"
	"github.com/AlexSkos/drinkmap/internal/surface"
)

const contactEmail = "vinchensocarbone@gmail.com"

const screenShell = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
  body{margin:0;font-family:system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif;background:#eef4f8;color:#0f2433}
  .wrap{max-width:700px;margin:0 auto;padding:24px 16px 48px}
  h1{font-size:22px;margin:8px 0 20px}
  .nav{display:grid;gap:12px}
  .nav a{display:block;background:#6c97b0;color:#fff;text-decoration:none;font-weight:700;
    padding:16px;border-radius:14px;text-align:center;box-shadow:0 2px 6px rgba(0,0,0,.12)}
  .body{background:#fff;border-radius:14px;padding:18px;line-height:1.55;white-space:pre-wrap;box-shadow:0 2px 6px rgba(0,0,0,.08)}
  .back{display:inline-block;margin-top:20px;color:#33607c;font-weight:700;text-decoration:none}
</style>
</head>
<body><div class="wrap">
<h1>%s</h1>
%s
</div></body>
</html>`

func renderScreen(w http.ResponseWriter, lang i18n.Lang, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := fmt.Sprintf(screenShell, lang, surface.EscapeHTML(title), surface.EscapeHTML(title), body)
	if _, err := w.Write([]byte(page)); err != nil {
		log.Error().Err(err).Msg("failed to write screen")
	}
}

func backLink(lang i18n.Lang) string {
	return fmt.Sprintf(`<a class="back" href="/menu?lang=%s">← %s</a>`, lang, surface.EscapeHTML(i18n.T(lang, "back_to_menu")))
}

func (h *Handlers) menu(w http.ResponseWriter, r *http.Request) {
	lang := pickLang(r)
	var b strings.Builder
	b.WriteString(`<div class="nav">`)
	for _, it := range []struct{ href, key string }{
		{"/map", "map"},
		{"/history", "history_title"},
		{"/contact", "contact"},
		{"/support", "support"},
	} {
		fmt.Fprintf(&b, `<a href="%s?lang=%s">%s</a>`, it.href, lang, surface.EscapeHTML(i18n.T(lang, it.key)))
	}
	fmt.Fprintf(&b, `<a href="mailto:%s">%s</a>`, contactEmail, surface.EscapeHTML(i18n.T(lang, "report")))
	b.WriteString(`</div>`)
	renderScreen(w, lang, i18n.T(lang, "guide"), b.String())
}

func (h *Handlers) history(w http.ResponseWriter, r *http.Request) {
	lang := pickLang(r)
	body := `<div class="body">` + surface.EscapeHTML(i18n.T(lang, "history_text")) + `</div>` + backLink(lang)
	renderScreen(w, lang, i18n.T(lang, "history_title"), body)
}

func (h *Handlers) contact(w http.ResponseWriter, r *http.Request) {
	lang := pickLang(r)
	body := fmt.Sprintf(`<div class="body"><a href="mailto:%s">%s</a></div>`, contactEmail, contactEmail) + backLink(lang)
	renderScreen(w, lang, i18n.T(lang, "contact"), body)
}

func (h *Handlers) support(w http.ResponseWriter, r *http.Request) {
	lang := pickLang(r)
	var b strings.Builder
	b.WriteString(`<div class="nav">`)
	for _, amount := range []int{1, 3, 5} {
		fmt.Fprintf(&b, `<a href="mailto:%s?subject=Support%%20%d%%E2%%82%%AC">%d €</a>`, contactEmail, amount, amount)
	}
	b.WriteString(`</div>`)
	b.WriteString(backLink(lang))
	renderScreen(w, lang, i18n.T(lang, "support"), b.String())
}
