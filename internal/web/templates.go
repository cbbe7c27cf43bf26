package web

import (
	"embed"
	"html/template"
)

// MercadoPagoSDK адрес JS SDK для виджета оплаты
const MercadoPagoSDK = "https://sdk.mercadopago.com/js/v2"

//go:embed templates/*.html
var templatesFS embed.FS

// ParseTemplates разбирает встроенные шаблоны страниц
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}
